package model

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry is a queued join request. Queue order is (joined_at, seq):
// joined_at is the FIFO key, seq breaks ties when timestamps collide at
// clock granularity.
type WaitlistEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GameID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_waitlist_game_user" json:"game_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_waitlist_game_user" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
	Seq      int64     `gorm:"not null;autoIncrement" json:"-"`
}

func (WaitlistEntry) TableName() string { return "game_waitlist" }
