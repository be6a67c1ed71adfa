package model

import (
	"time"

	"github.com/google/uuid"
)

// GameParticipant is a confirmed membership. The (game_id, user_id) pair is
// unique; the row's existence is the participant state.
type GameParticipant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GameID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participants_game_user" json:"game_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participants_game_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (GameParticipant) TableName() string { return "game_participants" }
