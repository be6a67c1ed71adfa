package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Game is a scheduled pickup game. Capacity nil means unlimited; when set it
// is at least 1 and bounds the number of confirmed participants.
type Game struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Sport           string         `gorm:"type:varchar(64);not null" json:"sport"`
	Location        string         `gorm:"type:varchar(255);not null" json:"location"`
	StartsAt        time.Time      `gorm:"not null" json:"starts_at"`
	Capacity        *int           `json:"capacity,omitempty"`
	RSVPCutoff      *time.Time     `json:"rsvp_cutoff,omitempty"`
	WaitlistEnabled bool           `gorm:"not null;default:false" json:"waitlist_enabled"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Game) TableName() string { return "games" }

// Unlimited reports whether the game has no capacity bound.
func (g *Game) Unlimited() bool { return g.Capacity == nil }

// CutoffPassed reports whether RSVPs are closed at the given instant.
func (g *Game) CutoffPassed(now time.Time) bool {
	return g.RSVPCutoff != nil && now.After(*g.RSVPCutoff)
}
