package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app notice (e.g. "you were promoted"). Written
// best-effort by the notification dispatcher, read by the inbox endpoints.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	GameID    *uuid.UUID `gorm:"type:uuid" json:"game_id,omitempty"`
	Kind      string     `gorm:"type:varchar(32);not null" json:"kind"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Read      bool       `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
