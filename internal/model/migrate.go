package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Game{},
		&GameParticipant{},
		&WaitlistEntry{},
		&Notification{},
	); err != nil {
		return err
	}

	// Ordered-selection index: promotion claims scan (game_id, joined_at, seq).
	if err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_waitlist_game_order " +
			"ON game_waitlist (game_id, joined_at, seq)",
	).Error; err != nil {
		return err
	}

	// Capacity checks count by game; keep the lookup off the unique pair index.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_participants_game " +
			"ON game_participants (game_id)",
	).Error
}
