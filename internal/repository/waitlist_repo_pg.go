package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pickupsports/gamehub/internal/model"
)

type pgWaitlistRepository struct {
	db *gorm.DB
}

func NewPGWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &pgWaitlistRepository{db: db}
}

func (r *pgWaitlistRepository) Add(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WaitlistEntry{GameID: gameID, UserID: userID, JoinedAt: time.Now()})
	return res.RowsAffected > 0, res.Error
}

func (r *pgWaitlistRepository) Remove(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Delete(&model.WaitlistEntry{})
	return res.RowsAffected > 0, res.Error
}

func (r *pgWaitlistRepository) Count(ctx context.Context, gameID uuid.UUID) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.WaitlistEntry{}).
		Where("game_id = ?", gameID).
		Count(&n).Error
	return int(n), err
}

func (r *pgWaitlistRepository) Position(ctx context.Context, gameID, userID uuid.UUID) (int, error) {
	var pos int
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(rank), 0) FROM (
			SELECT user_id, ROW_NUMBER() OVER (ORDER BY joined_at, seq) AS rank
			  FROM game_waitlist
			 WHERE game_id = ?
		) ranked
		WHERE user_id = ?`,
		gameID, userID,
	).Scan(&pos).Error
	return pos, err
}

// PromoteEarliest claims the n earliest entries and moves them in one
// transaction. Callers own the slot arithmetic; see PromoteFreed for the
// capacity-checked variant.
func (r *pgWaitlistRepository) PromoteEarliest(ctx context.Context, gameID uuid.UUID, n int) ([]uuid.UUID, error) {
	if n <= 0 {
		return nil, nil
	}

	var promoted []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := claimEarliest(tx, gameID, n)
		if err != nil {
			return err
		}
		promoted = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// PromoteFreed locks the game row, recounts participants, and claims one
// entry per open slot, all in one transaction. AddIfBelow takes the same
// row lock, so a direct join can never interleave between the count and
// the claim.
func (r *pgWaitlistRepository) PromoteFreed(ctx context.Context, gameID uuid.UUID, capacity int) ([]uuid.UUID, error) {
	if capacity <= 0 {
		return nil, nil
	}

	var promoted []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game model.Game
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&game, "id = ?", gameID).Error; err != nil {
			return err
		}

		var occupied int64
		if err := tx.Model(&model.GameParticipant{}).
			Where("game_id = ?", gameID).
			Count(&occupied).Error; err != nil {
			return err
		}
		slots := capacity - int(occupied)
		if slots <= 0 {
			return nil
		}

		ids, err := claimEarliest(tx, gameID, slots)
		if err != nil {
			return err
		}
		promoted = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// claimEarliest deletes up to n earliest waitlist rows and inserts the
// matching participant rows inside the caller's transaction. FOR UPDATE
// SKIP LOCKED keeps concurrent claims for the same game disjoint: a row
// claimed by one transaction is invisible to the others.
func claimEarliest(tx *gorm.DB, gameID uuid.UUID, n int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.Raw(`
		WITH selected AS (
			SELECT id FROM game_waitlist
			 WHERE game_id = ?
			 ORDER BY joined_at, seq
			 LIMIT ?
			 FOR UPDATE SKIP LOCKED
		),
		removed AS (
			DELETE FROM game_waitlist w
			 USING selected s
			 WHERE w.id = s.id
			RETURNING w.user_id, w.joined_at, w.seq
		)
		SELECT user_id FROM removed ORDER BY joined_at, seq`,
		gameID, n,
	).Scan(&ids).Error; err != nil {
		return nil, err
	}

	for _, uid := range ids {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.GameParticipant{GameID: gameID, UserID: uid}).Error; err != nil {
			return nil, err
		}
	}
	return ids, nil
}
