package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pickupsports/gamehub/internal/model"
)

type pgParticipantRepository struct {
	db *gorm.DB
}

func NewPGParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &pgParticipantRepository{db: db}
}

func (r *pgParticipantRepository) Count(ctx context.Context, gameID uuid.UUID) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.GameParticipant{}).
		Where("game_id = ?", gameID).
		Count(&n).Error
	return int(n), err
}

func (r *pgParticipantRepository) Exists(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.GameParticipant{}).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Count(&n).Error
	return n > 0, err
}

// AddIfBelow serializes capacity checks per game by locking the game row,
// so two requests racing for the last slot admit exactly one.
func (r *pgParticipantRepository) AddIfBelow(ctx context.Context, gameID, userID uuid.UUID, capacity int) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game model.Game
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&game, "id = ?", gameID).Error; err != nil {
			return err
		}

		if capacity > 0 {
			var n int64
			if err := tx.Model(&model.GameParticipant{}).
				Where("game_id = ?", gameID).
				Count(&n).Error; err != nil {
				return err
			}
			if n >= int64(capacity) {
				return nil
			}
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.GameParticipant{GameID: gameID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		return nil
	})
	return added, err
}

func (r *pgParticipantRepository) Add(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.GameParticipant{GameID: gameID, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (r *pgParticipantRepository) Remove(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Delete(&model.GameParticipant{})
	return res.RowsAffected > 0, res.Error
}

func (r *pgParticipantRepository) ListUserIDs(ctx context.Context, gameID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.GameParticipant{}).
		Where("game_id = ?", gameID).
		Order("created_at").
		Pluck("user_id", &ids).Error
	return ids, err
}
