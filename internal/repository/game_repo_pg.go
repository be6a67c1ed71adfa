package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickupsports/gamehub/internal/model"
)

type pgGameRepository struct {
	db *gorm.DB
}

func NewPGGameRepository(db *gorm.DB) GameRepository {
	return &pgGameRepository{db: db}
}

func (r *pgGameRepository) Create(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *pgGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Game, error) {
	var game model.Game
	if err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *pgGameRepository) UpdateCapacity(ctx context.Context, id uuid.UUID, capacity *int) error {
	return r.db.WithContext(ctx).
		Model(&model.Game{}).
		Where("id = ?", id).
		Update("capacity", capacity).
		Error
}

// Delete soft-deletes the game and cascades its participant and waitlist rows.
func (r *pgGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Game{}, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&model.GameParticipant{}).Error; err != nil {
			return err
		}
		return tx.Where("game_id = ?", id).Delete(&model.WaitlistEntry{}).Error
	})
}
