package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickupsports/gamehub/internal/model"
)

type pgNotificationRepository struct {
	db *gorm.DB
}

func NewPGNotificationRepository(db *gorm.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *pgNotificationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	var notices []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notices).Error
	return notices, err
}

func (r *pgNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read", true).
		Error
}
