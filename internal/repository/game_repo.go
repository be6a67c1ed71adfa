package repository

import (
	"context"

	"github.com/google/uuid"

	"pickupsports/gamehub/internal/model"
)

type GameRepository interface {
	Create(ctx context.Context, game *model.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Game, error)
	UpdateCapacity(ctx context.Context, id uuid.UUID, capacity *int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
