package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"pickupsports/gamehub/internal/repository"
)

// PromotionService moves waitlisted users into freed slots.
type PromotionService interface {
	// PromoteUpTo atomically claims up to n earliest waitlist entries for the
	// game and makes them participants, returning the promoted user IDs in
	// queue order. n <= 0 is a no-op. Callers own the freed-slot arithmetic;
	// capacity is not re-validated here.
	PromoteUpTo(ctx context.Context, gameID uuid.UUID, n int) ([]uuid.UUID, error)

	// PromoteFreed fills every slot open under the capacity bound. The
	// occupancy recount happens inside the store's atomic claim, so a join
	// that took the freed slot first shrinks the promotion instead of
	// letting it overshoot capacity.
	PromoteFreed(ctx context.Context, gameID uuid.UUID, capacity int) ([]uuid.UUID, error)
}

type promotionService struct {
	games      repository.GameRepository
	waitlist   repository.WaitlistRepository
	dispatcher NotificationDispatcher
}

func NewPromotionService(
	games repository.GameRepository,
	waitlist repository.WaitlistRepository,
	dispatcher NotificationDispatcher,
) PromotionService {
	return &promotionService{
		games:      games,
		waitlist:   waitlist,
		dispatcher: dispatcher,
	}
}

func (s *promotionService) PromoteUpTo(ctx context.Context, gameID uuid.UUID, n int) ([]uuid.UUID, error) {
	if n <= 0 {
		return nil, nil
	}

	promoted, err := s.waitlist.PromoteEarliest(ctx, gameID, n)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("claim waitlist entries: %w", err)
	}

	s.notify(ctx, gameID, promoted)
	return promoted, nil
}

func (s *promotionService) PromoteFreed(ctx context.Context, gameID uuid.UUID, capacity int) ([]uuid.UUID, error) {
	if capacity <= 0 {
		return nil, nil
	}

	promoted, err := s.waitlist.PromoteFreed(ctx, gameID, capacity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("claim freed slots: %w", err)
	}

	s.notify(ctx, gameID, promoted)
	return promoted, nil
}

// notify emits one event per promoted user. The state change is already
// durable; everything here is best-effort and must not affect the caller's
// result.
func (s *promotionService) notify(ctx context.Context, gameID uuid.UUID, promoted []uuid.UUID) {
	if len(promoted) == 0 {
		return
	}

	sport, location := "", ""
	if game, err := s.games.GetByID(ctx, gameID); err == nil {
		sport, location = game.Sport, game.Location
	}
	events := lo.Map(promoted, func(userID uuid.UUID, _ int) PromotionEvent {
		return PromotionEvent{
			GameID:   gameID,
			UserID:   userID,
			Sport:    sport,
			Location: location,
		}
	})
	for _, ev := range events {
		s.dispatcher.DispatchPromotion(ctx, ev)
	}
}

var _ PromotionService = (*promotionService)(nil)
