package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickupsports/gamehub/internal/model"
	"pickupsports/gamehub/internal/repository"
)

// GameDetails is a game plus the live occupancy numbers the clients render.
type GameDetails struct {
	Game           *model.Game `json:"game"`
	Participants   int         `json:"participants"`
	RemainingSlots *int        `json:"remaining_slots,omitempty"`
	Waitlisted     int         `json:"waitlisted"`
}

type CreateGameInput struct {
	Sport           string
	Location        string
	StartsAt        time.Time
	Capacity        *int
	RSVPCutoff      *time.Time
	WaitlistEnabled bool
}

type GameService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in CreateGameInput) (*model.Game, error)
	Get(ctx context.Context, gameID uuid.UUID) (*GameDetails, error)

	// ChangeCapacity updates the bound (nil = unlimited). A raise that frees
	// slots promotes waitlisted users into them; a reduction never evicts
	// confirmed participants.
	ChangeCapacity(ctx context.Context, gameID, callerID uuid.UUID, capacity *int) ([]uuid.UUID, error)

	Delete(ctx context.Context, gameID, callerID uuid.UUID) error
}

type gameService struct {
	games        repository.GameRepository
	participants repository.ParticipantRepository
	waitlist     repository.WaitlistRepository
	promotions   PromotionService
}

func NewGameService(
	games repository.GameRepository,
	participants repository.ParticipantRepository,
	waitlist repository.WaitlistRepository,
	promotions PromotionService,
) GameService {
	return &gameService{
		games:        games,
		participants: participants,
		waitlist:     waitlist,
		promotions:   promotions,
	}
}

func (s *gameService) Create(ctx context.Context, ownerID uuid.UUID, in CreateGameInput) (*model.Game, error) {
	if in.Capacity != nil && *in.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	game := &model.Game{
		OwnerID:         ownerID,
		Sport:           in.Sport,
		Location:        in.Location,
		StartsAt:        in.StartsAt,
		Capacity:        in.Capacity,
		RSVPCutoff:      in.RSVPCutoff,
		WaitlistEnabled: in.WaitlistEnabled,
	}
	if err := s.games.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return game, nil
}

func (s *gameService) Get(ctx context.Context, gameID uuid.UUID) (*GameDetails, error) {
	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	count, err := s.participants.Count(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	waiting, err := s.waitlist.Count(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("count waitlist: %w", err)
	}

	details := &GameDetails{Game: game, Participants: count, Waitlisted: waiting}
	if !game.Unlimited() {
		remaining := *game.Capacity - count
		if remaining < 0 {
			remaining = 0
		}
		details.RemainingSlots = &remaining
	}
	return details, nil
}

func (s *gameService) ChangeCapacity(ctx context.Context, gameID, callerID uuid.UUID, capacity *int) ([]uuid.UUID, error) {
	if capacity != nil && *capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.OwnerID != callerID {
		return nil, ErrNotOwner
	}

	if err := s.games.UpdateCapacity(ctx, gameID, capacity); err != nil {
		return nil, fmt.Errorf("update capacity: %w", err)
	}

	if !game.WaitlistEnabled {
		return nil, nil
	}

	if capacity == nil {
		// Unlimited: every waiting user fits, and there is no bound left
		// for a concurrent join to violate.
		waiting, err := s.waitlist.Count(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("count waitlist: %w", err)
		}
		return s.promotions.PromoteUpTo(ctx, gameID, waiting)
	}
	// The recount happens inside the claim, so joins racing the raise
	// cannot push the game past the new bound.
	return s.promotions.PromoteFreed(ctx, gameID, *capacity)
}

func (s *gameService) Delete(ctx context.Context, gameID, callerID uuid.UUID) error {
	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.OwnerID != callerID {
		return ErrNotOwner
	}
	if err := s.games.Delete(ctx, gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (s *gameService) getGame(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("load game: %w", err)
	}
	return game, nil
}

var _ GameService = (*gameService)(nil)
