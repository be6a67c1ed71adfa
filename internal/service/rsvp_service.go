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

// Decision reasons returned by Join.
const (
	ReasonOK                 = "ok"
	ReasonAlreadyParticipant = "already_participant"
	ReasonWaitlisted         = "waitlisted"
	ReasonWaitlistExists     = "waitlist_exists"
	ReasonFull               = "full"
	ReasonCutoff             = "cutoff"
)

// Decision is the outcome of a join request. Exactly one of the three
// user-visible states holds: joined, waitlisted, or rejected (both false).
type Decision struct {
	Joined     bool   `json:"joined"`
	Waitlisted bool   `json:"waitlisted"`
	Reason     string `json:"reason"`
}

// LeaveResult reports whether the caller was removed and which waitlisted
// users were promoted into the freed slots, in queue order.
type LeaveResult struct {
	Removed  bool        `json:"removed"`
	Promoted []uuid.UUID `json:"promoted"`
}

// RSVPService enforces capacity, cutoff, and waitlist policy for games.
type RSVPService interface {
	Join(ctx context.Context, gameID, userID uuid.UUID) (Decision, error)
	Leave(ctx context.Context, gameID, userID uuid.UUID) (LeaveResult, error)
	Withdraw(ctx context.Context, gameID, userID uuid.UUID) (bool, error)

	Participants(ctx context.Context, gameID uuid.UUID) ([]uuid.UUID, error)
	// WaitlistPosition returns the user's 1-based position, 0 if not queued.
	WaitlistPosition(ctx context.Context, gameID, userID uuid.UUID) (int, error)
}

type rsvpService struct {
	games        repository.GameRepository
	users        repository.UserRepository
	participants repository.ParticipantRepository
	waitlist     repository.WaitlistRepository
	promotions   PromotionService
}

func NewRSVPService(
	games repository.GameRepository,
	users repository.UserRepository,
	participants repository.ParticipantRepository,
	waitlist repository.WaitlistRepository,
	promotions PromotionService,
) RSVPService {
	return &rsvpService{
		games:        games,
		users:        users,
		participants: participants,
		waitlist:     waitlist,
		promotions:   promotions,
	}
}

func (s *rsvpService) Join(ctx context.Context, gameID, userID uuid.UUID) (Decision, error) {
	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return Decision{}, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, ErrUserNotFound
		}
		return Decision{}, fmt.Errorf("load user: %w", err)
	}

	if game.CutoffPassed(time.Now()) {
		return Decision{Reason: ReasonCutoff}, nil
	}

	already, err := s.participants.Exists(ctx, gameID, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("check participant: %w", err)
	}
	if already {
		// Repeated joins are side-effect free.
		return Decision{Joined: true, Reason: ReasonAlreadyParticipant}, nil
	}

	capacity := 0
	if !game.Unlimited() {
		capacity = *game.Capacity
	}
	added, err := s.participants.AddIfBelow(ctx, gameID, userID, capacity)
	if err != nil {
		return Decision{}, fmt.Errorf("add participant: %w", err)
	}
	if added {
		// A waitlisted user who re-joins after capacity rose gets the slot
		// directly; drop the stale queue entry so the two states stay
		// mutually exclusive.
		if game.WaitlistEnabled {
			if _, err := s.waitlist.Remove(ctx, gameID, userID); err != nil {
				return Decision{}, fmt.Errorf("clear waitlist entry: %w", err)
			}
		}
		return Decision{Joined: true, Reason: ReasonOK}, nil
	}

	// AddIfBelow reports false for "full" and for "already present" alike,
	// and a racing join by the same user can land between the Exists check
	// above and here. Re-check before treating the game as full, or the
	// user would be waitlisted on top of their own membership.
	already, err = s.participants.Exists(ctx, gameID, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("recheck participant: %w", err)
	}
	if already {
		return Decision{Joined: true, Reason: ReasonAlreadyParticipant}, nil
	}

	// The game is genuinely full. Losers of a capacity race fall through to
	// the waitlist path rather than erroring.
	if !game.WaitlistEnabled {
		return Decision{Reason: ReasonFull}, nil
	}

	queued, err := s.waitlist.Add(ctx, gameID, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("add to waitlist: %w", err)
	}
	if queued {
		return Decision{Waitlisted: true, Reason: ReasonWaitlisted}, nil
	}
	return Decision{Waitlisted: true, Reason: ReasonWaitlistExists}, nil
}

func (s *rsvpService) Leave(ctx context.Context, gameID, userID uuid.UUID) (LeaveResult, error) {
	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return LeaveResult{}, err
	}

	removed, err := s.participants.Remove(ctx, gameID, userID)
	if err != nil {
		return LeaveResult{}, fmt.Errorf("remove participant: %w", err)
	}

	result := LeaveResult{Removed: removed}
	if !removed || game.Unlimited() || !game.WaitlistEnabled {
		return result, nil
	}

	// PromoteFreed recounts occupancy inside the claim. A join that takes
	// the freed slot before the claim runs just shrinks the promotion to
	// nothing; counting here first would let the two interleave and
	// overshoot capacity.
	promoted, err := s.promotions.PromoteFreed(ctx, gameID, *game.Capacity)
	if err != nil {
		return result, fmt.Errorf("promote after leave: %w", err)
	}
	result.Promoted = promoted
	return result, nil
}

// Withdraw removes a voluntary waitlist entry. It never frees a slot, so it
// never triggers promotion.
func (s *rsvpService) Withdraw(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return false, err
	}
	removed, err := s.waitlist.Remove(ctx, gameID, userID)
	if err != nil {
		return false, fmt.Errorf("remove waitlist entry: %w", err)
	}
	return removed, nil
}

func (s *rsvpService) Participants(ctx context.Context, gameID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return nil, err
	}
	ids, err := s.participants.ListUserIDs(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return ids, nil
}

func (s *rsvpService) WaitlistPosition(ctx context.Context, gameID, userID uuid.UUID) (int, error) {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return 0, err
	}
	pos, err := s.waitlist.Position(ctx, gameID, userID)
	if err != nil {
		return 0, fmt.Errorf("waitlist position: %w", err)
	}
	return pos, nil
}

func (s *rsvpService) getGame(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("load game: %w", err)
	}
	return game, nil
}

var _ RSVPService = (*rsvpService)(nil)
