package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickupsports/gamehub/internal/model"
)

type fakeGameRepo struct {
	mu    sync.Mutex
	games map[uuid.UUID]*model.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[uuid.UUID]*model.Game)}
}

func (r *fakeGameRepo) Create(_ context.Context, game *model.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	copied := *game
	r.games[game.ID] = &copied
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *game
	return &copied, nil
}

func (r *fakeGameRepo) UpdateCapacity(_ context.Context, id uuid.UUID, capacity *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	game.Capacity = capacity
	return nil
}

func (r *fakeGameRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

// captureDispatcher records dispatched promotion events.
type captureDispatcher struct {
	mu     sync.Mutex
	events []PromotionEvent
}

func (d *captureDispatcher) DispatchPromotion(_ context.Context, ev PromotionEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *captureDispatcher) Events() []PromotionEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PromotionEvent, len(d.events))
	copy(out, d.events)
	return out
}

// failingNotificationRepo simulates an unavailable notifications table.
type failingNotificationRepo struct{}

func (failingNotificationRepo) Create(context.Context, *model.Notification) error {
	return errors.New("notifications table unavailable")
}

func (failingNotificationRepo) ListByUserID(context.Context, uuid.UUID) ([]model.Notification, error) {
	return nil, errors.New("notifications table unavailable")
}

func (failingNotificationRepo) MarkRead(context.Context, uuid.UUID) error {
	return errors.New("notifications table unavailable")
}

type failingPushQueue struct{}

func (failingPushQueue) Enqueue(context.Context, []byte) error {
	return errors.New("push broker unreachable")
}

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }
