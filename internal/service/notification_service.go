package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pickupsports/gamehub/internal/model"
	"pickupsports/gamehub/internal/repository"
)

// PromotionEvent is emitted once per promoted user, after the promotion has
// committed.
type PromotionEvent struct {
	GameID   uuid.UUID `json:"game_id"`
	UserID   uuid.UUID `json:"user_id"`
	Sport    string    `json:"sport"`
	Location string    `json:"location"`
}

// NotificationDispatcher fans promotion events out to the in-app, push, and
// email channels. Every channel is best-effort: failures are logged and
// counted, never returned, so delivery problems cannot disturb a promotion
// that already happened. Redelivery of an event only re-sends notices; the
// participant row already exists.
type NotificationDispatcher interface {
	DispatchPromotion(ctx context.Context, ev PromotionEvent)
}

type notificationDispatcher struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	pushQueue     repository.PushQueue
	mail          MailSender // nil disables the email channel
	logger        *zap.Logger
}

func NewNotificationDispatcher(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	pushQueue repository.PushQueue,
	mail MailSender,
	logger *zap.Logger,
) NotificationDispatcher {
	return &notificationDispatcher{
		users:         users,
		notifications: notifications,
		pushQueue:     pushQueue,
		mail:          mail,
		logger:        logger,
	}
}

func (d *notificationDispatcher) DispatchPromotion(ctx context.Context, ev PromotionEvent) {
	message := fmt.Sprintf("A spot opened up: you are now confirmed for %s at %s.", ev.Sport, ev.Location)

	d.deliverInApp(ctx, ev, message)
	d.deliverPush(ctx, ev, message)
	d.deliverEmail(ctx, ev, message)
}

func (d *notificationDispatcher) deliverInApp(ctx context.Context, ev PromotionEvent, message string) {
	err := d.notifications.Create(ctx, &model.Notification{
		UserID:  ev.UserID,
		GameID:  &ev.GameID,
		Kind:    "promoted",
		Message: message,
	})
	if err != nil {
		d.logger.Warn("in-app promotion notice failed",
			zap.String("game_id", ev.GameID.String()),
			zap.String("user_id", ev.UserID.String()),
			zap.Error(err))
	}
}

func (d *notificationDispatcher) deliverPush(ctx context.Context, ev PromotionEvent, message string) {
	payload, err := json.Marshal(struct {
		PromotionEvent
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}{PromotionEvent: ev, Kind: "promoted", Message: message})
	if err != nil {
		d.logger.Warn("push payload marshal failed", zap.Error(err))
		return
	}
	if err := d.pushQueue.Enqueue(ctx, payload); err != nil {
		d.logger.Warn("push enqueue failed",
			zap.String("user_id", ev.UserID.String()),
			zap.Error(err))
	}
}

func (d *notificationDispatcher) deliverEmail(ctx context.Context, ev PromotionEvent, message string) {
	if d.mail == nil {
		return
	}
	user, err := d.users.GetByID(ctx, ev.UserID)
	if err != nil || user.Email == "" {
		if err != nil {
			d.logger.Warn("promotion email recipient lookup failed",
				zap.String("user_id", ev.UserID.String()),
				zap.Error(err))
		}
		return
	}
	subject := fmt.Sprintf("You're in: %s at %s", ev.Sport, ev.Location)
	if err := d.mail.Send(ctx, user.Email, subject, message); err != nil {
		d.logger.Warn("promotion email failed",
			zap.String("user_id", ev.UserID.String()),
			zap.Error(err))
	}
}

var _ NotificationDispatcher = (*notificationDispatcher)(nil)
