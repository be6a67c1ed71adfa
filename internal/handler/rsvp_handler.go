package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickupsports/gamehub/internal/service"
	"pickupsports/gamehub/pkg/response"
)

type RSVPHandler struct {
	rsvpService service.RSVPService
	idempotency *service.IdempotencyStore
}

func NewRSVPHandler(rsvpService service.RSVPService, idempotency *service.IdempotencyStore) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService, idempotency: idempotency}
}

// Join handles POST /games/:id/join. Every request gets a definite outcome:
// joined (200), waitlisted (202), or rejected with a reason (409).
func (h *RSVPHandler) Join(c *gin.Context) {
	userID, gameID, ok := h.subjectAndGame(c)
	if !ok {
		return
	}

	if h.replay(c, "join", userID, gameID) {
		return
	}

	decision, err := h.rsvpService.Join(c.Request.Context(), gameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.NotFound(c, "game not found")
		case errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, "user not found")
		default:
			response.InternalError(c, "join failed")
		}
		return
	}

	status := http.StatusOK
	switch {
	case decision.Waitlisted:
		status = http.StatusAccepted
	case !decision.Joined:
		status = http.StatusConflict
	}
	h.remember(c, "join", userID, gameID, status, decision)
	c.JSON(status, response.APIResponse{Code: 0, Message: "ok", Data: decision})
}

// Leave handles DELETE /games/:id/leave and reports any promotions the freed
// slot caused.
func (h *RSVPHandler) Leave(c *gin.Context) {
	userID, gameID, ok := h.subjectAndGame(c)
	if !ok {
		return
	}

	if h.replay(c, "leave", userID, gameID) {
		return
	}

	result, err := h.rsvpService.Leave(c.Request.Context(), gameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.NotFound(c, "game not found")
		default:
			response.InternalError(c, "leave failed")
		}
		return
	}

	h.remember(c, "leave", userID, gameID, http.StatusOK, result)
	response.Success(c, result)
}

// Withdraw handles DELETE /games/:id/waitlist (voluntary withdrawal).
func (h *RSVPHandler) Withdraw(c *gin.Context) {
	userID, gameID, ok := h.subjectAndGame(c)
	if !ok {
		return
	}

	removed, err := h.rsvpService.Withdraw(c.Request.Context(), gameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.NotFound(c, "game not found")
		default:
			response.InternalError(c, "withdraw failed")
		}
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// Participants handles GET /games/:id/participants.
func (h *RSVPHandler) Participants(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}
	ids, err := h.rsvpService.Participants(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.NotFound(c, "game not found")
			return
		}
		response.InternalError(c, "failed to list participants")
		return
	}
	response.Success(c, gin.H{"user_ids": ids})
}

// WaitlistPosition handles GET /games/:id/waitlist/position for the caller.
func (h *RSVPHandler) WaitlistPosition(c *gin.Context) {
	userID, gameID, ok := h.subjectAndGame(c)
	if !ok {
		return
	}
	pos, err := h.rsvpService.WaitlistPosition(c.Request.Context(), gameID, userID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.NotFound(c, "game not found")
			return
		}
		response.InternalError(c, "failed to read waitlist")
		return
	}
	response.Success(c, gin.H{"position": pos, "waitlisted": pos > 0})
}

func (h *RSVPHandler) subjectAndGame(c *gin.Context) (userID, gameID uuid.UUID, ok bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return uuid.Nil, uuid.Nil, false
	}
	gameID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, gameID, true
}

// replay serves a cached outcome for a repeated Idempotency-Key, if any.
func (h *RSVPHandler) replay(c *gin.Context, op string, userID, gameID uuid.UUID) bool {
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		return false
	}
	outcome, err := h.idempotency.Get(c.Request.Context(), op, userID, gameID, key)
	if err != nil || outcome == nil {
		return false
	}
	c.Data(outcome.Status, "application/json", outcome.Body)
	return true
}

func (h *RSVPHandler) remember(c *gin.Context, op string, userID, gameID uuid.UUID, status int, data any) {
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		return
	}
	body, err := json.Marshal(response.APIResponse{Code: 0, Message: "ok", Data: data})
	if err != nil {
		return
	}
	// Best-effort: a failed cache write just means a retry re-executes.
	_ = h.idempotency.Put(c.Request.Context(), op, userID, gameID, key, service.RSVPOutcome{
		Status: status,
		Body:   body,
	})
}
