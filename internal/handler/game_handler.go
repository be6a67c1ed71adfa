package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickupsports/gamehub/internal/service"
	"pickupsports/gamehub/pkg/response"
)

type GameHandler struct {
	gameService service.GameService
}

func NewGameHandler(gameService service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type CreateGameRequest struct {
	Sport           string     `json:"sport" binding:"required"`
	Location        string     `json:"location" binding:"required"`
	StartsAt        time.Time  `json:"starts_at" binding:"required"`
	Capacity        *int       `json:"capacity,omitempty"`
	RSVPCutoff      *time.Time `json:"rsvp_cutoff,omitempty"`
	WaitlistEnabled bool       `json:"waitlist_enabled"`
}

type ChangeCapacityRequest struct {
	Capacity *int `json:"capacity"`
}

func (h *GameHandler) Create(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), ownerID, service.CreateGameInput{
		Sport:           req.Sport,
		Location:        req.Location,
		StartsAt:        req.StartsAt,
		Capacity:        req.Capacity,
		RSVPCutoff:      req.RSVPCutoff,
		WaitlistEnabled: req.WaitlistEnabled,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCapacity) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to create game")
		return
	}
	response.Success(c, game)
}

func (h *GameHandler) Get(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}
	details, err := h.gameService.Get(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.NotFound(c, "game not found")
			return
		}
		response.InternalError(c, "failed to load game")
		return
	}
	response.Success(c, details)
}

// ChangeCapacity handles PATCH /games/:id/capacity. Raising the bound may
// promote waitlisted users; the response lists them.
func (h *GameHandler) ChangeCapacity(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	var req ChangeCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	promoted, err := h.gameService.ChangeCapacity(c.Request.Context(), gameID, callerID, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.NotFound(c, "game not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, "only the owner can change capacity")
		case errors.Is(err, service.ErrInvalidCapacity):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "failed to change capacity")
		}
		return
	}
	response.Success(c, gin.H{"promoted": promoted})
}

func (h *GameHandler) Delete(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	if err := h.gameService.Delete(c.Request.Context(), gameID, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.NotFound(c, "game not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, "only the owner can delete the game")
		default:
			response.InternalError(c, "failed to delete game")
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
