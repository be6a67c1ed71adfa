package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickupsports/gamehub/internal/service"
	"pickupsports/gamehub/pkg/response"
)

type AdminHandler struct {
	promotionService service.PromotionService
}

func NewAdminHandler(promotionService service.PromotionService) *AdminHandler {
	return &AdminHandler{promotionService: promotionService}
}

type AdminPromoteRequest struct {
	Count int `json:"count"`
}

// Promote handles POST /admin/games/:id/promote: force-promote up to count
// waitlisted users regardless of current capacity headroom. A count larger
// than the waitlist promotes whoever is queued; zero or negative is a no-op.
func (h *AdminHandler) Promote(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	var req AdminPromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	promoted, err := h.promotionService.PromoteUpTo(c.Request.Context(), gameID, req.Count)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.NotFound(c, "game not found")
			return
		}
		response.InternalError(c, "promotion failed")
		return
	}
	response.Success(c, gin.H{"promoted": promoted})
}
