package subscriptions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler exposes subscription endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches subscription routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/subscription", h.get)
}

// RegisterDevRoutes attaches dev-only routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.PUT("/subscription", h.set)
}

type subscriptionResponse struct {
	Level             Level        `json:"level"`
	Capabilities      Capabilities `json:"capabilities"`
	CurrentPeriodEnd  *time.Time   `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool         `json:"cancelAtPeriodEnd"`
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	sub, level, err := h.Svc.Current(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load subscription", nil)
		return
	}
	resp := subscriptionResponse{
		Level:             level,
		Capabilities:      CapabilitiesFor(level),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if level != LevelFree && !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		resp.CurrentPeriodEnd = &end
	}
	respond.OK(c, resp)
}

type setLevelRequest struct {
	Level string `json:"level" binding:"required"`
}

func (h *Handler) set(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req setLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "level is required", nil)
		return
	}
	level, ok := parseLevel(req.Level)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown level", gin.H{"level": req.Level})
		return
	}
	level, err := h.Svc.SetLevel(c.Request.Context(), userID, level)
	if errors.Is(err, ErrInvalidLevel) {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to set subscription", nil)
		return
	}
	respond.OK(c, subscriptionResponse{Level: level, Capabilities: CapabilitiesFor(level)})
}
