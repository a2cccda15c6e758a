package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me answers from the stored profile and falls back to token claims for
// identities that never went through the sign-in flow.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		u = User{
			ID:      userID,
			Email:   middleware.UserEmailFromContext(c),
			Name:    middleware.UserNameFromContext(c),
			Picture: middleware.UserPictureFromContext(c),
		}
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	resp := gin.H{"userId": u.ID}
	if u.Email != "" {
		resp["email"] = u.Email
	}
	if u.Name != "" {
		resp["name"] = u.Name
	}
	if u.Picture != "" {
		resp["picture"] = u.Picture
	}
	respond.JSON(c, http.StatusOK, resp)
}
