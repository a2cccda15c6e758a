package generation

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler exposes the AI generation endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches AI routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/summary", h.summary)
	rg.POST("/ai/work-experience", h.workExperience)
}

// SummaryRequest is the POST /ai/summary body.
type SummaryRequest struct {
	JobTitle        string                      `json:"jobTitle"`
	WorkExperiences []resumes.WorkExperienceDTO `json:"workExperiences"`
	Educations      []resumes.EducationDTO      `json:"educations"`
	Skills          []string                    `json:"skills"`
}

// SummaryResponse is the POST /ai/summary reply.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// WorkExperienceRequest is the POST /ai/work-experience body.
type WorkExperienceRequest struct {
	Description string `json:"description"`
}

// WorkExperienceResponse is the POST /ai/work-experience reply.
type WorkExperienceResponse struct {
	WorkExperience resumes.WorkExperienceDTO `json:"workExperience"`
}

func (h *Handler) summary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	in := SummaryInput{JobTitle: req.JobTitle, Skills: req.Skills}
	for _, w := range req.WorkExperiences {
		in.WorkExperiences = append(in.WorkExperiences, w.ToModel())
	}
	for _, e := range req.Educations {
		in.Educations = append(in.Educations, e.ToModel())
	}

	text, err := h.Svc.GenerateSummary(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, SummaryResponse{Summary: text})
}

func (h *Handler) workExperience(c *gin.Context) {
	var req WorkExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	w, err := h.Svc.GenerateWorkExperience(c.Request.Context(), middleware.UserIDFromContext(c), req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, WorkExperienceResponse{WorkExperience: resumes.WorkExperienceToDTO(w)})
}

func writeError(c *gin.Context, err error) {
	var verr *resumes.ValidationError
	switch {
	case errors.As(err, &verr):
		issues := make([]respond.FieldIssue, 0, len(verr.Issues))
		for _, is := range verr.Issues {
			issues = append(issues, respond.FieldIssue{Field: is.Field, Issue: is.Issue})
		}
		respond.ValidationError(c, "invalid generation input", issues)
	case errors.Is(err, resumes.ErrNotAuthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	case errors.Is(err, ErrUpgradeRequired):
		respond.Error(c, http.StatusForbidden, "upgrade_required", ErrUpgradeRequired.Error(), nil)
	case errors.Is(err, ErrQuotaExceeded):
		respond.Error(c, http.StatusTooManyRequests, "quota_exceeded", ErrQuotaExceeded.Error(), nil)
	case errors.Is(err, ErrServiceUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "service_unavailable", ErrServiceUnavailable.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate content", nil)
	}
}
