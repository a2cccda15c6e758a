package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/storage/object"
)

const maxJSONBody = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes", h.list)
	rg.POST("/resumes", h.create)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.GET("/resumes/:id/photo", h.getPhoto)
	rg.PUT("/resumes/:id/photo", h.putPhoto)
	rg.DELETE("/resumes/:id/photo", h.deletePhoto)
}

func (h *Handler) list(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := ListResponse{
		Resumes:    make([]ResumeDTO, 0, len(page.Resumes)),
		TotalCount: page.TotalCount,
		Level:      string(page.Level),
		CanCreate:  page.CanCreate,
	}
	for _, r := range page.Resumes {
		resp.Resumes = append(resp.Resumes, ToDTO(r))
	}
	respond.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	in, ok := bindResume(c)
	if !ok {
		return
	}
	in.ID = ""
	in.Version = 0
	h.save(c, in, http.StatusCreated)
}

func (h *Handler) update(c *gin.Context) {
	in, ok := bindResume(c)
	if !ok {
		return
	}
	in.ID = c.Param("id")
	if in.Version == 0 {
		in.Version = respond.IfMatch(c)
	}
	h.save(c, in, http.StatusOK)
}

func (h *Handler) save(c *gin.Context, in Resume, status int) {
	if in.ID != "" {
		c.Set("resumeId", in.ID)
	}
	out, err := h.Svc.Save(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", out.ID)
	respond.Versioned(c, status, out.Version, ToDTO(out))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	r, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Versioned(c, http.StatusOK, r.Version, ToDTO(r))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) putPhoto(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPhotoBytes+(1<<20))

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respond.ValidationError(c, "photo is required", []respond.FieldIssue{{Field: "photo", Issue: "is required"}})
		return
	}
	if fileHeader.Size > MaxPhotoBytes {
		respond.ValidationError(c, "photo too large", []respond.FieldIssue{{Field: "photo", Issue: "must be at most 4MB"}})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read photo", nil)
		return
	}
	defer file.Close()

	r, err := h.Svc.SetPhoto(c.Request.Context(), middleware.UserIDFromContext(c), id, fileHeader.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToDTO(r))
}

func (h *Handler) deletePhoto(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	r, err := h.Svc.ClearPhoto(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToDTO(r))
}

func (h *Handler) getPhoto(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	rc, err := h.Svc.OpenPhoto(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	rest, head, contentType, err := object.Sniff(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read photo", nil)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.DataFromReader(http.StatusOK, -1, contentType, io.MultiReader(bytes.NewReader(head), rest), nil)
}

func bindResume(c *gin.Context) (Resume, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)
	var body ResumeDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return Resume{}, false
	}
	return body.ToResume(), true
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		issues := make([]respond.FieldIssue, 0, len(verr.Issues))
		for _, is := range verr.Issues {
			issues = append(issues, respond.FieldIssue{Field: is.Field, Issue: is.Issue})
		}
		respond.ValidationError(c, "invalid resume", issues)
	case errors.Is(err, ErrValidation):
		respond.ValidationError(c, err.Error(), nil)
	case errors.Is(err, ErrNotAuthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrResumeLimitReached):
		respond.Error(c, http.StatusForbidden, "resume_limit_reached", ErrResumeLimitReached.Error(), nil)
	case errors.Is(err, ErrCustomizationNotAllowed):
		respond.Error(c, http.StatusForbidden, "customization_not_allowed", ErrCustomizationNotAllowed.Error(), nil)
	case errors.Is(err, ErrVersionConflict):
		respond.Error(c, http.StatusConflict, "version_conflict", ErrVersionConflict.Error(), nil)
	case errors.Is(err, ErrInvalidPhoto):
		respond.ValidationError(c, err.Error(), []respond.FieldIssue{{Field: "photo", Issue: err.Error()}})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process resume", nil)
	}
}
