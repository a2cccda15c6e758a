package resumes

import (
	"errors"
	"strings"
)

var (
	ErrNotFound                = errors.New("resume not found")
	ErrNotAuthenticated        = errors.New("user not authenticated")
	ErrResumeLimitReached      = errors.New("maximum resume count reached for this plan")
	ErrCustomizationNotAllowed = errors.New("customizations not allowed for this subscription level")
	ErrValidation              = errors.New("invalid resume")
	ErrVersionConflict         = errors.New("resume was changed elsewhere")
	ErrInvalidPhoto            = errors.New("invalid photo")
)

// FieldIssue names one invalid field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError carries per-field issues and matches ErrValidation.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Issue)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
