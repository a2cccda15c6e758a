package editor

import (
	"errors"

	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
)

// ErrorKind groups failures by how the editor should react to them.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation: show field errors; nothing was written.
	KindValidation
	// KindAuthentication: the user must sign in again.
	KindAuthentication
	// KindCapabilityDenied: offer an upgrade.
	KindCapabilityDenied
	// KindTransient: keep the edits dirty and retry later.
	KindTransient
	// KindServiceUnavailable: AI is down or out of quota; try later.
	KindServiceUnavailable
	// KindConflict: the resume changed elsewhere; reload.
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindCapabilityDenied:
		return "capability_denied"
	case KindTransient:
		return "transient"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Classify maps an error from a save, a step or a generation to an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, resumes.ErrValidation):
		return KindValidation
	case errors.Is(err, resumes.ErrNotAuthenticated):
		return KindAuthentication
	case errors.Is(err, resumes.ErrResumeLimitReached),
		errors.Is(err, resumes.ErrCustomizationNotAllowed),
		errors.Is(err, generation.ErrUpgradeRequired):
		return KindCapabilityDenied
	case errors.Is(err, resumes.ErrVersionConflict):
		return KindConflict
	case errors.Is(err, generation.ErrQuotaExceeded),
		errors.Is(err, generation.ErrServiceUnavailable):
		return KindServiceUnavailable
	default:
		return KindTransient
	}
}
