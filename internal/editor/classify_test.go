package editor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{&resumes.ValidationError{}, KindValidation},
		{fmt.Errorf("save: %w", resumes.ErrNotAuthenticated), KindAuthentication},
		{resumes.ErrResumeLimitReached, KindCapabilityDenied},
		{resumes.ErrCustomizationNotAllowed, KindCapabilityDenied},
		{generation.ErrUpgradeRequired, KindCapabilityDenied},
		{resumes.ErrVersionConflict, KindConflict},
		{generation.ErrQuotaExceeded, KindServiceUnavailable},
		{generation.ErrServiceUnavailable, KindServiceUnavailable},
		{errors.New("dial tcp: refused"), KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
