package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/subscriptions"
	"resume-builder/internal/usage"
)

// MinDescriptionLength is the shortest free-text description accepted for a
// generated work experience.
const MinDescriptionLength = 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// SummaryInput is the resume context a summary is written from.
type SummaryInput struct {
	JobTitle        string                   `validate:"max=200"`
	WorkExperiences []resumes.WorkExperience `validate:"max=50"`
	Educations      []resumes.Education      `validate:"max=50"`
	Skills          []string                 `validate:"max=100"`
}

// SummaryInputFrom takes the summary context out of a resume.
func SummaryInputFrom(r resumes.Resume) SummaryInput {
	c := r.Clone()
	return SummaryInput{
		JobTitle:        c.Personal.JobTitle,
		WorkExperiences: c.WorkExperiences,
		Educations:      c.Educations,
		Skills:          c.Skills,
	}
}

type workExperienceInput struct {
	Description string `validate:"required,min=20,max=4000"`
}

// TierSource resolves a user's tier.
type TierSource interface {
	LevelFor(ctx context.Context, userID string) (subscriptions.Level, error)
}

// Allowance tracks the weekly AI budget.
type Allowance interface {
	Get(ctx context.Context, userID string) (usage.Usage, error)
	Consume(ctx context.Context, userID string, n int) (usage.Usage, error)
}

// Service generates resume content with an LLM, behind the AI tools gate.
type Service struct {
	LLM   llm.Client
	Tiers TierSource
	Usage Allowance
}

// NewService constructs a Service.
func NewService(client llm.Client, tiers TierSource, allowance Allowance) *Service {
	return &Service{LLM: client, Tiers: tiers, Usage: allowance}
}

// GenerateSummary writes a professional summary from the resume context.
func (s *Service) GenerateSummary(ctx context.Context, userID string, in SummaryInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", &resumes.ValidationError{Issues: []resumes.FieldIssue{{Field: "summaryInput", Issue: "is too large"}}}
	}
	text, err := s.generate(ctx, "summary", userID, buildSummaryPrompt(in))
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateWorkExperience turns a free-text description into a structured entry.
func (s *Service) GenerateWorkExperience(ctx context.Context, userID, description string) (resumes.WorkExperience, error) {
	description = strings.TrimSpace(description)
	if err := validate.Struct(workExperienceInput{Description: description}); err != nil {
		issue := fmt.Sprintf("must be at least %d characters", MinDescriptionLength)
		if description == "" {
			issue = "is required"
		} else if len(description) > 4000 {
			issue = "must be at most 4000 characters"
		}
		return resumes.WorkExperience{}, &resumes.ValidationError{Issues: []resumes.FieldIssue{{Field: "description", Issue: issue}}}
	}
	text, err := s.generate(ctx, "work_experience", userID, buildWorkExperiencePrompt(description))
	if err != nil {
		return resumes.WorkExperience{}, err
	}
	return parseWorkExperience(text), nil
}

func (s *Service) generate(ctx context.Context, kind, userID, prompt string) (string, error) {
	if userID == "" {
		return "", resumes.ErrNotAuthenticated
	}
	level, err := s.Tiers.LevelFor(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("resolve tier: %w", err)
	}
	if !subscriptions.CanUseAITools(level) {
		metrics.IncGateDenied("ai_tools")
		return "", ErrUpgradeRequired
	}

	u, err := s.Usage.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load ai usage: %w", err)
	}
	if u.Remaining <= 0 {
		metrics.IncGateDenied("ai_quota")
		return "", ErrQuotaExceeded
	}

	start := time.Now()
	text, err := s.LLM.Complete(ctx, prompt)
	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		metrics.IncAIGenerationFailed()
		telemetry.Warn("ai.generation_failed", map[string]any{
			"kind":    kind,
			"user_id": userID,
			"error":   err.Error(),
		})
		return "", mapProviderError(err)
	}

	if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
		// The text is already produced; a lost race on the last unit is only logged.
		telemetry.Warn("ai.usage_consume_failed", map[string]any{
			"kind":    kind,
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	metrics.IncAIGeneration()
	telemetry.Info("ai.generated", map[string]any{
		"kind":        kind,
		"user_id":     userID,
		"level":       string(level),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return strings.TrimSpace(text), nil
}

func mapProviderError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, llm.ErrRateLimited):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
}
