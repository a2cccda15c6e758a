package resumes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/subscriptions"
)

// TierSource resolves a user's subscription tier.
type TierSource interface {
	LevelFor(ctx context.Context, userID string) (subscriptions.Level, error)
}

// Service owns resume persistence and its capability checks.
type Service struct {
	Repo  Repo
	Store object.Store
	Tiers TierSource
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Save creates the resume when it has no ID and updates it otherwise.
// The stored photo key is never taken from in.
func (s *Service) Save(ctx context.Context, userID string, in Resume) (Resume, error) {
	start := time.Now()
	out, err := s.save(ctx, userID, in)
	if err != nil {
		metrics.IncResumeSaveFailed()
		if errors.Is(err, ErrVersionConflict) {
			metrics.IncVersionConflict()
		}
		return Resume{}, err
	}
	metrics.IncResumeSaved()
	metrics.ObserveSaveDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("resume.saved", map[string]any{
		"user_id":   userID,
		"resume_id": out.ID,
		"version":   out.Version,
	})
	return out, nil
}

func (s *Service) save(ctx context.Context, userID string, in Resume) (Resume, error) {
	in = in.Clone()
	in.Normalize()
	if err := Validate(in); err != nil {
		return Resume{}, err
	}
	if userID == "" {
		return Resume{}, ErrNotAuthenticated
	}

	level, err := s.Tiers.LevelFor(ctx, userID)
	if err != nil {
		return Resume{}, fmt.Errorf("resolve tier: %w", err)
	}

	var existing Resume
	if in.ID == "" {
		count, err := s.Repo.CountByUser(ctx, userID)
		if err != nil {
			return Resume{}, fmt.Errorf("count resumes: %w", err)
		}
		if !subscriptions.CanCreateResume(level, count) {
			metrics.IncGateDenied("create_resume")
			return Resume{}, ErrResumeLimitReached
		}
	} else {
		existing, err = s.Repo.Get(ctx, userID, in.ID)
		if err != nil {
			return Resume{}, err
		}
	}

	if in.Presentation.ChangedFrom(existing.Presentation) && !subscriptions.CanUseCustomizations(level) {
		metrics.IncGateDenied("customizations")
		return Resume{}, ErrCustomizationNotAllowed
	}

	now := s.now()
	in.UserID = userID
	in.UpdatedAt = now
	in.Personal.PhotoKey = existing.Personal.PhotoKey

	if in.ID == "" {
		in.ID = uuid.NewString()
		in.CreatedAt = now
		return s.Repo.Create(ctx, in)
	}

	if in.Presentation.ColorHex == "" {
		in.Presentation.ColorHex = existing.Presentation.ColorHex
	}
	if in.Presentation.BorderStyle == "" {
		in.Presentation.BorderStyle = existing.Presentation.BorderStyle
	}
	return s.Repo.Update(ctx, in, in.Version)
}

// Get returns one of the user's resumes.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrNotAuthenticated
	}
	return s.Repo.Get(ctx, userID, id)
}

// ListPage is the resume overview for one user.
type ListPage struct {
	Resumes    []Resume
	TotalCount int
	Level      subscriptions.Level
	CanCreate  bool
}

// List loads the user's resumes, their count and tier concurrently.
func (s *Service) List(ctx context.Context, userID string) (ListPage, error) {
	if userID == "" {
		return ListPage{}, ErrNotAuthenticated
	}
	var page ListPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.Repo.ListByUser(gctx, userID)
		page.Resumes = list
		return err
	})
	g.Go(func() error {
		n, err := s.Repo.CountByUser(gctx, userID)
		page.TotalCount = n
		return err
	})
	g.Go(func() error {
		level, err := s.Tiers.LevelFor(gctx, userID)
		page.Level = level
		return err
	})
	if err := g.Wait(); err != nil {
		return ListPage{}, err
	}
	page.CanCreate = subscriptions.CanCreateResume(page.Level, page.TotalCount)
	return page, nil
}

// Delete removes the resume and its photo.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	existing, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if key := existing.Personal.PhotoKey; key != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete photo: %w", err)
		}
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	telemetry.Info("resume.deleted", map[string]any{"user_id": userID, "resume_id": id})
	return nil
}
