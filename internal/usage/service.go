package usage

import (
	"context"
	"time"

	"resume-builder/internal/subscriptions"
)

// Store persists per-week counters.
type Store interface {
	Used(ctx context.Context, userID string, weekStart time.Time) (int, error)
	// Consume adds n to the counter unless that would pass limit, in which case it
	// returns ErrLimitReached and leaves the counter alone.
	Consume(ctx context.Context, userID string, weekStart time.Time, n, limit int) (int, error)
	Reset(ctx context.Context, userID string, weekStart time.Time) error
}

// TierSource resolves a user's tier.
type TierSource interface {
	LevelFor(ctx context.Context, userID string) (subscriptions.Level, error)
}

// Service manages AI allowances.
type Service struct {
	store  Store
	tiers  TierSource
	Limits Limits
	Now    func() time.Time
}

// NewService constructs a Service with an in-memory store.
func NewService(tiers TierSource) *Service {
	return &Service{store: NewMemoryStore(), tiers: tiers, Limits: DefaultLimits, Now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore Store, tiers TierSource) *Service {
	return &Service{store: pgStore, tiers: tiers, Limits: DefaultLimits, Now: time.Now}
}

func (s *Service) week() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return WeekStart(now())
}

// Get returns the current week's usage for a user.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	level, err := s.tiers.LevelFor(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	week := s.week()
	used, err := s.store.Used(ctx, userID, week)
	if err != nil {
		return Usage{}, err
	}
	return newUsage(level, s.Limits.For(level), used, week), nil
}

// Consume spends n generations from this week's allowance.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	level, err := s.tiers.LevelFor(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	week := s.week()
	if n <= 0 {
		used, err := s.store.Used(ctx, userID, week)
		if err != nil {
			return Usage{}, err
		}
		return newUsage(level, s.Limits.For(level), used, week), nil
	}
	used, err := s.store.Consume(ctx, userID, week, n, s.Limits.For(level))
	if err != nil {
		return Usage{}, err
	}
	return newUsage(level, s.Limits.For(level), used, week), nil
}

// Reset zeroes this week's counter.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	level, err := s.tiers.LevelFor(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	week := s.week()
	if err := s.store.Reset(ctx, userID, week); err != nil {
		return Usage{}, err
	}
	return newUsage(level, s.Limits.For(level), 0, week), nil
}
