package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

// devPeriod is how long a tier set through the dev route lasts.
const devPeriod = 30 * 24 * time.Hour

// Service answers tier questions from stored billing state.
type Service struct {
	Repo  Repo
	Plans Plans
	Now   func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, plans Plans) *Service {
	return &Service{Repo: repo, Plans: plans, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// LevelFor returns the user's current tier. A missing or lapsed subscription is free.
// An unrecognized price id is also free and is logged.
func (s *Service) LevelFor(ctx context.Context, userID string) (Level, error) {
	if strings.TrimSpace(userID) == "" {
		return LevelFree, nil
	}
	cache := cacheFrom(ctx)
	if level, ok := cache.get(userID); ok {
		return level, nil
	}

	level, err := s.lookup(ctx, userID)
	if err != nil {
		return LevelFree, err
	}
	cache.put(userID, level)
	return level, nil
}

func (s *Service) lookup(ctx context.Context, userID string) (Level, error) {
	sub, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return LevelFree, nil
	}
	if err != nil {
		return LevelFree, fmt.Errorf("load subscription: %w", err)
	}

	level, err := s.levelOf(sub)
	if err != nil {
		telemetry.Warn("subscription.unknown_price", map[string]any{
			"user_id":  userID,
			"price_id": sub.PriceID,
			"error":    err,
		})
		return LevelFree, nil
	}
	return level, nil
}

func (s *Service) levelOf(sub Subscription) (Level, error) {
	if !sub.CurrentPeriodEnd.After(s.now()) {
		return LevelFree, nil
	}
	switch sub.PriceID {
	case "":
		return LevelFree, ErrUnknownPrice
	case s.Plans.ProPriceID:
		return LevelPro, nil
	case s.Plans.ProPlusPriceID:
		return LevelProPlus, nil
	default:
		return LevelFree, ErrUnknownPrice
	}
}

// Current returns the stored subscription alongside the derived tier.
func (s *Service) Current(ctx context.Context, userID string) (Subscription, Level, error) {
	level, err := s.LevelFor(ctx, userID)
	if err != nil {
		return Subscription{}, LevelFree, err
	}
	sub, err := s.Repo.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Subscription{}, LevelFree, err
	}
	return sub, level, nil
}

// SetLevel records a subscription granting level. Free removes the record.
// Only the dev routes call this; production billing state arrives from the provider.
func (s *Service) SetLevel(ctx context.Context, userID string, level Level) (Level, error) {
	if !level.Valid() {
		return LevelFree, ErrInvalidLevel
	}
	defer cacheFrom(ctx).forget(userID)

	if level == LevelFree {
		if err := s.Repo.Delete(ctx, userID); err != nil {
			return LevelFree, err
		}
		return LevelFree, nil
	}
	price := s.Plans.PriceFor(level)
	if price == "" {
		return LevelFree, fmt.Errorf("%w: no price configured for %s", ErrInvalidLevel, level)
	}
	now := s.now()
	err := s.Repo.Upsert(ctx, Subscription{
		UserID:           userID,
		SubscriptionID:   "dev_" + userID,
		PriceID:          price,
		CurrentPeriodEnd: now.Add(devPeriod),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return LevelFree, err
	}
	return level, nil
}
