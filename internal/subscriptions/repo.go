package subscriptions

import "context"

// Repo persists subscription records.
type Repo interface {
	Get(ctx context.Context, userID string) (Subscription, error)
	Upsert(ctx context.Context, sub Subscription) error
	Delete(ctx context.Context, userID string) error
}
