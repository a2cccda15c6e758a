package subscriptions

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo on user_subscriptions.
type PGRepo struct {
	DB *sql.DB
}

// Get fetches the user's subscription.
func (r *PGRepo) Get(ctx context.Context, userID string) (Subscription, error) {
	const query = `
SELECT user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id,
       stripe_current_period_end, stripe_cancel_at_period_end, created_at, updated_at
FROM user_subscriptions
WHERE user_id = $1`
	var sub Subscription
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&sub.UserID,
		&sub.CustomerID,
		&sub.SubscriptionID,
		&sub.PriceID,
		&sub.CurrentPeriodEnd,
		&sub.CancelAtPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, err
	}
	return sub, nil
}

// Upsert inserts or replaces the user's subscription.
func (r *PGRepo) Upsert(ctx context.Context, sub Subscription) error {
	const query = `
INSERT INTO user_subscriptions (
    user_id,
    stripe_customer_id,
    stripe_subscription_id,
    stripe_price_id,
    stripe_current_period_end,
    stripe_cancel_at_period_end,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (user_id) DO UPDATE SET
    stripe_customer_id = EXCLUDED.stripe_customer_id,
    stripe_subscription_id = EXCLUDED.stripe_subscription_id,
    stripe_price_id = EXCLUDED.stripe_price_id,
    stripe_current_period_end = EXCLUDED.stripe_current_period_end,
    stripe_cancel_at_period_end = EXCLUDED.stripe_cancel_at_period_end,
    updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		sub.UserID,
		sub.CustomerID,
		sub.SubscriptionID,
		sub.PriceID,
		sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd,
		sub.UpdatedAt,
	)
	return err
}

// Delete removes the user's subscription.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM user_subscriptions WHERE user_id = $1`, userID)
	return err
}

var _ Repo = (*PGRepo)(nil)
