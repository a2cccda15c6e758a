package subscriptions

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Subscription
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Subscription)}
}

// Get returns the user's subscription.
func (r *MemoryRepo) Get(ctx context.Context, userID string) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.data[userID]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

// Upsert stores sub keyed by user.
func (r *MemoryRepo) Upsert(ctx context.Context, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.data[sub.UserID]; ok && sub.CreatedAt.IsZero() {
		sub.CreatedAt = prev.CreatedAt
	}
	r.data[sub.UserID] = sub
	return nil
}

// Delete removes the user's subscription.
func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, userID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
