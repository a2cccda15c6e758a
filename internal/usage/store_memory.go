package usage

import (
	"context"
	"sync"
	"time"
)

type weekKey struct {
	userID string
	week   int64
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[weekKey]int
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[weekKey]int)}
}

func (s *MemoryStore) Used(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[weekKey{userID, weekStart.Unix()}], nil
}

func (s *MemoryStore) Consume(ctx context.Context, userID string, weekStart time.Time, n, limit int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := weekKey{userID, weekStart.Unix()}
	used := s.data[key]
	if used+n > limit {
		return used, ErrLimitReached
	}
	used += n
	s.data[key] = used
	return used, nil
}

func (s *MemoryStore) Reset(ctx context.Context, userID string, weekStart time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, weekKey{userID, weekStart.Unix()})
	return nil
}
