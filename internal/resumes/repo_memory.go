package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // id -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

// Create stores a new resume.
func (m *MemoryRepo) Create(ctx context.Context, r Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Version == 0 {
		r.Version = 1
	}
	m.data[r.ID] = r.Clone()
	return r.Clone(), nil
}

// Update overwrites an existing resume, bumping its version.
func (m *MemoryRepo) Update(ctx context.Context, r Resume, expectedVersion int) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.data[r.ID]
	if !ok || cur.UserID != r.UserID {
		return Resume{}, ErrNotFound
	}
	if expectedVersion != 0 && cur.Version != expectedVersion {
		return Resume{}, ErrVersionConflict
	}
	r.CreatedAt = cur.CreatedAt
	r.Version = cur.Version + 1
	m.data[r.ID] = r.Clone()
	return r.Clone(), nil
}

// Get returns the user's resume.
func (m *MemoryRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return r.Clone(), nil
}

// ListByUser returns the user's resumes, most recently updated first.
func (m *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Resume, 0)
	for _, r := range m.data {
		if r.UserID == userID {
			out = append(out, r.Clone())
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// CountByUser counts the user's resumes.
func (m *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.data {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Delete removes the user's resume.
func (m *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

// SetPhotoKey records the stored photo key without touching the version.
func (m *MemoryRepo) SetPhotoKey(ctx context.Context, userID, id, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	r.Personal.PhotoKey = key
	m.data[id] = r
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
