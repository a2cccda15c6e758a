package resumes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/subscriptions"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type memStore struct {
	mu   sync.Mutex
	objs map[string][]byte
	ops  []string
	seq  int
}

func newMemStore() *memStore {
	return &memStore{objs: make(map[string][]byte)}
}

func (s *memStore) Put(ctx context.Context, owner, fileName string, r io.Reader) (object.Object, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return object.Object{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("%s/%d_%s", owner, s.seq, fileName)
	s.objs[key] = b
	s.ops = append(s.ops, "put:"+key)
	return object.Object{Key: key, Size: int64(len(b)), ContentType: http.DetectContentType(b)}, nil
}

func (s *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objs[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	s.ops = append(s.ops, "delete:"+key)
	return nil
}

type fixedTiers map[string]subscriptions.Level

func (f fixedTiers) LevelFor(ctx context.Context, userID string) (subscriptions.Level, error) {
	if l, ok := f[userID]; ok {
		return l, nil
	}
	return subscriptions.LevelFree, nil
}

func newTestService(tiers fixedTiers) (*Service, *MemoryRepo, *memStore) {
	repo := NewMemoryRepo()
	store := newMemStore()
	clock := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	svc := &Service{
		Repo:  repo,
		Store: store,
		Tiers: tiers,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	return svc, repo, store
}

func datePtr(y int, m time.Month, d int) *Date {
	v := NewDate(y, m, d)
	return &v
}
