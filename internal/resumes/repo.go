package resumes

import "context"

// Repo persists resumes with their ordered child lists.
type Repo interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	// Update replaces r's fields and child lists. A non-zero expectedVersion must
	// match the stored version or ErrVersionConflict is returned.
	Update(ctx context.Context, r Resume, expectedVersion int) (Resume, error)
	Get(ctx context.Context, userID, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error
	SetPhotoKey(ctx context.Context, userID, id, key string) error
}
