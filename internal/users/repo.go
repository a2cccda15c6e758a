package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repo persists users.
type Repo interface {
	// Upsert inserts u or refreshes its profile and last login.
	Upsert(ctx context.Context, u User) (User, error)
	Get(ctx context.Context, id string) (User, error)
}
