package users

import (
	"context"
	"errors"
	"strings"

	"resume-builder/internal/shared/telemetry"
)

var ErrInvalidUser = errors.New("user id is required")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SignIn records a successful login and returns the stored user.
func (s *Service) SignIn(ctx context.Context, u User) (User, error) {
	u.ID = strings.TrimSpace(u.ID)
	u.Email = strings.TrimSpace(u.Email)
	if u.ID == "" {
		return User{}, ErrInvalidUser
	}
	out, err := s.Repo.Upsert(ctx, u)
	if err != nil {
		return User{}, err
	}
	telemetry.Info("user.signed_in", map[string]any{"user_id": out.ID})
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrInvalidUser
	}
	return s.Repo.Get(ctx, id)
}
