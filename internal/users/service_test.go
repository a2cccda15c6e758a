package users

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInKeepsCreatedAt(t *testing.T) {
	repo := NewMemoryRepo()
	first := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	svc := NewService(repo)

	u, err := svc.SignIn(t.Context(), User{ID: " google:1 ", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "google:1", u.ID)

	repo.now = func() time.Time { return first.Add(48 * time.Hour) }
	u, err = svc.SignIn(t.Context(), User{ID: "google:1", Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first, u.CreatedAt)
	assert.Equal(t, first.Add(48*time.Hour), u.LastLoginAt)

	got, err := svc.Get(t.Context(), "google:1")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)
}

func TestSignInRequiresID(t *testing.T) {
	_, err := NewService(NewMemoryRepo()).SignIn(t.Context(), User{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestGetMissing(t *testing.T) {
	_, err := NewService(NewMemoryRepo()).Get(t.Context(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoUpsertAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := &PGRepo{DB: db}
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("google:1", "a@example.com", "Ada", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "last_login_at"}).AddRow(now, now))
	u, err := repo.Upsert(t.Context(), User{ID: "google:1", Email: "a@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, now, u.CreatedAt)

	mock.ExpectQuery("SELECT id, email, name, picture").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "picture", "created_at", "last_login_at"}))
	_, err = repo.Get(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
