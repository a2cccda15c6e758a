package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, u User) (User, error) {
	const query = `
INSERT INTO users (id, email, name, picture, created_at, last_login_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  picture = EXCLUDED.picture,
  last_login_at = now()
RETURNING created_at, last_login_at`
	err := r.DB.QueryRowContext(ctx, query, u.ID, u.Email, u.Name, u.Picture).
		Scan(&u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (User, error) {
	const query = `
SELECT id, email, name, picture, created_at, last_login_at
FROM users
WHERE id = $1`
	var u User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt, &u.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
