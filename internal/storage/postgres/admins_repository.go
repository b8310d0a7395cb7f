package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samiti-foundation/server/internal/domain/admins"
)

var _ admins.Repository = (*AdminRepository)(nil)

type AdminRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *AdminRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*admins.Admin, error) {
	var admin admins.Admin
	err := r.queryer().QueryRow(ctx, `
SELECT id, username, password_hash, created_at
  FROM admins
 WHERE username = $1
`, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admins.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*admins.Admin, error) {
	var admin admins.Admin
	err := r.queryer().QueryRow(ctx, `
SELECT id, username, password_hash, created_at
  FROM admins
 WHERE id = $1
`, id).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admins.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by id: %w", err)
	}
	return &admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, username, passwordHash string) (*admins.Admin, error) {
	var admin admins.Admin
	err := r.queryer().QueryRow(ctx, `
INSERT INTO admins (username, password_hash)
VALUES ($1, $2)
RETURNING id, username, password_hash, created_at
`, username, passwordHash).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, admins.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &admin, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.queryer().QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}
