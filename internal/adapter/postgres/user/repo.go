// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumis-app/lumis-backend/internal/adapter/postgres"
	"github.com/lumis-app/lumis-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL. Rows are provisioned
// by the identity collaborator; the orchestration core only reads them.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectUser = `
SELECT id, email, is_premium, created_at, updated_at
FROM users
WHERE id = $1`

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, selectUser, id).
		Scan(&u.ID, &u.Email, &u.IsPremium, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &u, nil
}

const insertUser = `
INSERT INTO users (id, email, is_premium, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, is_premium, created_at, updated_at`

// Create inserts a new user and returns the persisted domain.User.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	var out domain.User
	err := q.QueryRow(ctx, insertUser, u.ID, u.Email, u.IsPremium, now, now).
		Scan(&out.ID, &out.Email, &out.IsPremium, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	return &out, nil
}

const updatePremium = `
UPDATE users
SET is_premium = $2, updated_at = now()
WHERE id = $1
RETURNING id, email, is_premium, created_at, updated_at`

// SetPremium flips the premium flag (driven by the billing collaborator).
func (r *Repo) SetPremium(ctx context.Context, id uuid.UUID, premium bool) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var out domain.User
	err := q.QueryRow(ctx, updatePremium, id, premium).
		Scan(&out.ID, &out.Email, &out.IsPremium, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &out, nil
}
