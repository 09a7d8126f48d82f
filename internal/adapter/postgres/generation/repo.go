// Package generation implements the append-only generation history
// repository using PostgreSQL.
package generation

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumis-app/lumis-backend/internal/adapter/postgres"
	"github.com/lumis-app/lumis-backend/internal/domain"
)

// Repo provides generation history persistence backed by PostgreSQL.
// Rows are append-only: no update or delete operations exist.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new generation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const insertGeneration = `
INSERT INTO generations (id, user_id, feature, input, output, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, feature, input, output, created_at`

// Create appends one completed generation and returns the persisted record.
// The id and timestamp are assigned here, not by the caller.
func (r *Repo) Create(ctx context.Context, rec *domain.GenerationRecord) (*domain.GenerationRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := uuid.New()
	createdAt := time.Now().UTC()

	var out domain.GenerationRecord
	err := q.QueryRow(ctx, insertGeneration, id, rec.UserID, string(rec.Feature), rec.Input, rec.Output, createdAt).
		Scan(&out.ID, &out.UserID, &out.Feature, &out.Input, &out.Output, &out.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "generation", id)
	}

	return &out, nil
}

// CountInWindow returns how many generations the user completed for the
// feature inside [start, end). Always a fresh read; quota checks must not
// see cached counts.
func (r *Repo) CountInWindow(ctx context.Context, userID uuid.UUID, feature domain.Feature, window domain.QuotaWindow) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("COUNT(*)").
		From("generations").
		Where(sq.Eq{"user_id": userID, "feature": string(feature)}).
		Where(sq.GtOrEq{"created_at": window.Start}).
		Where(sq.Lt{"created_at": window.End}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "generation", userID)
	}

	return count, nil
}

// ListByUser returns one page of the user's history, newest first.
// cursor is the id of the last record from the previous page; nil starts
// from the top. limit must already be normalized by the caller.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, cursor *uuid.UUID, limit int) (*domain.HistoryPage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := r.sb.
		Select("id", "user_id", "feature", "input", "output", "created_at").
		From("generations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit) + 1) // one extra row to detect a next page

	if cursor != nil {
		// Keyset pagination: everything strictly after the cursor row in
		// (created_at DESC, id DESC) order.
		builder = builder.Where(
			`(created_at, id) < (SELECT created_at, id FROM generations WHERE id = ? AND user_id = ?)`,
			*cursor, userID,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "generation", userID)
	}
	defer rows.Close()

	var records []domain.GenerationRecord
	for rows.Next() {
		var rec domain.GenerationRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Feature, &rec.Input, &rec.Output, &rec.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "generation", userID)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "generation", userID)
	}

	page := &domain.HistoryPage{Records: records}
	if len(records) > limit {
		page.Records = records[:limit]
		last := page.Records[limit-1].ID
		page.NextCursor = &last
	}

	return page, nil
}
