// Package suggestion implements the suggestion batch store using PostgreSQL.
// A batch is unique per (owner_id, batch_date); its recipe ids are kept in
// suggestion_batch_recipes in presentation order.
package suggestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Repo provides suggestion batch persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new suggestion batch repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT b.id, b.owner_id, b.batch_date, b.created_at,
       COALESCE(array_agg(r.recipe_id ORDER BY r.position) FILTER (WHERE r.recipe_id IS NOT NULL), '{}')
FROM suggestion_batches b
LEFT JOIN suggestion_batch_recipes r ON r.batch_id = b.id
WHERE b.owner_id = $1 AND b.batch_date = $2
GROUP BY b.id`

// Get returns the owner's batch for the calendar date.
// Returns domain.ErrNotFound if none is stored.
func (r *Repo) Get(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.SuggestionBatch, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var b domain.SuggestionBatch
	err := q.QueryRow(ctx, getSQL, ownerID, domain.Day(date)).
		Scan(&b.ID, &b.OwnerID, &b.Date, &b.CreatedAt, &b.RecipeIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("suggestion_batch %s/%s: %w",
				ownerID, domain.Day(date).Format(domain.DateLayout), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get suggestion batch: %w", err)
	}
	return &b, nil
}

// createIfAbsentSQL inserts the batch and its recipe rows in one statement,
// so a batch is never visible without its recipes.
const createIfAbsentSQL = `
WITH ins AS (
    INSERT INTO suggestion_batches (id, owner_id, batch_date, created_at)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT ON CONSTRAINT ux_suggestion_batches_owner_date DO NOTHING
    RETURNING id
), lines AS (
    INSERT INTO suggestion_batch_recipes (batch_id, position, recipe_id)
    SELECT ins.id, r.ord - 1, r.recipe_id
    FROM ins, unnest($5::uuid[]) WITH ORDINALITY AS r(recipe_id, ord)
)
SELECT count(*) FROM ins`

// CreateIfAbsent stores batch unless one already exists for its owner and
// date, and returns whichever batch is stored afterwards. Concurrent callers
// all observe the same winner.
func (r *Repo) CreateIfAbsent(ctx context.Context, batch *domain.SuggestionBatch) (*domain.SuggestionBatch, error) {
	id := batch.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := batch.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	ids := batch.RecipeIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	day := domain.Day(batch.Date)

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var inserted int64
	if err := q.QueryRow(ctx, createIfAbsentSQL, id, batch.OwnerID, day, createdAt, ids).Scan(&inserted); err != nil {
		return nil, postgres.MapError(err, "suggestion_batch", id)
	}

	if inserted == 0 {
		return r.Get(ctx, batch.OwnerID, day)
	}

	return &domain.SuggestionBatch{
		ID:        id,
		OwnerID:   batch.OwnerID,
		Date:      day,
		RecipeIDs: append([]uuid.UUID{}, ids...),
		CreatedAt: createdAt,
	}, nil
}

const deleteSQL = `DELETE FROM suggestion_batches WHERE owner_id = $1 AND batch_date = $2`

// Delete removes the owner's batch for the date.
// Returns domain.ErrNotFound if none was stored.
func (r *Repo) Delete(ctx context.Context, ownerID uuid.UUID, date time.Time) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deleteSQL, ownerID, domain.Day(date))
	if err != nil {
		return fmt.Errorf("delete suggestion batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("suggestion_batch %s/%s: %w",
			ownerID, domain.Day(date).Format(domain.DateLayout), domain.ErrNotFound)
	}
	return nil
}

const deleteOlderThanSQL = `DELETE FROM suggestion_batches WHERE batch_date < $1`

// DeleteOlderThan removes every batch dated before the given day and returns
// the number of removed batches.
func (r *Repo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deleteOlderThanSQL, domain.Day(before))
	if err != nil {
		return 0, fmt.Errorf("delete old suggestion batches: %w", err)
	}
	return tag.RowsAffected(), nil
}
