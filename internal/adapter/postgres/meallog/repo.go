// Package meallog implements the meal log repository using PostgreSQL.
package meallog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Repo provides meal log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new meal log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listByRangeSQL = `
SELECT id, owner_id, logged_on, name, calories, protein, carbs, fat, fiber, created_at
FROM meal_logs
WHERE owner_id = $1 AND logged_on BETWEEN $2 AND $3
ORDER BY logged_on, created_at, id`

// ListByRange returns the owner's entries whose date lies in the inclusive range.
func (r *Repo) ListByRange(ctx context.Context, ownerID uuid.UUID, dr domain.DateRange) ([]domain.MealLogEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByRangeSQL, ownerID, dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("list meal logs: %w", err)
	}
	defer rows.Close()

	result := make([]domain.MealLogEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal log: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal logs: %w", err)
	}
	return result, nil
}

const createSQL = `
INSERT INTO meal_logs (id, owner_id, logged_on, name, calories, protein, carbs, fat, fiber, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, owner_id, logged_on, name, calories, protein, carbs, fat, fiber, created_at`

// Create logs a meal. The date is stored as a calendar date.
func (r *Repo) Create(ctx context.Context, entry *domain.MealLogEntry) (*domain.MealLogEntry, error) {
	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	m := entry.TotalMacros
	q := postgres.QuerierFromCtx(ctx, r.pool)

	saved, err := scanEntry(q.QueryRow(ctx, createSQL,
		id, entry.OwnerID, domain.Day(entry.Date), entry.Name,
		m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber, createdAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "meal_log", id)
	}
	return &saved, nil
}

func scanEntry(row pgx.Row) (domain.MealLogEntry, error) {
	var e domain.MealLogEntry
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Date, &e.Name,
		&e.TotalMacros.Calories, &e.TotalMacros.Protein, &e.TotalMacros.Carbs,
		&e.TotalMacros.Fat, &e.TotalMacros.Fiber, &e.CreatedAt,
	)
	return e, err
}
