// Package goal implements the daily goal repository using PostgreSQL.
package goal

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

// Repo provides goal persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new goal repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getActiveSQL = `
SELECT id, owner_id, calories, protein, carbs, fat, fiber, is_active, created_at
FROM goals
WHERE owner_id = $1 AND is_active`

// GetActive returns the owner's active goal.
// Returns domain.ErrNotFound if the owner has none.
func (r *Repo) GetActive(ctx context.Context, ownerID uuid.UUID) (*domain.Goal, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	g, err := scanGoal(q.QueryRow(ctx, getActiveSQL, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("active goal for owner %s: %w", ownerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get active goal: %w", err)
	}
	return &g, nil
}

const deactivateSQL = `UPDATE goals SET is_active = false WHERE owner_id = $1 AND is_active`

const createSQL = `
INSERT INTO goals (id, owner_id, calories, protein, carbs, fat, fiber, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
RETURNING id, owner_id, calories, protein, carbs, fat, fiber, is_active, created_at`

// SetActive stores a new active goal for the owner and deactivates the
// previous one. Run it inside TxManager.RunInTx to make the switch atomic.
func (r *Repo) SetActive(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	id := goal.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := goal.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deactivateSQL, goal.OwnerID); err != nil {
		return nil, fmt.Errorf("deactivate goals: %w", err)
	}

	t := goal.Target
	saved, err := scanGoal(q.QueryRow(ctx, createSQL,
		id, goal.OwnerID, t.Calories, t.Protein, t.Carbs, t.Fat, t.Fiber, createdAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "goal", id)
	}
	return &saved, nil
}

func scanGoal(row pgx.Row) (domain.Goal, error) {
	var g domain.Goal
	err := row.Scan(
		&g.ID, &g.OwnerID,
		&g.Target.Calories, &g.Target.Protein, &g.Target.Carbs, &g.Target.Fat, &g.Target.Fiber,
		&g.IsActive, &g.CreatedAt,
	)
	return g, err
}
