// Package mealplan implements the meal plan repository using PostgreSQL.
package mealplan

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Repo provides meal plan persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new meal plan repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listByRangeSQL = `
SELECT id, owner_id, planned_on, recipe_id, servings, meal_time
FROM meal_plan_entries
WHERE owner_id = $1 AND planned_on BETWEEN $2 AND $3
ORDER BY planned_on, id`

// ListByRange returns the owner's plan entries within the inclusive range,
// ordered by date then id.
func (r *Repo) ListByRange(ctx context.Context, ownerID uuid.UUID, dr domain.DateRange) ([]domain.MealPlanEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByRangeSQL, ownerID, dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("list meal plan entries: %w", err)
	}
	defer rows.Close()

	result := make([]domain.MealPlanEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal plan entries: %w", err)
	}
	return result, nil
}

// CreateBatch schedules entries in one round trip. Zero ids are generated.
func (r *Repo) CreateBatch(ctx context.Context, entries []domain.MealPlanEntry) error {
	if len(entries) == 0 {
		return nil
	}

	insert := postgres.Builder().
		Insert("meal_plan_entries").
		Columns("id", "owner_id", "planned_on", "recipe_id", "servings", "meal_time")
	for _, e := range entries {
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		insert = insert.Values(id, e.OwnerID, domain.Day(e.Date), e.RecipeID, e.Servings, string(e.MealTime))
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert meal plan entries: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "meal_plan_entry", entries[0].ID)
	}
	return nil
}

func scanEntry(row pgx.Row) (domain.MealPlanEntry, error) {
	var (
		e        domain.MealPlanEntry
		mealTime string
	)
	err := row.Scan(&e.ID, &e.OwnerID, &e.Date, &e.RecipeID, &e.Servings, &mealTime)
	e.MealTime = domain.MealTime(mealTime)
	return e, err
}
