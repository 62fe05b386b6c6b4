// Package ingredient implements the ingredient catalog repository using PostgreSQL.
package ingredient

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

const (
	defaultLimit = 500
	maxLimit     = 5000
)

var columns = []string{
	"id", "name", "serving_size", "serving_unit", "category",
	"calories", "protein", "carbs", "fat", "fiber", "verified", "created_at",
}

// Repo provides ingredient persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ingredient repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDSQL = `
SELECT id, name, serving_size, serving_unit, category,
       calories, protein, carbs, fat, fiber, verified, created_at
FROM ingredients
WHERE id = $1`

// GetByID returns an ingredient by primary key.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	ing, err := scanIngredient(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "ingredient", id)
	}
	return &ing, nil
}

const getByIDsSQL = `
SELECT id, name, serving_size, serving_unit, category,
       calories, protein, carbs, fat, fiber, verified, created_at
FROM ingredients
WHERE id = ANY($1::uuid[])
ORDER BY id`

// GetByIDs returns the ingredients with the given ids. Unknown ids are
// skipped; the result is ordered by id.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error) {
	if len(ids) == 0 {
		return []domain.Ingredient{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get ingredients by ids: %w", err)
	}
	return collectIngredients(rows)
}

// List returns catalog ingredients ordered by name, narrowed by filter.
func (r *Repo) List(ctx context.Context, filter domain.IngredientFilter) ([]domain.Ingredient, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	query := postgres.Builder().
		Select(columns...).
		From("ingredients").
		OrderBy("name ASC", "id ASC").
		Limit(uint64(limit))

	if filter.VerifiedOnly {
		query = query.Where(squirrel.Eq{"verified": true})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ingredients query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return collectIngredients(rows)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO ingredients (id, name, serving_size, serving_unit, category,
                         calories, protein, carbs, fat, fiber, verified, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, name, serving_size, serving_unit, category,
          calories, protein, carbs, fat, fiber, verified, created_at`

// Create inserts an ingredient. A zero ID or CreatedAt is filled in.
func (r *Repo) Create(ctx context.Context, ing *domain.Ingredient) (*domain.Ingredient, error) {
	row := withDefaults(*ing)

	q := postgres.QuerierFromCtx(ctx, r.pool)
	created, err := scanIngredient(q.QueryRow(ctx, createSQL, insertArgs(row)...))
	if err != nil {
		return nil, postgres.MapError(err, "ingredient", row.ID)
	}
	return &created, nil
}

const upsertSQL = `
INSERT INTO ingredients (id, name, serving_size, serving_unit, category,
                         calories, protein, carbs, fat, fiber, verified, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
    name         = EXCLUDED.name,
    serving_size = EXCLUDED.serving_size,
    serving_unit = EXCLUDED.serving_unit,
    category     = EXCLUDED.category,
    calories     = EXCLUDED.calories,
    protein      = EXCLUDED.protein,
    carbs        = EXCLUDED.carbs,
    fat          = EXCLUDED.fat,
    fiber        = EXCLUDED.fiber,
    verified     = EXCLUDED.verified`

// BulkUpsert inserts or updates ingredients by id using pgx.Batch.
// Returns the number of affected rows.
func (r *Repo) BulkUpsert(ctx context.Context, ingredients []domain.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, ing := range ingredients {
		batch.Queue(upsertSQL, insertArgs(withDefaults(ing))...)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, postgres.MapError(err, "ingredient", ingredients[i].ID)
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func withDefaults(ing domain.Ingredient) domain.Ingredient {
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	if ing.CreatedAt.IsZero() {
		ing.CreatedAt = time.Now().UTC()
	}
	if ing.Category == "" {
		ing.Category = domain.DefaultCategory
	}
	return ing
}

func insertArgs(ing domain.Ingredient) []any {
	return []any{
		ing.ID, ing.Name, ing.ServingSize, ing.ServingUnit, ing.Category,
		ing.Macros.Calories, ing.Macros.Protein, ing.Macros.Carbs, ing.Macros.Fat, ing.Macros.Fiber,
		ing.Verified, ing.CreatedAt,
	}
}

func scanIngredient(row pgx.Row) (domain.Ingredient, error) {
	var ing domain.Ingredient
	err := row.Scan(
		&ing.ID, &ing.Name, &ing.ServingSize, &ing.ServingUnit, &ing.Category,
		&ing.Macros.Calories, &ing.Macros.Protein, &ing.Macros.Carbs, &ing.Macros.Fat, &ing.Macros.Fiber,
		&ing.Verified, &ing.CreatedAt,
	)
	return ing, err
}

func collectIngredients(rows pgx.Rows) ([]domain.Ingredient, error) {
	defer rows.Close()

	result := make([]domain.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		result = append(result, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return result, nil
}
