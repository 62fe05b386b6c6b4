// Package recipe implements the recipe catalog repository using PostgreSQL.
// Recipes are stored with their cached totals; lines live in recipe_lines
// ordered by position.
package recipe

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
	"id", "name", "description", "servings",
	"calories", "protein", "carbs", "fat", "fiber",
	"instructions", "creator_id", "source", "created_at", "updated_at",
}

// Repo provides recipe persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new recipe repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDsSQL = `
SELECT id, name, description, servings,
       calories, protein, carbs, fat, fiber,
       instructions, creator_id, source, created_at, updated_at
FROM recipes
WHERE id = ANY($1::uuid[])
ORDER BY id`

// GetByID returns a recipe with its lines.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	recipes, err := r.GetByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	return &recipes[0], nil
}

// GetByIDs returns the recipes with the given ids, lines included. Unknown
// ids are skipped; the result is ordered by id.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return []domain.Recipe{}, nil
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get recipes by ids: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// List returns catalog recipes ordered by name, lines included.
func (r *Repo) List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	query := postgres.Builder().
		Select(columns...).
		From("recipes").
		OrderBy("name ASC", "id ASC").
		Limit(uint64(limit))

	if filter.CreatorID != nil {
		query = query.Where(squirrel.Eq{"creator_id": *filter.CreatorID})
	}
	if filter.Source != nil {
		query = query.Where(squirrel.Eq{"source": string(*filter.Source)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list recipes query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

const linesByRecipeIDsSQL = `
SELECT recipe_id, ref_id, is_sub_recipe, amount, unit
FROM recipe_lines
WHERE recipe_id = ANY($1::uuid[])
ORDER BY recipe_id, position`

// attachLines loads lines for all recipes in one query.
func (r *Repo) attachLines(ctx context.Context, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Lines = []domain.RecipeLine{}
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, linesByRecipeIDsSQL, ids)
	if err != nil {
		return fmt.Errorf("get recipe lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID uuid.UUID
			line     domain.RecipeLine
		)
		if err := rows.Scan(&recipeID, &line.RefID, &line.IsSubRecipe, &line.Amount, &line.Unit); err != nil {
			return fmt.Errorf("scan recipe line: %w", err)
		}
		i := index[recipeID]
		recipes[i].Lines = append(recipes[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate recipe lines: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO recipes (id, name, description, servings,
                     calories, protein, carbs, fat, fiber,
                     instructions, creator_id, source, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
RETURNING id, name, description, servings,
          calories, protein, carbs, fat, fiber,
          instructions, creator_id, source, created_at, updated_at`

// Create inserts the recipe and its lines. Callers wanting atomicity run it
// inside TxManager.RunInTx.
func (r *Repo) Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	id := recipe.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := recipe.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	instructions := recipe.Instructions
	if instructions == nil {
		instructions = []string{}
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	saved, err := scanRecipe(q.QueryRow(ctx, createSQL,
		id, recipe.Name, recipe.Description, recipe.Servings,
		recipe.TotalMacros.Calories, recipe.TotalMacros.Protein, recipe.TotalMacros.Carbs,
		recipe.TotalMacros.Fat, recipe.TotalMacros.Fiber,
		instructions, recipe.CreatorID, string(recipe.Source), createdAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "recipe", id)
	}

	if len(recipe.Lines) > 0 {
		insert := postgres.Builder().
			Insert("recipe_lines").
			Columns("recipe_id", "position", "ref_id", "is_sub_recipe", "amount", "unit")
		for pos, l := range recipe.Lines {
			insert = insert.Values(id, pos, l.RefID, l.IsSubRecipe, l.Amount, l.Unit)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert recipe lines: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return nil, postgres.MapError(err, "recipe", id)
		}
	}

	saved.Lines = append([]domain.RecipeLine{}, recipe.Lines...)
	return &saved, nil
}

const updateTotalsSQL = `
UPDATE recipes
SET calories = $2, protein = $3, carbs = $4, fat = $5, fiber = $6, updated_at = now()
WHERE id = $1`

// UpdateTotals rewrites the cached totals of a recipe.
// Returns domain.ErrNotFound if the recipe does not exist.
func (r *Repo) UpdateTotals(ctx context.Context, recipeID uuid.UUID, totals domain.MacroVector) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, updateTotalsSQL,
		recipeID, totals.Calories, totals.Protein, totals.Carbs, totals.Fat, totals.Fiber,
	)
	if err != nil {
		return postgres.MapError(err, "recipe", recipeID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipe %s: %w", recipeID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanRecipe(row pgx.Row) (domain.Recipe, error) {
	var (
		rec    domain.Recipe
		source string
	)
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Description, &rec.Servings,
		&rec.TotalMacros.Calories, &rec.TotalMacros.Protein, &rec.TotalMacros.Carbs,
		&rec.TotalMacros.Fat, &rec.TotalMacros.Fiber,
		&rec.Instructions, &rec.CreatorID, &source, &rec.CreatedAt, &rec.UpdatedAt,
	)
	rec.Source = domain.RecipeSource(source)
	return rec, err
}

func collectRecipes(rows pgx.Rows) ([]domain.Recipe, error) {
	defer rows.Close()

	result := make([]domain.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return result, nil
}
