package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedIngredient inserts a catalog ingredient with a 100 g serving.
func SeedIngredient(t *testing.T, pool *pgxpool.Pool, category string, macros domain.MacroVector) domain.Ingredient {
	t.Helper()

	ing := domain.Ingredient{
		ID:          uuid.New(),
		Name:        "ingredient-" + uniqueSuffix(),
		ServingSize: 100,
		ServingUnit: "g",
		Category:    category,
		Macros:      macros,
		Verified:    true,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO ingredients (id, name, serving_size, serving_unit, category,
		                          calories, protein, carbs, fat, fiber, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ing.ID, ing.Name, ing.ServingSize, ing.ServingUnit, ing.Category,
		macros.Calories, macros.Protein, macros.Carbs, macros.Fat, macros.Fiber,
		ing.Verified, ing.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedIngredient: %v", err)
	}

	return ing
}

// SeedRecipe inserts a user recipe with the given lines and cached totals.
func SeedRecipe(t *testing.T, pool *pgxpool.Pool, creatorID uuid.UUID, servings int, totals domain.MacroVector, lines ...domain.RecipeLine) domain.Recipe {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := domain.Recipe{
		ID:           uuid.New(),
		Name:         "recipe-" + uniqueSuffix(),
		Servings:     servings,
		Lines:        lines,
		TotalMacros:  totals,
		Instructions: []string{"cook"},
		CreatorID:    creatorID,
		Source:       domain.RecipeSourceUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO recipes (id, name, servings, calories, protein, carbs, fat, fiber,
		                      instructions, creator_id, source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		rec.ID, rec.Name, rec.Servings,
		totals.Calories, totals.Protein, totals.Carbs, totals.Fat, totals.Fiber,
		rec.Instructions, rec.CreatorID, string(rec.Source), now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRecipe insert recipe: %v", err)
	}

	for pos, l := range lines {
		_, err := pool.Exec(ctx,
			`INSERT INTO recipe_lines (recipe_id, position, ref_id, is_sub_recipe, amount, unit)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.ID, pos, l.RefID, l.IsSubRecipe, l.Amount, l.Unit,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedRecipe insert line %d: %v", pos, err)
		}
	}

	return rec
}

// SeedGoal inserts an active goal for a fresh owner and returns it.
func SeedGoal(t *testing.T, pool *pgxpool.Pool, target domain.MacroVector) domain.Goal {
	t.Helper()

	g := domain.Goal{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Target:    target,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO goals (id, owner_id, calories, protein, carbs, fat, fiber, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)`,
		g.ID, g.OwnerID, target.Calories, target.Protein, target.Carbs, target.Fat, target.Fiber, g.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedGoal: %v", err)
	}

	return g
}

// SeedMealLog logs a meal for the owner on the given date.
func SeedMealLog(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, date time.Time, macros domain.MacroVector) domain.MealLogEntry {
	t.Helper()

	e := domain.MealLogEntry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Date:        domain.Day(date),
		Name:        "meal-" + uniqueSuffix(),
		TotalMacros: macros,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO meal_logs (id, owner_id, logged_on, name, calories, protein, carbs, fat, fiber, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.OwnerID, e.Date, e.Name,
		macros.Calories, macros.Protein, macros.Carbs, macros.Fat, macros.Fiber, e.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMealLog: %v", err)
	}

	return e
}

// SeedPlanEntry schedules servings of a recipe for the owner on the given date.
func SeedPlanEntry(t *testing.T, pool *pgxpool.Pool, ownerID, recipeID uuid.UUID, date time.Time, servings float64) domain.MealPlanEntry {
	t.Helper()

	e := domain.MealPlanEntry{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Date:     domain.Day(date),
		RecipeID: recipeID,
		Servings: servings,
		MealTime: domain.MealTimeDinner,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO meal_plan_entries (id, owner_id, planned_on, recipe_id, servings, meal_time)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.OwnerID, e.Date, e.RecipeID, e.Servings, string(e.MealTime),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPlanEntry: %v", err)
	}

	return e
}
