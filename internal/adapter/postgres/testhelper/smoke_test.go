package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	ing := SeedIngredient(t, pool, "produce", domain.MacroVector{Calories: 52, Carbs: 14, Fiber: 2.4})

	// Verify the ingredient exists in DB via SELECT.
	var name string
	err := pool.QueryRow(
		context.Background(),
		`SELECT name FROM ingredients WHERE id = $1`,
		ing.ID,
	).Scan(&name)
	if err != nil {
		t.Fatalf("expected ingredient in DB, got error: %v", err)
	}

	if name != ing.Name {
		t.Fatalf("expected name %q, got %q", ing.Name, name)
	}
}
