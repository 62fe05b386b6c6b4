package recipe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/recipe"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*recipe.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return recipe.New(pool), pool
}

// ---------------------------------------------------------------------------
// Create + GetByID
// ---------------------------------------------------------------------------

func TestRepo_Create_WithLines(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	tx := postgres.NewTxManager(pool)

	rice := testhelper.SeedIngredient(t, pool, "pantry", domain.MacroVector{Calories: 130, Carbs: 28})
	sauce := testhelper.SeedRecipe(t, pool, uuid.New(), 4, domain.MacroVector{Calories: 200})

	in := &domain.Recipe{
		Name:     "Rice bowl",
		Servings: 2,
		Lines: []domain.RecipeLine{
			{RefID: rice.ID, Amount: 200, Unit: "g"},
			{RefID: sauce.ID, Amount: 1, Unit: "serving", IsSubRecipe: true},
		},
		TotalMacros:  domain.MacroVector{Calories: 310, Carbs: 56},
		Instructions: []string{"boil", "serve"},
		CreatorID:    uuid.New(),
		Source:       domain.RecipeSourceSynthesized,
	}

	var created *domain.Recipe
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = repo.Create(txCtx, in)
		return createErr
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Source != domain.RecipeSourceSynthesized {
		t.Errorf("Source mismatch: got %s", got.Source)
	}
	if got.TotalMacros != in.TotalMacros {
		t.Errorf("TotalMacros mismatch: got %v, want %v", got.TotalMacros, in.TotalMacros)
	}
	if len(got.Instructions) != 2 || got.Instructions[1] != "serve" {
		t.Errorf("Instructions mismatch: got %v", got.Instructions)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].RefID != rice.ID || got.Lines[0].IsSubRecipe {
		t.Errorf("line 0 mismatch: got %+v", got.Lines[0])
	}
	if got.Lines[1].RefID != sauce.ID || !got.Lines[1].IsSubRecipe {
		t.Errorf("line 1 mismatch: got %+v", got.Lines[1])
	}
}

func TestRepo_Create_InvalidServings(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Create(context.Background(), &domain.Recipe{
		Name:      "Zero",
		Servings:  0,
		CreatorID: uuid.New(),
		Source:    domain.RecipeSourceUser,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetByIDs / List
// ---------------------------------------------------------------------------

func TestRepo_GetByIDs_KeepsLinesPerRecipe(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	owner := uuid.New()
	ing := testhelper.SeedIngredient(t, pool, "produce", domain.MacroVector{Calories: 40})
	a := testhelper.SeedRecipe(t, pool, owner, 1, domain.MacroVector{Calories: 40},
		domain.RecipeLine{RefID: ing.ID, Amount: 100, Unit: "g"})
	b := testhelper.SeedRecipe(t, pool, owner, 1, domain.MacroVector{})

	got, err := repo.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByIDs: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(got))
	}
	for _, r := range got {
		switch r.ID {
		case a.ID:
			if len(r.Lines) != 1 {
				t.Errorf("recipe a: expected 1 line, got %d", len(r.Lines))
			}
		case b.ID:
			if r.Lines == nil || len(r.Lines) != 0 {
				t.Errorf("recipe b: expected empty lines, got %v", r.Lines)
			}
		}
	}
}

func TestRepo_List_FilterByCreator(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	owner := uuid.New()
	mine := testhelper.SeedRecipe(t, pool, owner, 2, domain.MacroVector{Calories: 500})
	testhelper.SeedRecipe(t, pool, uuid.New(), 2, domain.MacroVector{Calories: 500})

	got, err := repo.List(ctx, domain.RecipeFilter{CreatorID: &owner})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("expected only %s, got %v", mine.ID, got)
	}

	source := domain.RecipeSourceSynthesized
	got, err = repo.List(ctx, domain.RecipeFilter{CreatorID: &owner, Source: &source})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no synthesized recipes, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// UpdateTotals
// ---------------------------------------------------------------------------

func TestRepo_UpdateTotals(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	r := testhelper.SeedRecipe(t, pool, uuid.New(), 1, domain.MacroVector{Calories: 100})
	fresh := domain.MacroVector{Calories: 120, Protein: 8}

	if err := repo.UpdateTotals(ctx, r.ID, fresh); err != nil {
		t.Fatalf("UpdateTotals: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.TotalMacros != fresh {
		t.Errorf("TotalMacros mismatch: got %v, want %v", got.TotalMacros, fresh)
	}
}

func TestRepo_UpdateTotals_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.UpdateTotals(context.Background(), uuid.New(), domain.MacroVector{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
