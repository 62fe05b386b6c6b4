package recipe

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockRecipeRepo struct {
	GetByIDsFunc     func(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
	CreateFunc       func(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	UpdateTotalsFunc func(ctx context.Context, recipeID uuid.UUID, totals domain.MacroVector) error
}

func (m *mockRecipeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error) {
	if m.GetByIDsFunc == nil {
		return nil, nil
	}
	return m.GetByIDsFunc(ctx, ids)
}

func (m *mockRecipeRepo) Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	return m.CreateFunc(ctx, recipe)
}

func (m *mockRecipeRepo) UpdateTotals(ctx context.Context, recipeID uuid.UUID, totals domain.MacroVector) error {
	return m.UpdateTotalsFunc(ctx, recipeID, totals)
}

type mockIngredientRepo struct {
	GetByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error)
}

func (m *mockIngredientRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error) {
	return m.GetByIDsFunc(ctx, ids)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func ingredientRepoWith(ings ...domain.Ingredient) *mockIngredientRepo {
	return &mockIngredientRepo{
		GetByIDsFunc: func(_ context.Context, ids []uuid.UUID) ([]domain.Ingredient, error) {
			var out []domain.Ingredient
			for _, id := range ids {
				for _, ing := range ings {
					if ing.ID == id {
						out = append(out, ing)
					}
				}
			}
			return out, nil
		},
	}
}

func echoCreate(t *testing.T) func(ctx context.Context, r *domain.Recipe) (*domain.Recipe, error) {
	t.Helper()
	return func(_ context.Context, r *domain.Recipe) (*domain.Recipe, error) {
		saved := *r
		saved.ID = uuid.New()
		saved.CreatedAt = time.Now()
		return &saved, nil
	}
}

func newTestService(recipes *mockRecipeRepo, ingredients *mockIngredientRepo) *Service {
	return NewService(slog.Default(), recipes, ingredients, &mockTxManager{})
}

// ---------------------------------------------------------------------------
// CreateRecipe
// ---------------------------------------------------------------------------

func TestService_CreateRecipe_ComputesTotals(t *testing.T) {
	t.Parallel()

	chicken := *chickenBreast()
	repo := &mockRecipeRepo{CreateFunc: echoCreate(t)}
	svc := newTestService(repo, ingredientRepoWith(chicken))

	res, err := svc.CreateRecipe(context.Background(), CreateRecipeInput{
		Name:      "  Grilled chicken ",
		Servings:  2,
		Lines:     []domain.RecipeLine{{RefID: chicken.ID, Amount: 200, Unit: "g"}},
		CreatorID: uuid.New(),
		Source:    domain.RecipeSourceUser,
	})
	require.NoError(t, err)

	assert.Equal(t, "Grilled chicken", res.Recipe.Name)
	assert.Equal(t, domain.MacroVector{Calories: 330, Protein: 62, Fat: 7.2}, res.Recipe.TotalMacros)
	assert.Empty(t, res.Diagnostics)
}

func TestService_CreateRecipe_TolerantSkipsMissing(t *testing.T) {
	t.Parallel()

	chicken := *chickenBreast()
	missing := uuid.New()
	repo := &mockRecipeRepo{CreateFunc: echoCreate(t)}
	svc := newTestService(repo, ingredientRepoWith(chicken))

	res, err := svc.CreateRecipe(context.Background(), CreateRecipeInput{
		Name:     "Chicken and mystery",
		Servings: 1,
		Lines: []domain.RecipeLine{
			{RefID: chicken.ID, Amount: 100, Unit: "g"},
			{RefID: missing, Amount: 30, Unit: "g"},
		},
		CreatorID: uuid.New(),
		Source:    domain.RecipeSourceUser,
	})
	require.NoError(t, err)

	assert.Equal(t, chickenMacros, res.Recipe.TotalMacros)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, missing, res.Diagnostics[0].RefID)
}

func TestService_CreateRecipe_StrictRejectsMissing(t *testing.T) {
	t.Parallel()

	chicken := *chickenBreast()
	repo := &mockRecipeRepo{
		CreateFunc: func(context.Context, *domain.Recipe) (*domain.Recipe, error) {
			t.Fatal("Create must not be called for rejected recipe")
			return nil, nil
		},
	}
	svc := newTestService(repo, ingredientRepoWith(chicken))

	_, err := svc.CreateRecipe(context.Background(), CreateRecipeInput{
		Name:     "Invented",
		Servings: 1,
		Lines: []domain.RecipeLine{
			{RefID: chicken.ID, Amount: 100, Unit: "g"},
			{RefID: uuid.New(), Amount: 30, Unit: "g"},
		},
		CreatorID:       uuid.New(),
		Source:          domain.RecipeSourceSynthesized,
		RequireResolved: true,
	})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "lines[1].ref_id", ve.Errors[0].Field)
}

func TestService_CreateRecipe_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRecipeRepo{}, ingredientRepoWith())

	_, err := svc.CreateRecipe(context.Background(), CreateRecipeInput{
		Name:     " ",
		Servings: 0,
		Lines:    []domain.RecipeLine{{RefID: uuid.New(), Amount: -1}},
		Source:   domain.RecipeSource("BOGUS"),
	})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 5)
}

func TestService_CreateRecipe_NonFiniteAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
	}{
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chicken := *chickenBreast()
			repo := &mockRecipeRepo{
				CreateFunc: func(context.Context, *domain.Recipe) (*domain.Recipe, error) {
					t.Fatal("Create must not be called")
					return nil, nil
				},
			}
			svc := newTestService(repo, ingredientRepoWith(chicken))

			_, err := svc.CreateRecipe(context.Background(), CreateRecipeInput{
				Name:      "Chicken",
				Servings:  1,
				Lines:     []domain.RecipeLine{{RefID: chicken.ID, Amount: tt.amount, Unit: "g"}},
				CreatorID: uuid.New(),
				Source:    domain.RecipeSourceUser,
			})

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Errors, 1)
			assert.Equal(t, "lines[0].amount", ve.Errors[0].Field)
		})
	}
}

func TestService_CreateRecipe_RepoError(t *testing.T) {
	t.Parallel()

	chicken := *chickenBreast()
	boom := errors.New("insert failed")
	repo := &mockRecipeRepo{
		CreateFunc: func(context.Context, *domain.Recipe) (*domain.Recipe, error) { return nil, boom },
	}
	svc := newTestService(repo, ingredientRepoWith(chicken))

	_, err := svc.CreateRecipe(context.Background(), CreateRecipeInput{
		Name:      "Chicken",
		Servings:  1,
		Lines:     []domain.RecipeLine{{RefID: chicken.ID, Amount: 100}},
		CreatorID: uuid.New(),
		Source:    domain.RecipeSourceUser,
	})
	assert.ErrorIs(t, err, boom)
}

// ---------------------------------------------------------------------------
// Recompute
// ---------------------------------------------------------------------------

func TestService_Recompute_RefreshesStaleTotals(t *testing.T) {
	t.Parallel()

	chicken := *chickenBreast()
	stored := domain.Recipe{
		ID:          uuid.New(),
		Name:        "Chicken",
		Servings:    1,
		Lines:       []domain.RecipeLine{{RefID: chicken.ID, Amount: 200, Unit: "g"}},
		TotalMacros: domain.MacroVector{Calories: 300},
	}

	var updated domain.MacroVector
	repo := &mockRecipeRepo{
		GetByIDsFunc: func(context.Context, []uuid.UUID) ([]domain.Recipe, error) {
			return []domain.Recipe{stored}, nil
		},
		UpdateTotalsFunc: func(_ context.Context, id uuid.UUID, totals domain.MacroVector) error {
			assert.Equal(t, stored.ID, id)
			updated = totals
			return nil
		},
	}
	svc := newTestService(repo, ingredientRepoWith(chicken))

	res, err := svc.Recompute(context.Background(), stored.ID)
	require.NoError(t, err)

	want := domain.MacroVector{Calories: 330, Protein: 62, Fat: 7.2}
	assert.True(t, res.Changed)
	assert.Equal(t, want, updated)
	assert.Equal(t, want, res.Recipe.TotalMacros)
}

func TestService_Recompute_FreshTotalsNotRewritten(t *testing.T) {
	t.Parallel()

	chicken := *chickenBreast()
	stored := domain.Recipe{
		ID:          uuid.New(),
		Servings:    1,
		Lines:       []domain.RecipeLine{{RefID: chicken.ID, Amount: 100, Unit: "g"}},
		TotalMacros: chickenMacros,
	}
	repo := &mockRecipeRepo{
		GetByIDsFunc: func(context.Context, []uuid.UUID) ([]domain.Recipe, error) {
			return []domain.Recipe{stored}, nil
		},
		UpdateTotalsFunc: func(context.Context, uuid.UUID, domain.MacroVector) error {
			t.Fatal("UpdateTotals must not be called")
			return nil
		},
	}
	svc := newTestService(repo, ingredientRepoWith(chicken))

	res, err := svc.Recompute(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestService_Recompute_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRecipeRepo{}, ingredientRepoWith())

	_, err := svc.Recompute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
