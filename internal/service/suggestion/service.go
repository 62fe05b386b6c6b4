// Package suggestion picks recipes that fill an owner's remaining daily
// budget, falling back to a synthesis collaborator, and stores one
// suggestion batch per owner and day.
package suggestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/service/recipe"
)

var tracer = otel.Tracer("github.com/heartmarshall/nutrition-engine/internal/service/suggestion")

type budgetReader interface {
	Remaining(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.DailyBudget, error)
}

type recipeRepo interface {
	List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
}

type ingredientRepo interface {
	List(ctx context.Context, filter domain.IngredientFilter) ([]domain.Ingredient, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error)
}

type recipeWriter interface {
	CreateRecipe(ctx context.Context, input recipe.CreateRecipeInput) (*recipe.CreateResult, error)
}

// batchStore must make CreateIfAbsent atomic per (owner, date). It returns the
// stored batch, which is the caller's own batch only if none existed before.
type batchStore interface {
	Get(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.SuggestionBatch, error)
	CreateIfAbsent(ctx context.Context, batch *domain.SuggestionBatch) (*domain.SuggestionBatch, error)
	Delete(ctx context.Context, ownerID uuid.UUID, date time.Time) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type synthesizer interface {
	ProposeRecipes(ctx context.Context, req domain.SynthesisRequest) ([]domain.RecipeCandidate, error)
}

// Service provides recipe suggestions.
type Service struct {
	budgets     budgetReader
	recipes     recipeRepo
	ingredients ingredientRepo
	writer      recipeWriter
	batches     batchStore
	synth       synthesizer
	tx          txManager
	policy      domain.SuggestionPolicy
	log         *slog.Logger
}

// NewService creates a new suggestion service.
func NewService(
	log *slog.Logger,
	budgets budgetReader,
	recipes recipeRepo,
	ingredients ingredientRepo,
	writer recipeWriter,
	batches batchStore,
	synth synthesizer,
	tx txManager,
	policy domain.SuggestionPolicy,
) (*Service, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suggestion policy: %w", err)
	}

	return &Service{
		budgets:     budgets,
		recipes:     recipes,
		ingredients: ingredients,
		writer:      writer,
		batches:     batches,
		synth:       synth,
		tx:          tx,
		policy:      policy,
		log:         log.With("service", "suggestion"),
	}, nil
}
