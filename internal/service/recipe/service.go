// Package recipe prices recipes from their ingredient lines and writes
// recipes whose cached totals come from that calculation.
package recipe

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/catalog"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

type recipeRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
	Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	UpdateTotals(ctx context.Context, recipeID uuid.UUID, totals domain.MacroVector) error
}

type ingredientRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides recipe pricing and recipe creation.
type Service struct {
	recipes     recipeRepo
	ingredients ingredientRepo
	tx          txManager
	log         *slog.Logger
}

// NewService creates a new recipe service.
func NewService(
	log *slog.Logger,
	recipes recipeRepo,
	ingredients ingredientRepo,
	tx txManager,
) *Service {
	return &Service{
		recipes:     recipes,
		ingredients: ingredients,
		tx:          tx,
		log:         log.With("service", "recipe"),
	}
}

// resolverFor loads everything the lines reference through cat and returns a
// resolver over it.
func (s *Service) resolverFor(ctx context.Context, cat *catalog.Catalog, lines []domain.RecipeLine) (CatalogResolver, error) {
	ingredientIDs, recipeIDs := referencedIDs(lines)

	ingredients, err := cat.Ingredients(ctx, ingredientIDs)
	if err != nil {
		return CatalogResolver{}, err
	}
	recipes, err := cat.Recipes(ctx, recipeIDs)
	if err != nil {
		return CatalogResolver{}, err
	}

	return CatalogResolver{Ingredients: ingredients, Recipes: recipes}, nil
}
