// Package shopping aggregates an owner's meal plan into a shopping list.
package shopping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

var tracer = otel.Tracer("github.com/heartmarshall/nutrition-engine/internal/service/shopping")

type mealPlanRepo interface {
	ListByRange(ctx context.Context, ownerID uuid.UUID, r domain.DateRange) ([]domain.MealPlanEntry, error)
}

type recipeRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
}

type ingredientRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error)
}

// Service builds shopping lists.
type Service struct {
	plans       mealPlanRepo
	recipes     recipeRepo
	ingredients ingredientRepo
	policy      domain.ShoppingPolicy
	log         *slog.Logger
}

// NewService creates a new shopping service.
func NewService(
	log *slog.Logger,
	plans mealPlanRepo,
	recipes recipeRepo,
	ingredients ingredientRepo,
	policy domain.ShoppingPolicy,
) (*Service, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shopping policy: %w", err)
	}

	return &Service{
		plans:       plans,
		recipes:     recipes,
		ingredients: ingredients,
		policy:      policy,
		log:         log.With("service", "shopping"),
	}, nil
}
