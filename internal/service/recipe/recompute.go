package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/catalog"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// RecomputeResult holds a fresh calculation for a stored recipe.
type RecomputeResult struct {
	Recipe      *domain.Recipe
	Calculation Calculation
	// Changed is true when the stored totals differed and were rewritten.
	Changed bool
}

// Calculate prices arbitrary lines against the current catalogs without writing anything.
func (s *Service) Calculate(ctx context.Context, lines []domain.RecipeLine, servings int) (*Calculation, error) {
	return s.calculate(ctx, catalog.New(s.recipes, s.ingredients), lines, servings)
}

func (s *Service) calculate(ctx context.Context, cat *catalog.Catalog, lines []domain.RecipeLine, servings int) (*Calculation, error) {
	resolver, err := s.resolverFor(ctx, cat, lines)
	if err != nil {
		return nil, fmt.Errorf("load references: %w", err)
	}

	calc, err := Calculate(lines, servings, resolver)
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

// Recompute prices a stored recipe from its lines and rewrites the cached
// totals when they are stale. This is the read path for callers that need
// guaranteed-fresh totals.
func (s *Service) Recompute(ctx context.Context, recipeID uuid.UUID) (*RecomputeResult, error) {
	cat := catalog.New(s.recipes, s.ingredients)

	r, err := cat.Recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	calc, err := s.calculate(ctx, cat, r.Lines, r.Servings)
	if err != nil {
		return nil, fmt.Errorf("recompute recipe %s: %w", recipeID, err)
	}

	result := &RecomputeResult{Recipe: r, Calculation: *calc}
	if calc.Total == r.TotalMacros {
		return result, nil
	}

	if err := s.recipes.UpdateTotals(ctx, recipeID, calc.Total); err != nil {
		return nil, fmt.Errorf("update recipe totals: %w", err)
	}

	s.log.InfoContext(ctx, "recipe totals refreshed",
		slog.String("recipe_id", recipeID.String()),
		slog.Float64("old_calories", r.TotalMacros.Calories),
		slog.Float64("new_calories", calc.Total.Calories),
		slog.Int("skipped_lines", len(calc.Diagnostics)),
	)

	updated := *r
	updated.TotalMacros = calc.Total
	result.Recipe = &updated
	result.Changed = true
	return result, nil
}
