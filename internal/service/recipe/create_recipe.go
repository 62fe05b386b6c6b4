package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/nutrition-engine/internal/catalog"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// CreateResult is the persisted recipe and the lines skipped while pricing it.
type CreateResult struct {
	Recipe      *domain.Recipe
	Diagnostics []domain.Diagnostic
}

// CreateRecipe prices the input lines against the catalogs and persists the
// recipe with the computed totals.
func (s *Service) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*CreateResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	resolver, err := s.resolverFor(ctx, catalog.New(s.recipes, s.ingredients), input.Lines)
	if err != nil {
		return nil, fmt.Errorf("load references: %w", err)
	}

	if input.RequireResolved {
		var errs []domain.FieldError
		for idx, l := range input.Lines {
			if _, ok := resolver.Resolve(l); !ok {
				errs = append(errs, domain.FieldError{
					Field:   fmt.Sprintf("lines[%d].ref_id", idx),
					Message: fmt.Sprintf("%s not found in catalog", l.RefID),
				})
			}
		}
		if len(errs) > 0 {
			return nil, domain.NewValidationErrors(errs)
		}
	}

	calc, err := Calculate(input.Lines, input.Servings, resolver)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		Servings:     input.Servings,
		Lines:        input.Lines,
		TotalMacros:  calc.Total,
		Instructions: input.Instructions,
		CreatorID:    input.CreatorID,
		Source:       input.Source,
	}

	var saved *domain.Recipe
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		saved, createErr = s.recipes.Create(txCtx, recipe)
		if createErr != nil {
			return fmt.Errorf("create recipe: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range calc.Diagnostics {
		s.log.WarnContext(ctx, "recipe line skipped",
			slog.String("recipe_id", saved.ID.String()),
			slog.String("kind", string(d.Kind)),
			slog.String("ref_id", d.RefID.String()),
		)
	}

	s.log.InfoContext(ctx, "recipe created",
		slog.String("recipe_id", saved.ID.String()),
		slog.String("source", saved.Source.String()),
		slog.Float64("calories", saved.TotalMacros.Calories),
	)

	return &CreateResult{Recipe: saved, Diagnostics: calc.Diagnostics}, nil
}
