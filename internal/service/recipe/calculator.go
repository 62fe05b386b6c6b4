package recipe

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Resolved is the reference data needed to price one recipe line:
// Macros describe ServingSize units of the referenced item.
type Resolved struct {
	Macros      domain.MacroVector
	ServingSize float64
}

// Resolver maps a recipe line to its referenced macros. ok is false when the
// reference cannot be resolved.
type Resolver interface {
	Resolve(line domain.RecipeLine) (Resolved, bool)
}

// Calculation is the result of pricing a list of recipe lines.
type Calculation struct {
	Total       domain.MacroVector
	PerServing  domain.MacroVector
	Diagnostics []domain.Diagnostic
}

// Calculate sums amount/servingSize * macros over lines. Unresolvable lines
// are skipped and reported in Diagnostics. A non-positive line amount
// returns ErrInvalidAmount and servings below 1 return ErrInvalidServings.
func Calculate(lines []domain.RecipeLine, servings int, resolver Resolver) (Calculation, error) {
	if servings < 1 {
		return Calculation{}, fmt.Errorf("servings %d: %w", servings, domain.ErrInvalidServings)
	}

	var calc Calculation
	for i, line := range lines {
		if !(line.Amount > 0) || math.IsInf(line.Amount, 0) {
			return Calculation{}, fmt.Errorf("line %d amount %v: %w", i, line.Amount, domain.ErrInvalidAmount)
		}

		ref, ok := resolver.Resolve(line)
		if !ok || !(ref.ServingSize > 0) {
			calc.Diagnostics = append(calc.Diagnostics, unresolved(line))
			continue
		}

		contribution, err := ref.Macros.Scale(line.Amount / ref.ServingSize)
		if err != nil {
			return Calculation{}, fmt.Errorf("line %d: %w", i, err)
		}
		calc.Total = calc.Total.Add(contribution)
	}

	perServing, err := domain.PerServing(calc.Total, servings)
	if err != nil {
		return Calculation{}, err
	}
	calc.PerServing = perServing

	return calc, nil
}

func unresolved(line domain.RecipeLine) domain.Diagnostic {
	if line.IsSubRecipe {
		return domain.Diagnostic{
			Kind:    domain.DiagnosticUnresolvedRecipe,
			RefID:   line.RefID,
			Message: "sub-recipe not found, line skipped",
		}
	}
	return domain.Diagnostic{
		Kind:    domain.DiagnosticUnresolvedIngredient,
		RefID:   line.RefID,
		Message: "ingredient not found, line skipped",
	}
}

// CatalogResolver resolves lines against already loaded catalog maps.
// Sub-recipes resolve to their cached per-serving macros with a serving size of 1.
type CatalogResolver struct {
	Ingredients map[uuid.UUID]*domain.Ingredient
	Recipes     map[uuid.UUID]*domain.Recipe
}

// Resolve implements Resolver.
func (c CatalogResolver) Resolve(line domain.RecipeLine) (Resolved, bool) {
	if line.IsSubRecipe {
		r, ok := c.Recipes[line.RefID]
		if !ok || r == nil {
			return Resolved{}, false
		}
		perServing, err := r.PerServing()
		if err != nil {
			return Resolved{}, false
		}
		return Resolved{Macros: perServing, ServingSize: 1}, true
	}

	ing, ok := c.Ingredients[line.RefID]
	if !ok || ing == nil {
		return Resolved{}, false
	}
	return Resolved{Macros: ing.Macros, ServingSize: ing.ServingSize}, true
}

// referencedIDs splits line references into ingredient and sub-recipe ids.
func referencedIDs(lines []domain.RecipeLine) (ingredientIDs, recipeIDs []uuid.UUID) {
	for _, l := range lines {
		if l.IsSubRecipe {
			recipeIDs = append(recipeIDs, l.RefID)
		} else {
			ingredientIDs = append(ingredientIDs, l.RefID)
		}
	}
	return ingredientIDs, recipeIDs
}
