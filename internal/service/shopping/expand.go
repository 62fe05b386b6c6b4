package shopping

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// need is an ingredient quantity produced by expanding a plan entry.
type need struct {
	ingredientID uuid.UUID
	amount       float64
	unit         string
}

// expander walks recipe trees over an already loaded recipe map.
type expander struct {
	recipes  map[uuid.UUID]*domain.Recipe
	maxDepth int

	path  map[uuid.UUID]struct{}
	needs []need
	diags []domain.Diagnostic
}

func newExpander(recipes map[uuid.UUID]*domain.Recipe, maxDepth int) *expander {
	return &expander{
		recipes:  recipes,
		maxDepth: maxDepth,
		path:     make(map[uuid.UUID]struct{}),
	}
}

// expandEntries turns plan entries into ingredient needs. Sub-recipe lines are
// replaced by their own lines scaled by line.Amount / sub.Servings.
func expandEntries(entries []domain.MealPlanEntry, recipes map[uuid.UUID]*domain.Recipe, maxDepth int) ([]need, []domain.Diagnostic, error) {
	e := newExpander(recipes, maxDepth)

	for _, entry := range entries {
		if !(entry.Servings > 0) {
			return nil, nil, fmt.Errorf("plan entry %s: %w: %v", entry.ID, domain.ErrInvalidServings, entry.Servings)
		}

		r, ok := e.lookup(entry.RecipeID)
		if !ok {
			continue
		}
		e.walk(r, entry.Servings/float64(r.Servings), 0)
	}

	return e.needs, e.diags, nil
}

func (e *expander) lookup(id uuid.UUID) (*domain.Recipe, bool) {
	r, ok := e.recipes[id]
	if !ok || r == nil {
		e.diags = append(e.diags, domain.Diagnostic{
			Kind:    domain.DiagnosticUnresolvedRecipe,
			RefID:   id,
			Message: "recipe not found",
		})
		return nil, false
	}
	if r.Servings < 1 {
		e.diags = append(e.diags, domain.Diagnostic{
			Kind:    domain.DiagnosticUnresolvedRecipe,
			RefID:   id,
			Message: fmt.Sprintf("recipe has invalid servings %d", r.Servings),
		})
		return nil, false
	}
	return r, true
}

func (e *expander) walk(r *domain.Recipe, ratio float64, depth int) {
	e.path[r.ID] = struct{}{}
	defer delete(e.path, r.ID)

	for _, line := range r.Lines {
		if !line.IsSubRecipe {
			e.needs = append(e.needs, need{ingredientID: line.RefID, amount: line.Amount * ratio, unit: line.Unit})
			continue
		}

		if _, onPath := e.path[line.RefID]; onPath {
			e.diags = append(e.diags, domain.Diagnostic{
				Kind:    domain.DiagnosticCycleDetected,
				RefID:   line.RefID,
				Message: fmt.Sprintf("recipe %s expands into itself via %s", line.RefID, r.ID),
			})
			continue
		}
		if depth+1 > e.maxDepth {
			e.diags = append(e.diags, domain.Diagnostic{
				Kind:    domain.DiagnosticDepthExceeded,
				RefID:   line.RefID,
				Message: fmt.Sprintf("sub-recipe nesting deeper than %d", e.maxDepth),
			})
			continue
		}

		sub, ok := e.lookup(line.RefID)
		if !ok {
			continue
		}
		e.walk(sub, ratio*line.Amount/float64(sub.Servings), depth+1)
	}
}

type itemKey struct {
	ingredientID uuid.UUID
	unit         string
}

// aggregate sums needs sharing (ingredient, unit) and sorts the result by
// category, then name. Name and category come from the first occurrence.
func aggregate(needs []need, ingredients map[uuid.UUID]*domain.Ingredient, defaultCategory string) ([]domain.ShoppingListItem, []domain.Diagnostic) {
	var (
		items      []domain.ShoppingListItem
		diags      []domain.Diagnostic
		index      = make(map[itemKey]int)
		unresolved = make(map[uuid.UUID]struct{})
	)

	for _, n := range needs {
		key := itemKey{ingredientID: n.ingredientID, unit: n.unit}
		if i, ok := index[key]; ok {
			items[i].Amount += n.amount
			continue
		}

		ing, ok := ingredients[n.ingredientID]
		if !ok || ing == nil {
			if _, seen := unresolved[n.ingredientID]; !seen {
				unresolved[n.ingredientID] = struct{}{}
				diags = append(diags, domain.Diagnostic{
					Kind:    domain.DiagnosticUnresolvedIngredient,
					RefID:   n.ingredientID,
					Message: "ingredient not found",
				})
			}
			continue
		}

		category := strings.TrimSpace(ing.Category)
		if category == "" {
			category = defaultCategory
		}

		index[key] = len(items)
		items = append(items, domain.ShoppingListItem{
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Amount:         n.amount,
			Unit:           n.unit,
			Category:       category,
		})
	}

	slices.SortStableFunc(items, func(a, b domain.ShoppingListItem) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.IngredientName, b.IngredientName),
			cmp.Compare(a.Unit, b.Unit),
			bytes.Compare(a.IngredientID[:], b.IngredientID[:]),
		)
	})

	return items, diags
}
