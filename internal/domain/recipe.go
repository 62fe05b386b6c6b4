package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecipeLine is one ingredient line of a recipe. RefID points at an Ingredient,
// or at another Recipe when IsSubRecipe is set. Sub-recipe amounts are
// expressed in servings of that recipe.
type RecipeLine struct {
	RefID       uuid.UUID
	Amount      float64
	Unit        string
	IsSubRecipe bool
}

// Recipe is a catalog recipe. TotalMacros is a snapshot of the calculator's
// output taken when the recipe was written; it is not refreshed on read.
type Recipe struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Servings     int
	Lines        []RecipeLine
	TotalMacros  MacroVector
	Instructions []string
	CreatorID    uuid.UUID
	Source       RecipeSource
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PerServing returns TotalMacros divided by Servings.
func (r *Recipe) PerServing() (MacroVector, error) {
	return PerServing(r.TotalMacros, r.Servings)
}

// PerServing divides total by servings. Servings below 1 return ErrInvalidServings.
func PerServing(total MacroVector, servings int) (MacroVector, error) {
	if servings < 1 {
		return MacroVector{}, ErrInvalidServings
	}
	return total.Scale(1 / float64(servings))
}
