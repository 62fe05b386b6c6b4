package domain

import "github.com/google/uuid"

// RecipeFilter narrows a recipe catalog listing. Zero values mean no filter.
type RecipeFilter struct {
	CreatorID *uuid.UUID
	Source    *RecipeSource
	Limit     int
}

// IngredientFilter narrows an ingredient catalog listing. Zero values mean no filter.
type IngredientFilter struct {
	VerifiedOnly bool
	Category     string
	Limit        int
}
