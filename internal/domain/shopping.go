package domain

import "github.com/google/uuid"

// ShoppingListItem is one aggregated line of a shopping list. It is derived
// on every call and never stored.
type ShoppingListItem struct {
	IngredientID   uuid.UUID
	IngredientName string
	Amount         float64
	Unit           string
	Category       string
}

// ShoppingPolicy bounds shopping list expansion.
type ShoppingPolicy struct {
	// MaxDepth is the deepest sub-recipe nesting that is expanded.
	// The plan entry's own recipe is depth 0.
	MaxDepth int
	// DefaultCategory replaces an empty ingredient category.
	DefaultCategory string
}

// DefaultShoppingPolicy returns the product defaults.
func DefaultShoppingPolicy() ShoppingPolicy {
	return ShoppingPolicy{MaxDepth: 8, DefaultCategory: DefaultCategory}
}

// Validate checks the policy bounds.
func (p ShoppingPolicy) Validate() error {
	var errs []FieldError

	if p.MaxDepth < 0 || p.MaxDepth > 32 {
		errs = append(errs, FieldError{Field: "max_depth", Message: "must be within [0, 32]"})
	}
	if p.DefaultCategory == "" {
		errs = append(errs, FieldError{Field: "default_category", Message: "required"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
