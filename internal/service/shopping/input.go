package shopping

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// BuildListInput selects the owner and the inclusive date range of the plan.
type BuildListInput struct {
	OwnerID uuid.UUID
	Range   domain.DateRange
}

// Validate checks all fields and collects all errors.
func (i BuildListInput) Validate() error {
	var errs []domain.FieldError

	if i.OwnerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "owner_id", Message: "required"})
	}
	if i.Range.From.IsZero() || i.Range.To.IsZero() {
		errs = append(errs, domain.FieldError{Field: "range", Message: "required"})
	} else if domain.Day(i.Range.To).Before(domain.Day(i.Range.From)) {
		errs = append(errs, domain.FieldError{Field: "range", Message: "to must not be before from"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// List is a built shopping list with the references that were skipped.
type List struct {
	Range       domain.DateRange
	Items       []domain.ShoppingListItem
	Diagnostics []domain.Diagnostic
}
