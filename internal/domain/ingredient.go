package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is used for ingredients without a shopping category.
const DefaultCategory = "other"

// Ingredient is an entry of the shared ingredient catalog.
// Macros describe ServingSize units of ServingUnit.
type Ingredient struct {
	ID          uuid.UUID
	Name        string
	ServingSize float64
	ServingUnit string
	Category    string
	Macros      MacroVector
	Verified    bool
	CreatedAt   time.Time
}

// Validate checks catalog invariants: a name, a positive serving size and valid macros.
func (i *Ingredient) Validate() error {
	var errs []FieldError

	if i.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if !(i.ServingSize > 0) {
		errs = append(errs, FieldError{Field: "serving_size", Message: "must be > 0"})
	}
	if err := i.Macros.Validate(); err != nil {
		errs = append(errs, FieldError{Field: "macros", Message: err.Error()})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
