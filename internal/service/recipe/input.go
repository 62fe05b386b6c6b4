package recipe

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// CreateRecipeInput holds the parameters for writing a recipe.
type CreateRecipeInput struct {
	Name         string
	Description  string
	Servings     int
	Lines        []domain.RecipeLine
	Instructions []string
	CreatorID    uuid.UUID
	Source       domain.RecipeSource

	// RequireResolved rejects the recipe when any line reference does not
	// resolve, instead of skipping that line.
	RequireResolved bool
}

// Validate checks all fields and collects all errors.
func (i CreateRecipeInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if i.Servings < 1 {
		errs = append(errs, domain.FieldError{Field: "servings", Message: "must be >= 1"})
	}
	if len(i.Lines) == 0 {
		errs = append(errs, domain.FieldError{Field: "lines", Message: "at least one required"})
	}
	for idx, l := range i.Lines {
		if l.RefID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("lines[%d].ref_id", idx), Message: "required"})
		}
		if !(l.Amount > 0) || math.IsInf(l.Amount, 0) {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("lines[%d].amount", idx), Message: "must be a finite number > 0"})
		}
	}
	if i.CreatorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "creator_id", Message: "required"})
	}
	if !i.Source.IsValid() {
		errs = append(errs, domain.FieldError{Field: "source", Message: "invalid value"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
