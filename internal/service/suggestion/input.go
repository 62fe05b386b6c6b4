package suggestion

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// SuggestInput identifies the owner and calendar day to suggest for.
type SuggestInput struct {
	OwnerID uuid.UUID
	Date    time.Time
}

// Validate checks all fields and collects all errors.
func (i SuggestInput) Validate() error {
	var errs []domain.FieldError

	if i.OwnerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "owner_id", Message: "required"})
	}
	if i.Date.IsZero() {
		errs = append(errs, domain.FieldError{Field: "date", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
