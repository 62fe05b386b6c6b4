package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// pgCodeErrors maps SQLSTATE codes to the error callers match with errors.Is.
var pgCodeErrors = map[string]error{
	"23505": domain.ErrAlreadyExists,  // unique_violation
	"23503": domain.ErrNotFound,       // foreign_key_violation: a referenced row is gone
	"23514": domain.ErrValidation,     // check_violation: non-negative macros, positive servings
	"57014": context.DeadlineExceeded, // query_canceled: statement_timeout fired
}

// MapError converts pgx/pgconn errors to domain errors, prefixed with the
// entity name and id. Context errors pass through unchanged.
func MapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := pgCodeErrors[pgErr.Code]; ok {
			if pgErr.ConstraintName != "" {
				return fmt.Errorf("%s %s: %s: %w", entity, id, pgErr.ConstraintName, mapped)
			}
			return fmt.Errorf("%s %s: %w", entity, id, mapped)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
