// Package budget folds logged meals into consumed macros and derives the
// remaining daily budget from the owner's active goal.
package budget

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

type goalRepo interface {
	GetActive(ctx context.Context, ownerID uuid.UUID) (*domain.Goal, error)
}

type mealLogRepo interface {
	ListByRange(ctx context.Context, ownerID uuid.UUID, r domain.DateRange) ([]domain.MealLogEntry, error)
}

// Service provides consumption and remaining-budget queries.
type Service struct {
	goals    goalRepo
	mealLogs mealLogRepo
	log      *slog.Logger
}

// NewService creates a new budget service.
func NewService(log *slog.Logger, goals goalRepo, mealLogs mealLogRepo) *Service {
	return &Service{
		goals:    goals,
		mealLogs: mealLogs,
		log:      log.With("service", "budget"),
	}
}
