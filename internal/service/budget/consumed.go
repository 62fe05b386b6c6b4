package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Consumed returns the macros logged by ownerID within r.
func (s *Service) Consumed(ctx context.Context, ownerID uuid.UUID, r domain.DateRange) (domain.MacroVector, error) {
	if ownerID == uuid.Nil {
		return domain.MacroVector{}, domain.NewValidationError("owner_id", "required")
	}

	entries, err := s.mealLogs.ListByRange(ctx, ownerID, r)
	if err != nil {
		return domain.MacroVector{}, fmt.Errorf("list meal logs: %w", err)
	}

	var inRange []domain.MealLogEntry
	for _, e := range entries {
		if e.OwnerID == ownerID && r.Contains(e.Date) {
			inRange = append(inRange, e)
		}
	}
	if len(inRange) != len(entries) {
		s.log.WarnContext(ctx, "meal log store returned entries outside the request",
			slog.String("owner_id", ownerID.String()),
			slog.String("range", r.String()),
			slog.Int("dropped", len(entries)-len(inRange)),
		)
	}

	return SumMeals(inRange), nil
}

// Remaining returns the owner's remaining budget for date.
// It returns domain.ErrNoActiveGoal when the owner has no active goal.
func (s *Service) Remaining(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.DailyBudget, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner_id", "required")
	}

	goal, err := s.goals.GetActive(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveGoal
		}
		return nil, fmt.Errorf("get active goal: %w", err)
	}
	if goal == nil || !goal.IsActive {
		return nil, domain.ErrNoActiveGoal
	}

	day := domain.SingleDay(date)
	consumed, err := s.Consumed(ctx, ownerID, day)
	if err != nil {
		return nil, err
	}

	return &domain.DailyBudget{
		Date:      day,
		Target:    goal.Target,
		Consumed:  consumed,
		Remaining: Remaining(goal.Target, consumed),
	}, nil
}
