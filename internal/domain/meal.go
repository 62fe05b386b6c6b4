package domain

import (
	"time"

	"github.com/google/uuid"
)

// Goal is an owner's daily macro target. At most one goal per owner is active.
type Goal struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Target    MacroVector
	IsActive  bool
	CreatedAt time.Time
}

// MealLogEntry is one logged meal. Entries are immutable; edits replace them.
type MealLogEntry struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Date        time.Time
	Name        string
	TotalMacros MacroVector
	CreatedAt   time.Time
}

// MealPlanEntry schedules Servings of a recipe on a date.
type MealPlanEntry struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Date     time.Time
	RecipeID uuid.UUID
	Servings float64
	MealTime MealTime
}

// DailyBudget is the remaining budget for one day with the figures it came from.
type DailyBudget struct {
	Date      DateRange
	Target    MacroVector
	Consumed  MacroVector
	Remaining MacroVector
}
