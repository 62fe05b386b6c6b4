package suggestion

import "github.com/heartmarshall/nutrition-engine/internal/domain"

// Result is the suggestion set for one owner and day.
type Result struct {
	// Batch is the persisted batch; nil when nothing was stored.
	Batch *domain.SuggestionBatch
	// Recipes are the suggested recipes in batch order.
	Recipes []domain.Recipe
	// Budget is nil when it was not computed (stored batch, no active goal).
	Budget      *domain.DailyBudget
	Origin      domain.SuggestionOrigin
	Diagnostics []domain.Diagnostic
	// Unavailable is set when the owner has no active goal.
	Unavailable bool
}
