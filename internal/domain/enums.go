package domain

// MealTime is the slot of the day a planned recipe is scheduled for.
type MealTime string

const (
	MealTimeBreakfast MealTime = "BREAKFAST"
	MealTimeLunch     MealTime = "LUNCH"
	MealTimeDinner    MealTime = "DINNER"
	MealTimeSnack     MealTime = "SNACK"
)

func (m MealTime) String() string { return string(m) }

func (m MealTime) IsValid() bool {
	switch m {
	case MealTimeBreakfast, MealTimeLunch, MealTimeDinner, MealTimeSnack:
		return true
	}
	return false
}

// RecipeSource records how a recipe entered the catalog.
type RecipeSource string

const (
	RecipeSourceUser        RecipeSource = "USER"
	RecipeSourceSynthesized RecipeSource = "SYNTHESIZED"
)

func (s RecipeSource) String() string { return string(s) }

func (s RecipeSource) IsValid() bool {
	switch s {
	case RecipeSourceUser, RecipeSourceSynthesized:
		return true
	}
	return false
}

// SuggestionOrigin tells the caller where a suggestion set came from.
type SuggestionOrigin string

const (
	// SuggestionOriginStored is an already persisted batch for the day.
	SuggestionOriginStored SuggestionOrigin = "STORED"
	// SuggestionOriginCatalog is a combination of existing recipes.
	SuggestionOriginCatalog SuggestionOrigin = "CATALOG"
	// SuggestionOriginSynthesized contains recipes proposed by the synthesis collaborator.
	SuggestionOriginSynthesized SuggestionOrigin = "SYNTHESIZED"
	// SuggestionOriginNone means nothing was suggested (negligible budget, no goal, degraded).
	SuggestionOriginNone SuggestionOrigin = "NONE"
)

func (o SuggestionOrigin) String() string { return string(o) }
