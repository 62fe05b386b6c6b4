package domain

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionBatch is the set of recipes offered to an owner for one calendar day.
// There is at most one batch per (OwnerID, Date).
type SuggestionBatch struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Date      time.Time
	RecipeIDs []uuid.UUID
	CreatedAt time.Time
}

// SynthesisRequest is what the synthesis collaborator receives.
type SynthesisRequest struct {
	Remaining   MacroVector
	Ingredients []Ingredient
	Existing    []Recipe
}

// ProposedLine is an ingredient line of a synthesized recipe.
type ProposedLine struct {
	IngredientID uuid.UUID
	Amount       float64
}

// ProposedRecipe is a new recipe suggested by the synthesis collaborator.
// Any macro figures it claims are ignored.
type ProposedRecipe struct {
	Name         string
	Description  string
	Lines        []ProposedLine
	Instructions []string
}

// RecipeCandidate is one synthesis result: either a reference to an existing
// recipe or a new proposal. Exactly one of ExistingID and Proposed is set.
type RecipeCandidate struct {
	ExistingID *uuid.UUID
	Proposed   *ProposedRecipe
}

// SuggestionPolicy holds the numeric rules of the suggestion selector.
type SuggestionPolicy struct {
	// Negligible holds per-field thresholds. A remaining budget is negligible
	// when every field with a positive threshold is negligible: below the
	// threshold, or at most NegligibleShare of the day's target.
	Negligible MacroVector
	// NegligibleShare is the fraction of the target under which a remaining
	// field counts as negligible regardless of its absolute threshold.
	// Zero disables the relative rule.
	NegligibleShare float64
	// OverTolerance is how far (as a fraction) a combination may exceed the
	// remaining budget on any field.
	OverTolerance float64
	// MinCoverage is the fraction of remaining calories and protein a
	// combination must at least reach.
	MinCoverage float64
	// MaxCombination is the largest number of recipes in one suggestion.
	MaxCombination int
	// MaxCandidates bounds how many catalog recipes enter the combination search.
	MaxCandidates int
	// SecondaryWeight scales carbs and fat deviations in the ranking distance.
	SecondaryWeight float64
	// SynthesisTimeout bounds the synthesis collaborator call.
	SynthesisTimeout time.Duration
	// CatalogLimit bounds the recipe and ingredient catalogs read per request.
	CatalogLimit int
}

// DefaultSuggestionPolicy returns the product defaults.
func DefaultSuggestionPolicy() SuggestionPolicy {
	return SuggestionPolicy{
		Negligible:       MacroVector{Calories: 100, Protein: 10},
		NegligibleShare:  0.10,
		OverTolerance:    0.10,
		MinCoverage:      0.80,
		MaxCombination:   3,
		MaxCandidates:    40,
		SecondaryWeight:  0.25,
		SynthesisTimeout: 20 * time.Second,
		CatalogLimit:     500,
	}
}

// Validate checks the policy bounds.
func (p SuggestionPolicy) Validate() error {
	var errs []FieldError

	if err := p.Negligible.Validate(); err != nil {
		errs = append(errs, FieldError{Field: "negligible", Message: err.Error()})
	}
	if p.NegligibleShare < 0 || p.NegligibleShare >= 1 {
		errs = append(errs, FieldError{Field: "negligible_share", Message: "must be within [0, 1)"})
	}
	if p.OverTolerance < 0.05 || p.OverTolerance > 0.10 {
		errs = append(errs, FieldError{Field: "over_tolerance", Message: "must be within [0.05, 0.10]"})
	}
	if p.MinCoverage <= 0 || p.MinCoverage > 1 {
		errs = append(errs, FieldError{Field: "min_coverage", Message: "must be within (0, 1]"})
	}
	if p.MaxCombination < 1 || p.MaxCombination > 5 {
		errs = append(errs, FieldError{Field: "max_combination", Message: "must be within [1, 5]"})
	}
	if p.MaxCandidates < 1 || p.MaxCandidates > 100 {
		errs = append(errs, FieldError{Field: "max_candidates", Message: "must be within [1, 100]"})
	}
	if p.SecondaryWeight < 0 {
		errs = append(errs, FieldError{Field: "secondary_weight", Message: "must be >= 0"})
	}
	if p.SynthesisTimeout <= 0 {
		errs = append(errs, FieldError{Field: "synthesis_timeout", Message: "must be > 0"})
	}
	if p.CatalogLimit < 1 {
		errs = append(errs, FieldError{Field: "catalog_limit", Message: "must be >= 1"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// IsNegligible reports whether remaining is too small to suggest anything for.
// target is the day's goal; a zero target field only uses the absolute threshold.
func (p SuggestionPolicy) IsNegligible(remaining, target MacroVector) bool {
	rem, tgt := remaining.fields(), target.fields()

	checked := 0
	for i, f := range p.Negligible.fields() {
		if f.value <= 0 {
			continue
		}
		checked++
		if rem[i].value < f.value {
			continue
		}
		if p.NegligibleShare > 0 && tgt[i].value > 0 && rem[i].value/tgt[i].value <= p.NegligibleShare {
			continue
		}
		return false
	}
	return checked > 0
}
