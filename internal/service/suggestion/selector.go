package suggestion

import (
	"bytes"
	"cmp"
	"math"
	"slices"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

const epsilon = 1e-9

// candidate is a catalog recipe with its per-serving macros.
type candidate struct {
	recipe     domain.Recipe
	perServing domain.MacroVector
	distance   float64
}

// Combination is a chosen set of catalog recipes.
type Combination struct {
	Recipes  []domain.Recipe
	Combined domain.MacroVector
	Distance float64
}

// SelectCombination searches catalog for the best set of recipes, one serving
// each, whose combined macros fit remaining under policy. Smaller sets win over
// larger ones, then smaller distance, then lexicographically smaller ids.
func SelectCombination(remaining domain.MacroVector, catalog []domain.Recipe, policy domain.SuggestionPolicy) (Combination, bool) {
	cands := candidates(remaining, catalog, policy)
	if len(cands) == 0 {
		return Combination{}, false
	}

	idx := make([]int, 0, policy.MaxCombination)
	for size := 1; size <= policy.MaxCombination && size <= len(cands); size++ {
		var best Combination
		found := false

		forEachCombination(len(cands), size, idx, func(pick []int) {
			var combined domain.MacroVector
			for _, i := range pick {
				combined = combined.Add(cands[i].perServing)
			}
			if !fits(combined, remaining, policy) {
				return
			}
			d := distance(combined, remaining, policy.SecondaryWeight)
			// Candidates are id-ordered and enumerated lexicographically, so
			// the first set seen at a given distance has the smallest ids.
			if found && d >= best.Distance-epsilon {
				return
			}
			recipes := make([]domain.Recipe, len(pick))
			for j, i := range pick {
				recipes[j] = cands[i].recipe
			}
			best = Combination{Recipes: recipes, Combined: combined, Distance: d}
			found = true
		})

		if found {
			return best, true
		}
	}

	return Combination{}, false
}

// candidates drops recipes that break the upper bound on their own and keeps
// the MaxCandidates closest ones, ordered by id.
func candidates(remaining domain.MacroVector, catalog []domain.Recipe, policy domain.SuggestionPolicy) []candidate {
	out := make([]candidate, 0, len(catalog))
	for _, r := range catalog {
		per, err := r.PerServing()
		if err != nil {
			continue
		}
		if !withinUpper(per, remaining, policy.OverTolerance) {
			continue
		}
		out = append(out, candidate{recipe: r, perServing: per, distance: distance(per, remaining, policy.SecondaryWeight)})
	}

	slices.SortFunc(out, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(a.distance, b.distance), compareIDs(a.recipe, b.recipe))
	})
	if len(out) > policy.MaxCandidates {
		out = out[:policy.MaxCandidates]
	}
	slices.SortFunc(out, func(a, b candidate) int { return compareIDs(a.recipe, b.recipe) })
	return out
}

// fits applies the tolerance band: no field above remaining*(1+over), and
// calories and protein at least remaining*minCoverage.
func fits(combined, remaining domain.MacroVector, policy domain.SuggestionPolicy) bool {
	if !withinUpper(combined, remaining, policy.OverTolerance) {
		return false
	}
	return combined.Calories >= remaining.Calories*policy.MinCoverage-epsilon &&
		combined.Protein >= remaining.Protein*policy.MinCoverage-epsilon
}

func withinUpper(v, remaining domain.MacroVector, over float64) bool {
	limit := 1 + over
	return v.Calories <= remaining.Calories*limit+epsilon &&
		v.Protein <= remaining.Protein*limit+epsilon &&
		v.Carbs <= remaining.Carbs*limit+epsilon &&
		v.Fat <= remaining.Fat*limit+epsilon &&
		v.Fiber <= remaining.Fiber*limit+epsilon
}

// distance is the Euclidean norm of relative deviations, with carbs and fat
// weighted by secondaryWeight and fiber ignored.
func distance(v, remaining domain.MacroVector, secondaryWeight float64) float64 {
	dc := relDev(v.Calories, remaining.Calories)
	dp := relDev(v.Protein, remaining.Protein)
	dcarb := relDev(v.Carbs, remaining.Carbs)
	dfat := relDev(v.Fat, remaining.Fat)
	return math.Sqrt(dc*dc + dp*dp + secondaryWeight*(dcarb*dcarb+dfat*dfat))
}

func relDev(got, want float64) float64 {
	return (got - want) / math.Max(want, 1)
}

func compareIDs(a, b domain.Recipe) int {
	return bytes.Compare(a.ID[:], b.ID[:])
}

// forEachCombination calls fn with every k-subset of [0, n) in lexicographic order.
func forEachCombination(n, k int, buf []int, fn func([]int)) {
	pick := buf[:k]
	for i := range pick {
		pick[i] = i
	}
	for {
		fn(pick)

		i := k - 1
		for i >= 0 && pick[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		pick[i]++
		for j := i + 1; j < k; j++ {
			pick[j] = pick[j-1] + 1
		}
	}
}
