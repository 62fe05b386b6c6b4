package budget

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// SumMeals adds up TotalMacros of every entry; no entries yield the zero vector.
// Entries are folded in a canonical order so the float result is bit-identical
// for any permutation of the input.
func SumMeals(entries []domain.MealLogEntry) domain.MacroVector {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, compareEntries)

	var total domain.MacroVector
	for _, e := range sorted {
		total = total.Add(e.TotalMacros)
	}
	return total
}

// Remaining subtracts consumed from target, flooring every field at zero.
func Remaining(target, consumed domain.MacroVector) domain.MacroVector {
	return target.SubtractFloored(consumed)
}

func compareEntries(a, b domain.MealLogEntry) int {
	if c := bytes.Compare(a.ID[:], b.ID[:]); c != 0 {
		return c
	}
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Or(
		cmp.Compare(a.TotalMacros.Calories, b.TotalMacros.Calories),
		cmp.Compare(a.TotalMacros.Protein, b.TotalMacros.Protein),
		cmp.Compare(a.TotalMacros.Carbs, b.TotalMacros.Carbs),
		cmp.Compare(a.TotalMacros.Fat, b.TotalMacros.Fat),
		cmp.Compare(a.TotalMacros.Fiber, b.TotalMacros.Fiber),
	)
}
