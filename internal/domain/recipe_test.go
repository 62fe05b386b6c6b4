package domain

import (
	"errors"
	"testing"
)

func TestPerServing(t *testing.T) {
	t.Parallel()

	r := &Recipe{
		Servings:    4,
		TotalMacros: MacroVector{Calories: 800, Protein: 60, Carbs: 100, Fat: 20, Fiber: 12},
	}

	got, err := r.PerServing()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := MacroVector{Calories: 200, Protein: 15, Carbs: 25, Fat: 5, Fiber: 3}
	if got != want {
		t.Fatalf("PerServing = %v, want %v", got, want)
	}
}

func TestPerServing_InvalidServings(t *testing.T) {
	t.Parallel()

	for _, servings := range []int{0, -2} {
		_, err := PerServing(MacroVector{Calories: 100}, servings)
		if !errors.Is(err, ErrInvalidServings) {
			t.Errorf("PerServing(servings=%d) error = %v, want ErrInvalidServings", servings, err)
		}
	}
}

func TestIngredient_Validate(t *testing.T) {
	t.Parallel()

	ok := &Ingredient{Name: "Oats", ServingSize: 40, ServingUnit: "g"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := &Ingredient{ServingSize: 0, Macros: MacroVector{Protein: -1}}
	err := bad.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}

func TestHasDiagnostic(t *testing.T) {
	t.Parallel()

	ds := []Diagnostic{{Kind: DiagnosticCycleDetected}}
	if !HasDiagnostic(ds, DiagnosticCycleDetected) {
		t.Error("expected cycle diagnostic")
	}
	if HasDiagnostic(ds, DiagnosticUnresolvedRecipe) {
		t.Error("unexpected unresolved-recipe diagnostic")
	}
}
