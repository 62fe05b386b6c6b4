package domain

import (
	"errors"
	"math"
	"testing"
)

func TestMacroVector_Add(t *testing.T) {
	t.Parallel()

	a := MacroVector{Calories: 100, Protein: 10, Carbs: 20, Fat: 5, Fiber: 2}
	b := MacroVector{Calories: 50, Protein: 5, Carbs: 0, Fat: 1.5, Fiber: 3}

	got := a.Add(b)
	want := MacroVector{Calories: 150, Protein: 15, Carbs: 20, Fat: 6.5, Fiber: 5}
	if got != want {
		t.Fatalf("Add = %v, want %v", got, want)
	}
	if a.Calories != 100 {
		t.Fatalf("Add mutated receiver: %v", a)
	}
}

func TestMacroVector_Scale(t *testing.T) {
	t.Parallel()

	chicken := MacroVector{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Fiber: 0}

	got, err := chicken.Scale(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := MacroVector{Calories: 330, Protein: 62, Carbs: 0, Fat: 7.2, Fiber: 0}
	if got != want {
		t.Fatalf("Scale(2) = %v, want %v", got, want)
	}

	zero, err := chicken.Scale(0)
	if err != nil {
		t.Fatalf("Scale(0) unexpected error: %v", err)
	}
	if !zero.IsZero() {
		t.Fatalf("Scale(0) = %v, want zero vector", zero)
	}
}

func TestMacroVector_Scale_InvalidFactor(t *testing.T) {
	t.Parallel()

	v := MacroVector{Calories: 100}
	for _, f := range []float64{-1, -0.0001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := v.Scale(f)
		if !errors.Is(err, ErrInvalidScaleFactor) {
			t.Errorf("Scale(%v) error = %v, want ErrInvalidScaleFactor", f, err)
		}
	}
}

func TestMacroVector_SubtractFloored(t *testing.T) {
	t.Parallel()

	goal := MacroVector{Calories: 2000, Protein: 150, Carbs: 200, Fat: 65, Fiber: 30}
	consumed := MacroVector{Calories: 1800, Protein: 140, Carbs: 180, Fat: 60, Fiber: 25}

	got := goal.SubtractFloored(consumed)
	want := MacroVector{Calories: 200, Protein: 10, Carbs: 20, Fat: 5, Fiber: 5}
	if got != want {
		t.Fatalf("SubtractFloored = %v, want %v", got, want)
	}
}

func TestMacroVector_SubtractFloored_NeverNegative(t *testing.T) {
	t.Parallel()

	target := MacroVector{Calories: 1500, Protein: 100, Carbs: 150, Fat: 50, Fiber: 20}
	over := MacroVector{Calories: 2500, Protein: 90, Carbs: 400, Fat: 51, Fiber: 0}

	got := target.SubtractFloored(over)
	want := MacroVector{Calories: 0, Protein: 10, Carbs: 0, Fat: 0, Fiber: 20}
	if got != want {
		t.Fatalf("SubtractFloored = %v, want %v", got, want)
	}
}

func TestMacroVector_Validate(t *testing.T) {
	t.Parallel()

	if err := (MacroVector{Calories: 1, Protein: 2}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := MacroVector{Fat: -1}.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Errors[0].Field != "fat" {
		t.Fatalf("expected field error on fat, got %v", err)
	}

	if err := (MacroVector{Fiber: math.NaN()}).Validate(); err == nil {
		t.Fatal("NaN fiber should fail validation")
	}
}

func TestSumMacros_Empty(t *testing.T) {
	t.Parallel()

	if got := SumMacros(); !got.IsZero() {
		t.Fatalf("SumMacros() = %v, want zero vector", got)
	}
}
