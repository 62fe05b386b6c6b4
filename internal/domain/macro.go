package domain

import (
	"fmt"
	"math"
)

// MacroVector is the nutritional content of a food amount:
// calories (kcal) and protein, carbs, fat, fiber (grams).
// It is a value type; every operation returns a new vector.
type MacroVector struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
}

// Add returns the field-wise sum of v and o.
func (v MacroVector) Add(o MacroVector) MacroVector {
	return MacroVector{
		Calories: v.Calories + o.Calories,
		Protein:  v.Protein + o.Protein,
		Carbs:    v.Carbs + o.Carbs,
		Fat:      v.Fat + o.Fat,
		Fiber:    v.Fiber + o.Fiber,
	}
}

// Scale multiplies every field by factor.
// A negative, NaN or infinite factor returns ErrInvalidScaleFactor.
func (v MacroVector) Scale(factor float64) (MacroVector, error) {
	if factor < 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return MacroVector{}, fmt.Errorf("%w: %v", ErrInvalidScaleFactor, factor)
	}
	return MacroVector{
		Calories: v.Calories * factor,
		Protein:  v.Protein * factor,
		Carbs:    v.Carbs * factor,
		Fat:      v.Fat * factor,
		Fiber:    v.Fiber * factor,
	}, nil
}

// SubtractFloored returns max(0, v_i - o_i) for every field.
func (v MacroVector) SubtractFloored(o MacroVector) MacroVector {
	return MacroVector{
		Calories: math.Max(0, v.Calories-o.Calories),
		Protein:  math.Max(0, v.Protein-o.Protein),
		Carbs:    math.Max(0, v.Carbs-o.Carbs),
		Fat:      math.Max(0, v.Fat-o.Fat),
		Fiber:    math.Max(0, v.Fiber-o.Fiber),
	}
}

// IsZero reports whether all fields are zero.
func (v MacroVector) IsZero() bool {
	return v == MacroVector{}
}

// Validate checks that every field is finite and non-negative.
func (v MacroVector) Validate() error {
	for _, f := range v.fields() {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return NewValidationError(f.name, "must be a finite non-negative number")
		}
	}
	return nil
}

func (v MacroVector) String() string {
	return fmt.Sprintf("{kcal:%.1f p:%.1f c:%.1f f:%.1f fib:%.1f}",
		v.Calories, v.Protein, v.Carbs, v.Fat, v.Fiber)
}

type macroField struct {
	name  string
	value float64
}

func (v MacroVector) fields() [5]macroField {
	return [5]macroField{
		{"calories", v.Calories},
		{"protein", v.Protein},
		{"carbs", v.Carbs},
		{"fat", v.Fat},
		{"fiber", v.Fiber},
	}
}

// SumMacros folds vs with Add. An empty input yields the zero vector.
func SumMacros(vs ...MacroVector) MacroVector {
	var total MacroVector
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}
