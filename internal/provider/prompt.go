// Package provider holds what every recipe synthesis collaborator shares: the
// prompt, the request payload and the parser for the JSON answer.
package provider

import (
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// SystemPrompt returns the instruction sent ahead of every synthesis request.
func SystemPrompt() string {
	return systemPrompt
}

const systemPrompt = `You are a meal planning assistant. The user has a remaining daily macro budget,
a catalog of ingredients and a catalog of existing recipes. Suggest one to three recipes that
together, one serving each, come as close as possible to the remaining budget without going over it.

Prefer existing recipes when one fits. Otherwise propose a new recipe built only from the listed
ingredients, referenced by their id, with amounts in the ingredient's serving unit.
Do not report macro totals; they are computed from the ingredient catalog.

Output ONLY a valid JSON object matching this exact schema:
{
  "recipes": [
    {"existing_recipe_id": "<id of an existing recipe>"},
    {
      "name": "<recipe name>",
      "description": "<one sentence>",
      "ingredients": [{"ingredient_id": "<id>", "amount": <number>}],
      "instructions": ["<step>", "<step>"]
    }
  ]
}

Each entry is either an existing recipe reference or a new recipe, never both.
Output ONLY the JSON, no markdown, no explanations`

// Request is the JSON payload describing a synthesis request.
type Request struct {
	Remaining   Macros       `json:"remaining"`
	Ingredients []Ingredient `json:"ingredients"`
	Recipes     []Recipe     `json:"existing_recipes"`
}

// Macros is a macro vector on the wire.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Ingredient is a catalog ingredient offered to the collaborator.
type Ingredient struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	Macros      Macros  `json:"macros_per_serving"`
}

// Recipe is an existing recipe offered to the collaborator.
type Recipe struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PerServing Macros `json:"macros_per_serving"`
}

func toMacros(v domain.MacroVector) Macros {
	return Macros{Calories: v.Calories, Protein: v.Protein, Carbs: v.Carbs, Fat: v.Fat, Fiber: v.Fiber}
}

// NewRequest converts a synthesis request to its wire form. Recipes with
// invalid servings are left out.
func NewRequest(req domain.SynthesisRequest) Request {
	out := Request{
		Remaining:   toMacros(req.Remaining),
		Ingredients: make([]Ingredient, 0, len(req.Ingredients)),
		Recipes:     make([]Recipe, 0, len(req.Existing)),
	}
	for _, ing := range req.Ingredients {
		out.Ingredients = append(out.Ingredients, Ingredient{
			ID:          ing.ID.String(),
			Name:        ing.Name,
			ServingSize: ing.ServingSize,
			ServingUnit: ing.ServingUnit,
			Macros:      toMacros(ing.Macros),
		})
	}
	for _, r := range req.Existing {
		per, err := r.PerServing()
		if err != nil {
			continue
		}
		out.Recipes = append(out.Recipes, Recipe{ID: r.ID.String(), Name: r.Name, PerServing: toMacros(per)})
	}
	return out
}

// RequestJSON marshals the wire form of req.
func RequestJSON(req domain.SynthesisRequest) (string, error) {
	b, err := json.MarshalIndent(NewRequest(req), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal synthesis request: %w", err)
	}
	return string(b), nil
}

// BuildPrompt returns a single-message prompt: the instruction followed by
// the request payload.
func BuildPrompt(req domain.SynthesisRequest) (string, error) {
	payload, err := RequestJSON(req)
	if err != nil {
		return "", err
	}
	return systemPrompt + "\n\nRequest:\n" + payload, nil
}
