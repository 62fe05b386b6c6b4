package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// ErrMalformedResponse means the collaborator's answer is not the expected JSON.
var ErrMalformedResponse = errors.New("malformed synthesis response")

// Response is the JSON answer of a collaborator.
type Response struct {
	Recipes []Candidate `json:"recipes"`
}

// Candidate is one entry of Response.
type Candidate struct {
	ExistingRecipeID string   `json:"existing_recipe_id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Description      string   `json:"description,omitempty"`
	Ingredients      []Line   `json:"ingredients,omitempty"`
	Instructions     []string `json:"instructions,omitempty"`
}

// Line is an ingredient line of a proposed recipe.
type Line struct {
	IngredientID string  `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
}

// ParseCandidates extracts the JSON object from text and converts it.
// Ids that do not parse become uuid.Nil so the caller rejects that candidate
// instead of the whole answer.
func ParseCandidates(text string) ([]domain.RecipeCandidate, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := make([]domain.RecipeCandidate, 0, len(resp.Recipes))
	for _, c := range resp.Recipes {
		out = append(out, c.toDomain())
	}
	return out, nil
}

func (c Candidate) toDomain() domain.RecipeCandidate {
	var out domain.RecipeCandidate

	if c.ExistingRecipeID != "" {
		id := parseID(c.ExistingRecipeID)
		out.ExistingID = &id
	}
	if c.Name != "" || len(c.Ingredients) > 0 {
		p := &domain.ProposedRecipe{
			Name:         strings.TrimSpace(c.Name),
			Description:  strings.TrimSpace(c.Description),
			Lines:        make([]domain.ProposedLine, 0, len(c.Ingredients)),
			Instructions: c.Instructions,
		}
		for _, l := range c.Ingredients {
			p.Lines = append(p.Lines, domain.ProposedLine{IngredientID: parseID(l.IngredientID), Amount: l.Amount})
		}
		out.Proposed = p
	}
	return out
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	return s[start : end+1], nil
}
