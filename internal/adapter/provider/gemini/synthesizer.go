// Package gemini proposes recipes with the Gemini API using a JSON response schema.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/provider"
)

// Config configures the Gemini synthesizer.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint (for testing).
	BaseURL string
}

// Synthesizer asks Gemini for recipes that fit a remaining budget.
type Synthesizer struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewSynthesizer creates a Synthesizer backed by the Gemini API.
func NewSynthesizer(ctx context.Context, cfg Config, logger *slog.Logger) (*Synthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Synthesizer{
		client: client,
		model:  cfg.Model,
		log:    logger.With("adapter", "gemini"),
	}, nil
}

// ProposeRecipes sends the request payload as a user message and decodes the
// schema-constrained answer.
func (s *Synthesizer) ProposeRecipes(ctx context.Context, req domain.SynthesisRequest) ([]domain.RecipeCandidate, error) {
	payload, err := provider.RequestJSON(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	s.log.DebugContext(ctx, "gemini request",
		slog.String("model", s.model),
		slog.Int("ingredients", len(req.Ingredients)),
		slog.Int("existing", len(req.Existing)),
	)

	res, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{
		genai.NewContentFromText(payload, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(provider.SystemPrompt(), genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generating content: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil ||
		len(res.Candidates[0].Content.Parts) == 0 || res.Candidates[0].Content.Parts[0].Text == "" {
		return nil, fmt.Errorf("gemini: %w: unexpected generation result", provider.ErrMalformedResponse)
	}

	cands, err := provider.ParseCandidates(res.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	s.log.DebugContext(ctx, "gemini response", slog.Int("candidates", len(cands)))
	return cands, nil
}

var responseSchema = &genai.Schema{
	Type:        genai.TypeObject,
	Description: "Recipes that together fit the remaining macro budget.",
	Properties: map[string]*genai.Schema{
		"recipes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"existing_recipe_id": {
						Type:        genai.TypeString,
						Description: "Id of an existing recipe. Leave empty for a new recipe.",
					},
					"name": {
						Type:        genai.TypeString,
						Description: "Name of a new recipe.",
					},
					"description": {
						Type: genai.TypeString,
					},
					"ingredients": {
						Type:        genai.TypeArray,
						Description: "Ingredient lines of a new recipe.",
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"ingredient_id": {
									Type:        genai.TypeString,
									Description: "Id of a listed ingredient.",
								},
								"amount": {
									Type:        genai.TypeNumber,
									Description: "Amount in the ingredient's serving unit.",
								},
							},
							Required: []string{"ingredient_id", "amount"},
						},
					},
					"instructions": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
				},
			},
		},
	},
	Required: []string{"recipes"},
}
