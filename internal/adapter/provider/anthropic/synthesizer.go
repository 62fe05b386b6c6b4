// Package anthropic proposes recipes with the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/provider"
)

// Config configures the Anthropic synthesizer.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint (for testing).
	BaseURL string
	// MaxRetries overrides the SDK retry count when >= 0.
	MaxRetries int
}

// Synthesizer asks Claude for recipes that fit a remaining budget.
type Synthesizer struct {
	client    sdk.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(cfg Config, logger *slog.Logger) *Synthesizer {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	return &Synthesizer{
		client:    sdk.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       logger.With("adapter", "anthropic"),
	}
}

// ProposeRecipes sends one request and parses the JSON answer.
func (s *Synthesizer) ProposeRecipes(ctx context.Context, req domain.SynthesisRequest) ([]domain.RecipeCandidate, error) {
	prompt, err := provider.BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	s.log.DebugContext(ctx, "anthropic request",
		slog.String("model", s.model),
		slog.Int("ingredients", len(req.Ingredients)),
		slog.Int("existing", len(req.Existing)),
	)

	msg, err := s.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(s.model),
		MaxTokens: s.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: messages api call: %w", err)
	}

	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("anthropic: %w: empty response", provider.ErrMalformedResponse)
	}

	cands, err := provider.ParseCandidates(msg.Content[0].Text)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	s.log.DebugContext(ctx, "anthropic response", slog.Int("candidates", len(cands)))
	return cands, nil
}
