package stub

import (
	"context"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Synthesizer is a no-op synthesis collaborator for deployments without an LLM.
// Returns nil (no candidates available).
type Synthesizer struct{}

// New creates a new no-op synthesis collaborator.
func New() *Synthesizer { return &Synthesizer{} }

// ProposeRecipes always returns nil, which the suggestion service reports as
// synthesis unavailable.
func (s *Synthesizer) ProposeRecipes(ctx context.Context, req domain.SynthesisRequest) ([]domain.RecipeCandidate, error) {
	return nil, nil
}
