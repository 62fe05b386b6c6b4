package suggestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/service/recipe"
)

// pick is one accepted suggestion: a catalog recipe, or a proposal that is
// written only when the batch is persisted.
type pick struct {
	recipe    *domain.Recipe
	proposal  *recipe.CreateRecipeInput
	candidate int
}

func catalogPicks(recipes []domain.Recipe) []pick {
	picks := make([]pick, len(recipes))
	for i := range recipes {
		picks[i] = pick{recipe: &recipes[i], candidate: i}
	}
	return picks
}

// synthesize asks the collaborator for recipes and validates every candidate.
// Nothing is written here. Collaborator failures come back as diagnostics.
func (s *Service) synthesize(
	ctx context.Context,
	ownerID uuid.UUID,
	remaining domain.MacroVector,
	existing []domain.Recipe,
	ingredients []domain.Ingredient,
) ([]pick, []domain.Diagnostic) {
	ctx, span := tracer.Start(ctx, "suggestion.synthesize",
		trace.WithAttributes(attribute.Int("ingredients", len(ingredients)), attribute.Int("existing", len(existing))))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, s.policy.SynthesisTimeout)
	defer cancel()

	cands, err := s.synth.ProposeRecipes(callCtx, domain.SynthesisRequest{
		Remaining:   remaining,
		Ingredients: ingredients,
		Existing:    existing,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis unavailable")
		s.log.WarnContext(ctx, "synthesis collaborator failed, graceful degradation",
			slog.String("owner_id", ownerID.String()),
			slog.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
			slog.String("error", err.Error()),
		)
		return nil, []domain.Diagnostic{{
			Kind:    domain.DiagnosticSynthesisUnavailable,
			Message: err.Error(),
		}}
	}
	if len(cands) == 0 {
		return nil, []domain.Diagnostic{{
			Kind:    domain.DiagnosticSynthesisUnavailable,
			Message: "collaborator returned no candidates",
		}}
	}

	existingByID := make(map[uuid.UUID]*domain.Recipe, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}
	ingredientByID := make(map[uuid.UUID]domain.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientByID[ing.ID] = ing
	}

	var (
		picks []pick
		diags []domain.Diagnostic
		seen  = make(map[uuid.UUID]struct{})
	)
	for i, c := range cands {
		switch {
		case c.ExistingID != nil && c.Proposed == nil:
			r, ok := existingByID[*c.ExistingID]
			if !ok {
				diags = append(diags, s.rejected(ctx, ownerID, i, *c.ExistingID, "references an unknown recipe"))
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			picks = append(picks, pick{recipe: r, candidate: i})

		case c.Proposed != nil && c.ExistingID == nil:
			input, reason := proposalInput(ownerID, c.Proposed, ingredientByID)
			if reason == "" {
				if err := input.Validate(); err != nil {
					reason = err.Error()
				}
			}
			if reason != "" {
				diags = append(diags, s.rejected(ctx, ownerID, i, uuid.Nil, reason))
				continue
			}
			picks = append(picks, pick{proposal: &input, candidate: i})

		default:
			diags = append(diags, s.rejected(ctx, ownerID, i, uuid.Nil, "must be either an existing reference or a proposal"))
		}
	}

	span.SetAttributes(attribute.Int("accepted", len(picks)), attribute.Int("rejected", len(diags)))
	return picks, diags
}

func (s *Service) rejected(ctx context.Context, ownerID uuid.UUID, candidate int, ref uuid.UUID, reason string) domain.Diagnostic {
	s.log.WarnContext(ctx, "synthesized candidate rejected",
		slog.String("owner_id", ownerID.String()),
		slog.Int("candidate", candidate),
		slog.String("reason", reason),
	)
	return domain.Diagnostic{
		Kind:    domain.DiagnosticProposalRejected,
		RefID:   ref,
		Message: fmt.Sprintf("candidate %d: %s", candidate, reason),
	}
}

// proposalInput turns a proposal into a one-serving recipe. Every line must
// reference an ingredient that was offered to the collaborator.
func proposalInput(ownerID uuid.UUID, p *domain.ProposedRecipe, ingredients map[uuid.UUID]domain.Ingredient) (recipe.CreateRecipeInput, string) {
	if strings.TrimSpace(p.Name) == "" {
		return recipe.CreateRecipeInput{}, "proposal has no name"
	}
	if len(p.Lines) == 0 {
		return recipe.CreateRecipeInput{}, "proposal has no ingredient lines"
	}

	lines := make([]domain.RecipeLine, 0, len(p.Lines))
	for j, l := range p.Lines {
		ing, ok := ingredients[l.IngredientID]
		if !ok {
			return recipe.CreateRecipeInput{}, fmt.Sprintf("line %d references unknown ingredient %s", j, l.IngredientID)
		}
		if !(l.Amount > 0) || math.IsInf(l.Amount, 0) {
			return recipe.CreateRecipeInput{}, fmt.Sprintf("line %d has invalid amount %v", j, l.Amount)
		}
		lines = append(lines, domain.RecipeLine{RefID: ing.ID, Amount: l.Amount, Unit: ing.ServingUnit})
	}

	return recipe.CreateRecipeInput{
		Name:            p.Name,
		Description:     p.Description,
		Servings:        1,
		Lines:           lines,
		Instructions:    p.Instructions,
		CreatorID:       ownerID,
		Source:          domain.RecipeSourceSynthesized,
		RequireResolved: true,
	}, ""
}
