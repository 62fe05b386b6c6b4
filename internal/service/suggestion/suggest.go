package suggestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/nutrition-engine/internal/catalog"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Suggest returns the owner's suggestion batch for the day, creating it on
// the first call. Later calls return the stored batch unchanged.
func (s *Service) Suggest(ctx context.Context, input SuggestInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "suggestion.Suggest",
		trace.WithAttributes(attribute.String("owner_id", input.OwnerID.String())))
	defer span.End()

	day := domain.Day(input.Date)

	existing, err := s.batches.Get(ctx, input.OwnerID, day)
	if err == nil {
		return s.fromBatch(ctx, catalog.New(s.recipes, s.ingredients), existing, domain.SuggestionOriginStored, nil)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get suggestion batch: %w", err)
	}

	return s.generate(ctx, input.OwnerID, day)
}

// Regenerate deletes the owner's batch for the day and builds a new one.
// Authorization for this operation is the caller's responsibility.
func (s *Service) Regenerate(ctx context.Context, input SuggestInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	day := domain.Day(input.Date)
	if err := s.batches.Delete(ctx, input.OwnerID, day); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("delete suggestion batch: %w", err)
	}

	s.log.InfoContext(ctx, "suggestion batch regenerating",
		slog.String("owner_id", input.OwnerID.String()),
		slog.String("date", day.Format(domain.DateLayout)),
	)

	return s.generate(ctx, input.OwnerID, day)
}

func (s *Service) generate(ctx context.Context, ownerID uuid.UUID, day time.Time) (*Result, error) {
	var (
		budget      *domain.DailyBudget
		recipes     []domain.Recipe
		ingredients []domain.Ingredient
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budget, err = s.budgets.Remaining(gctx, ownerID, day)
		return err
	})
	g.Go(func() error {
		var err error
		recipes, err = s.recipes.List(gctx, domain.RecipeFilter{Limit: s.policy.CatalogLimit})
		if err != nil {
			return fmt.Errorf("list recipes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ingredients, err = s.ingredients.List(gctx, domain.IngredientFilter{Limit: s.policy.CatalogLimit})
		if err != nil {
			return fmt.Errorf("list ingredients: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNoActiveGoal) {
			s.log.InfoContext(ctx, "no active goal, suggestions unavailable",
				slog.String("owner_id", ownerID.String()))
			return &Result{Origin: domain.SuggestionOriginNone, Unavailable: true}, nil
		}
		return nil, err
	}

	if s.policy.IsNegligible(budget.Remaining, budget.Target) {
		s.log.DebugContext(ctx, "remaining budget negligible",
			slog.String("owner_id", ownerID.String()),
			slog.String("remaining", budget.Remaining.String()),
		)
		return &Result{Budget: budget, Origin: domain.SuggestionOriginNone}, nil
	}

	cat := catalog.New(s.recipes, s.ingredients)
	cat.Prime(ctx, recipes)

	if combo, ok := SelectCombination(budget.Remaining, recipes, s.policy); ok {
		return s.persist(ctx, cat, ownerID, day, budget, catalogPicks(combo.Recipes), domain.SuggestionOriginCatalog, nil)
	}

	picks, diags := s.synthesize(ctx, ownerID, budget.Remaining, recipes, ingredients)
	if len(picks) == 0 {
		return &Result{Budget: budget, Origin: domain.SuggestionOriginNone, Diagnostics: diags}, nil
	}

	return s.persist(ctx, cat, ownerID, day, budget, picks, domain.SuggestionOriginSynthesized, diags)
}

// errBatchTaken rolls back a persist that lost the race for the day's batch.
var errBatchTaken = errors.New("suggestion batch taken by a concurrent request")

// persist writes proposed recipes and the batch in one transaction. If
// another request stored a batch first, the transaction is rolled back and
// that batch is returned instead.
func (s *Service) persist(
	ctx context.Context,
	cat *catalog.Catalog,
	ownerID uuid.UUID,
	day time.Time,
	budget *domain.DailyBudget,
	picks []pick,
	origin domain.SuggestionOrigin,
	diags []domain.Diagnostic,
) (*Result, error) {
	var (
		recipes []domain.Recipe
		stored  *domain.SuggestionBatch
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		recipes = make([]domain.Recipe, 0, len(picks))
		for _, p := range picks {
			if p.proposal == nil {
				recipes = append(recipes, *p.recipe)
				continue
			}
			created, err := s.writer.CreateRecipe(txCtx, *p.proposal)
			if errors.Is(err, domain.ErrValidation) {
				diags = append(diags, s.rejected(txCtx, ownerID, p.candidate, uuid.Nil, err.Error()))
				continue
			}
			if err != nil {
				return fmt.Errorf("materialize synthesized recipe: %w", err)
			}
			recipes = append(recipes, *created.Recipe)
		}
		if len(recipes) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(recipes))
		for i, r := range recipes {
			ids[i] = r.ID
		}

		var err error
		stored, err = s.batches.CreateIfAbsent(txCtx, &domain.SuggestionBatch{
			OwnerID:   ownerID,
			Date:      day,
			RecipeIDs: ids,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			stored = nil
			return errBatchTaken
		}
		if err != nil {
			return fmt.Errorf("create suggestion batch: %w", err)
		}
		if !slices.Equal(stored.RecipeIDs, ids) {
			return errBatchTaken
		}
		return nil
	})
	if errors.Is(err, errBatchTaken) {
		return s.concurrentBatch(ctx, cat, ownerID, day, stored)
	}
	if err != nil {
		return nil, err
	}

	if len(recipes) == 0 {
		return &Result{Budget: budget, Origin: domain.SuggestionOriginNone, Diagnostics: diags}, nil
	}

	if origin == domain.SuggestionOriginSynthesized {
		combined, err := combinedPerServing(recipes)
		if err != nil {
			return nil, err
		}
		if !fits(combined, budget.Remaining, s.policy) {
			diags = append(diags, domain.Diagnostic{
				Kind:    domain.DiagnosticOutsideTolerance,
				Message: fmt.Sprintf("synthesized set %s does not fit remaining %s", combined, budget.Remaining),
			})
		}
	}

	s.log.InfoContext(ctx, "suggestion batch created",
		slog.String("owner_id", ownerID.String()),
		slog.String("batch_id", stored.ID.String()),
		slog.String("origin", origin.String()),
		slog.Int("recipes", len(recipes)),
	)

	return &Result{
		Batch:       stored,
		Recipes:     recipes,
		Budget:      budget,
		Origin:      origin,
		Diagnostics: diags,
	}, nil
}

// concurrentBatch returns the batch a concurrent request stored. stored is
// nil when the store only reported the conflict.
func (s *Service) concurrentBatch(
	ctx context.Context,
	cat *catalog.Catalog,
	ownerID uuid.UUID,
	day time.Time,
	stored *domain.SuggestionBatch,
) (*Result, error) {
	if stored == nil {
		var err error
		stored, err = s.batches.Get(ctx, ownerID, day)
		if err != nil {
			return nil, fmt.Errorf("get suggestion batch after conflict: %w", err)
		}
	}

	s.log.InfoContext(ctx, "suggestion batch stored by a concurrent request",
		slog.String("owner_id", ownerID.String()),
		slog.String("batch_id", stored.ID.String()),
	)
	return s.fromBatch(ctx, cat, stored, domain.SuggestionOriginStored, nil)
}

// fromBatch loads the batch's recipes in batch order. Recipes that no longer
// resolve are reported and left out.
func (s *Service) fromBatch(
	ctx context.Context,
	cat *catalog.Catalog,
	batch *domain.SuggestionBatch,
	origin domain.SuggestionOrigin,
	diags []domain.Diagnostic,
) (*Result, error) {
	found, err := cat.Recipes(ctx, batch.RecipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load batch recipes: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(batch.RecipeIDs))
	for _, id := range batch.RecipeIDs {
		r, ok := found[id]
		if !ok {
			diags = append(diags, domain.Diagnostic{
				Kind:    domain.DiagnosticUnresolvedRecipe,
				RefID:   id,
				Message: "suggested recipe no longer in catalog",
			})
			continue
		}
		recipes = append(recipes, *r)
	}

	return &Result{Batch: batch, Recipes: recipes, Origin: origin, Diagnostics: diags}, nil
}

func combinedPerServing(recipes []domain.Recipe) (domain.MacroVector, error) {
	var total domain.MacroVector
	for _, r := range recipes {
		per, err := r.PerServing()
		if err != nil {
			return domain.MacroVector{}, fmt.Errorf("recipe %s: %w", r.ID, err)
		}
		total = total.Add(per)
	}
	return total, nil
}
