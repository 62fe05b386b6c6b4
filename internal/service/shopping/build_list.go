package shopping

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/nutrition-engine/internal/catalog"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// BuildList expands every planned recipe in the range into ingredient
// quantities and returns them summed per (ingredient, unit).
// Unresolved references, cycles and over-deep nesting are reported as
// diagnostics. Only malformed plan entries fail the call.
func (s *Service) BuildList(ctx context.Context, input BuildListInput) (*List, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	r := domain.DateRange{From: domain.Day(input.Range.From), To: domain.Day(input.Range.To)}

	ctx, span := tracer.Start(ctx, "shopping.BuildList",
		trace.WithAttributes(attribute.String("owner_id", input.OwnerID.String()), attribute.String("range", r.String())))
	defer span.End()

	entries, err := s.plans.ListByRange(ctx, input.OwnerID, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list meal plan")
		return nil, fmt.Errorf("list meal plan: %w", err)
	}
	sortEntries(entries)

	cat := catalog.New(s.recipes, s.ingredients)

	recipes, err := s.loadRecipes(ctx, cat, entries)
	if err != nil {
		return nil, err
	}

	needs, diags, err := expandEntries(entries, recipes, s.policy.MaxDepth)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(needs))
	for i, n := range needs {
		ids[i] = n.ingredientID
	}
	ingredients, err := cat.Ingredients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}

	items, ingDiags := aggregate(needs, ingredients, s.policy.DefaultCategory)
	diags = append(diags, ingDiags...)

	span.SetAttributes(
		attribute.Int("entries", len(entries)),
		attribute.Int("items", len(items)),
		attribute.Int("diagnostics", len(diags)),
	)
	if len(diags) > 0 {
		s.log.WarnContext(ctx, "shopping list built with skipped references",
			slog.String("owner_id", input.OwnerID.String()),
			slog.String("range", r.String()),
			slog.Int("diagnostics", len(diags)),
		)
	}

	return &List{Range: r, Items: items, Diagnostics: diags}, nil
}

// loadRecipes loads the planned recipes and their sub-recipes one nesting
// level at a time, down to the policy's max depth.
func (s *Service) loadRecipes(ctx context.Context, cat *catalog.Catalog, entries []domain.MealPlanEntry) (map[uuid.UUID]*domain.Recipe, error) {
	loaded := make(map[uuid.UUID]*domain.Recipe)
	requested := make(map[uuid.UUID]struct{})

	frontier := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if _, ok := requested[e.RecipeID]; ok {
			continue
		}
		requested[e.RecipeID] = struct{}{}
		frontier = append(frontier, e.RecipeID)
	}

	for depth := 0; len(frontier) > 0 && depth <= s.policy.MaxDepth; depth++ {
		found, err := cat.Recipes(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("load recipes at depth %d: %w", depth, err)
		}

		var next []uuid.UUID
		for id, r := range found {
			loaded[id] = r
			for _, line := range r.Lines {
				if !line.IsSubRecipe {
					continue
				}
				if _, ok := requested[line.RefID]; ok {
					continue
				}
				requested[line.RefID] = struct{}{}
				next = append(next, line.RefID)
			}
		}
		frontier = next
	}

	return loaded, nil
}

// sortEntries orders entries by date, then id, so sums do not depend on
// storage order.
func sortEntries(entries []domain.MealPlanEntry) {
	slices.SortFunc(entries, func(a, b domain.MealPlanEntry) int {
		return cmp.Or(a.Date.Compare(b.Date), bytes.Compare(a.ID[:], b.ID[:]))
	})
}
