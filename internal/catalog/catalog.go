// Package catalog provides a per-call read-through view of the recipe and
// ingredient catalogs. Lookups issued while resolving one request are batched
// into single repository calls and cached for the lifetime of the Catalog.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// RecipeSource loads recipes with their lines. Unknown ids are simply absent from the result.
type RecipeSource interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
}

// IngredientSource loads ingredients. Unknown ids are simply absent from the result.
type IngredientSource interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ingredient, error)
}

// Catalog batches and caches catalog lookups. Create one per operation.
type Catalog struct {
	recipes     *dataloader.Loader[uuid.UUID, *domain.Recipe]
	ingredients *dataloader.Loader[uuid.UUID, *domain.Ingredient]
}

// New creates a Catalog backed by the given sources.
func New(recipes RecipeSource, ingredients IngredientSource) *Catalog {
	return &Catalog{
		recipes:     newLoader(newRecipeBatchFn(recipes)),
		ingredients: newLoader(newIngredientBatchFn(ingredients)),
	}
}

// Recipes returns the recipes found for ids, keyed by id.
// Ids that do not resolve are left out of the map.
func (c *Catalog) Recipes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Recipe, error) {
	return loadMany(ctx, c.recipes, ids, "recipes")
}

// Ingredients returns the ingredients found for ids, keyed by id.
// Ids that do not resolve are left out of the map.
func (c *Catalog) Ingredients(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Ingredient, error) {
	return loadMany(ctx, c.ingredients, ids, "ingredients")
}

// Recipe returns a single recipe or domain.ErrNotFound.
func (c *Catalog) Recipe(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	r, err := c.recipes.Load(ctx, id)()
	if err != nil {
		return nil, fmt.Errorf("load recipe %s: %w", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// Prime stores already loaded recipes so later lookups skip the source.
func (c *Catalog) Prime(ctx context.Context, recipes []domain.Recipe) {
	for i := range recipes {
		r := recipes[i]
		c.recipes.Prime(ctx, r.ID, &r)
	}
}

func loadMany[V any](ctx context.Context, l *dataloader.Loader[uuid.UUID, *V], ids []uuid.UUID, what string) (map[uuid.UUID]*V, error) {
	out := make(map[uuid.UUID]*V, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := dedupe(ids)
	values, errs := l.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", what, err)
		}
	}

	for i, v := range values {
		if v != nil {
			out[keys[i]] = v
		}
	}
	return out, nil
}

// newLoader creates a dataloader.Loader with standard batch parameters.
func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

func newRecipeBatchFn(src RecipeSource) dataloader.BatchFunc[uuid.UUID, *domain.Recipe] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Recipe] {
		rows, err := src.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Recipe](len(keys), err)
		}

		byID := make(map[uuid.UUID]*domain.Recipe, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}
		return mapResults(keys, byID)
	}
}

func newIngredientBatchFn(src IngredientSource) dataloader.BatchFunc[uuid.UUID, *domain.Ingredient] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Ingredient] {
		rows, err := src.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Ingredient](len(keys), err)
		}

		byID := make(map[uuid.UUID]*domain.Ingredient, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}
		return mapResults(keys, byID)
	}
}

// errorResults returns n results all carrying err.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps found values back to key order; missing keys get a nil value.
func mapResults[V any](keys []uuid.UUID, found map[uuid.UUID]*V) []*dataloader.Result[*V] {
	results := make([]*dataloader.Result[*V], len(keys))
	for i, key := range keys {
		results[i] = &dataloader.Result[*V]{Data: found[key]}
	}
	return results
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
