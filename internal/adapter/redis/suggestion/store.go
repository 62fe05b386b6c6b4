// Package suggestion implements the suggestion batch store on Redis.
// Each batch is one JSON value keyed by owner and calendar date; SETNX makes
// creation atomic and the key TTL replaces retention cleanup.
package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

const (
	defaultKeyPrefix = "nutrition:suggestion:"
	defaultTTL       = 30 * 24 * time.Hour
)

// Store is a Redis-backed suggestion batch store.
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       *slog.Logger
}

// New creates a store. A non-positive ttl falls back to 30 days.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
		log:       logger.With("adapter", "redis_suggestion_store"),
	}
}

type record struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Date      string      `json:"date"`
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
	CreatedAt time.Time   `json:"created_at"`
}

func (s *Store) key(ownerID uuid.UUID, date time.Time) string {
	return s.keyPrefix + ownerID.String() + ":" + domain.Day(date).Format(domain.DateLayout)
}

// Get returns the owner's batch for the calendar date.
// Returns domain.ErrNotFound if none is stored or it has expired.
func (s *Store) Get(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.SuggestionBatch, error) {
	key := s.key(ownerID, date)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("suggestion_batch %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode suggestion batch %s: %w", key, err)
	}

	day, err := domain.ParseDay(rec.Date)
	if err != nil {
		return nil, fmt.Errorf("decode suggestion batch %s: %w", key, err)
	}

	ids := rec.RecipeIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return &domain.SuggestionBatch{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		Date:      day,
		RecipeIDs: ids,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// CreateIfAbsent stores batch with SETNX and returns whichever batch holds
// the key afterwards.
func (s *Store) CreateIfAbsent(ctx context.Context, batch *domain.SuggestionBatch) (*domain.SuggestionBatch, error) {
	stored := domain.SuggestionBatch{
		ID:        batch.ID,
		OwnerID:   batch.OwnerID,
		Date:      domain.Day(batch.Date),
		RecipeIDs: append([]uuid.UUID{}, batch.RecipeIDs...),
		CreatedAt: batch.CreatedAt,
	}
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(record{
		ID:        stored.ID,
		OwnerID:   stored.OwnerID,
		Date:      stored.Date.Format(domain.DateLayout),
		RecipeIDs: stored.RecipeIDs,
		CreatedAt: stored.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode suggestion batch: %w", err)
	}

	key := s.key(stored.OwnerID, stored.Date)
	ok, err := s.client.SetNX(ctx, key, data, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", key, err)
	}

	if !ok {
		s.log.DebugContext(ctx, "suggestion batch already stored",
			slog.String("key", key),
		)
		return s.Get(ctx, stored.OwnerID, stored.Date)
	}

	return &stored, nil
}

// Delete removes the owner's batch for the date.
// Returns domain.ErrNotFound if none was stored.
func (s *Store) Delete(ctx context.Context, ownerID uuid.UUID, date time.Time) error {
	key := s.key(ownerID, date)

	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("suggestion_batch %s: %w", key, domain.ErrNotFound)
	}
	return nil
}
