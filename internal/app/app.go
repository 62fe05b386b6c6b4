package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/goal"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/ingredient"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/meallog"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/mealplan"
	recipestore "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/recipe"
	pgsuggestion "github.com/heartmarshall/nutrition-engine/internal/adapter/postgres/suggestion"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/provider/gemini"
	"github.com/heartmarshall/nutrition-engine/internal/adapter/provider/stub"
	redissuggestion "github.com/heartmarshall/nutrition-engine/internal/adapter/redis/suggestion"
	"github.com/heartmarshall/nutrition-engine/internal/config"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/service/budget"
	"github.com/heartmarshall/nutrition-engine/internal/service/recipe"
	"github.com/heartmarshall/nutrition-engine/internal/service/shopping"
	"github.com/heartmarshall/nutrition-engine/internal/service/suggestion"
)

type synthesizer interface {
	ProposeRecipes(ctx context.Context, req domain.SynthesisRequest) ([]domain.RecipeCandidate, error)
}

type batchStore interface {
	Get(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.SuggestionBatch, error)
	CreateIfAbsent(ctx context.Context, batch *domain.SuggestionBatch) (*domain.SuggestionBatch, error)
	Delete(ctx context.Context, ownerID uuid.UUID, date time.Time) error
}

// Engine holds the wired stores and services used by the command-line tools.
type Engine struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool

	Ingredients *ingredient.Repo
	Batches     *pgsuggestion.Repo

	Recipes     *recipe.Service
	Budget      *budget.Service
	Suggestions *suggestion.Service
	Shopping    *shopping.Service

	closers []func()
}

// Bootstrap loads configuration, initializes the logger, logs startup
// information and builds the Engine.
func Bootstrap(ctx context.Context) (*Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("batch_store", cfg.Suggestion.BatchStore),
		slog.String("synthesis_provider", cfg.Synthesis.Provider),
	)

	return NewEngine(ctx, cfg, logger)
}

// NewEngine connects to the configured stores and wires the services.
// The caller must Close the engine.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	e := &Engine{
		Config:  cfg,
		Log:     logger,
		Pool:    pool,
		closers: []func(){pool.Close},
	}

	txManager := postgres.NewTxManager(pool)
	recipes := recipestore.New(pool)
	e.Ingredients = ingredient.New(pool)
	e.Batches = pgsuggestion.New(pool)

	batches, err := e.batchStore(ctx)
	if err != nil {
		e.Close()
		return nil, err
	}

	synth, err := newSynthesizer(ctx, cfg.Synthesis, logger)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.Recipes = recipe.NewService(logger, recipes, e.Ingredients, txManager)
	e.Budget = budget.NewService(logger, goal.New(pool), meallog.New(pool))

	e.Suggestions, err = suggestion.NewService(logger,
		e.Budget, recipes, e.Ingredients, e.Recipes, batches, synth, txManager,
		cfg.Suggestion.Policy(),
	)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.Shopping, err = shopping.NewService(logger,
		mealplan.New(pool), recipes, e.Ingredients,
		cfg.Shopping.Policy(),
	)
	if err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

// Close releases every connection the engine opened, in reverse order.
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

func (e *Engine) batchStore(ctx context.Context) (batchStore, error) {
	if e.Config.Suggestion.BatchStore != config.BatchStoreRedis {
		return e.Batches, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     e.Config.Redis.Addr,
		Password: e.Config.Redis.Password,
		DB:       e.Config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	e.closers = append(e.closers, func() { _ = client.Close() })

	return redissuggestion.New(client, e.Config.Suggestion.BatchTTL, e.Log), nil
}

func newSynthesizer(ctx context.Context, cfg config.SynthesisConfig, logger *slog.Logger) (synthesizer, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewSynthesizer(anthropic.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			BaseURL:    cfg.BaseURL,
			MaxRetries: cfg.MaxRetries,
		}, logger), nil
	case config.ProviderGemini:
		return gemini.NewSynthesizer(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}, logger)
	default:
		logger.Warn("recipe synthesis disabled, suggestions limited to the catalog")
		return stub.New(), nil
	}
}
