package config

import (
	"time"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
	Suggestion SuggestionConfig `yaml:"suggestion"`
	Synthesis  SynthesisConfig  `yaml:"synthesis"`
	Shopping   ShoppingConfig   `yaml:"shopping"`
	Retention  RetentionConfig  `yaml:"retention"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// StatementTimeout is applied per connection; zero disables it.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"30s"`
	ApplicationName  string        `yaml:"application_name"  env:"DATABASE_APPLICATION_NAME"  env-default:"nutrition-engine"`
}

// RedisConfig holds Redis connection settings. Only used when the
// suggestion batch store is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Batch store kinds.
const (
	BatchStorePostgres = "postgres"
	BatchStoreRedis    = "redis"
)

// SuggestionConfig holds the suggestion selector rules and batch storage settings.
type SuggestionConfig struct {
	NegligibleCalories float64       `yaml:"negligible_calories" env:"SUGGEST_NEGLIGIBLE_CALORIES" env-default:"100"`
	NegligibleProtein  float64       `yaml:"negligible_protein"  env:"SUGGEST_NEGLIGIBLE_PROTEIN"  env-default:"10"`
	NegligibleCarbs    float64       `yaml:"negligible_carbs"    env:"SUGGEST_NEGLIGIBLE_CARBS"    env-default:"0"`
	NegligibleFat      float64       `yaml:"negligible_fat"      env:"SUGGEST_NEGLIGIBLE_FAT"      env-default:"0"`
	NegligibleFiber    float64       `yaml:"negligible_fiber"    env:"SUGGEST_NEGLIGIBLE_FIBER"    env-default:"0"`
	NegligibleShare    float64       `yaml:"negligible_share"    env:"SUGGEST_NEGLIGIBLE_SHARE"    env-default:"0.10"`
	OverTolerance      float64       `yaml:"over_tolerance"      env:"SUGGEST_OVER_TOLERANCE"      env-default:"0.10"`
	MinCoverage        float64       `yaml:"min_coverage"        env:"SUGGEST_MIN_COVERAGE"        env-default:"0.80"`
	MaxCombination     int           `yaml:"max_combination"     env:"SUGGEST_MAX_COMBINATION"     env-default:"3"`
	MaxCandidates      int           `yaml:"max_candidates"      env:"SUGGEST_MAX_CANDIDATES"      env-default:"40"`
	SecondaryWeight    float64       `yaml:"secondary_weight"    env:"SUGGEST_SECONDARY_WEIGHT"    env-default:"0.25"`
	SynthesisTimeout   time.Duration `yaml:"synthesis_timeout"   env:"SUGGEST_SYNTHESIS_TIMEOUT"   env-default:"20s"`
	CatalogLimit       int           `yaml:"catalog_limit"       env:"SUGGEST_CATALOG_LIMIT"       env-default:"500"`
	BatchStore         string        `yaml:"batch_store"         env:"SUGGEST_BATCH_STORE"         env-default:"postgres"`
	BatchTTL           time.Duration `yaml:"batch_ttl"           env:"SUGGEST_BATCH_TTL"           env-default:"720h"`
}

// Policy converts the section into the selector policy.
func (c SuggestionConfig) Policy() domain.SuggestionPolicy {
	return domain.SuggestionPolicy{
		Negligible: domain.MacroVector{
			Calories: c.NegligibleCalories,
			Protein:  c.NegligibleProtein,
			Carbs:    c.NegligibleCarbs,
			Fat:      c.NegligibleFat,
			Fiber:    c.NegligibleFiber,
		},
		NegligibleShare:  c.NegligibleShare,
		OverTolerance:    c.OverTolerance,
		MinCoverage:      c.MinCoverage,
		MaxCombination:   c.MaxCombination,
		MaxCandidates:    c.MaxCandidates,
		SecondaryWeight:  c.SecondaryWeight,
		SynthesisTimeout: c.SynthesisTimeout,
		CatalogLimit:     c.CatalogLimit,
	}
}

// Synthesis providers.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// SynthesisConfig selects and configures the recipe synthesis collaborator.
type SynthesisConfig struct {
	Provider   string `yaml:"provider"    env:"SYNTHESIS_PROVIDER"    env-default:"none"`
	APIKey     string `yaml:"api_key"     env:"SYNTHESIS_API_KEY"`
	Model      string `yaml:"model"       env:"SYNTHESIS_MODEL"`
	BaseURL    string `yaml:"base_url"    env:"SYNTHESIS_BASE_URL"`
	MaxTokens  int64  `yaml:"max_tokens"  env:"SYNTHESIS_MAX_TOKENS"  env-default:"4096"`
	MaxRetries int    `yaml:"max_retries" env:"SYNTHESIS_MAX_RETRIES" env-default:"1"`
}

// ShoppingConfig holds shopping list expansion settings.
type ShoppingConfig struct {
	MaxDepth        int    `yaml:"max_depth"        env:"SHOPPING_MAX_DEPTH"        env-default:"8"`
	DefaultCategory string `yaml:"default_category" env:"SHOPPING_DEFAULT_CATEGORY" env-default:"other"`
}

// Policy converts the section into the shopping policy.
func (c ShoppingConfig) Policy() domain.ShoppingPolicy {
	return domain.ShoppingPolicy{
		MaxDepth:        c.MaxDepth,
		DefaultCategory: c.DefaultCategory,
	}
}

// RetentionConfig holds cleanup settings for cmd/cleanup.
type RetentionConfig struct {
	SuggestionBatchDays int `yaml:"suggestion_batch_days" env:"RETENTION_SUGGESTION_BATCH_DAYS" env-default:"30"`
}
