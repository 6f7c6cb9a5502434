// Package config provides configuration management for cratewise.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/cratewise/cratewise/pkg/models"
)

const (
	// DefaultHTTPPort is the default port for the recommendation API.
	DefaultHTTPPort = 8680

	// DefaultAIProvider selects which LLM backend scores the AI strategy.
	DefaultAIProvider = "openai"
)

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	HTTPPort int `json:"http_port"`

	// Database settings: backend is "postgres" or "sqlite".
	DBBackend string `json:"db_backend"`
	DBDSN     string `json:"db_dsn"`
	MaxConns  int    `json:"max_conns"`

	// Redis cache settings
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// External music catalog/graph service
	CatalogBaseURL       string  `json:"catalog_base_url"`
	CatalogToken         string  `json:"catalog_token"`
	CatalogRatePerMin    float64 `json:"catalog_rate_per_min"`
	CatalogMaxCandidates int     `json:"catalog_max_candidates"`

	// AI provider settings. A user-specific key (stored per user) overrides
	// the site-wide key at call time.
	AIProvider string `json:"ai_provider"` // "openai" or "anthropic"
	AIAPIKey   string `json:"ai_api_key"`
	AIModel    string `json:"ai_model"`
	AIBaseURL  string `json:"ai_base_url"`

	// Scoring parameters
	Profile *models.ProfileConfig `json:"profile"`
	Fusion  *models.FusionConfig  `json:"fusion"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// DataDir returns the data directory path (~/.cratewise).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cratewise")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		HTTPPort:             DefaultHTTPPort,
		DBBackend:            "sqlite",
		DBDSN:                filepath.Join(DataDir(), "cratewise.db"),
		MaxConns:             10,
		RedisAddr:            "localhost:6379",
		CatalogBaseURL:       "https://api.discogs.com",
		CatalogRatePerMin:    60,
		CatalogMaxCandidates: 2000,
		AIProvider:           DefaultAIProvider,
		Profile:              models.DefaultProfileConfig(),
		Fusion:               models.DefaultFusionConfig(),
	}
}

// Load loads configuration from the settings file, merging with defaults,
// then applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err == nil {
		// Unknown fields are ignored; a malformed file falls back to defaults.
		_ = json.Unmarshal(data, cfg)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides config fields from CRATEWISE_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CRATEWISE_HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.HTTPPort = p
		}
	}
	if v := os.Getenv("CRATEWISE_DB_BACKEND"); v != "" {
		cfg.DBBackend = v
	}
	if v := os.Getenv("CRATEWISE_DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	if v := os.Getenv("CRATEWISE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("CRATEWISE_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("CRATEWISE_CATALOG_BASE_URL"); v != "" {
		cfg.CatalogBaseURL = v
	}
	if v := os.Getenv("CRATEWISE_CATALOG_TOKEN"); v != "" {
		cfg.CatalogToken = v
	}
	if v := os.Getenv("CRATEWISE_AI_PROVIDER"); v != "" {
		cfg.AIProvider = v
	}
	if v := os.Getenv("CRATEWISE_AI_API_KEY"); v != "" {
		cfg.AIAPIKey = v
	}
	if v := os.Getenv("CRATEWISE_AI_MODEL"); v != "" {
		cfg.AIModel = v
	}
	if v := os.Getenv("CRATEWISE_AI_BASE_URL"); v != "" {
		cfg.AIBaseURL = v
	}
	if v := os.Getenv("CRATEWISE_STALENESS_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Fusion.StalenessWindow = d
			cfg.Profile.StalenessWindow = d
		}
	}
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})
	return globalConfig
}
