package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"reelarchitect/internal/aiclient"
)

// EnvPrefix is prepended to every variable, e.g. REEL_GEMINI_API_KEY.
const EnvPrefix = "REEL"

// History backends.
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds everything the service reads from its environment. It is
// loaded once at startup; nothing is reconfigured at runtime.
type Config struct {
	// Generative API
	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash-preview-09-2025"`
	GeminiBaseURL     string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	GeneratorBackend  string        `envconfig:"GENERATOR_BACKEND" default:"rest"`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"120s"`

	// History store
	AppID               string        `envconfig:"APP_ID" default:"default-app-id"`
	HistoryBackend      string        `envconfig:"HISTORY_BACKEND" default:"memory"`
	SupabaseURL         string        `envconfig:"SUPABASE_URL"`
	SupabaseAnonKey     string        `envconfig:"SUPABASE_ANON_KEY"`
	SQLitePath          string        `envconfig:"SQLITE_PATH" default:"reelarchitect.db"`
	HistoryPollInterval time.Duration `envconfig:"HISTORY_POLL_INTERVAL" default:"3s"`
	AppendWorkers       int           `envconfig:"APPEND_WORKERS" default:"4"`
	AppendQueue         int           `envconfig:"APPEND_QUEUE" default:"64"`

	// HTTP
	HTTPPort    int           `envconfig:"HTTP_PORT" default:"8080"`
	SessionIdle time.Duration `envconfig:"SESSION_IDLE" default:"24h"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads an optional .env file, then the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.GeneratorBackend {
	case aiclient.BackendREST, aiclient.BackendSDK:
	default:
		errs = append(errs, fmt.Errorf("unsupported GENERATOR_BACKEND: %q", c.GeneratorBackend))
	}
	if c.GenerationTimeout <= 0 {
		errs = append(errs, errors.New("GENERATION_TIMEOUT must be positive"))
	}

	switch c.HistoryBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("HISTORY_BACKEND=supabase requires SUPABASE_URL and SUPABASE_ANON_KEY"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("HISTORY_BACKEND=sqlite requires SQLITE_PATH"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported HISTORY_BACKEND: %q", c.HistoryBackend))
	}

	if c.AppID == "" {
		errs = append(errs, errors.New("APP_ID must not be empty"))
	}
	if c.AppendWorkers < 1 {
		errs = append(errs, errors.New("APPEND_WORKERS must be at least 1"))
	}
	if c.AppendQueue < 1 {
		errs = append(errs, errors.New("APPEND_QUEUE must be at least 1"))
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	return errors.Join(errs...)
}

// GeneratorConfig is the aiclient view of the config.
func (c *Config) GeneratorConfig() aiclient.Config {
	return aiclient.Config{
		APIKey:  c.GeminiAPIKey,
		Model:   c.GeminiModel,
		BaseURL: c.GeminiBaseURL,
		Timeout: c.GenerationTimeout,
	}
}

// ListenAddr is the address the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
