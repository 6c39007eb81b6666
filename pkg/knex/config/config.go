package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/cognicore/knex/pkg/knex/internalerr"
)

// Config holds all configuration for the service and CLI
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Lexicon LexiconConfig `mapstructure:"lexicon"`
	Log     LogConfig     `mapstructure:"log"`

	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the record store. An empty Driver is inferred from
// the DSN: postgres URLs select postgres, anything else sqlite, and an
// empty DSN the in-memory store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LLMConfig selects the summarizer. An empty Model picks the provider's
// default.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"` // openai, gemini or none
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache_size"` // 0 disables the summary cache
}

type LexiconConfig struct {
	Path string `mapstructure:"path"`
}

// MaintenanceConfig schedules background jobs of the server. An empty
// RescoreSchedule disables periodic rescoring.
type MaintenanceConfig struct {
	RescoreSchedule string `mapstructure:"rescore_schedule"` // cron spec, e.g. "@daily"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.driver", "")
	v.SetDefault("store.dsn", "knex.db")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.cache_size", 256)
	v.SetDefault("lexicon.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("maintenance.rescore_schedule", "")
}

// Load reads configuration from an optional YAML file, a .env file and
// the environment.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-provided viper instance, so that command
// line flags bound to v take precedence.
//
// Environment variables use the KNEX_ prefix with dots replaced by
// underscores (KNEX_STORE_DSN). DATABASE_URL is honoured as a fallback,
// and so is the key variable of the selected provider (OPENAI_API_KEY or
// GEMINI_API_KEY).
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix("KNEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("store.dsn", "KNEX_STORE_DSN", "DATABASE_URL")
	_ = v.BindEnv("llm.api_key", "KNEX_LLM_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, cfg.Validate()
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderGemini:
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			c.LLM.Model = "gpt-4.1"
		case ProviderGemini:
			c.LLM.Model = "gemini-2.5-flash"
		}
	}

	if c.Store.Driver == "" {
		switch {
		case c.Store.DSN == "":
			c.Store.Driver = DriverMemory
		case strings.HasPrefix(c.Store.DSN, "postgres://"), strings.HasPrefix(c.Store.DSN, "postgresql://"):
			c.Store.Driver = DriverPostgres
		default:
			c.Store.Driver = DriverSQLite
		}
	}
}

// Validate checks that required configuration values are present and
// consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &Error{Field: "server.addr", Message: "listen address is required"}
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return &Error{Field: "store.dsn", Message: c.Store.Driver + " store requires a DSN"}
		}
	default:
		return &Error{Field: "store.driver", Message: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
			return &Error{Field: "llm.api_key", Message: "OpenAI API key is required"}
		}
	case ProviderGemini, ProviderNone:
	default:
		return &Error{Field: "llm.provider", Message: fmt.Sprintf("unknown provider %q", c.LLM.Provider)}
	}
	if c.LLM.Provider != ProviderNone && c.LLM.Timeout <= 0 {
		return &Error{Field: "llm.timeout", Message: "timeout must be positive"}
	}
	if c.LLM.CacheSize < 0 {
		return &Error{Field: "llm.cache_size", Message: "cache size must not be negative"}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &Error{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return &Error{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}

	if spec := c.Maintenance.RescoreSchedule; spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return &Error{Field: "maintenance.rescore_schedule", Message: err.Error()}
		}
	}
	return nil
}

// Error represents a configuration error
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return internalerr.ErrInvalidConfig
}
