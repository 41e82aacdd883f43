// Package config loads service configuration from defaults, an optional
// YAML file and environment variables (APP_PORT, DATABASE_URL, ...).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// KeyDelimiter separates nested keys. Dots are left alone so mapping keys
// such as "source.url" survive.
const KeyDelimiter = "::"

// Config is the complete service configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Search   SearchConfig   `mapstructure:"search"`
}

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	URL              string        `mapstructure:"url"`
	MaxConns         int32         `mapstructure:"max_conns"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SearchConfig configures entry search. Mapping entries override or extend
// the built-in field mapping. Viper lowercases map keys.
type SearchConfig struct {
	Mapping        map[string]string `mapstructure:"mapping"`
	DefaultFields  []string          `mapstructure:"default_fields"`
	IgnoreCase     bool              `mapstructure:"ignore_case"`
	MaxQueryLength int               `mapstructure:"max_query_length"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config::file", "")

	v.SetDefault("app::env", "development")
	v.SetDefault("app::port", "8080")
	v.SetDefault("log::level", "info")

	v.SetDefault("database::url", "")
	v.SetDefault("database::max_conns", 10)
	v.SetDefault("database::statement_timeout", 30*time.Second)

	v.SetDefault("http::read_timeout", 15*time.Second)
	v.SetDefault("http::write_timeout", 30*time.Second)
	v.SetDefault("http::idle_timeout", 60*time.Second)
	v.SetDefault("http::shutdown_timeout", 30*time.Second)

	v.SetDefault("search::mapping", map[string]string{})
	v.SetDefault("search::default_fields", []string{})
	v.SetDefault("search::ignore_case", true)
	v.SetDefault("search::max_query_length", 1024)
}

// Load reads configuration. path may be empty; CONFIG_FILE is used then.
// Environment variables override file values: nested keys join with "_",
// so database::url is DATABASE_URL.
func Load(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "_", ".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config::file")
	}
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.Port) == "" {
		return fmt.Errorf("app port is required")
	}
	if c.Search.MaxQueryLength < 0 {
		return fmt.Errorf("search max_query_length must not be negative")
	}
	for field, column := range c.Search.Mapping {
		if strings.TrimSpace(column) == "" {
			return fmt.Errorf("search mapping for %q has no column", field)
		}
	}
	return nil
}

// RequireDatabase reports a missing DATABASE_URL.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}
