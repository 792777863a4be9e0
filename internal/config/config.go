// Package config loads settings from defaults, an optional cricmetrics.yaml,
// a .env file and CRICMETRICS_* environment variables, in rising priority.
// Command-line flags bound by the caller override all of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pable/cricmetrics/internal/classifier"
	"github.com/pable/cricmetrics/internal/cricsheet"
	"github.com/pable/cricmetrics/internal/ingest"
)

const envPrefix = "CRICMETRICS"

// Config is the resolved settings for one process.
type Config struct {
	DB        string `mapstructure:"db"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Competition string `mapstructure:"competition"`
	SeasonFrom  int    `mapstructure:"season_from"`
	SeasonTo    int    `mapstructure:"season_to"`
	BatchSize   int    `mapstructure:"batch_size"`
	MaxMatches  int    `mapstructure:"max_matches"`

	SourceURL    string        `mapstructure:"source_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	Listen      string        `mapstructure:"listen"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	RedisURL    string        `mapstructure:"redis_url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`

	AnthropicModel string `mapstructure:"anthropic_model"`

	PlayerStyles classifier.StyleLookup `mapstructure:"player_styles"`
}

// Ingest returns the pipeline settings.
func (c *Config) Ingest() ingest.Config {
	return ingest.Config{
		Competition: c.Competition,
		SeasonFrom:  c.SeasonFrom,
		SeasonTo:    c.SeasonTo,
		BatchSize:   c.BatchSize,
		MaxMatches:  c.MaxMatches,
	}
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.DB == "" {
		return errors.New("db path is empty")
	}
	if c.SeasonFrom > c.SeasonTo {
		return fmt.Errorf("season_from %d is after season_to %d", c.SeasonFrom, c.SeasonTo)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.MaxMatches < 0 {
		return fmt.Errorf("max_matches must not be negative, got %d", c.MaxMatches)
	}
	return nil
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("db", filepath.Join(home, ".cricmetrics", "cricket.db"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("competition", "Indian Premier League")
	v.SetDefault("season_from", 2016)
	v.SetDefault("season_to", 2024)
	v.SetDefault("batch_size", ingest.DefaultBatchSize)
	v.SetDefault("max_matches", 1000)
	v.SetDefault("source_url", cricsheet.DefaultArchiveURL)
	v.SetDefault("fetch_timeout", "180s")
	v.SetDefault("listen", ":8080")
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", "10m")
	v.SetDefault("anthropic_model", "claude-haiku-4-5-20251001")
}

// New returns a viper instance with defaults, env binding and the config
// search path set up, but nothing read yet.
func New(home string) *viper.Viper {
	v := viper.New()
	SetDefaults(v, home)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("cricmetrics")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home != "" {
		v.AddConfigPath(filepath.Join(home, ".cricmetrics"))
	}
	return v
}

// Load reads .env and the optional config file into v and decodes the result.
// A missing file of either kind is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList flattens comma-separated entries, which is how a list arrives
// from an environment variable.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
