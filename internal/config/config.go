package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Built-in defaults.
const (
	DefaultInterval          = 60 * time.Minute
	DefaultMaxEmailsPerFetch = 50
	DefaultMaxEmailBodyChars = 1500
	DefaultFastMaxTokens     = 512
	DefaultDeepMaxTokens     = 2048
	DefaultDraftTone         = "professional"
	DefaultMetricsAddr       = ":9090"
)

// Config is the full application configuration.
type Config struct {
	// Interval is how often the fleet cycle runs in serve mode.
	Interval time.Duration `mapstructure:"interval"`
	// MaxEmailsPerFetch caps unread messages pulled per account per cycle.
	MaxEmailsPerFetch int64 `mapstructure:"max_emails_per_fetch"`
	// MaxEmailBodyChars truncates message bodies at normalization time.
	MaxEmailBodyChars int `mapstructure:"max_email_body_chars"`

	// DataDir is where file-backed stores (state, audit, drafts,
	// briefings) live.
	DataDir string `mapstructure:"data_dir"`
	// UsersFile is the JSON user directory.
	UsersFile string `mapstructure:"users_file"`
	// PostgresURL enables the Postgres state and audit backends when
	// set; the file backends remain as fallback.
	PostgresURL string `mapstructure:"postgres_url"`

	// DraftTone is the default tone for generated replies.
	DraftTone string `mapstructure:"draft_tone"`
	// MetricsAddr is the listen address of the metrics/health server.
	MetricsAddr string `mapstructure:"metrics_addr"`

	Anthropic Anthropic `mapstructure:"anthropic"`
}

// Anthropic configures the two-tier model client.
type Anthropic struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	FastModel     string `mapstructure:"fast_model"`
	DeepModel     string `mapstructure:"deep_model"`
	FastMaxTokens int    `mapstructure:"fast_max_tokens"`
	DeepMaxTokens int    `mapstructure:"deep_max_tokens"`
}

// Load reads the configuration. file may be empty, in which case only
// defaults, a config.yaml next to the data dir search paths, and
// environment variables apply.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("max_emails_per_fetch", DefaultMaxEmailsPerFetch)
	v.SetDefault("max_email_body_chars", DefaultMaxEmailBodyChars)
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("users_file", "")
	v.SetDefault("postgres_url", "")
	v.SetDefault("draft_tone", DefaultDraftTone)
	v.SetDefault("metrics_addr", DefaultMetricsAddr)
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.fast_model", "claude-3-5-haiku-latest")
	v.SetDefault("anthropic.deep_model", "claude-sonnet-4-5")
	v.SetDefault("anthropic.fast_max_tokens", DefaultFastMaxTokens)
	v.SetDefault("anthropic.deep_max_tokens", DefaultDeepMaxTokens)

	v.SetEnvPrefix("INBOXPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.UsersFile == "" {
		cfg.UsersFile = filepath.Join(cfg.DataDir, "users.json")
	}
	return &cfg, nil
}

// Validate reports configuration errors a run cannot proceed with.
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required (set INBOXPILOT_ANTHROPIC_API_KEY)")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.MaxEmailsPerFetch <= 0 {
		return fmt.Errorf("max_emails_per_fetch must be positive, got %d", c.MaxEmailsPerFetch)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inboxpilot"
	}
	return filepath.Join(home, ".inboxpilot")
}
