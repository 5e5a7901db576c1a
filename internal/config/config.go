package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Config struct {
	SourceUsername string `yaml:"source_username"`
	AuthToken      string `yaml:"auth_token"`
	FeedLimit      int    `yaml:"feed_limit"`
	Output         string `yaml:"output"`

	APIBase     string `yaml:"api_base"`
	APIVersion  string `yaml:"api_version"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
	MaxPages    int    `yaml:"max_pages"`

	FeedTitle string `yaml:"feed_title,omitempty"`
	FeedID    string `yaml:"feed_id,omitempty"`

	LogLevel    string `yaml:"log_level"`
	History     bool   `yaml:"history"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
	Schedule    string `yaml:"schedule"`
}

// Token returns the configured token, falling back to RELFEED_TOKEN and then GITHUB_TOKEN.
func (c *Config) Token() string {
	if c.AuthToken != "" {
		return c.AuthToken
	}
	if t := os.Getenv("RELFEED_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GITHUB_TOKEN")
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Title returns the feed title, derived from the username unless overridden.
func (c *Config) Title() string {
	if c.FeedTitle != "" {
		return c.FeedTitle
	}
	return fmt.Sprintf("Releases of %s's Starred Repos", c.SourceUsername)
}

func (c *Config) ID() string {
	if c.FeedID != "" {
		return c.FeedID
	}
	return fmt.Sprintf("https://github.com/%s/starred", c.SourceUsername)
}

func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "relfeed", "config.yaml")
}

func HistoryPath() string {
	return filepath.Join(xdg.CacheHome, "relfeed", "history.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load layers the file at path over the embedded defaults and validates the
// result. A missing file is created from the defaults, which then fail
// validation until a username and token are supplied.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: the embedded defaults still apply
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o600)
}

func Validate(cfg *Config) error {
	if cfg.SourceUsername == "" {
		return fmt.Errorf("source_username is required")
	}
	if cfg.Token() == "" {
		return fmt.Errorf("auth_token is required (or set RELFEED_TOKEN / GITHUB_TOKEN)")
	}
	if cfg.FeedLimit < 0 {
		return fmt.Errorf("feed_limit must be >= 0, got %d", cfg.FeedLimit)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", cfg.Concurrency)
	}
	if cfg.MaxPages < 0 {
		return fmt.Errorf("max_pages must be >= 0, got %d", cfg.MaxPages)
	}
	if cfg.Output == "" {
		return fmt.Errorf("output is required")
	}
	u, err := url.Parse(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("api_base: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base: url scheme must be http or https, got %q", u.Scheme)
	}
	if _, err := time.ParseDuration(cfg.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", cfg.LogLevel)
	}
	return nil
}
