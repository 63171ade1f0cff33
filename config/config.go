package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the application.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
		CookieSecure bool          `yaml:"cookie_secure"`
		// RateLimit is the number of requests per minute one IP address may send; 0 disables it.
		RateLimit int `yaml:"rate_limit"`
	} `yaml:"server"`
	Database struct {
		Driver    string        `yaml:"driver"` // "sqlite3" or "postgres"
		DSN       string        `yaml:"dsn"`    // file path for sqlite3, URL for postgres
		TxTimeout time.Duration `yaml:"tx_timeout"`
	} `yaml:"database"`
	Session struct {
		Expiration time.Duration `yaml:"expiration"`
		Backend    string        `yaml:"backend"` // "sql" or "badger"
		BadgerPath string        `yaml:"badger_path"`
		// FailOpen skips comment throttling when the cooldown store cannot be reached.
		// The default rejects the comment instead.
		FailOpen        bool          `yaml:"fail_open"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
	} `yaml:"session"`
	Rules Rules `yaml:"rules"`
	Log   struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "text" or "json"
	} `yaml:"log"`
}

// Rules are the content rules enforced by the engines.
type Rules struct {
	CommentCooldown time.Duration `yaml:"comment_cooldown"`
	MaxCommentLen   int           `yaml:"max_comment_len"`
	MaxTitleLen     int           `yaml:"max_title_len"`
	ProhibitedWords []string      `yaml:"prohibited_words"`
}

// DefaultRules returns the rules the platform ships with.
func DefaultRules() Rules {
	return Rules{
		CommentCooldown: 30 * time.Second,
		MaxCommentLen:   300,
		MaxTitleLen:     200,
		ProhibitedWords: []string{"spam", "advertisement", "clickbait"},
	}
}

// Default returns a configuration suitable for local development.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.IdleTimeout = 120 * time.Second
	cfg.Server.RateLimit = 120

	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = "forum.db"
	cfg.Database.TxTimeout = 5 * time.Second

	cfg.Session.Expiration = 24 * time.Hour
	cfg.Session.Backend = "sql"
	cfg.Session.BadgerPath = "sessions.badger"
	cfg.Session.CleanupInterval = 30 * time.Minute

	cfg.Rules = DefaultRules()

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load builds the configuration from defaults, then the YAML file at path (if path
// is not empty), then FORUM_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port, ok := os.LookupEnv("FORUM_PORT"); ok {
		c.Server.Addr = ":" + port
	}
	c.Server.Addr = getEnv("FORUM_ADDR", c.Server.Addr)
	c.Server.CookieSecure = getEnv("FORUM_COOKIE_SECURE", strconv.FormatBool(c.Server.CookieSecure)) == "true"

	if raw, ok := os.LookupEnv("FORUM_RATE_LIMIT"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: invalid FORUM_RATE_LIMIT %q", raw)
		}
		c.Server.RateLimit = n
	}

	c.Database.Driver = getEnv("FORUM_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("FORUM_DB_DSN", c.Database.DSN)

	if raw, ok := os.LookupEnv("FORUM_SESSION_HOURS"); ok {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return fmt.Errorf("config: invalid FORUM_SESSION_HOURS %q", raw)
		}
		c.Session.Expiration = time.Duration(hours) * time.Hour
	}
	c.Session.Backend = getEnv("FORUM_SESSION_BACKEND", c.Session.Backend)
	c.Session.BadgerPath = getEnv("FORUM_SESSION_BADGER_PATH", c.Session.BadgerPath)
	c.Session.FailOpen = getEnv("FORUM_SESSION_FAIL_OPEN", strconv.FormatBool(c.Session.FailOpen)) == "true"

	if raw, ok := os.LookupEnv("FORUM_COMMENT_COOLDOWN"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: invalid FORUM_COMMENT_COOLDOWN %q: %w", raw, err)
		}
		c.Rules.CommentCooldown = d
	}

	c.Log.Level = getEnv("FORUM_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("FORUM_LOG_FORMAT", c.Log.Format)
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	switch c.Session.Backend {
	case "sql":
	case "badger":
		if c.Session.BadgerPath == "" {
			errs = append(errs, errors.New("badger session backend needs badger_path"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.Session.Backend))
	}
	if c.Session.Expiration <= 0 {
		errs = append(errs, errors.New("session expiration must be positive"))
	}
	if c.Session.CleanupInterval <= 0 {
		errs = append(errs, errors.New("session cleanup interval must be positive"))
	}
	if c.Rules.CommentCooldown < 0 {
		errs = append(errs, errors.New("comment cooldown must not be negative"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.Rules.MaxCommentLen <= 0 || c.Rules.MaxTitleLen <= 0 {
		errs = append(errs, errors.New("length limits must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// getEnv reads an environment variable, falling back when it is unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
