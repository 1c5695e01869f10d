// Package config loads the server configuration from defaults, an optional
// YAML file and AULA_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrSecretRequired is returned when production runs without a secret.
var ErrSecretRequired = errors.New("security.secret is required in production")

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Site      SiteConfig      `koanf:"site"`
	Storage   StorageConfig   `koanf:"storage"`
	Security  SecurityConfig  `koanf:"security"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
	Speech    SpeechConfig    `koanf:"speech"`
	Welcome   WelcomeConfig   `koanf:"welcome"`
	Perf      PerfConfig      `koanf:"perf"`
}

type AppConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development test production"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type SiteConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

type StorageConfig struct {
	Backend    string        `koanf:"backend" validate:"oneof=sqlite redis memory"`
	SQLitePath string        `koanf:"sqlite_path" validate:"required_if=Backend sqlite"`
	RedisURL   string        `koanf:"redis_url" validate:"required_if=Backend redis"`
	RedisTTL   time.Duration `koanf:"redis_ttl" validate:"gte=0"`
	SlowQuery  time.Duration `koanf:"slow_query" validate:"gt=0"`
}

type SecurityConfig struct {
	Secret         string   `koanf:"secret" validate:"omitempty,hexadecimal,min=32"`
	SecureCookies  bool     `koanf:"secure_cookies"`
	TrustedOrigins []string `koanf:"trusted_origins"`
}

type RateLimitConfig struct {
	PerSecond int `koanf:"per_second" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type SpeechConfig struct {
	Locale string `koanf:"locale" validate:"required"`
}

type WelcomeConfig struct {
	Delay time.Duration `koanf:"delay" validate:"gte=0"`
}

type PerfConfig struct {
	RingSize    int           `koanf:"ring_size" validate:"gt=0"`
	SlowRequest time.Duration `koanf:"slow_request" validate:"gt=0"`
	Expose      bool          `koanf:"expose"`
}

var defaults = map[string]any{
	"app.environment": "development",

	"server.addr":             ":8080",
	"server.read_timeout":     "15s",
	"server.write_timeout":    "15s",
	"server.shutdown_timeout": "10s",

	"site.dir": "site",

	"storage.backend":     BackendSQLite,
	"storage.sqlite_path": "aula.db",
	"storage.redis_ttl":   "8760h",
	"storage.slow_query":  "50ms",

	"security.secure_cookies":  false,
	"security.trusted_origins": []string{"localhost:8080", "127.0.0.1:8080"},

	"rate_limit.per_second": 10,

	"log.level":  "info",
	"log.format": "text",

	"speech.locale": "es-ES",
	"welcome.delay": "100ms",

	"perf.ring_size":    10000,
	"perf.slow_request": "200ms",
	"perf.expose":       false,
}

var envKeyMap = map[string]string{
	"AULA_ENV":                   "app.environment",
	"AULA_ADDR":                  "server.addr",
	"AULA_READ_TIMEOUT":          "server.read_timeout",
	"AULA_WRITE_TIMEOUT":         "server.write_timeout",
	"AULA_SHUTDOWN_TIMEOUT":      "server.shutdown_timeout",
	"AULA_SITE_DIR":              "site.dir",
	"AULA_STORAGE_BACKEND":       "storage.backend",
	"AULA_SQLITE_PATH":           "storage.sqlite_path",
	"AULA_REDIS_URL":             "storage.redis_url",
	"AULA_REDIS_TTL":             "storage.redis_ttl",
	"AULA_SLOW_QUERY":            "storage.slow_query",
	"AULA_SECRET":                "security.secret",
	"AULA_SECURE_COOKIES":        "security.secure_cookies",
	"AULA_TRUSTED_ORIGINS":       "security.trusted_origins",
	"AULA_RATE_LIMIT_PER_SECOND": "rate_limit.per_second",
	"AULA_LOG_LEVEL":             "log.level",
	"AULA_LOG_FORMAT":            "log.format",
	"AULA_SPEECH_LOCALE":         "speech.locale",
	"AULA_WELCOME_DELAY":         "welcome.delay",
	"AULA_PERF_RING_SIZE":        "perf.ring_size",
	"AULA_PERF_SLOW_REQUEST":     "perf.slow_request",
	"AULA_PERF_EXPOSE":           "perf.expose",
}

func envKeyReplacer(s string) string {
	return envKeyMap[s]
}

// Load reads defaults, then configPath when non-empty, then the environment.
// POST: the returned config has passed validation
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := k.Load(env.Provider("AULA_", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.IsProduction() && c.Security.Secret == "" {
		return ErrSecretRequired
	}
	return nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// SecretBytes decodes the configured secret. Outside production an unset
// secret is replaced by a random one, so cookies do not survive a restart.
func (c *Config) SecretBytes() ([]byte, error) {
	if c.Security.Secret != "" {
		b, err := hex.DecodeString(c.Security.Secret)
		if err != nil {
			return nil, fmt.Errorf("decode security.secret: %w", err)
		}
		return b, nil
	}
	if c.IsProduction() {
		return nil, ErrSecretRequired
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	slog.Warn("config_event", "event", "random_secret", "detail", "set AULA_SECRET to keep profiles across restarts")
	return b, nil
}

// NewLogger builds the slog logger described by the log section.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
