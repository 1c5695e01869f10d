package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoad_Defaults verifies the built-in defaults validate.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Storage.Backend != BackendSQLite {
		t.Errorf("addr=%q backend=%q", cfg.Server.Addr, cfg.Storage.Backend)
	}
	if cfg.Welcome.Delay != 100*time.Millisecond {
		t.Errorf("welcome delay = %v, want 100ms", cfg.Welcome.Delay)
	}
	if cfg.Speech.Locale != "es-ES" {
		t.Errorf("locale = %q", cfg.Speech.Locale)
	}
}

// TestLoad_File verifies YAML values override defaults.
func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aula.yaml")
	yaml := "server:\n  addr: \":9090\"\nstorage:\n  backend: memory\nwelcome:\n  delay: 250ms\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Storage.Backend != BackendMemory || cfg.Welcome.Delay != 250*time.Millisecond {
		t.Errorf("unexpected config %+v", cfg)
	}
}

// TestLoad_Env verifies AULA_* variables override the file.
func TestLoad_Env(t *testing.T) {
	t.Setenv("AULA_ADDR", ":7070")
	t.Setenv("AULA_RATE_LIMIT_PER_SECOND", "3")
	t.Setenv("AULA_LOG_FORMAT", "json")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.RateLimit.PerSecond != 3 || cfg.Log.Format != "json" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

// TestLoad_MissingFile verifies a bad path is reported.
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestValidate_Rejects verifies invalid settings fail.
func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"redis without url", func(c *Config) { c.Storage.Backend = BackendRedis; c.Storage.RedisURL = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"non-hex secret", func(c *Config) { c.Security.Secret = strings.Repeat("z", 64) }},
		{"empty locale", func(c *Config) { c.Speech.Locale = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestValidate_ProductionNeedsSecret verifies the production secret rule.
func TestValidate_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("AULA_ENV", "production")
	if _, err := Load(""); !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("err = %v, want ErrSecretRequired", err)
	}
	t.Setenv("AULA_SECRET", strings.Repeat("ab", 32))
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	secret, err := cfg.SecretBytes()
	if err != nil || len(secret) != 32 {
		t.Errorf("secret len=%d err=%v", len(secret), err)
	}
}

// TestSecretBytes_RandomInDevelopment verifies a missing dev secret is generated.
func TestSecretBytes_RandomInDevelopment(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, err := cfg.SecretBytes()
	if err != nil {
		t.Fatalf("SecretBytes: %v", err)
	}
	b, _ := cfg.SecretBytes()
	if len(a) != 32 || bytes.Equal(a, b) {
		t.Error("development secrets should be random 32-byte keys")
	}
}

// TestNewLogger verifies the level and format switches.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}
