package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
api:
  endpoint: "https://reviews.example.com/graphql"
  timeout: "3s"

auth:
  token: "header.payload.signature"
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "reviews-test"

log:
  level: "debug"
  format: "text"
  file: "/tmp/reviews.log"

store:
  queue_size: 16

devapi:
  host: "0.0.0.0"
  port: 5050
  require_auth: true
  cors:
    allowed_origins: "http://localhost:3000, http://localhost:5173"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// API
	if cfg.API.Endpoint != "https://reviews.example.com/graphql" {
		t.Errorf("api.endpoint = %q", cfg.API.Endpoint)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("api.timeout = %v, want %v", cfg.API.Timeout, 3*time.Second)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "reviews-test" {
		t.Errorf("auth.jwt_issuer = %q", cfg.Auth.JWTIssuer)
	}
	if !cfg.Auth.HasTokenIdentity() {
		t.Error("auth should have a token identity")
	}
	if cfg.Auth.FallbackUserID != "65549e6a-2389-42c5-909a-4475fdbb3e69" {
		t.Errorf("auth.fallback_user_id = %q (default)", cfg.Auth.FallbackUserID)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" || cfg.Log.File != "/tmp/reviews.log" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Store
	if cfg.Store.QueueSize != 16 {
		t.Errorf("store.queue_size = %d, want 16", cfg.Store.QueueSize)
	}

	// DevAPI
	if cfg.DevAPI.Port != 5050 {
		t.Errorf("devapi.port = %d, want 5050", cfg.DevAPI.Port)
	}
	if !cfg.DevAPI.RequireAuth {
		t.Error("devapi.require_auth should be true")
	}
	origins := cfg.DevAPI.CORS.Origins()
	if len(origins) != 2 || origins[1] != "http://localhost:5173" {
		t.Errorf("devapi.cors origins = %v", origins)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_ENDPOINT", "http://127.0.0.1:9999/graphql")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Endpoint != "http://127.0.0.1:9999/graphql" {
		t.Errorf("api.endpoint = %q (ENV override)", cfg.API.Endpoint)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Endpoint != "http://localhost:5000/graphql" {
		t.Errorf("api.endpoint = %q, want default", cfg.API.Endpoint)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("api.timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Store.QueueSize != 64 {
		t.Errorf("store.queue_size = %d, want 64", cfg.Store.QueueSize)
	}
	if cfg.Auth.HasTokenIdentity() {
		t.Error("no token identity expected by default")
	}
	if cfg.DevAPI.Port != 5000 {
		t.Errorf("devapi.port = %d, want 5000", cfg.DevAPI.Port)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidValueFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "api:\n  endpoint: \"ftp://example.com\"\n")
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validate") {
		t.Errorf("error = %v, want a validate error", err)
	}
}

func TestLoad_ValidationErrorNamesSource(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "store:\n  queue_size: -1\n")
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validate "+path) {
		t.Errorf("error = %v, want it to name %s", err, path)
	}
}

func TestLoadFrom_RelativeLogFile(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "log:\n  file: \"logs/reviews.log\"\n")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "logs", "reviews.log"); cfg.Log.File != want {
		t.Errorf("log.file = %q, want %q", cfg.Log.File, want)
	}
}

func TestLoadFrom_AbsoluteLogFileUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.File != "/tmp/reviews.log" {
		t.Errorf("log.file = %q, want /tmp/reviews.log", cfg.Log.File)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"endpoint not http", func(c *Config) { c.API.Endpoint = "ws://x/graphql" }, "api: endpoint"},
		{"endpoint without host", func(c *Config) { c.API.Endpoint = "http:///graphql" }, "no host"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "timeout"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"empty secret allowed", func(c *Config) { c.Auth.JWTSecret = "" }, ""},
		{"bad fallback", func(c *Config) { c.Auth.FallbackUserID = "nope" }, "fallback_user_id"},
		{"nil fallback", func(c *Config) { c.Auth.FallbackUserID = "00000000-0000-0000-0000-000000000000" }, "fallback_user_id"},
		{"zero ttl", func(c *Config) { c.Auth.AccessTokenTTL = 0 }, "access_token_ttl"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log: level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log: format"},
		{"zero queue", func(c *Config) { c.Store.QueueSize = 0 }, "queue_size"},
		{"bad port", func(c *Config) { c.DevAPI.Port = 70000 }, "port"},
		{"negative rate limit", func(c *Config) { c.DevAPI.RateLimit = -1 }, "rate_limit"},
		{"auth without secret", func(c *Config) {
			c.DevAPI.RequireAuth = true
			c.Auth.JWTSecret = ""
		}, "require_auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestCORSConfig_Origins(t *testing.T) {
	t.Parallel()

	got := CORSConfig{AllowedOrigins: " a , ,b"}.Origins()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Origins() = %v, want [a b]", got)
	}
	if got := (CORSConfig{}).Origins(); len(got) != 0 {
		t.Errorf("Origins() = %v, want empty", got)
	}
}

func validConfig() Config {
	return Config{
		API: APIConfig{
			Endpoint: "http://localhost:5000/graphql",
			Timeout:  10 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:      "this-is-a-very-long-jwt-secret-for-testing-32+",
			AccessTokenTTL: time.Hour,
			FallbackUserID: "65549e6a-2389-42c5-909a-4475fdbb3e69",
		},
		Log:    LogConfig{Level: "info", Format: "json"},
		Store:  StoreConfig{QueueSize: 64},
		DevAPI: DevAPIConfig{Port: 5000},
	}
}
