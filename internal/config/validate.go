package config

import (
	"fmt"
	"net/url"

	"github.com/heartmarshall/moviereviews/internal/auth"
)

const minJWTSecretLen = 32

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Store.QueueSize <= 0 {
		return fmt.Errorf("store: queue_size must be > 0 (got %d)", c.Store.QueueSize)
	}
	if c.DevAPI.Port <= 0 || c.DevAPI.Port > 65535 {
		return fmt.Errorf("devapi: port must be in 1..65535 (got %d)", c.DevAPI.Port)
	}
	if c.DevAPI.RateLimit < 0 {
		return fmt.Errorf("devapi: rate_limit must be >= 0 (got %d)", c.DevAPI.RateLimit)
	}
	if c.DevAPI.RequireAuth && c.Auth.JWTSecret == "" {
		return fmt.Errorf("devapi: require_auth needs auth.jwt_secret")
	}
	return nil
}

func (a APIConfig) validate() error {
	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must be an http(s) URL (got %q)", a.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host (got %q)", a.Endpoint)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", a.Timeout)
	}
	return nil
}

func (a AuthConfig) validate() error {
	if a.JWTSecret != "" && len(a.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d characters (got %d)", minJWTSecretLen, len(a.JWTSecret))
	}
	if !auth.IsValidReviewerID(a.FallbackUserID) {
		return fmt.Errorf("fallback_user_id must be a non-nil UUID (got %q)", a.FallbackUserID)
	}
	if a.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be > 0 (got %s)", a.AccessTokenTTL)
	}
	return nil
}

func (l LogConfig) validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be debug, info, warn or error (got %q)", l.Level)
	}
	switch l.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}
