package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	DevAPI DevAPIConfig `yaml:"devapi"`
}

// APIConfig points the client at the reviews GraphQL API.
type APIConfig struct {
	Endpoint string        `yaml:"endpoint" env:"API_ENDPOINT" env-default:"http://localhost:5000/graphql"`
	Timeout  time.Duration `yaml:"timeout"  env:"API_TIMEOUT"  env-default:"10s"`
}

// AuthConfig holds the reviewer identity settings. Everything is optional:
// without a token the fallback reviewer is used.
type AuthConfig struct {
	Token          string        `yaml:"token"            env:"AUTH_TOKEN"`
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"moviereviews"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	FallbackUserID string        `yaml:"fallback_user_id" env:"AUTH_FALLBACK_USER_ID" env-default:"65549e6a-2389-42c5-909a-4475fdbb3e69"`
}

// HasTokenIdentity reports whether the reviewer can be taken from the token.
func (c AuthConfig) HasTokenIdentity() bool {
	return c.Token != "" && c.JWTSecret != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	// File receives the logs when set. The TUI needs it to keep the
	// terminal clean.
	File string `yaml:"file" env:"LOG_FILE"`
}

// StoreConfig tunes the client-side state store.
type StoreConfig struct {
	QueueSize int `yaml:"queue_size" env:"STORE_QUEUE_SIZE" env-default:"64"`
}

// DevAPIConfig holds the in-memory development API server settings.
type DevAPIConfig struct {
	Host            string        `yaml:"host"             env:"DEVAPI_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"DEVAPI_PORT"             env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"DEVAPI_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"DEVAPI_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"DEVAPI_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DEVAPI_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RequireAuth rejects mutations without a valid bearer token.
	RequireAuth bool `yaml:"require_auth" env:"DEVAPI_REQUIRE_AUTH" env-default:"false"`
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables limiting.
	RateLimit int        `yaml:"rate_limit" env:"DEVAPI_RATE_LIMIT" env-default:"600"`
	CORS      CORSConfig `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,Cache-Control,X-Request-Id,X-Operation-Name"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// Origins splits AllowedOrigins into its entries.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
