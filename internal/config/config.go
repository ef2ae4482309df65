package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Local    LocalConfig    `yaml:"local"`
	Log      LogConfig      `yaml:"log"`
}

// AuthConfig holds settings for the hosted auth service.
type AuthConfig struct {
	// BaseURL is the root of the auth service REST API, e.g.
	// "https://<project>.example.com/auth/v1".
	BaseURL string `yaml:"base_url" env:"AUTH_BASE_URL" env-required:"true"`
	// APIKey is the public (anon) API key sent with every request.
	APIKey string `yaml:"api_key" env:"AUTH_API_KEY" env-required:"true"`
	// RequestTimeout bounds each HTTP call to the auth service.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AUTH_REQUEST_TIMEOUT" env-default:"10s"`
	// OAuthRedirectURL is where OAuth providers send the user back.
	OAuthRedirectURL string `yaml:"oauth_redirect_url" env:"AUTH_OAUTH_REDIRECT_URL" env-default:""`
}

// DatabaseConfig holds connection settings for the remote data gateway
// (the project's hosted PostgreSQL).
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LocalConfig holds settings for device-local storage (guest identity and
// guest preferences).
type LocalConfig struct {
	// Path is the SQLite file backing the local key/value store.
	Path string `yaml:"path" env:"LOCAL_STORE_PATH" env-default:"./data/spendcheck.db"`
	// Timezone is the IANA zone used for day and month totals boundaries.
	// Empty means the system local timezone.
	Timezone string `yaml:"timezone" env:"LOCAL_TIMEZONE" env-default:""`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
