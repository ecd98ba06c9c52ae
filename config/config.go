// Package config loads the guard configuration. Values come from a YAML file, then
// GQLGUARD_* environment variables, and are validated before use.
package config

import "time"

type Config struct {
	Limits    Limits          `yaml:"limits"`
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Stats     StatsConfig     `yaml:"stats"`
	Log       LogConfig       `yaml:"log"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// Limits are the thresholds enforced by the query complexity limiter. They are read once
// when the limiter is built.
type Limits struct {
	// QueryDepth is the maximum nesting depth of selection sets. 0 disables the check.
	QueryDepth int `yaml:"query_depth"`

	// QueryComplexity is the maximum number of fields of a query.
	QueryComplexity int `yaml:"query_complexity"`

	// IntrospectionDisabled rejects queries selecting __schema or __type.
	IntrospectionDisabled bool `yaml:"introspection_disabled"`

	// MaximumAliasLimitEnabled turns the alias count check on.
	MaximumAliasLimitEnabled bool `yaml:"maximum_alias_limit_enabled"`

	// MaximumAliasAllowed is the maximum number of aliased fields of a query.
	MaximumAliasAllowed int `yaml:"maximum_alias_allowed"`
}

type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	UpstreamURL     string        `yaml:"upstream_url"`
	Path            string        `yaml:"path"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MetricsAddress serves /metrics and /log/level. Empty disables the debug listener.
	MetricsAddress string `yaml:"metrics_address"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`

	// KeyHeader names a request header identifying the client, e.g. an API key header.
	KeyHeader         string        `yaml:"key_header"`
	TrustForwardedFor bool          `yaml:"trust_forwarded_for"`
	IdleTTL           time.Duration `yaml:"idle_ttl"`
	CleanupEvery      time.Duration `yaml:"cleanup_every"`
}

// StatsConfig controls where rejection statistics are recorded. Backend is "memory" or
// "redis".
type StatsConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Backend       string        `yaml:"backend"`
	RedisAddress  string        `yaml:"redis_address"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	Prefix        string        `yaml:"prefix"`
	TTL           time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig exports check spans to an OTLP collector over gRPC.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// DefaultLimits mirrors the stock limits of the storefront GraphQL endpoint.
func DefaultLimits() Limits {
	return Limits{
		QueryDepth:               20,
		QueryComplexity:          300,
		IntrospectionDisabled:    false,
		MaximumAliasLimitEnabled: true,
		MaximumAliasAllowed:      10,
	}
}

func Default() *Config {
	return &Config{
		Limits: DefaultLimits(),
		Server: ServerConfig{
			ListenAddress:   ":8080",
			UpstreamURL:     "http://127.0.0.1:4000",
			Path:            "/graphql",
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MetricsAddress:  ":9090",
		},
		RateLimit: RateLimitConfig{
			Enabled:      false,
			RPS:          10,
			Burst:        20,
			IdleTTL:      15 * time.Minute,
			CleanupEvery: 2 * time.Minute,
		},
		Stats: StatsConfig{
			Enabled:      false,
			Backend:      "memory",
			RedisAddress: "127.0.0.1:6379",
			Prefix:       "gqlguard:stats",
			TTL:          24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "127.0.0.1:4317",
			ServiceName: "gqlguard",
			SampleRatio: 1,
		},
	}
}
