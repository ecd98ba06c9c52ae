package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. GQLGUARD_LIMITS_QUERY_DEPTH.
const EnvPrefix = "GQLGUARD_"

// Load reads the YAML file at path on top of Default() and validates the result.
// Environment variables are not consulted; use LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults without validating.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads configuration and applies environment overrides, which always
// take precedence over the file. An empty path starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file (if any) on top of the defaults
// 2. Apply environment variable overrides
// 3. Validate the final configuration
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

type envOverrides struct {
	lookup lookupFunc
	errs   []FieldError
}

func (o *envOverrides) str(name string, dst *string) {
	if val, ok := o.lookup(EnvPrefix + name); ok && val != "" {
		*dst = val
	}
}

func (o *envOverrides) int(name string, dst *int) {
	if val, ok := o.lookup(EnvPrefix + name); ok && val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			o.errs = append(o.errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid integer %q", val)})
			return
		}
		*dst = i
	}
}

func (o *envOverrides) int64(name string, dst *int64) {
	if val, ok := o.lookup(EnvPrefix + name); ok && val != "" {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			o.errs = append(o.errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid integer %q", val)})
			return
		}
		*dst = i
	}
}

func (o *envOverrides) float(name string, dst *float64) {
	if val, ok := o.lookup(EnvPrefix + name); ok && val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			o.errs = append(o.errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid number %q", val)})
			return
		}
		*dst = f
	}
}

func (o *envOverrides) bool(name string, dst *bool) {
	if val, ok := o.lookup(EnvPrefix + name); ok && val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			o.errs = append(o.errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid boolean %q", val)})
			return
		}
		*dst = b
	}
}

func (o *envOverrides) duration(name string, dst *time.Duration) {
	if val, ok := o.lookup(EnvPrefix + name); ok && val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			o.errs = append(o.errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid duration %q", val)})
			return
		}
		*dst = d
	}
}

// applyEnvOverrides applies GQLGUARD_SECTION_FIELD variables. Malformed values are
// reported instead of being silently ignored.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	o := &envOverrides{lookup: lookup}

	o.int("LIMITS_QUERY_DEPTH", &cfg.Limits.QueryDepth)
	o.int("LIMITS_QUERY_COMPLEXITY", &cfg.Limits.QueryComplexity)
	o.bool("LIMITS_INTROSPECTION_DISABLED", &cfg.Limits.IntrospectionDisabled)
	o.bool("LIMITS_MAXIMUM_ALIAS_LIMIT_ENABLED", &cfg.Limits.MaximumAliasLimitEnabled)
	o.int("LIMITS_MAXIMUM_ALIAS_ALLOWED", &cfg.Limits.MaximumAliasAllowed)

	o.str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	o.str("SERVER_UPSTREAM_URL", &cfg.Server.UpstreamURL)
	o.str("SERVER_PATH", &cfg.Server.Path)
	o.int64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	o.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	o.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	o.duration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	o.duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	o.str("SERVER_METRICS_ADDRESS", &cfg.Server.MetricsAddress)

	o.bool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	o.float("RATE_LIMIT_RPS", &cfg.RateLimit.RPS)
	o.int("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)
	o.str("RATE_LIMIT_KEY_HEADER", &cfg.RateLimit.KeyHeader)
	o.bool("RATE_LIMIT_TRUST_FORWARDED_FOR", &cfg.RateLimit.TrustForwardedFor)
	o.duration("RATE_LIMIT_IDLE_TTL", &cfg.RateLimit.IdleTTL)
	o.duration("RATE_LIMIT_CLEANUP_EVERY", &cfg.RateLimit.CleanupEvery)

	o.bool("STATS_ENABLED", &cfg.Stats.Enabled)
	o.str("STATS_BACKEND", &cfg.Stats.Backend)
	o.str("STATS_REDIS_ADDRESS", &cfg.Stats.RedisAddress)
	o.str("STATS_REDIS_PASSWORD", &cfg.Stats.RedisPassword)
	o.int("STATS_REDIS_DB", &cfg.Stats.RedisDB)
	o.str("STATS_PREFIX", &cfg.Stats.Prefix)
	o.duration("STATS_TTL", &cfg.Stats.TTL)

	o.str("LOG_LEVEL", &cfg.Log.Level)
	o.str("LOG_FORMAT", &cfg.Log.Format)

	o.bool("TRACING_ENABLED", &cfg.Tracing.Enabled)
	o.str("TRACING_ENDPOINT", &cfg.Tracing.Endpoint)
	o.bool("TRACING_INSECURE", &cfg.Tracing.Insecure)
	o.str("TRACING_SERVICE_NAME", &cfg.Tracing.ServiceName)
	o.float("TRACING_SAMPLE_RATIO", &cfg.Tracing.SampleRatio)

	if len(o.errs) > 0 {
		return ValidationError{Errors: o.errs}
	}
	return nil
}
