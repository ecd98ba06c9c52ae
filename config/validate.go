package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError is a validation error for a single configuration field.
type FieldError struct {
	// Field is the dotted path to the field, e.g. "limits.query_depth".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate returns a ValidationError listing every invalid field, nil if cfg is valid.
func Validate(cfg *Config) error {
	var errs []FieldError
	errs = append(errs, ValidateLimits(cfg.Limits)...)
	errs = append(errs, validateServer(cfg.Server)...)
	errs = append(errs, validateRateLimit(cfg.RateLimit)...)
	errs = append(errs, validateStats(cfg.Stats)...)
	errs = append(errs, validateLog(cfg.Log)...)
	errs = append(errs, validateTracing(cfg.Tracing)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// ValidateLimits checks the thresholds of the limiter.
func ValidateLimits(l Limits) []FieldError {
	var errs []FieldError
	if l.QueryDepth < 0 {
		errs = append(errs, FieldError{Field: "limits.query_depth", Message: "must not be negative"})
	}
	if l.QueryComplexity < 0 {
		errs = append(errs, FieldError{Field: "limits.query_complexity", Message: "must not be negative"})
	}
	if l.MaximumAliasAllowed < 0 {
		errs = append(errs, FieldError{Field: "limits.maximum_alias_allowed", Message: "must not be negative"})
	}
	return errs
}

func validateServer(s ServerConfig) []FieldError {
	var errs []FieldError
	if s.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "is required"})
	}
	if s.UpstreamURL == "" {
		errs = append(errs, FieldError{Field: "server.upstream_url", Message: "is required"})
	} else if u, err := url.Parse(s.UpstreamURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{Field: "server.upstream_url", Message: fmt.Sprintf("invalid URL %q", s.UpstreamURL)})
	}
	if !strings.HasPrefix(s.Path, "/") {
		errs = append(errs, FieldError{Field: "server.path", Message: "must start with /"})
	}
	if s.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "must be positive"})
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 || s.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server", Message: "timeouts must not be negative"})
	}
	return errs
}

func validateRateLimit(r RateLimitConfig) []FieldError {
	if !r.Enabled {
		return nil
	}
	var errs []FieldError
	if r.RPS <= 0 {
		errs = append(errs, FieldError{Field: "rate_limit.rps", Message: "must be positive"})
	}
	if r.Burst <= 0 {
		errs = append(errs, FieldError{Field: "rate_limit.burst", Message: "must be positive"})
	}
	return errs
}

func validateStats(s StatsConfig) []FieldError {
	if !s.Enabled {
		return nil
	}
	var errs []FieldError
	switch s.Backend {
	case "memory":
	case "redis":
		if s.RedisAddress == "" {
			errs = append(errs, FieldError{Field: "stats.redis_address", Message: "is required for the redis backend"})
		}
	default:
		errs = append(errs, FieldError{Field: "stats.backend", Message: fmt.Sprintf("unknown backend %q, expecting \"memory\" or \"redis\"", s.Backend)})
	}
	return errs
}

func validateLog(l LogConfig) []FieldError {
	var errs []FieldError
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", l.Level)})
	}
	switch l.Format {
	case "json", "console":
	default:
		errs = append(errs, FieldError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", l.Format)})
	}
	return errs
}

func validateTracing(t TracingConfig) []FieldError {
	if !t.Enabled {
		return nil
	}
	var errs []FieldError
	if t.Endpoint == "" {
		errs = append(errs, FieldError{Field: "tracing.endpoint", Message: "is required"})
	}
	if t.ServiceName == "" {
		errs = append(errs, FieldError{Field: "tracing.service_name", Message: "is required"})
	}
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		errs = append(errs, FieldError{Field: "tracing.sample_ratio", Message: "must be between 0 and 1"})
	}
	return errs
}
