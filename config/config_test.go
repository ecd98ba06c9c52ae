package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, 20, l.QueryDepth)
	assert.Equal(t, 300, l.QueryComplexity)
	assert.False(t, l.IntrospectionDisabled)
	assert.True(t, l.MaximumAliasLimitEnabled)
	assert.Equal(t, 10, l.MaximumAliasAllowed)
}

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
limits:
  query_complexity: 50
  introspection_disabled: true
server:
  upstream_url: http://backend:8000/graphql
  read_timeout: 5s
`))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Limits.QueryComplexity)
	assert.True(t, cfg.Limits.IntrospectionDisabled)
	assert.Equal(t, 20, cfg.Limits.QueryDepth)
	assert.Equal(t, "http://backend:8000/graphql", cfg.Server.UpstreamURL)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gqlguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  maximum_alias_allowed: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Limits.MaximumAliasAllowed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  query_depth: -1\nlog:\n  level: loud\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, "limits.query_depth", verr.Errors[0].Field)
	assert.Equal(t, "log.level", verr.Errors[1].Field)
	assert.Contains(t, err.Error(), "with 2 errors")
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"GQLGUARD_LIMITS_QUERY_DEPTH":                 "7",
		"GQLGUARD_LIMITS_MAXIMUM_ALIAS_LIMIT_ENABLED": "false",
		"GQLGUARD_RATE_LIMIT_RPS":                     "2.5",
		"GQLGUARD_STATS_TTL":                          "1h",
		"GQLGUARD_SERVER_UPSTREAM_URL":                "http://upstream:9000",
		"GQLGUARD_LOG_LEVEL":                          "",
		"GQLGUARD_TRACING_ENABLED":                    "true",
		"GQLGUARD_TRACING_SAMPLE_RATIO":               "0.25",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnvOverrides(cfg, lookup))

	assert.Equal(t, 7, cfg.Limits.QueryDepth)
	assert.False(t, cfg.Limits.MaximumAliasLimitEnabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, time.Hour, cfg.Stats.TTL)
	assert.Equal(t, "http://upstream:9000", cfg.Server.UpstreamURL)
	assert.Equal(t, "info", cfg.Log.Level, "empty values are ignored")
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}

func TestApplyEnvOverrides_Malformed(t *testing.T) {
	lookup := func(key string) (string, bool) {
		switch key {
		case "GQLGUARD_LIMITS_QUERY_COMPLEXITY":
			return "lots", true
		case "GQLGUARD_SERVER_IDLE_TIMEOUT":
			return "90", true
		}
		return "", false
	}

	err := applyEnvOverrides(Default(), lookup)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, "GQLGUARD_LIMITS_QUERY_COMPLEXITY", verr.Errors[0].Field)
	assert.Equal(t, "GQLGUARD_SERVER_IDLE_TIMEOUT", verr.Errors[1].Field)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  query_complexity: 40\n"), 0o600))
	t.Setenv("GQLGUARD_LIMITS_QUERY_COMPLEXITY", "80")

	cfg, err := LoadWithEnvOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Limits.QueryComplexity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"negative complexity", func(c *Config) { c.Limits.QueryComplexity = -1 }, "limits.query_complexity"},
		{"negative alias allowance", func(c *Config) { c.Limits.MaximumAliasAllowed = -2 }, "limits.maximum_alias_allowed"},
		{"relative upstream", func(c *Config) { c.Server.UpstreamURL = "backend:8000" }, "server.upstream_url"},
		{"path without slash", func(c *Config) { c.Server.Path = "graphql" }, "server.path"},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "server.max_body_bytes"},
		{"rate limit without rps", func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.RPS = 0 }, "rate_limit.rps"},
		{"unknown stats backend", func(c *Config) { c.Stats.Enabled = true; c.Stats.Backend = "etcd" }, "stats.backend"},
		{"redis without address", func(c *Config) {
			c.Stats.Enabled = true
			c.Stats.Backend = "redis"
			c.Stats.RedisAddress = ""
		}, "stats.redis_address"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Endpoint = "" }, "tracing.endpoint"},
		{"tracing ratio above one", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.SampleRatio = 1.5 }, "tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestValidate_DisabledSectionsAreNotChecked(t *testing.T) {
	cfg := Default()
	cfg.RateLimit.RPS = 0
	cfg.Stats.Backend = "etcd"
	cfg.Tracing.Endpoint = ""
	assert.NoError(t, Validate(cfg))
}
