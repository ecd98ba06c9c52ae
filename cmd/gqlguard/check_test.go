package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const strictConfig = `
limits:
  query_depth: 2
  query_complexity: 5
  introspection_disabled: true
  maximum_alias_limit_enabled: true
  maximum_alias_allowed: 1
`

func TestCheck_Accepted(t *testing.T) {
	out, err := runCommand(t, `{ products { items { name } } }`, "check")
	require.NoError(t, err)
	assert.Equal(t, "ok: 3 fields, 0 aliases\n", out)
}

func TestCheck_FromFile(t *testing.T) {
	cfg := writeFile(t, "config.yaml", strictConfig)
	query := writeFile(t, "query.graphql", "{ a: product { name } }")

	out, err := runCommand(t, "", "check", "--config", cfg, query)
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 fields, 1 aliases\n", out)
}

func TestCheck_Rejected(t *testing.T) {
	cfg := writeFile(t, "config.yaml", strictConfig)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "field count",
			query: "{ a b c d e f }",
			want:  "[MaximumFields] Max query complexity should be 5 but got 6.\n",
		},
		{
			name:  "alias count",
			query: "{ x: a y: b }",
			want:  "[MaximumAliases] Max Aliases in query should be 1 but got 2.\n",
		},
		{
			name:  "depth",
			query: "{ a { b { c { d { e } } } } }",
			want:  "1:1: [QueryDepth] Max query depth should be 2 but got 3.\n",
		},
		{
			name:  "introspection",
			query: "{ __schema { types { name } } }",
			want:  "1:3: [DisableIntrospection] GraphQL introspection is not allowed, but the query contained __schema or __type\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.query, "check", "--config", cfg)
			assert.ErrorIs(t, err, errRejected)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCheck_SyntaxError(t *testing.T) {
	out, err := runCommand(t, "{ a ", "check")
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "syntax error:")
}

func TestCheck_Verbose(t *testing.T) {
	query := `query Products($skip: Boolean!) {
	  products { items { name sku @skip(if: $skip) } }
	  first: product { name }
	}`

	out, err := runCommand(t, query, "check", "--verbose", "--variables", `{"skip": true}`)
	require.NoError(t, err)

	var report struct {
		FieldCount int
		AliasCount int
		Operations []struct {
			Name       string
			Depth      int
			Complexity int
		}
		Errors []json.RawMessage
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 6, report.FieldCount)
	assert.Equal(t, 1, report.AliasCount)
	require.Len(t, report.Operations, 1)
	assert.Equal(t, "Products", report.Operations[0].Name)
	assert.Equal(t, 1, report.Operations[0].Depth)
	assert.Equal(t, 5, report.Operations[0].Complexity)
	assert.Empty(t, report.Errors)
}

func TestCheck_EnvOverrides(t *testing.T) {
	t.Setenv("GQLGUARD_LIMITS_QUERY_COMPLEXITY", "1")

	out, err := runCommand(t, "{ a b }", "check")
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, "[MaximumFields] Max query complexity should be 1 but got 2.\n", out)
}

func TestCheck_Errors(t *testing.T) {
	_, err := runCommand(t, "{ a }", "check", "--variables", "[1]")
	assert.ErrorContains(t, err, "invalid --variables")

	_, err = runCommand(t, "", "check", filepath.Join(t.TempDir(), "missing.graphql"))
	assert.ErrorContains(t, err, "reading query")

	_, err = runCommand(t, "{ a }", "check", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = runCommand(t, "{ a }", "check", "one", "two")
	assert.Error(t, err)
}
