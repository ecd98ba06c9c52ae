package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-guard/internal/query"
)

func TestQueryComplexity(t *testing.T) {
	for _, tc := range []struct {
		name       string
		query      string
		vars       map[string]interface{}
		max        int
		complexity int
		failure    bool
	}{
		{
			name:       "flat",
			query:      `{ a b c }`,
			max:        3,
			complexity: 3,
		},
		{
			name:       "nested",
			query:      `{ a { b c { d } } }`,
			max:        3,
			complexity: 4,
			failure:    true,
		},
		{
			name: "fragments are expanded at every spread",
			query: `
				query { x { ...F } y { ...F } }
				fragment F on T { a b }`,
			max:        10,
			complexity: 6,
		},
		{
			name:       "inline fragment",
			query:      `{ x { ... on T { a b } } }`,
			max:        10,
			complexity: 3,
		},
		{
			name:       "skip and include literals",
			query:      `{ a @skip(if: true) b @include(if: false) c @skip(if: false) { d } }`,
			max:        10,
			complexity: 2,
		},
		{
			name:       "skip with variable",
			query:      `query ($s: Boolean!) { a @skip(if: $s) { b c } d }`,
			vars:       map[string]interface{}{"s": true},
			max:        10,
			complexity: 1,
		},
		{
			name:       "include falls back to the variable default",
			query:      `query ($i: Boolean = false) { a @include(if: $i) { b c } d }`,
			max:        10,
			complexity: 1,
		},
		{
			name:       "skipped fragment spread",
			query:      `query { x { ...F @skip(if: true) } } fragment F on T { a b }`,
			max:        10,
			complexity: 1,
		},
		{
			name: "cyclic fragments terminate",
			query: `
				query { x { ...F } }
				fragment F on T { a ...F }`,
			max:        10,
			complexity: 2,
		},
		{
			name:       "disabled",
			query:      `{ a { b { c } } }`,
			max:        0,
			complexity: 3,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc, qErr := query.Parse(tc.query)
			require.Nil(t, qErr)

			c := newContext(doc, tc.vars)
			op := doc.Operations[0]
			assert.Equal(t, tc.complexity, OperationComplexity(doc, op, c.OperationVariables(op)))

			errs := NewRuleSet(QueryComplexity{MaxComplexity: tc.max}).Validate(doc, tc.vars)
			if !tc.failure {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, QueryComplexityRule, errs[0].Rule)
			assert.Equal(t, tc.max, errs[0].Extensions["limit"])
			assert.Equal(t, tc.complexity, errs[0].Extensions["actual"])
		})
	}
}
