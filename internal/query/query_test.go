package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-guard/ast"
	gqlerrors "github.com/graph-gophers/graphql-guard/errors"
)

func FuzzParseQuery(f *testing.F) {
	f.Add(`{ a: field1 b: field2 { c: nested } }`)
	f.Add(`query Q($id: ID! = "1") @cached { node(id: $id) { ... on User { name } ...F } } fragment F on Node { id }`)
	f.Fuzz(func(t *testing.T, queryStr string) {
		Parse(queryStr)
	})
}

func TestParse_Aliases(t *testing.T) {
	doc, err := Parse(`{ a: field1 b: field2 { c: nested plain } }`)
	require.Nil(t, err)
	require.Len(t, doc.Operations, 1)

	op := doc.Operations[0]
	assert.Equal(t, Query, op.Type)
	require.Len(t, op.Selections, 2)

	a := op.Selections[0].(*ast.Field)
	require.NotNil(t, a.Alias)
	assert.Equal(t, "a", a.Alias.Name)
	assert.Equal(t, "field1", a.Name.Name)
	assert.Nil(t, a.SelectionSet)

	b := op.Selections[1].(*ast.Field)
	assert.Equal(t, "b", b.ResponseKey())
	require.Len(t, b.SelectionSet, 2)

	plain := b.SelectionSet[1].(*ast.Field)
	assert.Nil(t, plain.Alias)
	assert.Equal(t, "plain", plain.ResponseKey())
}

func TestParse_Definitions(t *testing.T) {
	doc, err := Parse(`
		query Hero($episode: Episode = JEDI, $withFriends: Boolean!) {
			hero(episode: $episode) {
				name
				friends @include(if: $withFriends) { ...Names }
				... on Droid { primaryFunction }
			}
		}

		mutation Rate { rate(stars: -5, tags: ["a", "b"], input: { note: """multi
line""" }) }

		subscription { reviews { stars } }

		fragment Names on Character { name }
	`)
	require.Nil(t, err)
	require.Len(t, doc.Operations, 3)
	require.Len(t, doc.Fragments, 1)

	hero := doc.Operations.Get("Hero")
	require.NotNil(t, hero)
	require.Len(t, hero.Vars, 2)
	assert.Equal(t, "Episode", hero.Vars.Get("episode").Type.String())
	assert.Equal(t, "Boolean!", hero.Vars.Get("withFriends").Type.String())
	assert.Equal(t, "JEDI", hero.Vars.Get("episode").Default.String())

	rate := doc.Operations.Get("Rate")
	require.NotNil(t, rate)
	assert.Equal(t, Mutation, rate.Type)
	args := rate.Selections[0].(*ast.Field).Arguments
	stars, ok := args.Get("stars")
	require.True(t, ok)
	assert.Equal(t, int32(-5), stars.Deserialize(nil))
	input, ok := args.Get("input")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"note": "multi\nline"}, input.Deserialize(nil))

	assert.Equal(t, Subscription, doc.Operations[2].Type)
	assert.Equal(t, "Character", doc.Fragments.Get("Names").On.Name)
	assert.Len(t, doc.Definitions(), 4)
}

func TestParse_SyntaxErrors(t *testing.T) {
	for name, q := range map[string]string{
		"empty document":        "",
		"whitespace only":       "  \n\t# just a comment\n",
		"unclosed selection":    "{ a { b }",
		"unknown definition":    "schema { query: Query }",
		"missing fragment type": "fragment F { a }",
		"unterminated string":   `{ a(s: "oops) }`,
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse(q)
			assert.Nil(t, doc)
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, gqlerrors.ErrSyntax), "expected ErrSyntax, got %v", err)
			assert.Equal(t, "SyntaxError", err.Rule)
		})
	}
}
