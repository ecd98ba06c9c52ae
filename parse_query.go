package guard

import (
	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/internal/query"
)

// Parser turns query text into an executable document. Implementations report malformed
// text with an *errors.QueryError wrapping errors.ErrSyntax.
type Parser interface {
	Parse(queryString string) (*ast.ExecutableDefinition, error)
}

// QueryParser is the default Parser.
type QueryParser struct{}

func (QueryParser) Parse(queryString string) (*ast.ExecutableDefinition, error) {
	doc, err := ParseQuery(queryString)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseQuery parses a GraphQL query string and returns the AST root node and
// any errors. It only serves to expose the internal query.Parse function.
func ParseQuery(queryString string) (*ast.ExecutableDefinition, *errors.QueryError) {
	return query.Parse(queryString)
}
