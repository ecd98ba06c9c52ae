package validation

import (
	"github.com/graph-gophers/graphql-guard/ast"
)

const DisableIntrospectionRule = "DisableIntrospection"

// DisableIntrospection rejects every __schema and __type field when Disabled is set.
type DisableIntrospection struct {
	Disabled bool
}

func (DisableIntrospection) Name() string { return DisableIntrospectionRule }

func (r DisableIntrospection) Validate(c *Context) {
	if !r.Disabled {
		return
	}

	ast.Inspect(c.Doc, func(n ast.Node) bool {
		f, ok := n.(*ast.Field)
		if !ok {
			return true
		}
		switch f.Name.Name {
		case "__schema", "__type":
			c.AddErr(f.Loc(), DisableIntrospectionRule, "GraphQL introspection is not allowed, but the query contained __schema or __type")
		}
		return true
	})
}
