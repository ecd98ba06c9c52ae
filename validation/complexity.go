package validation

import (
	"github.com/graph-gophers/graphql-guard/ast"
)

const QueryComplexityRule = "QueryComplexity"

// QueryComplexity rejects operations whose complexity goes over MaxComplexity. Every field
// costs 1 plus the complexity of its sub-selection; fragments are expanded where they are
// spread and selections excluded by @skip or @include are free. A MaxComplexity of 0
// disables the rule.
type QueryComplexity struct {
	MaxComplexity int
}

func (QueryComplexity) Name() string { return QueryComplexityRule }

func (r QueryComplexity) Validate(c *Context) {
	if r.MaxComplexity == 0 {
		return
	}

	for _, op := range c.Doc.Operations {
		complexity := OperationComplexity(c.Doc, op, c.OperationVariables(op))
		if complexity > r.MaxComplexity {
			c.AddLimitErr(op.Loc, QueryComplexityRule, r.MaxComplexity, complexity, "Max query complexity should be %d but got %d.")
		}
	}
}

// OperationComplexity computes the complexity of op the way QueryComplexity does.
func OperationComplexity(doc *ast.ExecutableDefinition, op *ast.OperationDefinition, vars map[string]interface{}) int {
	e := &complexityEstimator{
		doc:   doc,
		vars:  vars,
		frags: map[*ast.FragmentDefinition]int{},
	}
	return e.selectionsComplexity(op.Selections)
}

type complexityEstimator struct {
	doc   *ast.ExecutableDefinition
	vars  map[string]interface{}
	frags map[*ast.FragmentDefinition]int
}

func (e *complexityEstimator) selectionsComplexity(sels ast.SelectionSet) int {
	complexity := 0
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			if skipped(sel.Directives, e.vars) {
				continue
			}
			complexity += e.selectionsComplexity(sel.SelectionSet) + 1
		case *ast.InlineFragment:
			if skipped(sel.Directives, e.vars) {
				continue
			}
			complexity += e.selectionsComplexity(sel.Selections)
		case *ast.FragmentSpread:
			if skipped(sel.Directives, e.vars) {
				continue
			}
			complexity += e.fragmentComplexity(sel.Name.Name)
		}
	}
	return complexity
}

func (e *complexityEstimator) fragmentComplexity(name string) int {
	frag := e.doc.Fragments.Get(name)
	if frag == nil {
		return 0
	}
	if c, ok := e.frags[frag]; ok {
		if c == inProgress {
			return 0
		}
		return c
	}
	e.frags[frag] = inProgress
	c := e.selectionsComplexity(frag.Selections)
	e.frags[frag] = c
	return c
}
