package validation

import (
	"github.com/graph-gophers/graphql-guard/ast"
)

const QueryDepthRule = "QueryDepth"

// QueryDepth rejects operations nested deeper than MaxDepth. Top-level fields are at depth
// 0 and every field carrying a selection set moves its children one level down. Fragments
// and inline fragments do not add depth. A MaxDepth of 0 disables the rule.
type QueryDepth struct {
	MaxDepth int
}

func (QueryDepth) Name() string { return QueryDepthRule }

func (r QueryDepth) Validate(c *Context) {
	if r.MaxDepth == 0 {
		return
	}

	for _, op := range c.Doc.Operations {
		depth := OperationDepth(c.Doc, op)
		if depth > r.MaxDepth {
			c.AddLimitErr(op.Loc, QueryDepthRule, r.MaxDepth, depth, "Max query depth should be %d but got %d.")
		}
	}
}

// OperationDepth measures the depth of op the way QueryDepth does.
func OperationDepth(doc *ast.ExecutableDefinition, op *ast.OperationDefinition) int {
	m := &depthMeasure{
		doc:   doc,
		frags: map[*ast.FragmentDefinition]int{},
	}
	if d := m.selectionsDepth(op.Selections); d > 0 {
		return d
	}
	return 0
}

// depthMeasure computes the depth of selection sets relative to their owner. A fragment is
// measured once and reused wherever it is spread.
type depthMeasure struct {
	doc   *ast.ExecutableDefinition
	frags map[*ast.FragmentDefinition]int
}

const inProgress = -2

// selectionsDepth returns -1 when no field in sels has a selection set.
func (m *depthMeasure) selectionsDepth(sels ast.SelectionSet) int {
	depth := -1
	for _, sel := range sels {
		d := -1
		switch sel := sel.(type) {
		case *ast.Field:
			if sel.SelectionSet != nil {
				d = 1 + m.selectionsDepth(sel.SelectionSet)
			}
		case *ast.InlineFragment:
			d = m.selectionsDepth(sel.Selections)
		case *ast.FragmentSpread:
			d = m.fragmentDepth(sel.Name.Name)
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}

func (m *depthMeasure) fragmentDepth(name string) int {
	frag := m.doc.Fragments.Get(name)
	if frag == nil {
		// unknown fragments are reported by the server that executes the query
		return -1
	}
	if d, ok := m.frags[frag]; ok {
		if d == inProgress {
			// cycle
			return -1
		}
		return d
	}
	m.frags[frag] = inProgress
	d := m.selectionsDepth(frag.Selections)
	m.frags[frag] = d
	return d
}
