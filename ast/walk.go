package ast

// Visitor is called for every node reached by Walk. Enter is called before the children of
// a node are visited and Leave after them. When Enter returns false, the children of the
// node and the matching Leave call are skipped.
type Visitor interface {
	Enter(n Node) bool
	Leave(n Node)
}

// VisitorFuncs adapts a pair of functions to the Visitor interface. A nil EnterFunc visits
// every node; a nil LeaveFunc does nothing.
type VisitorFuncs struct {
	EnterFunc func(n Node) bool
	LeaveFunc func(n Node)
}

func (v VisitorFuncs) Enter(n Node) bool {
	if v.EnterFunc == nil {
		return true
	}
	return v.EnterFunc(n)
}

func (v VisitorFuncs) Leave(n Node) {
	if v.LeaveFunc != nil {
		v.LeaveFunc(n)
	}
}

// Walk traverses the tree rooted at n depth-first.
func Walk(n Node, v Visitor) {
	if !v.Enter(n) {
		return
	}

	switch n := n.(type) {
	case *ExecutableDefinition:
		for _, op := range n.Operations {
			Walk(op, v)
		}
		for _, frag := range n.Fragments {
			Walk(frag, v)
		}

	case *OperationDefinition:
		for _, iv := range n.Vars {
			Walk(iv, v)
		}
		walkDirectives(n.Directives, v)
		if n.Selections != nil {
			Walk(n.Selections, v)
		}

	case *FragmentDefinition:
		Walk(&n.On, v)
		walkDirectives(n.Directives, v)
		if n.Selections != nil {
			Walk(n.Selections, v)
		}

	case *InputValueDefinition:
		if n.Type != nil {
			Walk(n.Type, v)
		}
		if n.Default != nil {
			Walk(n.Default, v)
		}
		walkDirectives(n.Directives, v)

	case SelectionSet:
		for _, sel := range n {
			Walk(sel, v)
		}

	case *Field:
		walkArguments(n.Arguments, v)
		walkDirectives(n.Directives, v)
		if n.SelectionSet != nil {
			Walk(n.SelectionSet, v)
		}

	case *InlineFragment:
		if n.On.Name != "" {
			Walk(&n.On, v)
		}
		walkDirectives(n.Directives, v)
		if n.Selections != nil {
			Walk(n.Selections, v)
		}

	case *FragmentSpread:
		walkDirectives(n.Directives, v)

	case *Directive:
		walkArguments(n.Arguments, v)

	case *Argument:
		Walk(n.Value, v)

	case *ListValue:
		for _, val := range n.Values {
			Walk(val, v)
		}

	case *ObjectValue:
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *ObjectField:
		Walk(n.Value, v)

	case *List:
		Walk(n.OfType, v)

	case *NonNull:
		Walk(n.OfType, v)
	}

	v.Leave(n)
}

// Inspect calls f for every node on the way down, skipping the children of a node when f
// returns false.
func Inspect(n Node, f func(Node) bool) {
	Walk(n, VisitorFuncs{EnterFunc: f})
}

func walkDirectives(list DirectiveList, v Visitor) {
	for _, d := range list {
		Walk(d, v)
	}
}

func walkArguments(list ArgumentList, v Visitor) {
	for _, arg := range list {
		Walk(arg, v)
	}
}
