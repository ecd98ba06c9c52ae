package ast

import "github.com/graph-gophers/graphql-guard/errors"

// Ident is a name together with the location it was read from.
type Ident struct {
	Name string
	Loc  errors.Location
}

// ExecutableDefinition is the result of parsing a query string: the operations and the
// fragments it defines.
//
// http://spec.graphql.org/draft/#ExecutableDefinition
type ExecutableDefinition struct {
	Operations OperationList
	Fragments  FragmentList
}

func (*ExecutableDefinition) Kind() Kind { return KindDocument }

// Definitions returns every top-level definition, operations first.
func (d *ExecutableDefinition) Definitions() []Definition {
	defs := make([]Definition, 0, len(d.Operations)+len(d.Fragments))
	for _, op := range d.Operations {
		defs = append(defs, op)
	}
	for _, frag := range d.Fragments {
		defs = append(defs, frag)
	}
	return defs
}

// Definition is a top-level definition of a document.
type Definition interface {
	Node
	// SelectionSetOf returns the selections of the definition, nil when it has none.
	SelectionSetOf() SelectionSet
}

// OperationType is one of QUERY, MUTATION or SUBSCRIPTION.
type OperationType string

// OperationDefinition represents a GraphQL operation.
//
// http://spec.graphql.org/draft/#OperationDefinition
type OperationDefinition struct {
	Type       OperationType
	Name       Ident
	Vars       ArgumentsDefinition
	Selections SelectionSet
	Directives DirectiveList
	Loc        errors.Location
}

func (*OperationDefinition) Kind() Kind { return KindOperationDefinition }

func (op *OperationDefinition) SelectionSetOf() SelectionSet { return op.Selections }

type OperationList []*OperationDefinition

// Get returns the operation with the given name, nil if there is none.
func (l OperationList) Get(name string) *OperationDefinition {
	for _, op := range l {
		if op.Name.Name == name {
			return op
		}
	}
	return nil
}

// Fragment is the part shared by inline fragments and fragment definitions.
type Fragment struct {
	On         TypeName
	Selections SelectionSet
}

// FragmentDefinition is a named fragment.
//
// http://spec.graphql.org/draft/#FragmentDefinition
type FragmentDefinition struct {
	Fragment
	Name       Ident
	Directives DirectiveList
	Loc        errors.Location
}

func (*FragmentDefinition) Kind() Kind { return KindFragmentDefinition }

func (f *FragmentDefinition) SelectionSetOf() SelectionSet { return f.Selections }

type FragmentList []*FragmentDefinition

// Get returns the fragment with the given name, nil if there is none.
func (l FragmentList) Get(name string) *FragmentDefinition {
	for _, f := range l {
		if f.Name.Name == name {
			return f
		}
	}
	return nil
}

// InputValueDefinition is a variable definition of an operation.
//
// http://spec.graphql.org/draft/#VariableDefinition
type InputValueDefinition struct {
	Name       Ident
	Type       Type
	Default    Value
	Directives DirectiveList
	Loc        errors.Location
	TypeLoc    errors.Location
}

func (*InputValueDefinition) Kind() Kind { return KindVariableDefinition }

type ArgumentsDefinition []*InputValueDefinition

// Get returns the variable definition with the given name, nil if there is none.
func (a ArgumentsDefinition) Get(name string) *InputValueDefinition {
	for _, inputValue := range a {
		if inputValue.Name.Name == name {
			return inputValue
		}
	}
	return nil
}
