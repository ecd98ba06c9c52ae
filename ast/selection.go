package ast

import "github.com/graph-gophers/graphql-guard/errors"

// Selection is a Field, an InlineFragment or a FragmentSpread.
type Selection interface {
	Node
	isSelection()
}

// SelectionSet is the list of selections between braces. A nil SelectionSet means the
// owner has no selection set at all.
//
// http://spec.graphql.org/draft/#sec-Selection-Sets
type SelectionSet []Selection

func (SelectionSet) Kind() Kind { return KindSelectionSet }

// Field is a single selected field.
//
// http://spec.graphql.org/draft/#sec-Language.Fields
type Field struct {
	// Alias is nil unless the field was written as `alias: name`.
	Alias           *Ident
	Name            Ident
	Arguments       ArgumentList
	Directives      DirectiveList
	SelectionSet    SelectionSet
	SelectionSetLoc errors.Location
}

func (*Field) Kind() Kind { return KindField }

// ResponseKey is the key under which the field appears in the response.
func (f *Field) ResponseKey() string {
	if f.Alias != nil {
		return f.Alias.Name
	}
	return f.Name.Name
}

// Loc is the location of the first token of the field.
func (f *Field) Loc() errors.Location {
	if f.Alias != nil {
		return f.Alias.Loc
	}
	return f.Name.Loc
}

// InlineFragment is a `... on Type { }` selection. On.Name is empty when the type condition
// is omitted.
//
// http://spec.graphql.org/draft/#sec-Inline-Fragments
type InlineFragment struct {
	Fragment
	Directives DirectiveList
	Loc        errors.Location
}

func (*InlineFragment) Kind() Kind { return KindInlineFragment }

// FragmentSpread is a `...Name` selection.
//
// http://spec.graphql.org/draft/#FragmentSpread
type FragmentSpread struct {
	Name       Ident
	Directives DirectiveList
	Loc        errors.Location
}

func (*FragmentSpread) Kind() Kind { return KindFragmentSpread }

func (*Field) isSelection()          {}
func (*InlineFragment) isSelection() {}
func (*FragmentSpread) isSelection() {}
