package ast

// Type is a type reference in a variable definition.
type Type interface {
	Node
	String() string
}

// TypeName is a reference to a named type.
type TypeName struct {
	Ident
}

func (*TypeName) Kind() Kind       { return KindNamedType }
func (t *TypeName) String() string { return t.Name }

// List is a `[Type]` reference.
type List struct {
	OfType Type
}

func (*List) Kind() Kind       { return KindListType }
func (t *List) String() string { return "[" + t.OfType.String() + "]" }

// NonNull is a `Type!` reference.
type NonNull struct {
	OfType Type
}

func (*NonNull) Kind() Kind       { return KindNonNullType }
func (t *NonNull) String() string { return t.OfType.String() + "!" }
