package ast

// Kind tags every node of an executable document.
type Kind string

const (
	KindDocument            Kind = "Document"
	KindOperationDefinition Kind = "OperationDefinition"
	KindFragmentDefinition  Kind = "FragmentDefinition"
	KindVariableDefinition  Kind = "VariableDefinition"
	KindSelectionSet        Kind = "SelectionSet"
	KindField               Kind = "Field"
	KindFragmentSpread      Kind = "FragmentSpread"
	KindInlineFragment      Kind = "InlineFragment"
	KindArgument            Kind = "Argument"
	KindDirective           Kind = "Directive"
	KindVariable            Kind = "Variable"
	KindIntValue            Kind = "IntValue"
	KindFloatValue          Kind = "FloatValue"
	KindStringValue         Kind = "StringValue"
	KindBooleanValue        Kind = "BooleanValue"
	KindEnumValue           Kind = "EnumValue"
	KindNullValue           Kind = "NullValue"
	KindListValue           Kind = "ListValue"
	KindObjectValue         Kind = "ObjectValue"
	KindObjectField         Kind = "ObjectField"
	KindNamedType           Kind = "NamedType"
	KindListType            Kind = "ListType"
	KindNonNullType         Kind = "NonNullType"
)

// Node is implemented by every element of an executable document.
type Node interface {
	Kind() Kind
}
