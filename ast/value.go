package ast

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/graph-gophers/graphql-guard/errors"
)

// Value is an input value literal.
//
// http://spec.graphql.org/draft/#sec-Input-Values
type Value interface {
	Node
	// Deserialize returns the Go representation of the value, resolving variables from vars.
	Deserialize(vars map[string]interface{}) interface{}
	String() string
	Location() errors.Location
}

// PrimitiveValue is an int, float, string, boolean or enum literal. Type holds the
// text/scanner token the literal was read as.
type PrimitiveValue struct {
	Type rune
	Text string
	Loc  errors.Location
}

func (val *PrimitiveValue) Kind() Kind {
	switch val.Type {
	case scanner.Int:
		return KindIntValue
	case scanner.Float:
		return KindFloatValue
	case scanner.String:
		return KindStringValue
	case scanner.Ident:
		if val.Text == "true" || val.Text == "false" {
			return KindBooleanValue
		}
		return KindEnumValue
	default:
		return KindEnumValue
	}
}

func (val *PrimitiveValue) Deserialize(vars map[string]interface{}) interface{} {
	switch val.Type {
	case scanner.Int:
		value, err := strconv.ParseInt(val.Text, 10, 32)
		if err != nil {
			return nil
		}
		return int32(value)

	case scanner.Float:
		value, err := strconv.ParseFloat(val.Text, 64)
		if err != nil {
			return nil
		}
		return value

	case scanner.String:
		if strings.HasPrefix(val.Text, `"""`) {
			return strings.TrimSuffix(strings.TrimPrefix(val.Text, `"""`), `"""`)
		}
		value, err := strconv.Unquote(val.Text)
		if err != nil {
			return nil
		}
		return value

	case scanner.Ident:
		switch val.Text {
		case "true":
			return true
		case "false":
			return false
		default:
			return val.Text
		}

	default:
		return nil
	}
}

func (val *PrimitiveValue) String() string            { return val.Text }
func (val *PrimitiveValue) Location() errors.Location { return val.Loc }

// Variable is a `$name` reference.
type Variable struct {
	Name string
	Loc  errors.Location
}

func (*Variable) Kind() Kind { return KindVariable }

func (v *Variable) Deserialize(vars map[string]interface{}) interface{} {
	return vars[v.Name]
}

func (v *Variable) String() string            { return "$" + v.Name }
func (v *Variable) Location() errors.Location { return v.Loc }

// NullValue is the `null` literal.
type NullValue struct {
	Loc errors.Location
}

func (*NullValue) Kind() Kind { return KindNullValue }

func (*NullValue) Deserialize(vars map[string]interface{}) interface{} { return nil }

func (*NullValue) String() string { return "null" }

func (val *NullValue) Location() errors.Location { return val.Loc }

// ListValue is a `[...]` literal.
type ListValue struct {
	Values []Value
	Loc    errors.Location
}

func (*ListValue) Kind() Kind { return KindListValue }

func (val *ListValue) Deserialize(vars map[string]interface{}) interface{} {
	entries := make([]interface{}, len(val.Values))
	for i, entry := range val.Values {
		entries[i] = entry.Deserialize(vars)
	}
	return entries
}

func (val *ListValue) String() string {
	entries := make([]string, len(val.Values))
	for i, entry := range val.Values {
		entries[i] = entry.String()
	}
	return "[" + strings.Join(entries, ", ") + "]"
}

func (val *ListValue) Location() errors.Location { return val.Loc }

// ObjectValue is a `{...}` literal.
type ObjectValue struct {
	Fields []*ObjectField
	Loc    errors.Location
}

func (*ObjectValue) Kind() Kind { return KindObjectValue }

func (val *ObjectValue) Deserialize(vars map[string]interface{}) interface{} {
	fields := make(map[string]interface{}, len(val.Fields))
	for _, f := range val.Fields {
		fields[f.Name.Name] = f.Value.Deserialize(vars)
	}
	return fields
}

func (val *ObjectValue) String() string {
	entries := make([]string, 0, len(val.Fields))
	for _, f := range val.Fields {
		entries = append(entries, f.Name.Name+": "+f.Value.String())
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func (val *ObjectValue) Location() errors.Location { return val.Loc }

// ObjectField is a single `name: value` entry of an ObjectValue.
type ObjectField struct {
	Name  Ident
	Value Value
}

func (*ObjectField) Kind() Kind { return KindObjectField }

// Argument is a `name: value` pair passed to a field or directive.
type Argument struct {
	Name  Ident
	Value Value
}

func (*Argument) Kind() Kind { return KindArgument }

type ArgumentList []*Argument

// Get returns the value of the named argument.
func (l ArgumentList) Get(name string) (Value, bool) {
	for _, arg := range l {
		if arg.Name.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// Directive is an `@name(args)` annotation.
type Directive struct {
	Name      Ident
	Arguments ArgumentList
}

func (*Directive) Kind() Kind { return KindDirective }

type DirectiveList []*Directive

// Get returns the first directive with the given name, nil if there is none.
func (l DirectiveList) Get(name string) *Directive {
	for _, d := range l {
		if d.Name.Name == name {
			return d
		}
	}
	return nil
}
