package guard

import (
	"github.com/graph-gophers/graphql-guard/ast"
)

// FieldCount returns the number of field nodes of doc, fragment definitions included.
// Fragments are not expanded.
func FieldCount(doc *ast.ExecutableDefinition) int {
	count := 0
	ast.Walk(doc, ast.VisitorFuncs{
		LeaveFunc: func(n ast.Node) {
			if n.Kind() == ast.KindField {
				count++
			}
		},
	})
	return count
}

// AliasCount returns the number of aliased fields reachable through field selection sets
// of the operations and fragment definitions of doc. Inline fragments and fragment spreads
// are not descended into.
func AliasCount(doc *ast.ExecutableDefinition) int {
	count := 0
	for _, def := range doc.Definitions() {
		if sels := def.SelectionSetOf(); sels != nil {
			count += selectionSetAliasCount(sels)
		}
	}
	return count
}

func selectionSetAliasCount(sels ast.SelectionSet) int {
	count := 0
	for _, sel := range sels {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		if field.Alias != nil {
			count++
		}
		if field.SelectionSet != nil {
			count += selectionSetAliasCount(field.SelectionSet)
		}
	}
	return count
}
