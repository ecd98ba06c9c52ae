package common

import (
	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/internal/lexer"
)

// ParseInputValue parses a variable definition. The leading '$' has already been consumed.
func ParseInputValue(l *lexer.Lexer) *ast.InputValueDefinition {
	p := &ast.InputValueDefinition{}
	p.Loc = l.Location()
	p.Name = l.ConsumeIdentWithLoc()
	l.ConsumeToken(':')
	p.TypeLoc = l.Location()
	p.Type = ParseType(l)
	if l.Peek() == '=' {
		l.ConsumeToken('=')
		p.Default = ParseLiteral(l, true)
	}
	p.Directives = ParseDirectives(l)
	return p
}

func ParseArgumentList(l *lexer.Lexer) ast.ArgumentList {
	var args ast.ArgumentList
	l.ConsumeToken('(')
	for l.Peek() != ')' {
		name := l.ConsumeIdentWithLoc()
		l.ConsumeToken(':')
		value := ParseLiteral(l, false)
		args = append(args, &ast.Argument{
			Name:  name,
			Value: value,
		})
	}
	l.ConsumeToken(')')
	return args
}
