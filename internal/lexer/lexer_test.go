package lexer_test

import (
	"errors"
	"testing"
	"text/scanner"

	gqlerrors "github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/internal/lexer"
)

func TestLexer_ConsumeWhitespace(t *testing.T) {
	l := lexer.New(`

# Comment line 1
#Comment line 2
,,,,,, # Commas are insignificant
hello`)

	err := l.CatchSyntaxError(func() { l.ConsumeWhitespace() })
	if err != nil {
		t.Fatal(err)
	}
	if l.Peek() != scanner.Ident {
		t.Fatalf("expected an identifier, got %s", scanner.TokenString(l.Peek()))
	}
	if got := l.ConsumeIdent(); got != "hello" {
		t.Errorf("wrong identifier: want %q, got %q", "hello", got)
	}
}

func TestLexer_ConsumeLiteral(t *testing.T) {
	cases := map[string]struct {
		given    string
		expected string
	}{
		"integer":      {given: "42", expected: "42"},
		"float":        {given: "1.5", expected: "1.5"},
		"string":       {given: `"hi"`, expected: `"hi"`},
		"block string": {given: `"""multi "quoted" line"""`, expected: `"""multi "quoted" line"""`},
		"enum":         {given: "RED", expected: "RED"},
	}

	for hint, c := range cases {
		t.Run(hint, func(t *testing.T) {
			l := lexer.New(c.given)
			var got string

			err := l.CatchSyntaxError(func() {
				l.ConsumeWhitespace()
				got = l.ConsumeLiteral().Text
			})
			if err != nil {
				t.Fatalf("unexpected error: %s", err.Error())
			}
			if c.expected != got {
				t.Errorf("wrong output, expected %s but got %s", c.expected, got)
			}
		})
	}
}

func TestLexer_SyntaxError(t *testing.T) {
	l := lexer.New("{ }")

	err := l.CatchSyntaxError(func() {
		l.ConsumeWhitespace()
		l.ConsumeToken('{')
		l.ConsumeIdent()
	})
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if !errors.Is(err, gqlerrors.ErrSyntax) {
		t.Errorf("expected error to wrap ErrSyntax, got %v", err)
	}
	if err.Message != `syntax error: unexpected "}", expecting Ident` {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if len(err.Locations) != 1 || err.Locations[0] != (gqlerrors.Location{Line: 1, Column: 3}) {
		t.Errorf("unexpected locations: %v", err.Locations)
	}
}

func TestLexer_UnterminatedBlockString(t *testing.T) {
	l := lexer.New(`"""never closed`)

	err := l.CatchSyntaxError(func() {
		l.ConsumeWhitespace()
		l.ConsumeLiteral()
	})
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if !errors.Is(err, gqlerrors.ErrSyntax) {
		t.Errorf("expected error to wrap ErrSyntax, got %v", err)
	}
}
