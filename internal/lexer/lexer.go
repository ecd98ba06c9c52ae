package lexer

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/errors"
)

type syntaxError string

type Lexer struct {
	sc   *scanner.Scanner
	next rune
}

func New(s string) *Lexer {
	sc := &scanner.Scanner{
		Mode: scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings,
	}
	sc.Init(strings.NewReader(s))

	l := &Lexer{sc: sc}
	sc.Error = func(s *scanner.Scanner, msg string) {
		l.SyntaxError(msg)
	}
	return l
}

// CatchSyntaxError runs f and turns a syntax error raised by the lexer into a QueryError
// wrapping errors.ErrSyntax. Any other panic is re-raised.
func (l *Lexer) CatchSyntaxError(f func()) (errRes *errors.QueryError) {
	defer func() {
		if err := recover(); err != nil {
			if err, ok := err.(syntaxError); ok {
				errRes = errors.Errorf("syntax error: %s", err)
				errRes.Err = errors.ErrSyntax
				errRes.Rule = "SyntaxError"
				errRes.Locations = []errors.Location{l.Location()}
				return
			}
			panic(err)
		}
	}()

	f()
	return
}

func (l *Lexer) Peek() rune {
	return l.next
}

// ConsumeWhitespace consumes whitespace and tokens equivalent to whitespace (e.g. commas and comments).
func (l *Lexer) ConsumeWhitespace() {
	for {
		l.next = l.sc.Scan()

		if l.next == ',' {
			// Similar to white space and line terminators, commas (',') are used to improve the
			// legibility of source text and separate lexical tokens but are otherwise syntactically and
			// semantically insignificant within GraphQL documents.
			//
			// http://facebook.github.io/graphql/draft/#sec-Insignificant-Commas
			continue
		}

		if l.next == '#' {
			// A comment can contain any Unicode code point except `LineTerminator` so a comment always
			// consists of all code points starting with the '#' character up to but not including the
			// line terminator.
			l.consumeComment()
			continue
		}

		break
	}
}

func (l *Lexer) ConsumeIdent() string {
	name := l.sc.TokenText()
	l.ConsumeToken(scanner.Ident)
	return name
}

func (l *Lexer) ConsumeIdentWithLoc() ast.Ident {
	loc := l.Location()
	name := l.sc.TokenText()
	l.ConsumeToken(scanner.Ident)
	return ast.Ident{Name: name, Loc: loc}
}

func (l *Lexer) ConsumeKeyword(keyword string) {
	if l.next != scanner.Ident || l.sc.TokenText() != keyword {
		l.SyntaxError(fmt.Sprintf("unexpected %s, expecting %q", l.describe(), keyword))
	}
	l.ConsumeWhitespace()
}

// ConsumeLiteral consumes an int, float, string or name token. Block strings are returned
// with their surrounding triple quotes.
func (l *Lexer) ConsumeLiteral() *ast.PrimitiveValue {
	lit := &ast.PrimitiveValue{Type: l.next, Text: l.sc.TokenText()}
	if l.next == scanner.String && lit.Text == `""` && l.sc.Peek() == '"' {
		lit.Text = l.consumeBlockString()
	}
	l.ConsumeWhitespace()
	return lit
}

func (l *Lexer) ConsumeToken(expected rune) {
	if l.next != expected {
		l.SyntaxError(fmt.Sprintf("unexpected %s, expecting %s", l.describe(), scanner.TokenString(expected)))
	}
	l.ConsumeWhitespace()
}

func (l *Lexer) SyntaxError(message string) {
	panic(syntaxError(message))
}

func (l *Lexer) Location() errors.Location {
	return errors.Location{
		Line:   l.sc.Line,
		Column: l.sc.Column,
	}
}

func (l *Lexer) describe() string {
	if l.next == scanner.EOF {
		return "<EOF>"
	}
	return fmt.Sprintf("%q", l.sc.TokenText())
}

// consumeBlockString reads a """...""" string. The scanner has already returned the first
// two quotes as an empty string token.
func (l *Lexer) consumeBlockString() string {
	l.sc.Next()

	var b strings.Builder
	b.WriteString(`"""`)
	quotes := 0
	for {
		next := l.sc.Next()
		if next == scanner.EOF {
			l.SyntaxError("unterminated block string")
		}
		b.WriteRune(next)
		if next == '"' {
			quotes++
			if quotes == 3 {
				return b.String()
			}
			continue
		}
		quotes = 0
	}
}

// consumeComment consumes all characters from `#` to the first encountered line terminator.
func (l *Lexer) consumeComment() {
	if l.next != '#' {
		panic("consumeComment used in wrong context")
	}

	for {
		next := l.sc.Next()
		if next == '\r' || next == '\n' || next == scanner.EOF {
			break
		}
	}
}
