package token

import (
	"gocst/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a basic literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTrivia reports whether the parser skips this token.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// IsBlank reports whether the token is the blank identifier `_`.
func (t Token) IsBlank() bool { return t.Kind == Ident && t.Text == "_" }
