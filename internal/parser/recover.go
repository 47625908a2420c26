package parser

import (
	"fmt"
	"slices"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// expect consumes a token of kind or records a zero-width error at the cursor.
func (p *Parser) expect(kind token.Kind, code diag.Code, msg string) bool {
	if p.b.Eat(kind) {
		return true
	}
	p.b.Error(code, fmt.Sprintf("%s, found %s", msg, describe(p.b.PeekToken(0))))
	return false
}

// expectClosing is expect for `)`, `]` and `}`.
func (p *Parser) expectClosing(kind token.Kind) bool {
	switch kind {
	case token.RParen:
		return p.expect(kind, diag.SynUnclosedParen, "expected ')'")
	case token.RBracket:
		return p.expect(kind, diag.SynExpectRightBracket, "expected ']'")
	default:
		return p.expect(kind, diag.SynUnclosedBrace, "expected '}'")
	}
}

// errorToken wraps the current token in an error node. At EOF the node is
// empty.
func (p *Parser) errorToken(code diag.Code, msg string) cst.CompletedMarker {
	m := p.b.Mark()
	p.b.Advance()
	return m.CompleteError(code, msg)
}

func (p *Parser) atTerminator() bool {
	return p.b.Peek(0).IsTerminator()
}

// skipTerminators consumes `;` and newline terminators. The tokens stay in
// the enclosing node.
func (p *Parser) skipTerminators() bool {
	skipped := false
	for p.atTerminator() {
		p.b.Advance()
		skipped = true
	}
	return skipped
}

// expectTerminator checks that a statement or declaration is followed by a
// terminator or by one of closers (which is left in place).
func (p *Parser) expectTerminator(closers ...token.Kind) {
	k := p.b.Peek(0)
	if k.IsTerminator() || k == token.EOF || slices.Contains(closers, k) {
		return
	}
	p.b.Error(diag.SynExpectSemicolon, fmt.Sprintf("expected ';' or newline, found %s", describe(p.b.PeekToken(0))))
}

// enter guards recursion depth. On false the caller must not recurse and
// should return tooDeep's node instead.
func (p *Parser) enter() bool {
	if p.depth >= p.opts.MaxDepth {
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// tooDeep wraps the rest of the over-deep construct in one error node: it
// consumes at least one token and stops, outside brackets, before a
// terminator, a comma or a closer of the enclosing construct.
func (p *Parser) tooDeep() cst.CompletedMarker {
	m := p.b.Mark()
	level := 0
	for first := true; !p.b.EOF(); first = false {
		k := p.b.Peek(0)
		if !first && level == 0 && (k.IsTerminator() || k == token.Comma || isCloser(k)) {
			break
		}
		switch {
		case isOpener(k):
			level++
		case isCloser(k):
			level--
		}
		p.b.Advance()
		if level < 0 {
			break
		}
	}
	return m.CompleteError(diag.SynNestingTooDeep, fmt.Sprintf("nesting deeper than %d levels", p.opts.MaxDepth))
}

func isOpener(k token.Kind) bool {
	return k == token.LParen || k == token.LBracket || k == token.LBrace
}

func isCloser(k token.Kind) bool {
	return k == token.RParen || k == token.RBracket || k == token.RBrace
}

// describe renders a token for diagnostics.
func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "EOF"
	case tok.Kind == token.Newline:
		return "newline"
	case tok.Kind == token.Ident:
		return fmt.Sprintf("identifier %q", tok.Text)
	case tok.Kind.IsLiteral():
		return "literal " + tok.Text
	case tok.Kind.IsKeyword():
		return "keyword " + tok.Text
	case tok.Kind == token.Invalid:
		return fmt.Sprintf("invalid token %q", tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}
