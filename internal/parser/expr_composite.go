package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// literalValue parses `{ [Element {, Element} [,]] }`. Inside, a bare `{`
// is an elided-type literal value, so WrapCompositeInExpression is unset.
func (p *Parser) literalValue() cst.CompletedMarker {
	if !p.enter() {
		return p.tooDeep()
	}
	defer p.leave()

	m := p.b.Mark()
	p.b.Advance() // {
	p.withFlags(AllowCompositeLiteral|p.flags&ParseIota, func() {
		for !p.b.EOF() && !p.b.At(token.RBrace) {
			if !p.parseElement() {
				p.errorToken(diag.SynExpectExpression, fmt.Sprintf("expected element, found %s", describe(p.b.PeekToken(0))))
			}
			if !p.b.Eat(token.Comma) {
				p.continueAfterNewline(token.RBrace)
				break
			}
		}
	})
	p.expectClosing(token.RBrace)
	return m.Complete(cst.KindLiteralValue)
}

// Element = [Key ":"] Value; keys and values may be literal values.
func (p *Parser) parseElement() bool {
	first, ok := p.expression()
	if !ok {
		return false
	}
	m := first.Precede()
	if !p.b.Eat(token.Colon) {
		m.Complete(cst.KindElement)
		return true
	}
	if _, ok := p.expression(); !ok {
		p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected element value, found %s", describe(p.b.PeekToken(0))))
	}
	m.Complete(cst.KindKeyedElement)
	return true
}
