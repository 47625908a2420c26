package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// FuncDecl   = "func" ident [TypeParams] Signature [Block]
// MethodDecl = "func" Receiver ident Signature [Block]
func (p *Parser) parseFuncDecl() bool {
	p.seenDecl = true
	m := p.b.Mark()
	p.b.Advance() // func
	kind := cst.KindFuncDecl
	if p.b.At(token.LParen) {
		kind = cst.KindMethodDecl
		p.parseParameters(cst.KindReceiver)
	}
	p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if p.b.At(token.LBracket) {
		p.parseTypeParams()
	}
	p.parseFunctionSignature()
	// тело необязательно: объявление без тела (реализация вне Go)
	if p.b.At(token.LBrace) {
		p.parseBlock()
	}
	m.Complete(kind)
	return true
}

// parseFunctionSignature parses Parameters [Result] into a Signature node.
func (p *Parser) parseFunctionSignature() bool {
	m := p.b.Mark()
	if p.b.At(token.LParen) {
		p.parseParameters(cst.KindParams)
	} else {
		p.b.Error(diag.SynUnexpectedToken, fmt.Sprintf("expected '(', found %s", describe(p.b.PeekToken(0))))
	}
	p.parseResult()
	m.Complete(cst.KindSignature)
	return true
}

// parseMethodSignature parses an interface method: ident Signature.
func (p *Parser) parseMethodSignature() bool {
	if !p.b.At(token.Ident) {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	p.parseFunctionSignature()
	m.Complete(cst.KindMethodSpec)
	return true
}

// Result = Parameters | Type
func (p *Parser) parseResult() {
	if !startsType(p.b.Peek(0)) {
		return
	}
	m := p.b.Mark()
	if p.b.At(token.LParen) {
		p.parseParameters(cst.KindParams)
	} else {
		p.parseType()
	}
	m.Complete(cst.KindResult)
}

// parseParameters parses `( [ParamDecl {, ParamDecl} [,]] )` into a node of
// kind (Params or Receiver). Whether the entries carry names is decided for
// the whole list first, as in `(a, b int)` against `(int, string)`.
func (p *Parser) parseParameters(kind cst.Kind) {
	m := p.b.Mark()
	p.b.Advance() // (
	named := p.paramsNamed()
	p.nested(func() {
		variadic := false
		for !p.b.EOF() && !p.b.At(token.RParen) {
			if variadic {
				p.b.Error(diag.SynVariadicMustBeLast, "can only use ... with final parameter")
			}
			ok, v := p.parseParam(named)
			if !ok {
				p.errorToken(diag.SynExpectType, fmt.Sprintf("expected parameter, found %s", describe(p.b.PeekToken(0))))
			}
			variadic = v
			if !p.b.Eat(token.Comma) {
				break
			}
		}
	})
	p.expectClosing(token.RParen)
	m.Complete(kind)
}

// ParamDecl = [IdentList] ["..."] Type
func (p *Parser) parseParam(named bool) (ok, variadic bool) {
	k := p.b.Peek(0)
	if !startsType(k) && k != token.Ellipsis {
		return false, false
	}
	m := p.b.Mark()
	if named && k == token.Ident {
		p.parseIdentifierList(true)
	}
	variadic = p.b.Eat(token.Ellipsis)
	p.expectType()
	m.Complete(cst.KindParam)
	return true, variadic
}

// paramsNamed scans the parameter list ahead of the cursor (just past `(`):
// it is named if any entry is an identifier followed by a type.
func (p *Parser) paramsNamed() bool {
	i := 0
	for {
		if p.b.Peek(i) == token.Ident {
			switch next := p.b.Peek(i + 1); next {
			case token.Comma, token.RParen, token.Dot:
			case token.LBracket:
				if !p.genericAt(i+1, token.Comma, token.RParen) {
					return true
				}
			default:
				if startsType(next) || next == token.Ellipsis {
					return true
				}
			}
		}
		var more bool
		if i, more = p.skipListEntry(i); !more {
			return false
		}
	}
}

// skipListEntry advances a lookahead offset past one comma-separated entry.
// It reports false at the closing bracket of the list or at EOF.
func (p *Parser) skipListEntry(i int) (int, bool) {
	level := 0
	for ; ; i++ {
		switch p.b.Peek(i) {
		case token.EOF:
			return i, false
		case token.LParen, token.LBracket, token.LBrace:
			level++
		case token.RParen, token.RBracket, token.RBrace:
			if level == 0 {
				return i, false
			}
			level--
		case token.Comma:
			if level == 0 {
				return i + 1, true
			}
		}
	}
}

// genericAt reports whether the `[` at lookahead offset i closes into a type
// argument list: the token after the matching `]` is one of follow.
func (p *Parser) genericAt(i int, follow ...token.Kind) bool {
	level := 0
	for ; ; i++ {
		switch p.b.Peek(i) {
		case token.EOF:
			return false
		case token.LBracket, token.LParen, token.LBrace:
			level++
		case token.RBracket, token.RParen, token.RBrace:
			level--
			if level == 0 {
				next := p.b.Peek(i + 1)
				for _, k := range follow {
					if next == k {
						return true
					}
				}
				return false
			}
		}
	}
}
