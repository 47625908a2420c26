package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// operandInfo describes what the primary expression parsed so far can be.
type operandInfo struct {
	isType  bool // certainly a type: `(` makes a conversion
	litType bool // may be the type of a composite literal
	named   bool // litType via a (qualified) name: obeys AllowCompositeLiteral
	ident   bool // a plain identifier, so `x.Y` may still be a type name
}

// parsePrimaryExpression parses an operand with its selectors, indexes,
// slices, type assertions, calls and composite literal suffixes.
func (p *Parser) parsePrimaryExpression() bool {
	_, ok := p.primaryExpr()
	return ok
}

func (p *Parser) primaryExpr() (cst.CompletedMarker, bool) {
	x, info, ok := p.operand()
	if !ok {
		return x, false
	}
	for {
		switch p.b.Peek(0) {
		case token.Dot:
			if p.typeGuardAt(0) {
				// `.(type)` принадлежит заголовку switch
				return x, true
			}
			x, info = p.selectorOrAssert(x, info)
		case token.LBracket:
			x = p.indexOrSlice(x)
			info = operandInfo{isType: info.isType && info.named, litType: info.named, named: info.named}
		case token.LParen:
			kind := cst.KindCallExpr
			if info.isType {
				kind = cst.KindConversionExpr
			}
			m := x.Precede()
			p.parseArguments()
			x, info = m.Complete(kind), operandInfo{}
		case token.LBrace:
			if !info.litType || (info.named && !p.isSet(AllowCompositeLiteral)) {
				return x, true
			}
			m := x.Precede()
			p.literalValue()
			x, info = m.Complete(cst.KindCompositeLit), operandInfo{}
		default:
			return x, true
		}
	}
}

func (p *Parser) selectorOrAssert(x cst.CompletedMarker, info operandInfo) (cst.CompletedMarker, operandInfo) {
	m := x.Precede()
	p.b.Advance() // .
	switch p.b.Peek(0) {
	case token.Ident:
		p.b.Advance()
		// pkg.T из неизвестного пакета всё ещё может быть типом литерала
		return m.Complete(cst.KindSelectorExpr), operandInfo{litType: info.ident, named: info.ident}
	case token.LParen:
		p.b.Advance()
		p.nested(p.expectType)
		p.expectClosing(token.RParen)
		return m.Complete(cst.KindTypeAssertExpr), operandInfo{}
	default:
		p.b.Error(diag.SynExpectSelector, fmt.Sprintf("expected selector or type assertion, found %s", describe(p.b.PeekToken(0))))
		return m.Complete(cst.KindSelectorExpr), operandInfo{}
	}
}

// indexOrSlice parses `[i]`, `[T1, T2]`, `[lo:hi]` and `[lo:hi:max]`.
func (p *Parser) indexOrSlice(x cst.CompletedMarker) cst.CompletedMarker {
	m := x.Precede()
	p.b.Advance() // [
	kind := cst.KindIndexExpr
	p.nested(func() {
		if !p.b.At(token.Colon) && p.parseExpressionList() == 0 {
			p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected index, found %s", describe(p.b.PeekToken(0))))
		}
		if !p.b.Eat(token.Colon) {
			return
		}
		kind = cst.KindSliceExpr
		if !p.b.At(token.Colon) && !p.b.At(token.RBracket) {
			p.parseExpression()
		}
		if p.b.Eat(token.Colon) {
			p.expectExpression()
		}
	})
	p.expectClosing(token.RBracket)
	return m.Complete(kind)
}

// parseArguments parses `( [Expression {, Expression} ["..."] [","]] )`.
// Types are accepted as arguments (make, new).
func (p *Parser) parseArguments() {
	m := p.b.Mark()
	p.b.Advance() // (
	p.nested(func() {
		for !p.b.EOF() && !p.b.At(token.RParen) {
			if !p.parseExpression() {
				p.errorToken(diag.SynExpectExpression, fmt.Sprintf("expected argument, found %s", describe(p.b.PeekToken(0))))
			}
			p.b.Eat(token.Ellipsis)
			if !p.b.Eat(token.Comma) {
				p.continueAfterNewline(token.RParen)
				break
			}
		}
	})
	p.expectClosing(token.RParen)
	m.Complete(cst.KindArgList)
}

// operand parses literals, names, parenthesised expressions, function
// literals and type operands. It consumes nothing when no operand starts at
// the cursor.
func (p *Parser) operand() (cst.CompletedMarker, operandInfo, bool) {
	switch k := p.b.Peek(0); {
	case k == token.Ident:
		cm, info := p.identOperand()
		return cm, info, true
	case k.IsLiteral():
		m := p.b.Mark()
		p.b.Advance()
		return m.Complete(cst.KindBasicLit), operandInfo{}, true
	case k == token.LParen:
		cm, info := p.parenOperand()
		return cm, info, true
	case k == token.KwFunc:
		cm, info := p.funcOperand()
		return cm, info, true
	case k == token.LBracket, k == token.KwMap, k == token.KwStruct:
		cm, _ := p.typ()
		return cm, operandInfo{isType: true, litType: true}, true
	case k == token.KwChan, k == token.KwInterface, k == token.Arrow:
		cm, _ := p.typ()
		return cm, operandInfo{isType: true}, true
	case k == token.LBrace && !p.isSet(WrapCompositeInExpression):
		return p.literalValue(), operandInfo{}, true
	default:
		return cst.CompletedMarker{}, operandInfo{}, false
	}
}

// identOperand resolves the name-based ambiguities: `iota` inside const
// declarations, `pkg.Name` for imported packages, and known type names
// used in conversions.
func (p *Parser) identOperand() (cst.CompletedMarker, operandInfo) {
	name := p.b.PeekToken(0).Text
	m := p.b.Mark()
	p.b.Advance()
	switch {
	case name == "iota" && p.isSet(ParseIota):
		return m.Complete(cst.KindIotaExpr), operandInfo{}
	case p.b.At(token.Dot) && p.b.Peek(1) == token.Ident && p.IsKnownPackageName(name):
		p.b.Advance()
		p.b.Advance()
		return m.Complete(cst.KindQualifiedIdent), operandInfo{litType: true, named: true}
	case p.b.At(token.LParen) && p.IsKnownTypeName(name):
		return m.Complete(cst.KindTypeName), operandInfo{isType: true}
	}
	// известный тип без `(`: `List[int](x)` после индекса — тоже конверсия
	return m.Complete(cst.KindIdent), operandInfo{isType: p.IsKnownTypeName(name), litType: true, named: true, ident: true}
}

// parenOperand parses `( Expression )`, or a parenthesised type literal when
// it is immediately applied: `(*T)(x)`, `(<-chan int)(ch)`.
func (p *Parser) parenOperand() (cst.CompletedMarker, operandInfo) {
	if startsTypeLiteral(p.b.Peek(1)) {
		if cm, ok := p.tryParenType(); ok {
			return cm, operandInfo{isType: true}
		}
	}
	m := p.b.Mark()
	p.b.Advance() // (
	p.nested(p.expectExpression)
	p.expectClosing(token.RParen)
	return m.Complete(cst.KindParenExpr), operandInfo{}
}

// tryParenType speculates on `( Type )` followed by `(`. The alternative is
// accepted only if it parsed without errors.
func (p *Parser) tryParenType() (cst.CompletedMarker, bool) {
	m := p.b.Mark()
	p.b.Advance() // (
	if !p.parseType() || m.HasErrors() || !p.b.At(token.RParen) || p.b.Peek(1) != token.LParen {
		m.Rollback()
		return cst.CompletedMarker{}, false
	}
	p.b.Advance() // )
	return m.Complete(cst.KindParenType), true
}

// funcOperand parses a function literal, or a function type when no body
// follows the signature.
func (p *Parser) funcOperand() (cst.CompletedMarker, operandInfo) {
	m := p.b.Mark()
	p.b.Advance() // func
	p.parseFunctionSignature()
	if p.b.At(token.LBrace) {
		p.parseBlock()
		return m.Complete(cst.KindFuncLit), operandInfo{}
	}
	return m.Complete(cst.KindFuncType), operandInfo{isType: true}
}

// startsTypeLiteral reports tokens that start a type but not a name.
func startsTypeLiteral(k token.Kind) bool {
	switch k {
	case token.Star, token.LBracket, token.Arrow,
		token.KwMap, token.KwChan, token.KwFunc, token.KwStruct, token.KwInterface:
		return true
	default:
		return false
	}
}
