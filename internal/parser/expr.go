package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// Приоритеты бинарных операторов, как в Go: чем больше, тем сильнее связывает.
const (
	precNone    = 0
	precOrOr    = 1 // ||
	precAndAnd  = 2 // &&
	precCompare = 3 // == != < <= > >=
	precAdd     = 4 // + - | ^
	precMul     = 5 // * / % << >> & &^
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return precOrOr
	case token.AndAnd:
		return precAndAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCompare
	case token.Plus, token.Minus, token.Pipe, token.Caret:
		return precAdd
	case token.Star, token.Slash, token.Percent, token.Shl, token.Shr, token.Amp, token.AmpNot:
		return precMul
	default:
		return precNone
	}
}

func isUnaryOp(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.Bang, token.Caret, token.Star, token.Amp, token.Arrow:
		return true
	default:
		return false
	}
}

// parseExpression parses one expression. It consumes nothing and returns
// false when the current token cannot start an expression.
func (p *Parser) parseExpression() bool {
	_, ok := p.expression()
	return ok
}

func (p *Parser) expectExpression() {
	if !p.parseExpression() {
		p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected expression, found %s", describe(p.b.PeekToken(0))))
	}
}

func (p *Parser) expression() (cst.CompletedMarker, bool) {
	return p.binaryExpr(precOrOr)
}

// binaryExpr climbs precedence levels; each operator wraps the left operand
// parsed so far via Precede.
func (p *Parser) binaryExpr(prec int) (cst.CompletedMarker, bool) {
	if !p.enter() {
		return p.tooDeep(), true
	}
	defer p.leave()

	lhs, ok := p.unaryExpr()
	if !ok {
		return lhs, false
	}
	for {
		op := binaryPrec(p.b.Peek(0))
		if op == precNone || op < prec {
			return lhs, true
		}
		m := lhs.Precede()
		p.b.Advance()
		if _, ok := p.binaryExpr(op + 1); !ok {
			p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected operand, found %s", describe(p.b.PeekToken(0))))
		}
		lhs = m.Complete(cst.KindBinaryExpr)
	}
}

// UnaryExpr = PrimaryExpr | unary_op UnaryExpr
func (p *Parser) unaryExpr() (cst.CompletedMarker, bool) {
	k := p.b.Peek(0)
	if !isUnaryOp(k) || (k == token.Arrow && p.b.Peek(1) == token.KwChan) {
		return p.primaryExpr()
	}
	if !p.enter() {
		return p.tooDeep(), true
	}
	defer p.leave()

	m := p.b.Mark()
	p.b.Advance()
	if _, ok := p.unaryExpr(); !ok {
		p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected operand, found %s", describe(p.b.PeekToken(0))))
	}
	return m.Complete(cst.KindUnaryExpr), true
}

// parseExpressionList parses Expression {"," Expression} and returns the
// count; 0 means nothing was consumed. Two or more expressions are wrapped
// in an ExprList node.
func (p *Parser) parseExpressionList() int {
	_, n := p.expressionList()
	return n
}

// tryParseExpressionList is parseExpressionList that rolls back when no
// expression was found.
func (p *Parser) tryParseExpressionList() int {
	m := p.b.Mark()
	n := p.parseExpressionList()
	if n == 0 {
		m.Rollback()
		return 0
	}
	m.Drop()
	return n
}

func (p *Parser) expectExpressionList() {
	if p.parseExpressionList() == 0 {
		p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected expression, found %s", describe(p.b.PeekToken(0))))
	}
}

func (p *Parser) expressionList() (cst.CompletedMarker, int) {
	first, ok := p.expression()
	if !ok {
		return first, 0
	}
	if !p.b.At(token.Comma) {
		return first, 1
	}
	m := first.Precede()
	n := 1
	for p.b.Eat(token.Comma) {
		if _, ok := p.expression(); !ok {
			p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected expression after ',', found %s", describe(p.b.PeekToken(0))))
			break
		}
		n++
	}
	return m.Complete(cst.KindExprList), n
}

// continueAfterNewline handles a list element followed by a newline and the
// closing bracket, i.e. a missing trailing comma: the newline is wrapped as
// an error and the caller can close the list normally.
func (p *Parser) continueAfterNewline(closer token.Kind) {
	if p.b.At(token.Newline) && p.b.Peek(1) == closer {
		p.errorToken(diag.SynUnexpectedToken, "missing ',' before newline")
	}
}
