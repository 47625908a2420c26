package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// parseBlock parses `{ StatementList }`. Flags are back at their defaults
// inside the block whatever the enclosing context.
func (p *Parser) parseBlock() bool {
	if !p.b.At(token.LBrace) {
		p.b.Error(diag.SynExpectBlock, fmt.Sprintf("expected '{', found %s", describe(p.b.PeekToken(0))))
		return false
	}
	if !p.enter() {
		p.tooDeep()
		return true
	}
	defer p.leave()

	m := p.b.Mark()
	p.b.Advance()
	p.withFlags(defaultFlags, func() { p.parseStatementList(false) })
	p.expectClosing(token.RBrace)
	m.Complete(cst.KindBlock)
	return true
}

// parseStatementList parses statements up to `}` or EOF; in a case clause
// also up to the next `case`/`default`. Terminators stay in the enclosing
// node.
func (p *Parser) parseStatementList(clause bool) {
	for !p.b.EOF() && !p.b.At(token.RBrace) {
		if p.skipTerminators() {
			continue
		}
		if k := p.b.Peek(0); k == token.KwCase || k == token.KwDefault {
			if clause {
				return
			}
			p.errorToken(diag.SynExpectStatement, fmt.Sprintf("unexpected %s outside switch or select", describe(p.b.PeekToken(0))))
			continue
		}
		if p.atTopLevelStart() {
			return // незакрытый блок: дальше снова верхний уровень
		}
		start := p.b.Pos()
		sp := p.traceProd("stmt")
		p.parseStatement()
		sp.End()
		if p.b.Pos() == start {
			p.errorToken(diag.SynExpectStatement, fmt.Sprintf("expected statement, found %s", describe(p.b.PeekToken(0))))
			continue
		}
		p.expectTerminator(token.RBrace, token.KwCase, token.KwDefault)
	}
}

// parseStatement parses one statement. It consumes nothing when the current
// token cannot start a statement.
func (p *Parser) parseStatement() bool {
	if !p.enter() {
		p.tooDeep()
		return true
	}
	defer p.leave()

	switch p.b.Peek(0) {
	case token.KwConst, token.KwVar, token.KwType:
		m := p.b.Mark()
		p.parseDeclaration()
		m.Complete(cst.KindDeclStmt)
		return true
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwSwitch:
		return p.parseSwitchStmt()
	case token.KwSelect:
		return p.parseSelectStmt()
	case token.KwGo:
		return p.parseCallStmt(cst.KindGoStmt)
	case token.KwDefer:
		return p.parseCallStmt(cst.KindDeferStmt)
	case token.KwBreak, token.KwContinue, token.KwGoto, token.KwFallthrough:
		return p.parseBranchStmt()
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		m := p.b.Mark()
		p.b.Advance()
		m.Complete(cst.KindEmptyStmt)
		return true
	case token.Ident:
		if p.tryParseLabeledStmt() {
			return true
		}
	}
	return p.tryParseSimpleStatement()
}

// tryParseLabeledStmt speculates on `label :`; without the colon it rolls
// back and the identifier starts a simple statement instead.
func (p *Parser) tryParseLabeledStmt() bool {
	m := p.b.Mark()
	p.b.Advance()
	if !p.b.Eat(token.Colon) {
		m.Rollback()
		return false
	}
	switch p.b.Peek(0) {
	case token.RBrace, token.KwCase, token.KwDefault, token.EOF:
		// `L: }` — метка пустого оператора
		p.b.Mark().Complete(cst.KindEmptyStmt)
	default:
		start := p.b.Pos()
		if !p.parseStatement() || p.b.Pos() == start {
			p.b.Error(diag.SynExpectStatement, fmt.Sprintf("expected statement after label, found %s", describe(p.b.PeekToken(0))))
		}
	}
	m.Complete(cst.KindLabeledStmt)
	return true
}

func (p *Parser) parseReturnStmt() bool {
	m := p.b.Mark()
	p.b.Advance()
	if k := p.b.Peek(0); !k.IsTerminator() && k != token.RBrace && k != token.EOF {
		p.parseExpressionList()
	}
	m.Complete(cst.KindReturnStmt)
	return true
}

// parseCallStmt parses `go` and `defer`.
func (p *Parser) parseCallStmt(kind cst.Kind) bool {
	m := p.b.Mark()
	p.b.Advance()
	p.expectExpression()
	m.Complete(kind)
	return true
}

func (p *Parser) parseBranchStmt() bool {
	m := p.b.Mark()
	kw := p.b.Peek(0)
	p.b.Advance()
	switch {
	case kw == token.KwGoto:
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected label")
	case kw != token.KwFallthrough:
		p.b.Eat(token.Ident)
	}
	m.Complete(cst.KindBranchStmt)
	return true
}

// tryParseSimpleStatement parses a simple statement, rolling back when none
// is found.
func (p *Parser) tryParseSimpleStatement() bool {
	m := p.b.Mark()
	if !p.parseSimpleStatement() {
		m.Rollback()
		return false
	}
	m.Drop()
	return true
}

// parseSimpleStatement parses an expression, send, inc/dec, assignment or
// short variable declaration statement.
func (p *Parser) parseSimpleStatement() bool {
	_, _, ok := p.simpleStatement(false)
	return ok
}

// simpleStatement is parseSimpleStatement for statement headers: with header
// set a lone expression is returned unwrapped (bare) so it can serve as the
// condition of if/for or the tag of switch. A caller that needs it as a
// statement after all wraps it with Precede.
func (p *Parser) simpleStatement(header bool) (cm cst.CompletedMarker, bare, ok bool) {
	if p.b.At(token.Ident) {
		if cm, ok := p.tryShortVarDecl(); ok {
			return cm, false, true
		}
	}
	lhs, n := p.expressionList()
	if n == 0 {
		return lhs, false, false
	}
	switch k := p.b.Peek(0); {
	case k.IsAssignOp():
		m := lhs.Precede()
		p.b.Advance()
		p.expectExpressionList()
		return m.Complete(cst.KindAssignStmt), false, true
	case k == token.ColonAssign:
		m := lhs.Precede()
		p.b.Error(diag.SynExpectIdentifier, "non-name on left side of :=")
		p.b.Advance()
		p.expectExpressionList()
		return m.Complete(cst.KindShortVarDecl), false, true
	case (k == token.Inc || k == token.Dec) && n == 1:
		m := lhs.Precede()
		p.b.Advance()
		return m.Complete(cst.KindIncDecStmt), false, true
	case k == token.Arrow && n == 1:
		m := lhs.Precede()
		p.b.Advance()
		p.expectExpression()
		return m.Complete(cst.KindSendStmt), false, true
	}
	if header && n == 1 {
		return lhs, true, true
	}
	return lhs.Precede().Complete(cst.KindExprStmt), false, true
}

// tryShortVarDecl speculates on `IdentList :=`.
func (p *Parser) tryShortVarDecl() (cst.CompletedMarker, bool) {
	m := p.b.Mark()
	p.parseIdentifierList(true)
	if !p.b.At(token.ColonAssign) {
		m.Rollback()
		return cst.CompletedMarker{}, false
	}
	p.b.Advance()
	p.expectExpressionList()
	return m.Complete(cst.KindShortVarDecl), true
}

// parseIdentifierList parses ident {"," ident} and returns the count. With
// markList the identifiers are wrapped in an IdentList node; otherwise they
// stay in the enclosing node.
func (p *Parser) parseIdentifierList(markList bool) int {
	if !p.b.At(token.Ident) {
		return 0
	}
	var m cst.Marker
	if markList {
		m = p.b.Mark()
	}
	p.b.Advance()
	n := 1
	for p.b.At(token.Comma) && p.b.Peek(1) == token.Ident {
		p.b.Advance()
		p.b.Advance()
		n++
	}
	if markList {
		m.Complete(cst.KindIdentList)
	}
	return n
}
