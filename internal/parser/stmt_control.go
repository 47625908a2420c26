package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// IfStmt = "if" [SimpleStmt ";"] Expression Block ["else" (IfStmt | Block)]
func (p *Parser) parseIfStmt() bool {
	m := p.b.Mark()
	p.b.Advance() // if
	p.withFlag(AllowCompositeLiteral, false, p.parseIfHeader)
	p.parseBlock()
	if p.b.Eat(token.KwElse) {
		switch p.b.Peek(0) {
		case token.KwIf:
			// цепочка else if растёт вглубь так же, как вложенные блоки
			if !p.enter() {
				p.tooDeep()
				break
			}
			p.parseIfStmt()
			p.leave()
		case token.LBrace:
			p.parseBlock()
		default:
			p.b.Error(diag.SynExpectBlock, fmt.Sprintf("expected 'if' or '{' after else, found %s", describe(p.b.PeekToken(0))))
		}
	}
	m.Complete(cst.KindIfStmt)
	return true
}

func (p *Parser) parseIfHeader() {
	if p.b.At(token.LBrace) {
		p.b.Error(diag.SynExpectExpression, "missing condition in if statement")
		return
	}
	if !p.b.At(token.Semicolon) {
		cm, bare, ok := p.simpleStatement(true)
		if !ok {
			p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected condition, found %s", describe(p.b.PeekToken(0))))
			return
		}
		if !p.b.At(token.Semicolon) {
			if !bare {
				p.b.Error(diag.SynExpectExpression, "missing condition in if statement")
			}
			return
		}
		if bare {
			cm.Precede().Complete(cst.KindExprStmt)
		}
	}
	p.b.Advance() // ;
	p.expectExpression()
}

// ForStmt = "for" [Condition | ForClause | RangeClause] Block
func (p *Parser) parseForStmt() bool {
	m := p.b.Mark()
	p.b.Advance() // for
	p.withFlag(AllowCompositeLiteral, false, p.parseForHeader)
	p.parseBlock()
	m.Complete(cst.KindForStmt)
	return true
}

func (p *Parser) parseForHeader() {
	if p.b.At(token.LBrace) {
		return
	}
	if p.rangeAhead() && p.tryRangeClause() {
		return
	}
	clause := p.b.Mark()
	if !p.b.At(token.Semicolon) {
		cm, bare, ok := p.simpleStatement(true)
		if !ok {
			clause.Drop()
			p.b.Error(diag.SynForBadHeader, fmt.Sprintf("expected for loop condition, found %s", describe(p.b.PeekToken(0))))
			return
		}
		if !p.b.At(token.Semicolon) {
			// `for cond {`
			clause.Drop()
			if !bare {
				p.b.Error(diag.SynForBadHeader, "expected for loop condition")
			}
			return
		}
		if bare {
			cm.Precede().Complete(cst.KindExprStmt)
		}
	}
	p.b.Advance() // ;
	if !p.b.At(token.Semicolon) {
		p.expectExpression()
	}
	if p.b.Eat(token.Semicolon) {
		if !p.b.At(token.LBrace) && !p.parseSimpleStatement() {
			p.b.Error(diag.SynForBadHeader, fmt.Sprintf("expected post statement, found %s", describe(p.b.PeekToken(0))))
		}
	} else {
		p.b.Error(diag.SynForBadHeader, fmt.Sprintf("expected ';' in for clause, found %s", describe(p.b.PeekToken(0))))
	}
	clause.Complete(cst.KindForClause)
}

// tryRangeClause speculates on [ExprList (":=" | "=")] "range" Expression.
func (p *Parser) tryRangeClause() bool {
	m := p.b.Mark()
	if !p.b.At(token.KwRange) {
		if _, n := p.expressionList(); n == 0 || !(p.b.At(token.ColonAssign) || p.b.At(token.Assign)) {
			m.Rollback()
			return false
		}
		p.b.Advance()
		if !p.b.At(token.KwRange) {
			m.Rollback()
			return false
		}
	}
	p.b.Advance() // range
	p.expectExpression()
	m.Complete(cst.KindRangeClause)
	return true
}

// rangeAhead reports a `range` keyword in the header before the body.
func (p *Parser) rangeAhead() bool {
	return p.scanHeader(func(i int) bool { return p.b.Peek(i) == token.KwRange })
}

// typeGuardAhead reports `.(type)` in the header before the body or `;`.
func (p *Parser) typeGuardAhead() bool {
	return p.scanHeader(p.typeGuardAt)
}

func (p *Parser) typeGuardAt(i int) bool {
	return p.b.Peek(i) == token.Dot && p.b.Peek(i+1) == token.LParen && p.b.Peek(i+2) == token.KwType
}

// scanHeader looks ahead through a statement header, outside parentheses and
// brackets, until `{`, a terminator or EOF, and reports whether match holds
// at some offset.
func (p *Parser) scanHeader(match func(i int) bool) bool {
	level := 0
	for i := 0; ; i++ {
		k := p.b.Peek(i)
		if k == token.EOF {
			return false
		}
		if level == 0 {
			if k == token.LBrace || k.IsTerminator() {
				return false
			}
			if match(i) {
				return true
			}
		}
		switch k {
		case token.LParen, token.LBracket:
			level++
		case token.RParen, token.RBracket:
			if level == 0 {
				return false
			}
			level--
		}
	}
}

// SwitchStmt = "switch" [SimpleStmt ";"] [Expression | TypeSwitchGuard] "{" {CaseClause} "}"
func (p *Parser) parseSwitchStmt() bool {
	m := p.b.Mark()
	p.b.Advance() // switch
	typeSwitch := false
	p.withFlag(AllowCompositeLiteral, false, func() { typeSwitch = p.parseSwitchHeader() })
	p.parseClauses(func() bool { return p.parseCaseClause(typeSwitch) })
	if typeSwitch {
		m.Complete(cst.KindTypeSwitchStmt)
	} else {
		m.Complete(cst.KindSwitchStmt)
	}
	return true
}

// parseSwitchHeader reports whether the header ends in a type switch guard.
func (p *Parser) parseSwitchHeader() bool {
	if p.b.At(token.LBrace) {
		return false
	}
	if p.typeGuardAhead() && p.tryTypeSwitchGuard() {
		return true
	}
	if !p.b.At(token.Semicolon) {
		cm, bare, ok := p.simpleStatement(true)
		if !ok {
			p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected switch expression, found %s", describe(p.b.PeekToken(0))))
			return false
		}
		if !p.b.At(token.Semicolon) {
			if !bare {
				p.b.Error(diag.SynExpectExpression, "switch expression must be an expression, not a statement")
			}
			return false
		}
		if bare {
			cm.Precede().Complete(cst.KindExprStmt)
		}
	}
	p.b.Advance() // ;
	if p.b.At(token.LBrace) {
		return false
	}
	if p.typeGuardAhead() && p.tryTypeSwitchGuard() {
		return true
	}
	p.expectExpression()
	return false
}

// tryTypeSwitchGuard speculates on [ident ":="] PrimaryExpr "." "(" "type" ")".
func (p *Parser) tryTypeSwitchGuard() bool {
	m := p.b.Mark()
	if p.b.At(token.Ident) && p.b.Peek(1) == token.ColonAssign {
		p.b.Advance()
		p.b.Advance()
	}
	if _, ok := p.primaryExpr(); !ok || !p.typeGuardAt(0) {
		m.Rollback()
		return false
	}
	p.b.Advance() // .
	p.b.Advance() // (
	p.b.Advance() // type
	p.expectClosing(token.RParen)
	m.Complete(cst.KindTypeSwitchGuard)
	return true
}

// parseClauses parses the `{ clauses }` body of switch and select.
func (p *Parser) parseClauses(clause func() bool) {
	if !p.b.At(token.LBrace) {
		p.b.Error(diag.SynExpectBlock, fmt.Sprintf("expected '{', found %s", describe(p.b.PeekToken(0))))
		return
	}
	p.b.Advance()
	p.withFlags(defaultFlags, func() {
		for !p.b.EOF() && !p.b.At(token.RBrace) {
			if p.skipTerminators() {
				continue
			}
			if p.atTopLevelStart() {
				break
			}
			if !clause() {
				p.errorToken(diag.SynExpectCaseClause, fmt.Sprintf("expected 'case' or 'default', found %s", describe(p.b.PeekToken(0))))
			}
		}
	})
	p.expectClosing(token.RBrace)
}

// CaseClause = ("case" (ExprList | TypeList) | "default") ":" StatementList
func (p *Parser) parseCaseClause(typeSwitch bool) bool {
	kw := p.b.Peek(0)
	if kw != token.KwCase && kw != token.KwDefault {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	if kw == token.KwCase {
		if typeSwitch {
			if p.parseTypeList() == 0 {
				p.b.Error(diag.SynExpectType, fmt.Sprintf("expected type, found %s", describe(p.b.PeekToken(0))))
			}
		} else {
			p.expectExpressionList()
		}
	}
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	p.parseStatementList(true)
	m.Complete(cst.KindCaseClause)
	return true
}

// SelectStmt = "select" "{" {CommClause} "}"
func (p *Parser) parseSelectStmt() bool {
	m := p.b.Mark()
	p.b.Advance() // select
	p.parseClauses(p.parseCommClause)
	m.Complete(cst.KindSelectStmt)
	return true
}

// CommClause = ("case" (SendStmt | RecvStmt) | "default") ":" StatementList
func (p *Parser) parseCommClause() bool {
	kw := p.b.Peek(0)
	if kw != token.KwCase && kw != token.KwDefault {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	if kw == token.KwCase && !p.tryParseSimpleStatement() {
		p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected send or receive, found %s", describe(p.b.PeekToken(0))))
	}
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	p.parseStatementList(true)
	m.Complete(cst.KindCommClause)
	return true
}
