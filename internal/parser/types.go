package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// startsType reports whether a type can begin with k.
func startsType(k token.Kind) bool {
	switch k {
	case token.Ident, token.LParen, token.LBracket, token.Star, token.Arrow,
		token.KwMap, token.KwChan, token.KwFunc, token.KwStruct, token.KwInterface:
		return true
	default:
		return false
	}
}

// parseType parses a type. It consumes nothing when the current token cannot
// start one.
func (p *Parser) parseType() bool {
	_, ok := p.typ()
	return ok
}

func (p *Parser) expectType() {
	if !p.parseType() {
		p.b.Error(diag.SynExpectType, fmt.Sprintf("expected type, found %s", describe(p.b.PeekToken(0))))
	}
}

func (p *Parser) typ() (cst.CompletedMarker, bool) {
	k := p.b.Peek(0)
	if !startsType(k) {
		return cst.CompletedMarker{}, false
	}
	if !p.enter() {
		return p.tooDeep(), true
	}
	defer p.leave()

	switch k {
	case token.Ident:
		return p.typeName(), true
	case token.LBracket:
		return p.arrayOrSliceType(), true
	case token.LParen:
		m := p.b.Mark()
		p.b.Advance()
		p.expectType()
		p.expectClosing(token.RParen)
		return m.Complete(cst.KindParenType), true
	case token.KwStruct:
		return p.structType(), true
	case token.KwInterface:
		return p.interfaceType(), true
	}

	m := p.b.Mark()
	p.b.Advance()
	switch k {
	case token.Star:
		p.expectType()
		return m.Complete(cst.KindPointerType), true
	case token.KwMap:
		p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' after map")
		p.expectType()
		p.expectClosing(token.RBracket)
		p.expectType()
		return m.Complete(cst.KindMapType), true
	case token.KwChan:
		p.b.Eat(token.Arrow) // chan<- T
		p.expectType()
		return m.Complete(cst.KindChanType), true
	case token.Arrow:
		p.expect(token.KwChan, diag.SynUnexpectedToken, "expected 'chan' after '<-'")
		p.expectType()
		return m.Complete(cst.KindChanType), true
	default: // func
		p.parseFunctionSignature()
		return m.Complete(cst.KindFuncType), true
	}
}

// parseTypeName parses ident or pkg.ident with optional type arguments.
func (p *Parser) parseTypeName() bool {
	if !p.b.At(token.Ident) {
		return false
	}
	p.typeName()
	return true
}

// TypeName = ident | QualifiedIdent; GenericType = TypeName "[" TypeList "]".
// In type position a dotted name is always qualified.
func (p *Parser) typeName() cst.CompletedMarker {
	m := p.b.Mark()
	if p.b.Peek(1) == token.Dot && p.b.Peek(2) == token.Ident {
		q := p.b.Mark()
		p.b.Advance()
		p.b.Advance()
		p.b.Advance()
		q.Complete(cst.KindQualifiedIdent)
	} else {
		p.b.Advance()
	}
	cm := m.Complete(cst.KindTypeName)
	if !p.b.At(token.LBracket) {
		return cm
	}
	g := cm.Precede()
	p.b.Advance() // [
	p.nested(func() {
		if p.parseTypeList() == 0 {
			p.b.Error(diag.SynExpectType, fmt.Sprintf("expected type argument, found %s", describe(p.b.PeekToken(0))))
		}
	})
	p.expectClosing(token.RBracket)
	return g.Complete(cst.KindGenericType)
}

// parseTypeList parses Type {"," Type} and returns the count. Two or more
// types are wrapped in a TypeList node.
func (p *Parser) parseTypeList() int {
	first, ok := p.typ()
	if !ok {
		return 0
	}
	if !p.b.At(token.Comma) || !startsType(p.b.Peek(1)) {
		return 1
	}
	m := first.Precede()
	n := 1
	for p.b.At(token.Comma) && startsType(p.b.Peek(1)) {
		p.b.Advance()
		p.typ()
		n++
	}
	m.Complete(cst.KindTypeList)
	return n
}

// `[]T`, `[N]T`, `[...]T`
func (p *Parser) arrayOrSliceType() cst.CompletedMarker {
	m := p.b.Mark()
	p.b.Advance() // [
	if p.b.Eat(token.RBracket) {
		p.expectType()
		return m.Complete(cst.KindSliceType)
	}
	if !p.b.Eat(token.Ellipsis) {
		p.nested(func() {
			if !p.parseExpression() {
				p.b.Error(diag.SynExpectExpression, fmt.Sprintf("expected array length, found %s", describe(p.b.PeekToken(0))))
			}
		})
	}
	p.expectClosing(token.RBracket)
	p.expectType()
	return m.Complete(cst.KindArrayType)
}

// StructType = "struct" "{" {FieldDecl ";"} "}"
func (p *Parser) structType() cst.CompletedMarker {
	m := p.b.Mark()
	p.b.Advance() // struct
	p.memberBlock(p.parseFieldDecl, "field name or embedded type")
	return m.Complete(cst.KindStructType)
}

// InterfaceType = "interface" "{" {(MethodSpec | TypeElem) ";"} "}"
func (p *Parser) interfaceType() cst.CompletedMarker {
	m := p.b.Mark()
	p.b.Advance() // interface
	p.memberBlock(func() bool {
		if p.b.At(token.Ident) && p.b.Peek(1) == token.LParen {
			return p.parseMethodSignature()
		}
		return p.parseTypeElem()
	}, "method or embedded type")
	return m.Complete(cst.KindInterfaceType)
}

// memberBlock parses the braces of struct and interface types.
func (p *Parser) memberBlock(member func() bool, what string) {
	if !p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'") {
		return
	}
	for !p.b.EOF() && !p.b.At(token.RBrace) {
		if p.skipTerminators() {
			continue
		}
		if p.atTopLevelStart() {
			break
		}
		start := p.b.Pos()
		member()
		if p.b.Pos() == start {
			p.errorToken(diag.SynUnexpectedToken, fmt.Sprintf("expected %s, found %s", what, describe(p.b.PeekToken(0))))
			continue
		}
		p.expectTerminator(token.RBrace)
	}
	p.expectClosing(token.RBrace)
}

// FieldDecl = (IdentList Type | EmbeddedField) [Tag]
func (p *Parser) parseFieldDecl() bool {
	switch p.b.Peek(0) {
	case token.Star, token.Ident:
	default:
		return false
	}
	m := p.b.Mark()
	switch {
	case p.b.At(token.Star):
		ptr := p.b.Mark()
		p.b.Advance()
		if !p.parseTypeName() {
			p.b.Error(diag.SynExpectType, fmt.Sprintf("expected embedded type name, found %s", describe(p.b.PeekToken(0))))
		}
		ptr.Complete(cst.KindPointerType)
	case p.embeddedAhead():
		p.typeName()
	default:
		p.parseIdentifierList(true)
		p.expectType()
	}
	if isStringLit(p.b.Peek(0)) {
		tag := p.b.Mark()
		p.b.Advance()
		tag.Complete(cst.KindTag)
	}
	m.Complete(cst.KindFieldDecl)
	return true
}

// embeddedAhead reports whether the identifier at the cursor is an embedded
// type rather than the first field name.
func (p *Parser) embeddedAhead() bool {
	switch p.b.Peek(1) {
	case token.Newline, token.Semicolon, token.RBrace, token.EOF,
		token.StringLit, token.RawStringLit, token.Dot:
		return true
	case token.LBracket:
		return p.genericAt(1, token.Newline, token.Semicolon, token.RBrace, token.StringLit, token.RawStringLit)
	default:
		return false
	}
}

// TypeElem = TypeTerm {"|" TypeTerm}; TypeTerm = ["~"] Type. A single plain
// type is left unwrapped.
func (p *Parser) parseTypeElem() bool {
	first, ok := p.typeTerm()
	if !ok {
		return false
	}
	if !p.b.At(token.Pipe) {
		return true
	}
	m := first.Precede()
	for p.b.Eat(token.Pipe) {
		if _, ok := p.typeTerm(); !ok {
			p.b.Error(diag.SynExpectType, fmt.Sprintf("expected type after '|', found %s", describe(p.b.PeekToken(0))))
			break
		}
	}
	m.Complete(cst.KindTypeElem)
	return true
}

func (p *Parser) typeTerm() (cst.CompletedMarker, bool) {
	if !p.b.At(token.Tilde) {
		return p.typ()
	}
	m := p.b.Mark()
	p.b.Advance()
	p.expectType()
	return m.Complete(cst.KindTypeTerm), true
}
