package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// parseDeclaration parses package, import, const, var and type
// declarations. It consumes nothing for any other token.
func (p *Parser) parseDeclaration() bool {
	switch p.b.Peek(0) {
	case token.KwPackage:
		return p.parsePackageClause()
	case token.KwImport:
		if p.seenDecl {
			p.b.Error(diag.SynImportAfterDecl, "imports must appear before other declarations")
		}
		return p.parseImportDecl()
	case token.KwConst:
		p.seenDecl = true
		return p.parseGenDecl(cst.KindConstDecl, p.parseConstSpec, "constant name")
	case token.KwVar:
		p.seenDecl = true
		return p.parseGenDecl(cst.KindVarDecl, p.parseVarSpec, "variable name")
	case token.KwType:
		p.seenDecl = true
		return p.parseGenDecl(cst.KindTypeDecl, p.parseTypeSpec, "type name")
	default:
		return false
	}
}

func (p *Parser) parsePackageClause() bool {
	if p.seenPackage || p.seenDecl {
		p.b.Error(diag.SynUnexpectedTopLevel, "package clause must be the first declaration")
	}
	m := p.b.Mark()
	p.b.Advance() // package
	p.expect(token.Ident, diag.SynExpectIdentifier, "expected package name")
	p.seenPackage = true
	m.Complete(cst.KindPackageClause)
	return true
}

// parseGenDecl parses `kw spec` or `kw ( spec; ... )`.
func (p *Parser) parseGenDecl(kind cst.Kind, spec func() bool, what string) bool {
	m := p.b.Mark()
	p.b.Advance()
	if p.b.Eat(token.LParen) {
		p.parseGroup(spec, what)
		p.expectClosing(token.RParen)
	} else if !spec() {
		p.b.Error(diag.SynExpectIdentifier, fmt.Sprintf("expected %s, found %s", what, describe(p.b.PeekToken(0))))
	}
	m.Complete(kind)
	return true
}

// parseGroup parses terminator-separated specs up to `)` and returns how
// many were parsed. A declaration keyword ends an unclosed group.
func (p *Parser) parseGroup(spec func() bool, what string) int {
	n := 0
	for !p.b.EOF() && !p.b.At(token.RParen) {
		if p.skipTerminators() {
			continue
		}
		if p.atDeclKeyword() {
			break
		}
		start := p.b.Pos()
		if spec() {
			n++
		}
		if p.b.Pos() == start {
			p.errorToken(diag.SynUnexpectedToken, fmt.Sprintf("expected %s, found %s", what, describe(p.b.PeekToken(0))))
			continue
		}
		p.expectTerminator(token.RParen)
	}
	return n
}

func (p *Parser) atDeclKeyword() bool {
	switch p.b.Peek(0) {
	case token.KwPackage, token.KwImport, token.KwFunc, token.KwConst, token.KwVar, token.KwType:
		return true
	default:
		return false
	}
}

// atTopLevelStart reports tokens that can only begin a top-level
// declaration; statement and field loops stop there.
func (p *Parser) atTopLevelStart() bool {
	switch p.b.Peek(0) {
	case token.KwPackage, token.KwImport:
		return true
	case token.KwFunc:
		return p.b.Peek(1) == token.Ident
	default:
		return false
	}
}

// ConstSpec = IdentList [Type] ["=" ExprList]
func (p *Parser) parseConstSpec() bool {
	if !p.b.At(token.Ident) {
		return false
	}
	m := p.b.Mark()
	p.parseIdentifierList(true)
	if !p.b.At(token.Assign) && !p.atSpecEnd() {
		p.expectType()
	}
	if p.b.Eat(token.Assign) {
		p.withFlag(ParseIota, true, p.expectExpressionList)
	}
	m.Complete(cst.KindConstSpec)
	return true
}

// VarSpec = IdentList (Type ["=" ExprList] | "=" ExprList)
func (p *Parser) parseVarSpec() bool {
	if !p.b.At(token.Ident) {
		return false
	}
	m := p.b.Mark()
	p.parseIdentifierList(true)
	if !p.b.At(token.Assign) {
		p.expectType()
	}
	if p.b.Eat(token.Assign) {
		p.expectExpressionList()
	}
	m.Complete(cst.KindVarSpec)
	return true
}

// TypeSpec = ident [TypeParams] ["="] Type
func (p *Parser) parseTypeSpec() bool {
	if !p.b.At(token.Ident) {
		return false
	}
	m := p.b.Mark()
	// регистрируем до разбора типа: рекурсивные типы ссылаются на себя
	p.RegisterTypeName(p.b.PeekToken(0).Text)
	p.b.Advance()
	if p.b.At(token.LBracket) && p.typeParamsAhead() {
		p.parseTypeParams()
	}
	p.b.Eat(token.Assign)
	p.expectType()
	m.Complete(cst.KindTypeSpec)
	return true
}

func (p *Parser) atSpecEnd() bool {
	k := p.b.Peek(0)
	return k.IsTerminator() || k == token.RParen || k == token.EOF
}

// typeParamsAhead distinguishes `type T[P any] ...` from `type A [N]int`
// at the `[`: a name followed by something that can start a constraint.
// `[N * M]` is read as an array length.
func (p *Parser) typeParamsAhead() bool {
	if p.b.Peek(1) != token.Ident {
		return false
	}
	switch p.b.Peek(2) {
	case token.Ident, token.Tilde, token.LBracket, token.Comma, token.LParen, token.Arrow,
		token.KwInterface, token.KwFunc, token.KwMap, token.KwChan, token.KwStruct:
		return true
	default:
		return false
	}
}

// TypeParams = "[" TypeParam {"," TypeParam} [","] "]"
func (p *Parser) parseTypeParams() {
	m := p.b.Mark()
	p.b.Advance() // [
	p.nested(func() {
		for !p.b.EOF() && !p.b.At(token.RBracket) {
			if !p.b.At(token.Ident) {
				p.errorToken(diag.SynExpectIdentifier, fmt.Sprintf("expected type parameter name, found %s", describe(p.b.PeekToken(0))))
			} else {
				tp := p.b.Mark()
				p.parseIdentifierList(true)
				if !p.parseTypeElem() {
					p.b.Error(diag.SynExpectType, fmt.Sprintf("expected type constraint, found %s", describe(p.b.PeekToken(0))))
				}
				tp.Complete(cst.KindTypeParam)
			}
			if !p.b.Eat(token.Comma) {
				break
			}
		}
	})
	p.expectClosing(token.RBracket)
	m.Complete(cst.KindTypeParams)
}
