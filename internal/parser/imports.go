package parser

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/token"
)

// ImportDecl = "import" (ImportSpec | "(" {ImportSpec ";"} ")")
func (p *Parser) parseImportDecl() bool {
	m := p.b.Mark()
	kw := p.b.PeekToken(0)
	p.b.Advance() // import
	if p.b.At(token.LParen) {
		open := p.b.PeekToken(0)
		p.b.Advance()
		if p.parseGroup(p.parseImportSpec, "import path") == 0 && p.b.At(token.RParen) {
			closing := p.b.PeekToken(0).Span
			diag.Emit(p.opts.Reporter,
				diag.New(diag.SevWarning, diag.SynEmptyImportGroup, open.Span.Cover(closing), "empty import group").
					WithFix("remove the import declaration", diag.FixEdit{Span: kw.Span.Cover(closing)}))
		}
		p.expectClosing(token.RParen)
	} else if !p.parseImportSpec() {
		p.b.Error(diag.SynExpectImportPath, fmt.Sprintf("expected import path, found %s", describe(p.b.PeekToken(0))))
	}
	m.Complete(cst.KindImportDecl)
	return true
}

// ImportSpec = [ident | "."] string. The bound package name is registered
// so later `name.X` parses as a qualified identifier.
func (p *Parser) parseImportSpec() bool {
	k := p.b.Peek(0)
	if k != token.Ident && k != token.Dot && !isStringLit(k) {
		return false
	}
	m := p.b.Mark()
	name := ""
	if k == token.Ident || k == token.Dot {
		name = p.b.PeekToken(0).Text
		p.b.Advance()
	}
	if tok := p.b.PeekToken(0); isStringLit(tok.Kind) {
		p.b.Advance()
		if name == "" {
			name = ImportName(importPath(tok.Text))
		}
		p.RegisterPackageName(name)
	} else {
		p.b.Error(diag.SynExpectImportPath, fmt.Sprintf("expected import path, found %s", describe(tok)))
	}
	m.Complete(cst.KindImportSpec)
	return true
}

func isStringLit(k token.Kind) bool {
	return k == token.StringLit || k == token.RawStringLit
}

func importPath(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.Trim(lit, "\"`")
}

// ImportName returns the package name an import path binds when no alias is
// given: the last path element, skipping a trailing major version ("v2"),
// without a "go-" prefix and cut at the first character that cannot be part
// of an identifier ("yaml.v3" -> "yaml").
func ImportName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, notIdentRune); i >= 0 {
		base = base[:i]
	}
	return base
}

func notIdentRune(r rune) bool {
	return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
