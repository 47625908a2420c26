package parser

import (
	"errors"
	"strings"
)

// Flag is one bit of parse context that changes how an ambiguous construct
// is read.
type Flag uint8

const (
	// AllowCompositeLiteral: a type name followed by `{` starts a composite
	// literal. Unset in if/for/switch headers, where the `{` opens the body.
	AllowCompositeLiteral Flag = 1 << iota
	// WrapCompositeInExpression: a bare `{` is not an expression. Unset for
	// the elements of a literal value, where `{...}` is an elided-type value.
	WrapCompositeInExpression
	// ParseIota: `iota` is the constant generator rather than a plain name.
	ParseIota
)

const defaultFlags = AllowCompositeLiteral | WrapCompositeInExpression

// ErrFlagLeak is the panic value (wrapped) when a parse ends with flags that
// differ from their defaults, i.e. some production did not restore them.
var ErrFlagLeak = errors.New("parser: context flags not restored")

func (f Flag) String() string {
	if f == 0 {
		return "{}"
	}
	var parts []string
	if f&AllowCompositeLiteral != 0 {
		parts = append(parts, "AllowCompositeLiteral")
	}
	if f&WrapCompositeInExpression != 0 {
		parts = append(parts, "WrapCompositeInExpression")
	}
	if f&ParseIota != 0 {
		parts = append(parts, "ParseIota")
	}
	return "{" + strings.Join(parts, "|") + "}"
}

func (p *Parser) isSet(f Flag) bool {
	return p.flags&f == f
}

func (p *Parser) setFlag(f Flag) {
	p.flags |= f
}

func (p *Parser) unsetFlag(f Flag) {
	p.flags &^= f
}

// resetFlag sets f to v and returns the previous value.
func (p *Parser) resetFlag(f Flag, v bool) bool {
	old := p.isSet(f)
	if v {
		p.setFlag(f)
	} else {
		p.unsetFlag(f)
	}
	return old
}

// withFlag runs fn with f set to v; the old value is restored on every exit
// path, panics included.
func (p *Parser) withFlag(f Flag, v bool, fn func()) {
	old := p.resetFlag(f, v)
	defer p.resetFlag(f, old)
	fn()
}

// withFlags runs fn with the whole flag set replaced by fs.
func (p *Parser) withFlags(fs Flag, fn func()) {
	old := p.flags
	p.flags = fs
	defer func() { p.flags = old }()
	fn()
}

// nested runs fn with composite literals re-enabled, as inside parentheses,
// brackets and argument lists. ParseIota is kept.
func (p *Parser) nested(fn func()) {
	p.withFlags(p.flags|AllowCompositeLiteral|WrapCompositeInExpression, fn)
}
