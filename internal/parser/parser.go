package parser

import (
	"fmt"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/lexer"
	"gocst/internal/source"
	"gocst/internal/token"
	"gocst/internal/trace"
)

// DefaultMaxDepth bounds the nesting of statements, expressions and types.
const DefaultMaxDepth = 256

// Options configures a Parser and ParseFile.
type Options struct {
	// MaxDepth bounds recursion; 0 means DefaultMaxDepth.
	MaxDepth int
	// MaxErrors bounds reported syntax errors; 0 means no limit.
	MaxErrors int
	Reporter  diag.Reporter
	// Tracer receives the file span and, at trace.LevelDebug, one span per
	// top-level declaration and statement. TraceParent is the span the file
	// span hangs off.
	Tracer      trace.Tracer
	TraceParent uint64
	// SkipNFCCheck is passed to the lexer by ParseFile.
	SkipNFCCheck bool
}

// Result is what ParseFile returns: the tree and the size of the token stream.
type Result struct {
	Root   *cst.Node
	Tokens int // всего токенов, включая trivia
}

// Parser — контекст разбора. Один Parser обслуживает один разбор за раз;
// Parse можно вызывать повторно, состояние сбрасывается.
type Parser struct {
	b        *cst.Builder
	opts     Options
	flags    Flag
	packages map[string]struct{}
	types    map[string]struct{}
	depth    int

	// состояние верхнего уровня текущего файла
	seenPackage bool
	seenDecl    bool

	tracing bool // production spans enabled
	span    *trace.Span
	path    string
}

// New creates a parser context.
func New(opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Parser{
		opts:     opts,
		flags:    defaultFlags,
		packages: make(map[string]struct{}),
		types:    make(map[string]struct{}),
		tracing:  opts.Tracer.Level().ShouldEmit(trace.ScopeProduction),
	}
}

// ParseFile lexes and parses one source file.
func ParseFile(file *source.File, opts Options) Result {
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter, SkipNFCCheck: opts.SkipNFCCheck})
	return ParseTokens(file, toks, opts)
}

// ParseTokens parses an already lexed token sequence of file.
func ParseTokens(file *source.File, toks []token.Token, opts Options) Result {
	b := cst.NewBuilder(file, toks, opts.Reporter)
	b.SetMaxErrors(opts.MaxErrors)
	root := New(opts).Parse(b)
	return Result{Root: root, Tokens: len(toks)}
}

// Parse builds the tree for the whole token stream behind b. Flags and the
// known-identifier sets are reset first, so a Parser can be reused.
func (p *Parser) Parse(b *cst.Builder) *cst.Node {
	p.reset(b)
	if f := b.File(); f != nil {
		p.path = f.Path
	}
	p.span = trace.BeginFile(p.opts.Tracer, p.opts.TraceParent, p.path)

	root := b.Mark()
	p.parseFile()
	root.Complete(cst.KindFile)

	p.checkFlags()
	tree := b.Finish()
	if p.span != nil {
		p.span.EndStats(trace.ParseStats{Tokens: b.TokenCount(), Errors: len(cst.Errors(tree))})
		p.span = nil
	}
	p.b = nil
	return tree
}

// checkFlags panics when a production left the flags changed.
func (p *Parser) checkFlags() {
	if p.flags != defaultFlags {
		panic(fmt.Errorf("%w: %s after parse, want %s", ErrFlagLeak, p.flags, defaultFlags))
	}
}

func (p *Parser) reset(b *cst.Builder) {
	p.b = b
	p.flags = defaultFlags
	p.depth = 0
	p.seenPackage = false
	p.seenDecl = false
	p.span = nil
	p.path = ""
	clear(p.packages)
	clear(p.types)
}

// parseFile — основной цикл верхнего уровня.
func (p *Parser) parseFile() {
	if !p.b.At(token.KwPackage) {
		p.b.Error(diag.SynMissingPackage, "expected 'package' clause")
	}
	for !p.b.EOF() {
		if p.skipTerminators() {
			continue
		}
		start := p.b.Pos()
		sp := p.traceProd("top-level")
		p.parseTopLevelDeclaration()
		sp.End()
		if p.b.Pos() == start {
			tok := p.b.PeekToken(0)
			p.errorToken(diag.SynUnexpectedTopLevel, fmt.Sprintf("unknown token %s at top level", describe(tok)))
			continue
		}
		p.expectTerminator(token.EOF)
	}
	// хвост (trivia перед EOF) достаётся корню при Finish
}

// parseTopLevelDeclaration dispatches on the current token. It consumes
// nothing when the token cannot start a declaration.
func (p *Parser) parseTopLevelDeclaration() bool {
	if p.b.At(token.KwFunc) {
		return p.parseFuncDecl()
	}
	return p.parseDeclaration()
}

// RegisterPackageName records a name bound by an import.
func (p *Parser) RegisterPackageName(name string) {
	if name == "" || name == "_" || name == "." {
		return
	}
	p.packages[name] = struct{}{}
}

// IsKnownPackageName reports whether name was bound by an import in the
// current (or last) parse.
func (p *Parser) IsKnownPackageName(name string) bool {
	_, ok := p.packages[name]
	return ok
}

// RegisterTypeName records a name declared by a type declaration.
func (p *Parser) RegisterTypeName(name string) {
	if name == "" || name == "_" {
		return
	}
	p.types[name] = struct{}{}
}

// IsKnownTypeName reports whether name was declared as a type in the
// current parse or is predeclared.
func (p *Parser) IsKnownTypeName(name string) bool {
	if _, ok := p.types[name]; ok {
		return true
	}
	return token.IsPredeclaredType(name)
}

// traceProd opens a production span at the current token.
func (p *Parser) traceProd(name string) *trace.Span {
	if !p.tracing {
		return nil
	}
	return trace.BeginProduction(p.opts.Tracer, p.span.ID(), p.path, name, p.b.PeekToken(0).Span.Start)
}
