package cst

import (
	"fmt"

	"gocst/internal/diag"
	"gocst/internal/source"
	"gocst/internal/token"
)

// Builder is the token stream and marker engine. It exposes significant
// tokens to the parser and records the parse as events.
type Builder struct {
	file     *source.File
	tokens   []token.Token // полный поток, включая trivia и EOF
	sig      []int         // индексы значимых токенов в tokens; последний — EOF
	pos      int           // текущая позиция в sig
	events   []event
	open     []openMarker
	links    []precedeLink
	nextID   uint32
	reporter diag.Reporter
	// maxErrors bounds the error nodes reported in Finish; 0 means no limit.
	maxErrors int
}

// NewBuilder wraps a complete token sequence. A missing trailing EOF token is
// synthesised at the end of the last token.
func NewBuilder(file *source.File, tokens []token.Token, reporter diag.Reporter) *Builder {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != token.EOF {
		var sp source.Span
		if n > 0 {
			sp = tokens[n-1].Span.ZeroideToEnd()
		} else if file != nil {
			sp = source.Span{File: file.ID}
		}
		tokens = append(tokens[:n:n], token.Token{Kind: token.EOF, Span: sp})
	}
	sig := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		sig = append(sig, i)
		if tok.Kind == token.EOF {
			tokens = tokens[:i+1]
			break
		}
	}
	return &Builder{
		file:     file,
		tokens:   tokens,
		sig:      sig,
		events:   make([]event, 0, len(sig)*2),
		reporter: reporter,
	}
}

// SetMaxErrors bounds how many error nodes are reported in Finish.
func (b *Builder) SetMaxErrors(n int) {
	b.maxErrors = n
}

// File returns the source file being parsed (may be nil in tests).
func (b *Builder) File() *source.File { return b.file }

// TokenCount is the length of the full token stream, trivia and EOF included.
func (b *Builder) TokenCount() int { return len(b.tokens) }

// Peek returns the kind of the significant token at offset from the cursor.
// Past the end it returns EOF.
func (b *Builder) Peek(offset int) token.Kind {
	return b.PeekToken(offset).Kind
}

// PeekToken returns the significant token at offset from the cursor.
func (b *Builder) PeekToken(offset int) token.Token {
	i := b.pos + offset
	if i < 0 {
		i = 0
	}
	if i >= len(b.sig) {
		i = len(b.sig) - 1
	}
	return b.tokens[b.sig[i]]
}

// At reports whether the current token has the given kind.
func (b *Builder) At(kind token.Kind) bool {
	return b.Peek(0) == kind
}

// EOF reports whether all significant tokens have been consumed.
func (b *Builder) EOF() bool {
	return b.Peek(0) == token.EOF
}

// Pos is the number of significant tokens consumed so far.
func (b *Builder) Pos() int {
	return b.pos
}

// Advance consumes the current token. At EOF it does nothing.
func (b *Builder) Advance() {
	if b.EOF() {
		return
	}
	b.events = append(b.events, event{kind: evToken, raw: b.sig[b.pos]})
	b.pos++
}

// Eat consumes the current token if it has the given kind.
func (b *Builder) Eat(kind token.Kind) bool {
	if !b.At(kind) {
		return false
	}
	b.Advance()
	return true
}

// Mark opens a checkpoint at the cursor.
func (b *Builder) Mark() Marker {
	b.nextID++
	id := b.nextID
	ev := len(b.events)
	b.open = append(b.open, openMarker{id: id, origin: ev})
	b.events = append(b.events, event{kind: evStart, node: kindTombstone, raw: b.rawAt(b.pos)})
	return Marker{b: b, id: id, event: ev, pos: b.pos, start: b.pos, origin: ev, preceded: -1}
}

// Error records a zero-width error node at the cursor.
func (b *Builder) Error(code diag.Code, msg string) {
	b.events = append(b.events,
		event{kind: evStart, node: KindError, raw: b.rawAt(b.pos), code: code, msg: msg},
		event{kind: evFinish},
	)
}

// OpenMarkers returns how many markers are currently unresolved.
func (b *Builder) OpenMarkers() int {
	return len(b.open)
}

func (b *Builder) rawAt(pos int) int {
	if pos >= len(b.sig) {
		pos = len(b.sig) - 1
	}
	return b.sig[pos]
}

// Finish replays the events into a tree and reports its error nodes. It
// panics with ErrMarkerOrder if markers are still open. Call it once.
func (b *Builder) Finish() *Node {
	if len(b.open) != 0 {
		panic(fmt.Errorf("%w: %d marker(s) still open at finish", ErrMarkerOrder, len(b.open)))
	}
	t := treeBuilder{b: b}
	root := t.build()
	b.reportErrors(root)
	return root
}

func (b *Builder) reportErrors(root *Node) {
	if b.reporter == nil {
		return
	}
	reported := 0
	Walk(root, func(n *Node, _ int) bool {
		if n.Kind != KindError {
			return true
		}
		if b.maxErrors > 0 && reported == b.maxErrors {
			b.reporter.Report(diag.NewError(diag.SynTooManyErrors, n.Span, "too many syntax errors"))
			reported++
			return false
		}
		if b.maxErrors > 0 && reported > b.maxErrors {
			return false
		}
		reported++
		b.reporter.Report(diag.NewError(n.Code, n.Span, n.Message))
		return true
	})
}
