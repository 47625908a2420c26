package lexer

import (
	"gocst/internal/diag"
	"gocst/internal/source"
	"gocst/internal/token"
)

// Lexer produces the complete token stream of a file, trivia included.
// Concatenating the Text of every token returned before EOF reproduces the
// file content byte for byte.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	// prev is the kind of the last significant token; it decides whether the
	// next newline terminates a statement.
	prev token.Kind
	look *token.Token // 1 элементный буфер для Peek
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		prev:   token.Invalid,
	}
}

// Tokenize lexes the whole file. The result always ends with exactly one EOF token.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next возвращает следующий токен, включая trivia.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	tok := lx.scan()
	if tok.Span.Len() > maxTokenLength {
		tok = lx.tooLong(tok)
	}
	if !tok.Kind.IsTrivia() {
		lx.prev = tok.Kind
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) scan() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case ch == '\n':
		if lx.prev.EndsStatement() {
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			return lx.emit(token.Newline, start)
		}
		return lx.scanWhitespace()

	case ch == ' ' || ch == '\t' || ch == '\r':
		return lx.scanWhitespace()

	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		return lx.scanComment()

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()

	case isDec(ch):
		return lx.scanNumber()

	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()

	case ch == '"':
		return lx.scanString()

	case ch == '`':
		return lx.scanRawString()

	case ch == '\'':
		return lx.scanRune()

	default:
		return lx.scanOperatorOrPunct()
	}
}

// tooLong reports an oversized token and swallows the rest of the input into it.
func (lx *Lexer) tooLong(tok token.Token) token.Token {
	lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
	lx.cursor.Off = lx.cursor.Limit
	sp := source.Span{File: tok.Span.File, Start: tok.Span.Start, End: lx.cursor.Off}
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
