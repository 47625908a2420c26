package lexer

import (
	"gocst/internal/diag"
	"gocst/internal/token"
)

// scanWhitespace собирает ' ', '\t', '\r' и незначимые '\n' в один токен.
// Перевод строки, который завершает оператор, остаётся снаружи: он
// возвращается отдельным токеном Newline.
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	terminates := lx.prev.EndsStatement()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' && terminates {
			break
		}
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Whitespace, start)
}

// scanComment handles `//...` (without the newline) and `/* ... */`.
// A block comment spanning lines acts like a newline: when the previous
// token ends a statement the comment is followed by a zero-width Newline.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.emit(token.LineComment, start)
	}

	multiline := false
	closed := false
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Skip(2)
			closed = true
			break
		}
		if lx.cursor.Bump() == '\n' {
			multiline = true
		}
	}
	tok := lx.emit(token.BlockComment, start)
	if !closed {
		lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
	}
	if multiline && lx.prev.EndsStatement() {
		nl := token.Token{Kind: token.Newline, Span: tok.Span.ZeroideToEnd()}
		lx.look = &nl
		lx.prev = token.Newline
	}
	return tok
}
