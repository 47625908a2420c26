package lexer

import (
	"gocst/internal/diag"
	"gocst/internal/token"
)

// scanString: "..." с escape-последовательностями. Перевод строки внутри — ошибка,
// токен тогда заканчивается перед '\n'.
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string")
}

// scanRune: 'x', '\n', 'é'. Содержимое проверяется только на пустоту.
func (lx *Lexer) scanRune() token.Token {
	tok := lx.scanQuoted('\'', token.RuneLit, diag.LexUnterminatedRune, "rune")
	if tok.Kind == token.RuneLit && tok.Text == "''" {
		lx.errLex(diag.LexBadRune, tok.Span, "empty rune literal")
	}
	return tok
}

func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, code diag.Code, what string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return lx.emit(kind, start)
		case '\\':
			// escape не валидируем глубоко: съесть '\' и следующий байт
			lx.cursor.Bump()
			if lx.cursor.Peek() == '\n' {
				continue
			}
			lx.cursor.Bump()
		case '\n':
			tok := lx.emit(kind, start)
			lx.errLex(code, tok.Span, "newline in "+what+" literal")
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(kind, start)
	lx.errLex(code, tok.Span, "unterminated "+what+" literal")
	return tok
}

// scanRawString: `...`, может занимать несколько строк.
func (lx *Lexer) scanRawString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '`' {
			return lx.emit(token.RawStringLit, start)
		}
	}
	tok := lx.emit(token.RawStringLit, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string literal")
	return tok
}
