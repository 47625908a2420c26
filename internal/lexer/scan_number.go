package lexer

import (
	"gocst/internal/diag"
	"gocst/internal/token"
)

// scanNumber: 0, 123, 0b..., 0o..., 0x..., 0777, 1.0, .5, 1e-3, 0x1p-2, 2i.
// Подчёркивания допускаются между цифрами; их расположение не проверяется.
// Неверные формы репортятся, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.digits(isDec)
		return lx.finishNumber(start, kind, false)
	}

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			lx.cursor.Skip(2)
			return lx.finishPrefixed(start, func(b byte) bool { return b == '0' || b == '1' }, "binary")
		case 'o', 'O':
			lx.cursor.Skip(2)
			return lx.finishPrefixed(start, func(b byte) bool { return b >= '0' && b <= '7' }, "octal")
		case 'x', 'X':
			lx.cursor.Skip(2)
			lx.digits(isHex)
			if lx.cursor.Peek() == '.' {
				lx.cursor.Bump()
				lx.digits(isHex)
				kind = token.FloatLit
			}
			return lx.finishNumber(start, kind, true)
		}
	}

	lx.digits(isDec)
	if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' {
		lx.cursor.Bump()
		lx.digits(isDec)
		kind = token.FloatLit
	}
	return lx.finishNumber(start, kind, false)
}

func (lx *Lexer) digits(accept func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		if !accept(b) && b != '_' {
			return n
		}
		lx.cursor.Bump()
		n++
	}
}

func (lx *Lexer) finishPrefixed(start Mark, accept func(byte) bool, name string) token.Token {
	if lx.digits(accept) == 0 {
		tok := lx.emit(token.IntLit, start)
		lx.errLex(diag.LexBadNumber, tok.Span, name+" literal has no digits")
		return tok
	}
	// цифры вне системы счисления ("0b102") — часть того же токена
	if isDec(lx.cursor.Peek()) {
		lx.digits(isDec)
		tok := lx.emit(token.IntLit, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid digit in "+name+" literal")
		return tok
	}
	return lx.finishNumber(start, token.IntLit, false)
}

// finishNumber scans an optional exponent and the imaginary suffix.
func (lx *Lexer) finishNumber(start Mark, kind token.Kind, hex bool) token.Token {
	b := lx.cursor.Peek()
	isExp := (!hex && (b == 'e' || b == 'E')) || (hex && (b == 'p' || b == 'P'))
	if isExp {
		kind = token.FloatLit
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if lx.digits(isDec) == 0 {
			tok := lx.emit(token.FloatLit, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "exponent has no digits")
			return tok
		}
	} else if hex && kind == token.FloatLit {
		tok := lx.emit(kind, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "hexadecimal mantissa requires a 'p' exponent")
		return tok
	}
	if lx.cursor.Peek() == 'i' {
		lx.cursor.Bump()
		kind = token.ImagLit
	}
	return lx.emit(kind, start)
}
