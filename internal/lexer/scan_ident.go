package lexer

import (
	"unicode/utf8"

	"gocst/internal/diag"
	"gocst/internal/token"

	"golang.org/x/text/unicode/norm"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if r == utf8.RuneError && sz <= 1 {
		lx.cursor.Bump()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexInvalidUTF8, tok.Span, "invalid UTF-8 encoding")
		return tok
	}
	if !isIdentStartRune(r) {
		return lx.scanOperatorOrPunct()
	}

	ascii := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if (r2 == utf8.RuneError && sz2 <= 1) || !isIdentContinueRune(r2) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
		return tok
	}
	if !ascii && !lx.opts.SkipNFCCheck && !norm.NFC.IsNormalString(tok.Text) {
		lx.warnLex(diag.LexIdentNotNFC, tok.Span, "identifier "+tok.Text+" is not in NFC form")
	}
	return tok
}
