package lexer

import (
	"gocst/internal/diag"
	"gocst/internal/token"
)

type opEntry struct {
	text string
	kind token.Kind
}

// Жадность: сначала 3-символьные, затем 2-символьные.
var multiCharOps = []opEntry{
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"&^=", token.AmpNotAssign},
	{"...", token.Ellipsis},
	{"&^", token.AmpNot},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"<-", token.Arrow},
	{"++", token.Inc},
	{"--", token.Dec},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{":=", token.ColonAssign},
	{"<<", token.Shl},
	{">>", token.Shr},
}

var singleCharOps = [256]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'<': token.Lt,
	'>': token.Gt,
	'=': token.Assign,
	'!': token.Bang,
	'~': token.Tilde,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	';': token.Semicolon,
	'.': token.Dot,
	':': token.Colon,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range multiCharOps {
		if lx.hasPrefix(op.text) {
			lx.cursor.Skip(uint32(len(op.text))) //nolint:gosec // operators are at most 3 bytes
			return lx.emit(op.kind, start)
		}
	}

	ch := lx.cursor.Peek()
	if k := singleCharOps[ch]; k != token.Invalid {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}

	// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
	if ch >= utf8RuneSelf {
		lx.bumpRune()
	} else {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text))
	return tok
}

func (lx *Lexer) hasPrefix(s string) bool {
	for i := range len(s) {
		if lx.cursor.PeekAt(uint32(i)) != s[i] { //nolint:gosec // i < 3
			return false
		}
	}
	return true
}
