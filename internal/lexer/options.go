package lexer

import (
	"gocst/internal/diag"
	"gocst/internal/source"
)

// maxTokenLength bounds a single token. Longer input is reported once and
// the rest of the file becomes one Invalid token.
const maxTokenLength = 1 << 20

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	// SkipNFCCheck disables the LEX1006 warning for non-NFC identifiers.
	SkipNFCCheck bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	diag.Emit(lx.opts.Reporter, diag.NewError(code, sp, msg))
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	diag.Warn(lx.opts.Reporter, code, sp, msg)
}
