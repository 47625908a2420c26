package fuzztests

import (
	"strings"
	"testing"

	"gocst/internal/diag"
	"gocst/internal/lexer"
	"gocst/internal/source"
	"gocst/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.go", input))

		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF")
		}

		// токены покрывают вход подряд, без дыр и перекрытий
		var b strings.Builder
		var off uint32
		for _, tok := range toks {
			if tok.Span.Start != off {
				t.Fatalf("gap before %s at %d (expected %d)", tok.Kind, tok.Span.Start, off)
			}
			b.WriteString(tok.Text)
			off = tok.Span.End
		}
		if b.String() != string(input) {
			t.Fatalf("tokens do not reproduce the input")
		}
	})
}
