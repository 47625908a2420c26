package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"gocst/internal/diag"
	"gocst/internal/lexer"
	"gocst/internal/source"
	"gocst/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return out
}

// lexAll токенизирует строку целиком (включая trivia и EOF)
func lexAll(input string) ([]token.Token, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.go", []byte(input))
	reporter := &testReporter{}
	toks := lexer.Tokenize(fs.Get(fileID), lexer.Options{Reporter: reporter})
	return toks, reporter
}

// significant отбрасывает trivia и EOF
func significant(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind.IsTrivia() || tok.Kind == token.EOF {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// expectKinds проверяет последовательность значимых токенов
func expectKinds(t *testing.T, input string, expected ...token.Kind) {
	t.Helper()
	toks, reporter := lexAll(input)
	sig := significant(toks)
	if len(sig) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %s\nerrors: %v",
			len(expected), len(sig), input, tokensToString(sig), reporter.messages())
	}
	for i, tok := range sig {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func TestLossless(t *testing.T) {
	inputs := []string{
		"",
		"package main\n",
		"package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\") // greet\n}\n",
		"/* a\nb */ x := `raw\nstring` + 'c'\r\n",
		"x := 0x1p-2 + .5i &^= y <<= 3\n\n\n",
		"bad \"unterminated\nnext @ $ €\n",
		"s := 'é' + 0b102 // tail",
	}
	for _, in := range inputs {
		toks, _ := lexAll(in)
		var b strings.Builder
		for _, tok := range toks {
			b.WriteString(tok.Text)
		}
		if b.String() != in {
			t.Fatalf("lossless mismatch\nwant: %q\ngot:  %q\ntokens: %s", in, b.String(), tokensToString(toks))
		}
		if last := toks[len(toks)-1]; last.Kind != token.EOF {
			t.Fatalf("stream must end with EOF, got %v", last.Kind)
		}
	}
}

func TestSpansMatchText(t *testing.T) {
	in := "func f(a, b int) (int, error) { return a + b, nil }\n"
	toks, _ := lexAll(in)
	var prevEnd uint32
	for _, tok := range toks {
		if tok.Span.Start != prevEnd {
			t.Fatalf("gap before %v at %d (prev end %d)", tok.Kind, tok.Span.Start, prevEnd)
		}
		if got := in[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span text %q != token text %q", got, tok.Text)
		}
		prevEnd = tok.Span.End
	}
}

func TestNewlineTerminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"after ident", "x\ny", []token.Kind{token.Ident, token.Newline, token.Ident}},
		{"after literal", "1\n\"s\"\n", []token.Kind{token.IntLit, token.Newline, token.StringLit, token.Newline}},
		{"after return", "return\n", []token.Kind{token.KwReturn, token.Newline}},
		{"after break", "break\n", []token.Kind{token.KwBreak, token.Newline}},
		{"after continue", "continue\n", []token.Kind{token.KwContinue, token.Newline}},
		{"after fallthrough", "fallthrough\n", []token.Kind{token.KwFallthrough, token.Newline}},
		{"after inc", "i++\n", []token.Kind{token.Ident, token.Inc, token.Newline}},
		{"after dec", "i--\n", []token.Kind{token.Ident, token.Dec, token.Newline}},
		{"after closers", ")\n]\n}\n", []token.Kind{token.RParen, token.Newline, token.RBracket, token.Newline, token.RBrace, token.Newline}},
		{"not after brace", "{\n}", []token.Kind{token.LBrace, token.RBrace}},
		{"not after operator", "a +\nb", []token.Kind{token.Ident, token.Plus, token.Ident}},
		{"not after comma", "f(a,\nb)", []token.Kind{token.Ident, token.LParen, token.Ident, token.Comma, token.Ident, token.RParen}},
		{"not after func", "func\nf", []token.Kind{token.KwFunc, token.Ident}},
		{"comment before newline", "x // c\ny", []token.Kind{token.Ident, token.Newline, token.Ident}},
		{"multiline block comment", "x /* a\nb */ y", []token.Kind{token.Ident, token.Newline, token.Ident}},
		{"single line block comment", "x /* a */ + y", []token.Kind{token.Ident, token.Plus, token.Ident}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKinds(t, tt.input, tt.want...)
		})
	}
}

func TestBlankLinesFoldIntoWhitespace(t *testing.T) {
	toks, _ := lexAll("x\n\n\ny")
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Ident, token.Newline, token.Whitespace, token.Ident, token.EOF}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	if toks[2].Text != "\n\n" {
		t.Fatalf("whitespace text = %q, want two newlines", toks[2].Text)
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	expectKinds(t, "package import func var const type struct interface map chan",
		token.KwPackage, token.KwImport, token.KwFunc, token.KwVar, token.KwConst,
		token.KwType, token.KwStruct, token.KwInterface, token.KwMap, token.KwChan)
	expectKinds(t, "iota nil true _ int Func", token.Ident, token.Ident, token.Ident, token.Ident, token.Ident, token.Ident)
	expectKinds(t, "привет мир", token.Ident, token.Ident)
}

func TestOperators(t *testing.T) {
	expectKinds(t, "<<= >>= &^= ... &^ += -= *= /= %= &= |= ^=",
		token.ShlAssign, token.ShrAssign, token.AmpNotAssign, token.Ellipsis, token.AmpNot,
		token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.AmpAssign, token.PipeAssign, token.CaretAssign)
	expectKinds(t, "&& || <- ++ -- == != <= >= := << >> ~",
		token.AndAnd, token.OrOr, token.Arrow, token.Inc, token.Dec, token.EqEq,
		token.BangEq, token.LtEq, token.GtEq, token.ColonAssign, token.Shl, token.Shr, token.Tilde)
	expectKinds(t, "ch<-x", token.Ident, token.Arrow, token.Ident)
	expectKinds(t, "a.b[1:2]", token.Ident, token.Dot, token.Ident, token.LBracket,
		token.IntLit, token.Colon, token.IntLit, token.RBracket)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000_000", token.IntLit},
		{"0x2A", token.IntLit},
		{"0o52", token.IntLit},
		{"0b1010", token.IntLit},
		{"0777", token.IntLit},
		{"1.5", token.FloatLit},
		{".5", token.FloatLit},
		{"1.", token.FloatLit},
		{"1e9", token.FloatLit},
		{"6.02e+23", token.FloatLit},
		{"0x1p-2", token.FloatLit},
		{"2i", token.ImagLit},
		{"1.5i", token.ImagLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, reporter := lexAll(tt.input)
			sig := significant(toks)
			if len(sig) != 1 || sig[0].Kind != tt.kind || sig[0].Text != tt.input {
				t.Fatalf("got %s, want single %v", tokensToString(sig), tt.kind)
			}
			if len(reporter.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", reporter.messages())
			}
		})
	}
}

func TestStringsAndRunes(t *testing.T) {
	expectKinds(t, `"a\"b" 'x' '\n' `+"`raw\nline`",
		token.StringLit, token.RuneLit, token.RuneLit, token.RawStringLit)
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{"\"abc\nx", diag.LexUnterminatedString},
		{"\"abc", diag.LexUnterminatedString},
		{"`abc", diag.LexUnterminatedString},
		{"'a", diag.LexUnterminatedRune},
		{"''", diag.LexBadRune},
		{"/* open", diag.LexUnterminatedBlockComment},
		{"@", diag.LexUnknownChar},
		{"0b102", diag.LexBadNumber},
		{"1e+", diag.LexBadNumber},
		{"\xff", diag.LexInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, reporter := lexAll(tt.input)
			codes := reporter.codes()
			if len(codes) == 0 || codes[0] != tt.code {
				t.Fatalf("expected %s, got %v", tt.code.ID(), reporter.messages())
			}
		})
	}
}

func TestNonNFCIdentifierWarns(t *testing.T) {
	// U+212B ANGSTROM SIGN is a letter that NFC maps to U+00C5
	_, reporter := lexAll("\u212b := 1")
	if len(reporter.diagnostics) != 1 {
		t.Fatalf("expected one warning, got %v", reporter.messages())
	}
	d := reporter.diagnostics[0]
	if d.Code != diag.LexIdentNotNFC || d.Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %v", reporter.messages())
	}

	_, reporter = lexAll("caf\u00e9 := 1")
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("NFC identifier must not warn: %v", reporter.messages())
	}
}

func TestEOFIsSticky(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("eof.go", []byte("x"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("expected ident, got %v", tok.Kind)
	}
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF || !tok.Span.Empty() {
			t.Fatalf("expected empty EOF, got %v %v", tok.Kind, tok.Span)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("peek.go", []byte("a b"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	p := lx.Peek()
	n := lx.Next()
	if p != n || n.Text != "a" {
		t.Fatalf("peek %v != next %v", p, n)
	}
}
