package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"gocst/internal/diag"
	"gocst/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.go", []byte("x := \"unterminated string\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 5, End: 25}, "unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.go:1:6"},
		{"Relative path", PathModeRelative, "src/test.go:1:6"},
		{"Basename only", PathModeBasename, "test.go:1:6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			for _, want := range []string{tt.contains, "ERROR", "LEX1002", "unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettyCaretUnderSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.go", []byte("package p\n\nvar x = )\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.SynExpectExpression, source.Span{File: fileID, Start: 19, End: 20}, "expected expression"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	if lines[0] != "a.go:3:9: ERROR SYN2203: expected expression" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != " 3 | var x = )" {
		t.Fatalf("source line = %q", lines[1])
	}
	if lines[2] != "   |         ^" {
		t.Fatalf("caret line = %q", lines[2])
	}
}

func TestPrettyCaretAfterWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// "世界" занимает 4 колонки терминала при 6 байтах
	fileID := fs.AddVirtual("w.go", []byte("s := \"世界\" +\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SynExpectExpression, source.Span{File: fileID, Start: 14, End: 15}, "expected operand"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if want := "   |             ^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.go", []byte("a\nb\nc\nd\ne\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 4, End: 5}, "odd"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	out := buf.String()
	for _, want := range []string{" 2 | b", " 3 | c", " 4 | d", "WARNING"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, " 1 | a") || strings.Contains(out, " 5 | e") {
		t.Fatalf("too much context:\n%s", out)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import \"fmt\" \"os\"\n")
	fileID := fs.AddVirtual("test.go", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 13, End: 17}
	d := diag.New(diag.SevError, diag.SynUnexpectedToken, primary, "unexpected string after import path")
	d = d.WithNote(source.Span{File: fileID, Start: 7, End: 12}, "import path is here")
	insertSpan := source.Span{File: fileID, Start: 12, End: 12}
	d = d.WithFix("insert newline", diag.FixEdit{Span: insertSpan, NewText: ";"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	for _, want := range []string{
		"note: test.go:1:8: import path is here",
		"fix #1: insert newline",
		"apply=\";\"",
		"preview:",
		"- import \"fmt\" \"os\"",
		"+ import \"fmt\"; \"os\"",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.go", []byte("x\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 1}, "bad"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}
