package diag

import (
	"testing"

	"gocst/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/pkg/sample.go", []byte("a\nb\n"), 0)
	vendorFile := fs.Add("/workspace/vendor/x/helper.go", []byte("x\n"), 0)

	items := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     LexIdentNotNFC,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: vendorFile, Start: 0, End: 0}, Msg: "in vendor"},
			},
		},
		{
			Severity: SevError,
			Code:     SynExpectType,
			Message:  "vendored",
			Primary:  source.Span{File: vendorFile, Start: 0, End: 1},
		},
	}

	got := FormatShort(items, fs, ShortOpts{SkipVendor: true, Notes: true})
	want := "pkg/sample.go:1:1: error SYN2001 first line second\n" +
		"pkg/sample.go:2:1: warning LEX1006 another"
	if got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	got = FormatShort(items[1:2], fs, ShortOpts{Notes: true})
	want = "pkg/sample.go:1:1: error SYN2001 first line second\n" +
		"vendor/x/helper.go:1:1: note SYN2001 in vendor"
	if got != want {
		t.Fatalf("notes:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestFormatShortEmpty(t *testing.T) {
	if got := FormatShort(nil, source.NewFileSet(), ShortOpts{}); got != "" {
		t.Fatalf("want empty output, got %q", got)
	}
	fs := source.NewFileSet()
	stray := []Diagnostic{{Severity: SevError, Code: IOLoadFileError, Primary: source.Span{File: 3}}}
	if got := FormatShort(stray, fs, ShortOpts{}); got != "" {
		t.Fatalf("span outside the file set must be skipped, got %q", got)
	}
}
