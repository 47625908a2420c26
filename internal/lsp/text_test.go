package lsp

import (
	"runtime"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func rangeOf(sl, sc, el, ec protocol.UInteger) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestApplyChanges(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		changes []any
		want    string
	}{
		{
			name:    "whole",
			text:    "old",
			changes: []any{protocol.TextDocumentContentChangeEventWhole{Text: "new"}},
			want:    "new",
		},
		{
			name:    "insert",
			text:    "package p\n",
			changes: []any{protocol.TextDocumentContentChangeEvent{Range: rangeOf(1, 0, 1, 0), Text: "var x int\n"}},
			want:    "package p\nvar x int\n",
		},
		{
			name:    "replace after astral rune",
			text:    "s := \"🙂ab\"",
			changes: []any{protocol.TextDocumentContentChangeEvent{Range: rangeOf(0, 8, 0, 9), Text: "Z"}},
			want:    "s := \"🙂Zb\"",
		},
		{
			name: "sequence",
			text: "a\nb\nc",
			changes: []any{
				protocol.TextDocumentContentChangeEvent{Range: rangeOf(1, 0, 2, 0), Text: ""},
				&protocol.TextDocumentContentChangeEvent{Range: rangeOf(0, 1, 0, 1), Text: "!"},
			},
			want: "a!\nc",
		},
		{
			name:    "range past end",
			text:    "ab",
			changes: []any{protocol.TextDocumentContentChangeEvent{Range: rangeOf(0, 1, 7, 0), Text: "c"}},
			want:    "ac",
		},
	}
	for _, tc := range cases {
		if got := applyChanges(tc.text, tc.changes); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestURIRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix paths")
	}
	path := uriToPath("file:///tmp/with%20space/main.go")
	if path != "/tmp/with space/main.go" {
		t.Fatalf("uriToPath = %q", path)
	}
	if got := pathToURI(path); got != "file:///tmp/with%20space/main.go" {
		t.Fatalf("pathToURI = %q", got)
	}
	if got := uriToPath("untitled:Untitled-1"); got != "" {
		t.Fatalf("non-file scheme mapped to %q", got)
	}
	if got := documentName("untitled:Untitled-1"); got != "Untitled-1" {
		t.Fatalf("documentName = %q", got)
	}
}
