package lsp

import (
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// applyChanges replays didChange events over text. Whole-document events
// replace the buffer; ranged events splice into it.
func applyChanges(text string, changes []any) string {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			text = spliceRange(text, c.Range, c.Text)
		case *protocol.TextDocumentContentChangeEvent:
			text = spliceRange(text, c.Range, c.Text)
		}
	}
	return text
}

func spliceRange(text string, rng *protocol.Range, repl string) string {
	if rng == nil {
		return repl
	}
	start := offsetForPosition(text, rng.Start)
	end := offsetForPosition(text, rng.End)
	if end < start {
		end = start
	}
	return text[:start] + repl + text[end:]
}

// offsetForPosition works on a raw buffer with LSP line and UTF-16 column.
func offsetForPosition(text string, pos protocol.Position) int {
	var line protocol.UInteger
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	var units protocol.UInteger
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}
