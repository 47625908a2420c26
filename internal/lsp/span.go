package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"gocst/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Len is the number of UTF-16 code units r occupies.
func utf16Len(r rune) protocol.UInteger {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// lineBounds returns the byte range of line (0-based) without its newline.
func lineBounds(file *source.File, line int) (start, end uint32) {
	contentLen := safeUint32(len(file.Content))
	if line > 0 {
		start = file.LineIdx[line-1] + 1
	}
	end = contentLen
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	if start > end {
		start = end
	}
	return start, end
}

// offsetForPositionInFile maps an LSP position (UTF-16 columns) to a byte
// offset. Positions past the end of a line clamp to the line end.
func offsetForPositionInFile(file *source.File, pos protocol.Position) uint32 {
	if file == nil || len(file.Content) == 0 {
		return 0
	}
	if int(pos.Line) > len(file.LineIdx) {
		return safeUint32(len(file.Content))
	}
	start, end := lineBounds(file, int(pos.Line))
	var units protocol.UInteger
	off := start
	for off < end && units < pos.Character {
		r, size := utf8.DecodeRune(file.Content[off:end])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

// positionForOffsetInFile is the inverse of offsetForPositionInFile.
func positionForOffsetInFile(file *source.File, offset uint32) protocol.Position {
	if file == nil {
		return protocol.Position{}
	}
	if contentLen := safeUint32(len(file.Content)); offset > contentLen {
		offset = contentLen
	}
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	start, _ := lineBounds(file, line)
	var units protocol.UInteger
	for off := start; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return protocol.Position{Line: protocol.UInteger(safeUint32(line)), Character: units}
}

func rangeForSpan(file *source.File, span source.Span) protocol.Range {
	if file == nil {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}
