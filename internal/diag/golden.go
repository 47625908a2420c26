package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gocst/internal/source"
)

// ShortOpts configures FormatShort.
type ShortOpts struct {
	// Notes adds one "note" line per note after its diagnostic.
	Notes bool
	// SkipVendor drops entries located under a vendor/ directory.
	SkipVendor bool
}

type shortLine struct {
	path     string
	line     uint32
	col      uint32
	severity string
	code     string
	msg      string
}

// FormatShort renders diagnostics one per line in the compiler style
// "path:line:col: severity CODE message", sorted by position. Paths are
// relative to the FileSet base directory. Golden tests compare against it.
func FormatShort(items []Diagnostic, fs *source.FileSet, opts ShortOpts) string {
	if fs == nil || len(items) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(items))
	for _, d := range items {
		if l, ok := resolveShort(fs, d.Primary, strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message); ok {
			lines = append(lines, l)
		}
		if !opts.Notes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := resolveShort(fs, n.Span, "note", d.Code.ID(), n.Msg); ok {
				lines = append(lines, l)
			}
		}
	}
	if opts.SkipVendor {
		lines = slices.DeleteFunc(lines, func(l shortLine) bool { return isVendored(l.path) })
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
		)
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s:%d:%d: %s %s %s", l.path, l.line, l.col, l.severity, l.code, l.msg)
	}
	return b.String()
}

func resolveShort(fs *source.FileSet, span source.Span, severity, code, msg string) (shortLine, bool) {
	if int(span.File) >= fs.Len() {
		return shortLine{}, false
	}
	file := fs.Get(span.File)
	start := file.Position(span.Start)
	return shortLine{
		path:     strings.TrimPrefix(filepath.ToSlash(file.FormatPath("relative", fs.BaseDir())), "./"),
		line:     start.Line,
		col:      start.Col,
		severity: severity,
		code:     code,
		msg:      oneLine(msg),
	}, true
}

func isVendored(path string) bool {
	p := strings.TrimLeft(path, "/")
	return strings.HasPrefix(p, "vendor/") || strings.Contains(p, "/vendor/")
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
