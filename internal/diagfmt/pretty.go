package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"gocst/internal/diag"
	"gocst/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret, fix *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		code:   mk(color.Bold),
		gutter: mk(color.FgHiBlack),
		caret:  mk(color.FgRed),
		fix:    mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	loc := formatLocation(d.Primary, fs, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev.Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)

	if file := fileOf(fs, d.Primary); file != nil {
		writeSnippet(w, file, d.Primary, int(opts.Context), pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), formatLocation(n.Span, fs, opts.PathMode), n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, f := range d.Fixes {
			fmt.Fprintf(w, "  %s\n", pal.fix.Sprintf("fix #%d: %s", i+1, f.Title))
			for _, e := range f.Edits {
				fmt.Fprintf(w, "    %s apply=%q\n", formatLocation(e.Span, fs, opts.PathMode), e.NewText)
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, line := range preview.before {
					fmt.Fprintf(w, "      - %s\n", line)
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "      + %s\n", line)
				}
			}
		}
	}
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}

// formatLocation renders path:line:col for the start of sp.
func formatLocation(sp source.Span, fs *source.FileSet, mode PathMode) string {
	file := fileOf(fs, sp)
	if file == nil {
		return "<unknown>"
	}
	start := file.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(file, fs, mode), start.Line, start.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	base := ""
	if fs != nil {
		base = fs.BaseDir()
	}
	if mode == PathModeAuto {
		return f.FormatPath("auto", "")
	}
	return f.FormatPath(mode.String(), base)
}

// writeSnippet prints the primary line with context lines around it and a
// caret row. Columns are measured in display cells so the carets stay under
// wide runes and tabs keep their place.
func writeSnippet(w io.Writer, f *source.File, sp source.Span, context int, pal palette) {
	start := f.Position(sp.Start)
	end := f.Position(sp.End)
	total := f.LineCount()
	if start.Line == 0 || int(start.Line) > total {
		return
	}

	first := max(1, int(start.Line)-context)
	last := min(total, int(start.Line)+context)
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := strings.TrimRight(f.GetLine(uint32(ln)), "\r\n") //nolint:gosec // ln <= LineCount
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != int(start.Line) {
			continue
		}

		startCol := int(start.Col) - 1
		startCol = min(startCol, len(text))
		endCol := len(text)
		if end.Line == start.Line {
			endCol = min(int(end.Col)-1, len(text))
		}
		pad := displayPrefix(text[:startCol])
		width := max(1, runewidth.StringWidth(text[startCol:max(startCol, endCol)]))
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pad, pal.caret.Sprint(marker))
	}
}

// displayPrefix turns the text before the caret into blanks of the same
// display width; tabs are kept so the terminal expands them identically.
func displayPrefix(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
