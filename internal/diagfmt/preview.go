package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"gocst/internal/diag"
	"gocst/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview applies edit to the whole lines it touches and returns
// them before and after the change.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	file := fileOf(fs, edit.Span)
	if file == nil {
		return fixEditPreview{}, errors.New("edit refers to an unknown file")
	}
	if edit.Span.End < edit.Span.Start || int(edit.Span.End) > len(file.Content) {
		return fixEditPreview{}, fmt.Errorf("edit span %d-%d out of range", edit.Span.Start, edit.Span.End)
	}

	blockStart := lineStart(file.Content, int(edit.Span.Start))
	blockEnd := lineEnd(file.Content, int(edit.Span.End))
	original := string(file.Content[blockStart:blockEnd])

	relStart := int(edit.Span.Start) - blockStart
	relEnd := int(edit.Span.End) - blockStart
	changed := original[:relStart] + edit.NewText + original[relEnd:]

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(changed),
	}, nil
}

func lineStart(content []byte, off int) int {
	for off > 0 && content[off-1] != '\n' {
		off--
	}
	return off
}

func lineEnd(content []byte, off int) int {
	for off < len(content) && content[off] != '\n' {
		off++
	}
	return off
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
