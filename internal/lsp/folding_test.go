package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"gocst/internal/cst"
	"gocst/internal/parser"
	"gocst/internal/source"
)

func parseDoc(t *testing.T, src string) (*source.File, *cst.Node) {
	t.Helper()
	file := testFile(t, src)
	res := parser.ParseFile(file, parser.Options{})
	if res.Root == nil {
		t.Fatalf("no tree")
	}
	return file, res.Root
}

func findFolding(ranges []protocol.FoldingRange, start, end protocol.UInteger) *protocol.FoldingRange {
	for i := range ranges {
		if ranges[i].StartLine == start && ranges[i].EndLine == end {
			return &ranges[i]
		}
	}
	return nil
}

func TestFoldingRanges(t *testing.T) {
	src := strings.Join([]string{
		"package p",
		"",
		"import (",
		"\t\"fmt\"",
		"\t\"os\"",
		")",
		"",
		"// Doc line one.",
		"// Doc line two.",
		"func main() {",
		"\tif true {",
		"\t\tfmt.Println(os.Args)",
		"\t}",
		"}",
		"",
	}, "\n")
	file, root := parseDoc(t, src)
	ranges := buildFoldingRanges(file, root)

	imports := findFolding(ranges, 2, 5)
	if imports == nil || imports.Kind == nil || *imports.Kind != string(protocol.FoldingRangeKindImports) {
		t.Fatalf("missing import range: %+v", ranges)
	}
	comments := findFolding(ranges, 7, 8)
	if comments == nil || comments.Kind == nil || *comments.Kind != string(protocol.FoldingRangeKindComment) {
		t.Fatalf("missing comment range: %+v", ranges)
	}
	if findFolding(ranges, 9, 13) == nil {
		t.Fatalf("missing function body range: %+v", ranges)
	}
	if findFolding(ranges, 10, 12) == nil {
		t.Fatalf("missing if body range: %+v", ranges)
	}
	if len(ranges) != 4 {
		t.Fatalf("want 4 ranges, got %+v", ranges)
	}
}

func TestFoldingOneRangePerLine(t *testing.T) {
	src := "package p\nvar x = []int{\n\t1,\n}\nfunc f() { g(func() {\n\t})\n}\n"
	file, root := parseDoc(t, src)
	ranges := buildFoldingRanges(file, root)
	seen := map[protocol.UInteger]bool{}
	for _, r := range ranges {
		if seen[r.StartLine] {
			t.Fatalf("duplicate start line %d in %+v", r.StartLine, ranges)
		}
		seen[r.StartLine] = true
	}
	// f: BLOCK 4..6 длиннее ARG_LIST 4..5
	if findFolding(ranges, 4, 6) == nil || findFolding(ranges, 4, 5) != nil {
		t.Fatalf("longest range must win: %+v", ranges)
	}
	if findFolding(ranges, 1, 3) == nil {
		t.Fatalf("missing literal range: %+v", ranges)
	}
}

func TestFoldingSingleLineNothing(t *testing.T) {
	file, root := parseDoc(t, "package p\nfunc f() { return }\n")
	if ranges := buildFoldingRanges(file, root); len(ranges) != 0 {
		t.Fatalf("unexpected ranges: %+v", ranges)
	}
	if ranges := buildFoldingRanges(nil, nil); ranges != nil {
		t.Fatalf("nil input: %+v", ranges)
	}
}
