package lsp

import (
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"gocst/internal/cst"
	"gocst/internal/source"
	"gocst/internal/token"
)

// foldableKinds are the nodes that get a folding range when they span more
// than one line.
var foldableKinds = map[cst.Kind]bool{
	cst.KindBlock:         true,
	cst.KindStructType:    true,
	cst.KindInterfaceType: true,
	cst.KindLiteralValue:  true,
	cst.KindArgList:       true,
	cst.KindParams:        true,
	cst.KindImportDecl:    true,
	cst.KindConstDecl:     true,
	cst.KindVarDecl:       true,
	cst.KindTypeDecl:      true,
	cst.KindSwitchStmt:    true,
	cst.KindSelectStmt:    true,
}

func buildFoldingRanges(file *source.File, root *cst.Node) []protocol.FoldingRange {
	if file == nil || root == nil {
		return nil
	}
	// на одной строке оставляем самый длинный диапазон
	byStart := make(map[protocol.UInteger]protocol.FoldingRange)
	add := func(span source.Span, kind string) {
		start := positionForOffsetInFile(file, span.Start).Line
		end := positionForOffsetInFile(file, spanLastOffset(span)).Line
		if start >= end {
			return
		}
		if prev, ok := byStart[start]; ok && prev.EndLine >= end {
			return
		}
		rng := protocol.FoldingRange{StartLine: start, EndLine: end}
		if kind != "" {
			k := kind
			rng.Kind = &k
		}
		byStart[start] = rng
	}

	cst.Walk(root, func(n *cst.Node, _ int) bool {
		if !foldableKinds[n.Kind] {
			return true
		}
		kind := ""
		if n.Kind == cst.KindImportDecl {
			kind = string(protocol.FoldingRangeKindImports)
		}
		add(n.Span, kind)
		return true
	})
	addCommentRanges(file, root, add)

	ranges := make([]protocol.FoldingRange, 0, len(byStart))
	for _, rng := range byStart {
		ranges = append(ranges, rng)
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}

// addCommentRanges folds multi-line block comments and runs of line comments
// on consecutive lines.
func addCommentRanges(file *source.File, root *cst.Node, add func(source.Span, string)) {
	kind := string(protocol.FoldingRangeKindComment)
	var (
		run      source.Span
		runLine  protocol.UInteger
		inRun    bool
		flushRun = func() {
			if inRun {
				add(run, kind)
			}
			inRun = false
		}
	)
	for _, tok := range cst.Leaves(root) {
		switch tok.Kind {
		case token.BlockComment:
			flushRun()
			add(tok.Span, kind)
		case token.LineComment:
			line := positionForOffsetInFile(file, tok.Span.Start).Line
			if inRun && line == runLine+1 {
				run.End = tok.Span.End
			} else {
				flushRun()
				run, inRun = tok.Span, true
			}
			runLine = line
		case token.Whitespace, token.Newline:
		default:
			flushRun()
		}
	}
	flushRun()
}

func spanLastOffset(span source.Span) uint32 {
	if span.End > span.Start {
		return span.End - 1
	}
	return span.End
}
