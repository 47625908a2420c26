package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"gocst/internal/cst"
)

type graphNode struct {
	label    string
	children []*graphNode
}

// graphBlock is a rendered subtree: rows padded to width, root is the column
// of the subtree label's centre.
type graphBlock struct {
	rows  []string
	width int
	root  int
}

const graphSpacing = 3

// FormatTreeGraph draws the tree top-down in ASCII. It is meant for small
// inputs; leaves show their token text.
func FormatTreeGraph(w io.Writer, root *cst.Node, opts TreeOpts) error {
	if root == nil {
		return fmt.Errorf("empty tree")
	}
	block := renderGraph(buildGraphNode(root, opts))
	for _, row := range block.rows {
		if _, err := fmt.Fprintln(w, strings.TrimRight(row, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildGraphNode(n *cst.Node, opts TreeOpts) *graphNode {
	if n.IsLeaf() {
		// %+q экранирует не-ASCII, ширина метки равна len
		return &graphNode{label: fmt.Sprintf("%+q", n.Token.Text)}
	}
	g := &graphNode{label: n.Kind.String()}
	for _, c := range visibleChildren(n, opts) {
		g.children = append(g.children, buildGraphNode(c, opts))
	}
	return g
}

func renderGraph(n *graphNode) graphBlock {
	if len(n.children) == 0 {
		return graphBlock{rows: []string{n.label}, width: len(n.label), root: len(n.label) / 2}
	}

	blocks := make([]graphBlock, len(n.children))
	anchors := make([]int, len(n.children))
	height, offset := 0, 0
	for i, c := range n.children {
		blocks[i] = renderGraph(c)
		anchors[i] = offset + blocks[i].root
		offset += blocks[i].width + graphSpacing
		height = max(height, len(blocks[i].rows))
	}
	childrenWidth := offset - graphSpacing

	// метка центрируется над крайними детьми; если не влезает слева,
	// сдвигаем детей вправо
	centre := (anchors[0] + anchors[len(anchors)-1]) / 2
	labelStart := centre - len(n.label)/2
	shift := 0
	if labelStart < 0 {
		shift = -labelStart
		labelStart = 0
		centre += shift
	}
	width := max(childrenWidth+shift, labelStart+len(n.label))

	rows := make([]string, 0, height+2)
	rows = append(rows, pad(strings.Repeat(" ", labelStart)+n.label, width))

	connector := []byte(strings.Repeat(" ", width))
	for _, a := range anchors {
		switch pos := a + shift; {
		case pos < centre:
			connector[pos] = '/'
		case pos > centre:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}
	if connector[centre] == ' ' {
		connector[centre] = '|'
	}
	rows = append(rows, string(connector))

	for r := range height {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", shift))
		for i, blk := range blocks {
			line := ""
			if r < len(blk.rows) {
				line = blk.rows[r]
			}
			b.WriteString(pad(line, blk.width))
			if i != len(blocks)-1 {
				b.WriteString(strings.Repeat(" ", graphSpacing))
			}
		}
		rows = append(rows, pad(b.String(), width))
	}
	return graphBlock{rows: rows, width: width, root: centre}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
