package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gocst/internal/cst"
	"gocst/internal/source"
)

// TreeNodeOutput is the JSON shape of a tree node.
type TreeNodeOutput struct {
	Kind     string           `json:"kind"`
	Span     source.Span      `json:"span"`
	Token    string           `json:"token,omitempty"`
	Text     string           `json:"text,omitempty"`
	Code     string           `json:"code,omitempty"`
	Message  string           `json:"message,omitempty"`
	Children []TreeNodeOutput `json:"children,omitempty"`
}

// FormatTreePretty prints the tree one node per line with box-drawing
// indentation:
//
//	FILE 0..42
//	├─ PACKAGE_CLAUSE 0..12
//	│  ├─ package "package"
func FormatTreePretty(w io.Writer, root *cst.Node, fs *source.FileSet, opts TreeOpts) error {
	if root == nil {
		return fmt.Errorf("empty tree")
	}
	var b strings.Builder
	b.WriteString(nodeLabel(root, fs, opts))
	b.WriteByte('\n')
	writeChildren(&b, root, "", fs, opts)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeChildren(b *strings.Builder, n *cst.Node, prefix string, fs *source.FileSet, opts TreeOpts) {
	children := visibleChildren(n, opts)
	for i, c := range children {
		last := i == len(children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(nodeLabel(c, fs, opts))
		b.WriteByte('\n')
		writeChildren(b, c, prefix+next, fs, opts)
	}
}

func visibleChildren(n *cst.Node, opts TreeOpts) []*cst.Node {
	if opts.Trivia {
		return n.Children
	}
	out := make([]*cst.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsTrivia() {
			out = append(out, c)
		}
	}
	return out
}

func nodeLabel(n *cst.Node, fs *source.FileSet, opts TreeOpts) string {
	var b strings.Builder
	if n.IsLeaf() {
		b.WriteString(n.TokenKind().String())
		fmt.Fprintf(&b, " %q", n.Token.Text)
	} else {
		b.WriteString(n.Kind.String())
	}
	b.WriteByte(' ')
	b.WriteString(spanLabel(n.Span, fs, opts))
	if n.Kind == cst.KindError {
		fmt.Fprintf(&b, " %s: %s", n.Code.ID(), n.Message)
	}
	return b.String()
}

func spanLabel(sp source.Span, fs *source.FileSet, opts TreeOpts) string {
	if opts.Positions {
		if f := fileOf(fs, sp); f != nil {
			start, end := f.Position(sp.Start), f.Position(sp.End)
			return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		}
	}
	return fmt.Sprintf("%d..%d", sp.Start, sp.End)
}

// BuildTreeOutput converts the tree into its JSON shape.
func BuildTreeOutput(n *cst.Node, opts TreeOpts) TreeNodeOutput {
	out := TreeNodeOutput{
		Kind: n.Kind.String(),
		Span: n.Span,
	}
	if n.IsLeaf() {
		out.Token = n.TokenKind().String()
		out.Text = n.Token.Text
	}
	if n.Kind == cst.KindError {
		out.Code = n.Code.ID()
		out.Message = n.Message
	}
	for _, c := range visibleChildren(n, opts) {
		out.Children = append(out.Children, BuildTreeOutput(c, opts))
	}
	return out
}

// FormatTreeJSON writes the tree as nested JSON objects.
func FormatTreeJSON(w io.Writer, root *cst.Node, opts TreeOpts) error {
	if root == nil {
		return fmt.Errorf("empty tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(root, opts))
}
