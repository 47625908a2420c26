package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"gocst/internal/cst"
	"gocst/internal/source"
)

// CheckTreeInvariants runs the structural checks every parsed tree must pass:
// 1) concatenated leaf text reproduces the file content exactly
// 2) every span points at sf and stays inside the content
// 3) children are ordered and contained in their parent's span
// 4) a leaf's span and text match its token and the source
// 5) error nodes carry a diagnostic code and a message
func CheckTreeInvariants(root *cst.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if got := cst.Text(root); got != string(sf.Content) {
		return fmt.Errorf("tree text differs from source: %d bytes vs %d", len(got), len(sf.Content))
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(root, sf, lenContent)
}

func checkNode(n *cst.Node, sf *source.File, limit uint32) error {
	sp := n.Span
	if sp.File != sf.ID {
		return fmt.Errorf("%s span points to different file id: got=%d want=%d", n.Kind, sp.File, sf.ID)
	}
	if sp.End < sp.Start || sp.End > limit {
		return fmt.Errorf("%s span %d..%d out of bounds (content %d)", n.Kind, sp.Start, sp.End, limit)
	}

	if n.IsLeaf() {
		if n.Token == nil {
			return fmt.Errorf("leaf without token at %d", sp.Start)
		}
		if n.Token.Span != sp {
			return fmt.Errorf("leaf span %v differs from token span %v", sp, n.Token.Span)
		}
		if text := sf.Text(sp); text != n.Token.Text {
			return fmt.Errorf("token %s text %q differs from source %q", n.Token.Kind, n.Token.Text, text)
		}
		return nil
	}

	if n.Kind == cst.KindError && (n.Code == 0 || n.Message == "") {
		return fmt.Errorf("error node at %d..%d without code or message", sp.Start, sp.End)
	}

	prevEnd := sp.Start
	for i, c := range n.Children {
		if c.Span.Start < prevEnd {
			return fmt.Errorf("%s child %d (%s) starts at %d before %d", n.Kind, i, c.Kind, c.Span.Start, prevEnd)
		}
		if c.Span.End > sp.End {
			return fmt.Errorf("%s child %d (%s) ends at %d after parent end %d", n.Kind, i, c.Kind, c.Span.End, sp.End)
		}
		if err := checkNode(c, sf, limit); err != nil {
			return err
		}
		prevEnd = c.Span.End
	}
	return nil
}
