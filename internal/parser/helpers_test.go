package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/parser"
	"gocst/internal/source"
	"gocst/internal/testkit"
)

func parseSource(t *testing.T, src string) (*cst.Node, *diag.Bag) {
	t.Helper()
	return parseWith(t, src, parser.Options{})
}

func parseWith(t *testing.T, src string, opts parser.Options) (*cst.Node, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	file := fs.Get(fs.AddVirtual("test.go", []byte(src)))
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	res := parser.ParseFile(file, opts)
	if res.Root == nil {
		t.Fatalf("nil root for %q", src)
	}
	if got := cst.Text(res.Root); got != src {
		t.Fatalf("tree is not lossless:\nwant %q\ngot  %q", src, got)
	}
	if err := testkit.CheckTreeInvariants(res.Root, file); err != nil {
		t.Fatalf("tree invariants for %q: %v", src, err)
	}
	return res.Root, bag
}

// parseClean parses src and fails on any diagnostic.
func parseClean(t *testing.T, src string) *cst.Node {
	t.Helper()
	root, bag := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics for %q: %s", src, diagnosticsSummary(bag))
	}
	if errs := cst.Errors(root); len(errs) != 0 {
		t.Fatalf("unexpected error nodes for %q: %d", src, len(errs))
	}
	return root
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// significant returns the kinds of n's children, skipping trivia and
// terminator leaves.
func significant(n *cst.Node) []string {
	var out []string
	for _, c := range n.Children {
		if c.IsLeaf() {
			if c.IsTrivia() || c.Token.Kind.IsTerminator() {
				continue
			}
			out = append(out, c.Token.Kind.String())
			continue
		}
		out = append(out, c.Kind.String())
	}
	return out
}

func codeCount(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func treeDepth(root *cst.Node) int {
	deepest := 0
	cst.Walk(root, func(_ *cst.Node, depth int) bool {
		deepest = max(deepest, depth)
		return true
	})
	return deepest
}

func count(root *cst.Node, kind cst.Kind) int {
	return len(cst.Find(root, kind))
}

func expectCount(t *testing.T, root *cst.Node, kind cst.Kind, want int) {
	t.Helper()
	if got := count(root, kind); got != want {
		t.Fatalf("%s: want %d nodes, got %d", kind, want, got)
	}
}

func wrapFunc(body string) string {
	return "package p\n\nfunc f() {\n" + body + "\n}\n"
}
