package cst_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/lexer"
	"gocst/internal/source"
	"gocst/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T, src string) (*cst.Builder, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.go", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(file, lexer.Options{})
	return cst.NewBuilder(file, toks, diag.BagReporter{Bag: bag}), bag
}

func catchPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				e = fmt.Errorf("%v", r)
			}
			err = e
		}
	}()
	fn()
	return nil
}

func kinds(nodes []*cst.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.IsLeaf() {
			out = append(out, n.Token.Kind.String())
			continue
		}
		out = append(out, n.Kind.String())
	}
	return out
}

func TestPeekSkipsTrivia(t *testing.T) {
	b, _ := newBuilder(t, "a /* c */ b // d\n")
	assert.Equal(t, token.Ident, b.Peek(0))
	assert.Equal(t, "b", b.PeekToken(1).Text)
	assert.Equal(t, token.Newline, b.Peek(2))
	assert.Equal(t, token.EOF, b.Peek(3))
	assert.Equal(t, token.EOF, b.Peek(100))

	b.Advance()
	assert.Equal(t, 1, b.Pos())
	assert.True(t, b.Eat(token.Ident))
	assert.False(t, b.Eat(token.Ident))
}

func TestAdvanceAtEOFIsNoop(t *testing.T) {
	b, _ := newBuilder(t, "")
	root := b.Mark()
	require.True(t, b.EOF())
	b.Advance()
	assert.Equal(t, 0, b.Pos())
	root.Complete(cst.KindFile)
	tree := b.Finish()
	assert.Equal(t, cst.KindFile, tree.Kind)
	assert.Empty(t, tree.Children)
}

func TestLeadingTriviaGoesToParent(t *testing.T) {
	src := "  x  y  "
	b, _ := newBuilder(t, src)
	root := b.Mark()
	list := b.Mark()
	b.Advance()
	b.Advance()
	list.Complete(cst.KindExprList)
	root.Complete(cst.KindFile)
	tree := b.Finish()

	require.Equal(t, src, cst.Text(tree))
	assert.Equal(t, []string{"Whitespace", "EXPR_LIST", "Whitespace"}, kinds(tree.Children))

	inner := tree.Children[1]
	assert.Equal(t, []string{"Ident", "Whitespace", "Ident"}, kinds(inner.Children))
	assert.Equal(t, uint32(2), inner.Span.Start)
	assert.Equal(t, uint32(6), inner.Span.End)
	assert.Equal(t, uint32(0), tree.Span.Start)
	assert.Equal(t, uint32(len(src)), tree.Span.End)
}

func TestRollbackRestoresCursor(t *testing.T) {
	b, _ := newBuilder(t, "a b c")
	root := b.Mark()
	b.Advance()

	spec := b.Mark()
	b.Advance()
	b.Advance()
	b.Error(diag.SynExpectExpression, "speculative error")
	require.True(t, b.EOF())
	spec.Rollback()

	assert.Equal(t, 1, b.Pos())
	assert.Equal(t, "b", b.PeekToken(0).Text)
	b.Advance()
	b.Advance()
	root.Complete(cst.KindFile)

	tree := b.Finish()
	assert.Equal(t, "a b c", cst.Text(tree))
	assert.Empty(t, cst.Errors(tree), "rolled back errors must not survive")
}

func TestRolledBackErrorsAreNotReported(t *testing.T) {
	b, bag := newBuilder(t, "x")
	root := b.Mark()
	spec := b.Mark()
	b.Error(diag.SynExpectType, "never reported")
	spec.Rollback()
	b.Advance()
	root.Complete(cst.KindFile)
	b.Finish()
	assert.Zero(t, bag.Len())
}

func TestHasErrorsSeesNestedErrors(t *testing.T) {
	b, _ := newBuilder(t, "a b")
	root := b.Mark()
	spec := b.Mark()
	b.Advance()
	assert.False(t, spec.HasErrors())
	inner := b.Mark()
	b.Error(diag.SynExpectType, "missing")
	inner.Complete(cst.KindTypeName)
	assert.True(t, spec.HasErrors())
	spec.Rollback()
	b.Advance()
	b.Advance()
	root.Complete(cst.KindFile)
	require.Empty(t, cst.Errors(b.Finish()))
}

func TestDropReparentsTokens(t *testing.T) {
	b, _ := newBuilder(t, "a b")
	root := b.Mark()
	m := b.Mark()
	b.Advance()
	inner := b.Mark()
	b.Advance()
	inner.Complete(cst.KindIdent)
	m.Drop()
	root.Complete(cst.KindFile)
	tree := b.Finish()
	assert.Equal(t, []string{"Ident", "Whitespace", "IDENT"}, kinds(tree.Children))
}

func TestPrecedeWrapsCompletedNode(t *testing.T) {
	b, _ := newBuilder(t, "a + b")
	root := b.Mark()
	lhs := b.Mark()
	b.Advance()
	done := lhs.Complete(cst.KindIdent)
	bin := done.Precede()
	b.Advance()
	rhs := b.Mark()
	b.Advance()
	rhs.Complete(cst.KindIdent)
	bin.Complete(cst.KindBinaryExpr)
	root.Complete(cst.KindFile)
	tree := b.Finish()

	require.Len(t, tree.Children, 1)
	expr := tree.Children[0]
	assert.Equal(t, cst.KindBinaryExpr, expr.Kind)
	assert.Equal(t, []string{"IDENT", "Whitespace", "+", "Whitespace", "IDENT"}, kinds(expr.Children))
	assert.Equal(t, uint32(0), expr.Span.Start)
	assert.Equal(t, uint32(5), expr.Span.End)
}

func TestPrecedeTwiceNests(t *testing.T) {
	b, _ := newBuilder(t, "a.b.c")
	root := b.Mark()
	m := b.Mark()
	b.Advance()
	cm := m.Complete(cst.KindIdent)
	for range 2 {
		sel := cm.Precede()
		b.Advance()
		b.Advance()
		cm = sel.Complete(cst.KindSelectorExpr)
	}
	root.Complete(cst.KindFile)
	tree := b.Finish()

	outer := tree.Children[0]
	require.Equal(t, cst.KindSelectorExpr, outer.Kind)
	assert.Equal(t, "a.b.c", outer.Text())
	require.Equal(t, cst.KindSelectorExpr, outer.Children[0].Kind)
	assert.Equal(t, "a.b", outer.Children[0].Text())
}

func TestOutOfOrderCompletionPanics(t *testing.T) {
	b, _ := newBuilder(t, "a")
	outer := b.Mark()
	inner := b.Mark()
	err := catchPanic(func() { outer.Complete(cst.KindFile) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, cst.ErrMarkerOrder))

	inner.Drop()
	err = catchPanic(func() { inner.Rollback() })
	assert.True(t, errors.Is(err, cst.ErrMarkerOrder), "resolving twice must panic")
}

func TestFinishWithOpenMarkersPanics(t *testing.T) {
	b, _ := newBuilder(t, "a")
	b.Mark()
	err := catchPanic(func() { b.Finish() })
	assert.True(t, errors.Is(err, cst.ErrMarkerOrder))
}

func TestZeroWidthErrorIsReported(t *testing.T) {
	b, bag := newBuilder(t, "f(")
	root := b.Mark()
	b.Advance()
	b.Advance()
	b.Error(diag.SynUnclosedParen, "expected ')'")
	root.Complete(cst.KindFile)
	tree := b.Finish()

	errs := cst.Errors(tree)
	require.Len(t, errs, 1)
	assert.True(t, errs[0].Span.Empty())
	assert.Equal(t, uint32(2), errs[0].Span.Start)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.SynUnclosedParen, bag.Items()[0].Code)
	assert.Equal(t, "f(", cst.Text(tree))
}

func TestCompleteErrorWrapsTokens(t *testing.T) {
	b, bag := newBuilder(t, "@ x")
	root := b.Mark()
	m := b.Mark()
	b.Advance()
	m.CompleteError(diag.SynUnexpectedTopLevel, "unexpected token")
	b.Advance()
	root.Complete(cst.KindFile)
	tree := b.Finish()

	errs := cst.Errors(tree)
	require.Len(t, errs, 1)
	assert.Equal(t, "@", errs[0].Text())
	assert.Equal(t, diag.SynUnexpectedTopLevel, errs[0].Code)
	assert.Equal(t, 1, bag.Len())
}

func TestMaxErrorsBoundsReporting(t *testing.T) {
	b, bag := newBuilder(t, "a b c d e")
	b.SetMaxErrors(2)
	root := b.Mark()
	for !b.EOF() {
		m := b.Mark()
		b.Advance()
		m.CompleteError(diag.SynUnexpectedToken, "bad")
	}
	root.Complete(cst.KindFile)
	tree := b.Finish()
	assert.Len(t, cst.Errors(tree), 5)
	require.Equal(t, 3, bag.Len())
	assert.Equal(t, diag.SynTooManyErrors, bag.Items()[2].Code)
}

func TestPrecedeOlderSibling(t *testing.T) {
	b, _ := newBuilder(t, "a b c")
	root := b.Mark()
	m := b.Mark()
	b.Advance()
	first := m.Complete(cst.KindIdent)
	m = b.Mark()
	b.Advance()
	m.Complete(cst.KindIdent)
	list := first.Precede()
	b.Advance()
	list.Complete(cst.KindExprList)
	root.Complete(cst.KindFile)
	tree := b.Finish()

	require.Len(t, tree.Children, 1)
	assert.Equal(t, cst.KindExprList, tree.Children[0].Kind)
	assert.Equal(t, "a b c", tree.Children[0].Text())
	assert.Equal(t, []string{"IDENT", "Whitespace", "IDENT", "Whitespace", "Ident"}, kinds(tree.Children[0].Children))
}

func TestPrecedeAcrossOpenMarkerPanics(t *testing.T) {
	b, _ := newBuilder(t, "a b c d")
	root := b.Mark()
	m := b.Mark()
	b.Advance()
	done := m.Complete(cst.KindIdent)
	guess := b.Mark()
	b.Advance()
	err := catchPanic(func() { done.Precede() })
	require.Error(t, err)
	assert.True(t, errors.Is(err, cst.ErrMarkerOrder))

	// the failed call left no marker behind
	guess.Rollback()
	for !b.EOF() {
		n := b.Mark()
		b.Advance()
		n.Complete(cst.KindIdent)
	}
	root.Complete(cst.KindFile)
	tree := b.Finish()
	assert.Equal(t, "a b c d", cst.Text(tree))
	assert.Len(t, cst.Find(tree, cst.KindIdent), 4)
}

func TestPrecedeEnclosedNodePanics(t *testing.T) {
	b, _ := newBuilder(t, "a b")
	root := b.Mark()
	outer := b.Mark()
	inner := b.Mark()
	b.Advance()
	done := inner.Complete(cst.KindIdent)
	outer.Complete(cst.KindExprList)
	err := catchPanic(func() { done.Precede() })
	assert.True(t, errors.Is(err, cst.ErrMarkerOrder))

	wrapped := b.Mark()
	b.Advance()
	cm := wrapped.Complete(cst.KindIdent)
	cm.Precede().Complete(cst.KindExprStmt)
	err = catchPanic(func() { cm.Precede() })
	assert.True(t, errors.Is(err, cst.ErrMarkerOrder), "a node can be preceded once")

	root.Complete(cst.KindFile)
	assert.Equal(t, "a b", cst.Text(b.Finish()))
}

func TestPrecedeAfterRollbackOfWrapper(t *testing.T) {
	b, _ := newBuilder(t, "a b")
	root := b.Mark()
	m := b.Mark()
	b.Advance()
	done := m.Complete(cst.KindIdent)
	p := done.Precede()
	b.Advance()
	p.Rollback()
	require.Equal(t, 1, b.Pos())

	p = done.Precede()
	b.Advance()
	p.Complete(cst.KindExprStmt)
	root.Complete(cst.KindFile)
	tree := b.Finish()
	require.Len(t, tree.Children, 1)
	assert.Equal(t, cst.KindExprStmt, tree.Children[0].Kind)
	assert.Equal(t, "a b", tree.Children[0].Text())
}

// markerFrame mirrors one open marker in TestRandomMarkerInterleavings: the
// completed nodes that are still its direct children, and the ones it took
// over from its parent through Precede (they go back on Rollback).
type markerFrame struct {
	m     cst.Marker
	kids  []cst.CompletedMarker
	moved []cst.CompletedMarker
}

// TestRandomMarkerInterleavings drives the builder with random but well
// nested marker operations, preceding any completed direct child of the
// innermost marker, and checks the result stays lossless.
func TestRandomMarkerInterleavings(t *testing.T) {
	src := "package p\n\n// doc\nfunc f(a, b int) int {\n\treturn a + b /* sum */\n}\n"
	kindsPool := []cst.Kind{cst.KindIdent, cst.KindExprList, cst.KindBlock, cst.KindCallExpr, cst.KindError}

	for seed := int64(1); seed <= 100; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
			b, _ := newBuilder(t, src)
			frames := []*markerFrame{{m: b.Mark()}}

			require.NotPanics(t, func() {
				for step := 0; step < 400 && !b.EOF(); step++ {
					top := frames[len(frames)-1]
					switch r := rng.Intn(10); {
					case r < 3:
						frames = append(frames, &markerFrame{m: b.Mark()})
					case r < 6:
						b.Advance()
					case r < 8 && len(frames) > 1:
						frames = frames[:len(frames)-1]
						parent := frames[len(frames)-1]
						switch rng.Intn(3) {
						case 0:
							top.m.Rollback()
							parent.kids = append(parent.kids, top.moved...)
						case 1:
							top.m.Drop()
							parent.kids = append(parent.kids, top.kids...)
						default:
							parent.kids = append(parent.kids, top.m.Complete(kindsPool[rng.Intn(len(kindsPool))]))
						}
					case r >= 8:
						// первый ребёнок маркера из Precede уже обёрнут им самим
						lo := 0
						if len(top.moved) > 0 {
							lo = 1
						}
						if len(top.kids) <= lo {
							continue
						}
						k := lo + rng.Intn(len(top.kids)-lo)
						moved := append([]cst.CompletedMarker(nil), top.kids[k:]...)
						top.kids = top.kids[:k]
						frames = append(frames, &markerFrame{
							m:     moved[0].Precede(),
							kids:  append([]cst.CompletedMarker(nil), moved...),
							moved: moved,
						})
					}
				}
				for len(frames) > 1 {
					top := frames[len(frames)-1]
					frames = frames[:len(frames)-1]
					parent := frames[len(frames)-1]
					parent.kids = append(parent.kids, top.m.Complete(cst.KindBlock))
				}
				for !b.EOF() {
					b.Advance()
				}
				frames[0].m.Complete(cst.KindFile)
			})

			var tree *cst.Node
			require.NotPanics(t, func() { tree = b.Finish() })
			require.Equal(t, src, cst.Text(tree))
			leaves := cst.Leaves(tree)
			var sb strings.Builder
			for _, l := range leaves {
				sb.WriteString(l.Text)
			}
			require.Equal(t, src, sb.String())
			checkNesting(t, tree)
		})
	}
}

func checkNesting(t *testing.T, n *cst.Node) {
	t.Helper()
	for _, c := range n.Children {
		require.True(t, n.Span.Contains(c.Span), "%s %v does not contain %s %v", n.Kind, n.Span, c.Kind, c.Span)
		checkNesting(t, c)
	}
	if !n.IsLeaf() && n.Kind != cst.KindFile && len(n.Children) > 0 {
		assert.False(t, n.Children[0].IsTrivia(), "%s starts with trivia", n.Kind)
		assert.False(t, n.Children[len(n.Children)-1].IsTrivia(), "%s ends with trivia", n.Kind)
	}
}
