package cst

import (
	"gocst/internal/source"
	"gocst/internal/token"
)

// treeBuilder replays Builder events. Trivia between significant tokens is
// flushed lazily: before a node opens (so it lands in the parent) and before
// each token (so it lands in the innermost open node).
type treeBuilder struct {
	b      *Builder
	stack  []*Node
	cursor int // следующий ещё не выданный индекс в b.tokens
}

func (t *treeBuilder) build() *Node {
	holder := &Node{Kind: KindFile}
	t.stack = []*Node{holder}
	events := t.b.events
	chain := make([]int, 0, 4)

	for i := range events {
		ev := events[i]
		switch ev.kind {
		case evStart:
			if ev.node == kindTombstone {
				continue
			}
			chain = chain[:0]
			for idx := i; ; {
				chain = append(chain, idx)
				fp := events[idx].forwardParent
				if fp == 0 {
					break
				}
				idx += fp
			}
			// у корня нет родителя: ведущие trivia файла остаются внутри него
			if len(t.stack) > 1 {
				t.flushTrivia(ev.raw)
			}
			for j := len(chain) - 1; j >= 0; j-- {
				se := events[chain[j]]
				t.open(se)
				if j != 0 {
					events[chain[j]].node = kindTombstone
				}
			}
		case evFinish:
			if len(t.stack) == 2 && t.stack[0] == holder && t.isLastFinish(i) {
				t.flushRest()
			}
			t.close()
		case evToken:
			t.flushTrivia(ev.raw)
			t.leaf(ev.raw)
			t.cursor = ev.raw + 1
		}
	}

	t.flushRest()
	if len(holder.Children) == 1 && !holder.Children[0].IsLeaf() {
		return holder.Children[0]
	}
	holder.Span = t.spanOf(holder, t.eofOffset())
	return holder
}

// isLastFinish reports whether no further token or start event follows i.
func (t *treeBuilder) isLastFinish(i int) bool {
	for _, ev := range t.b.events[i+1:] {
		if ev.kind == evToken || (ev.kind == evStart && ev.node != kindTombstone) {
			return false
		}
	}
	return true
}

func (t *treeBuilder) open(ev event) {
	n := &Node{Kind: ev.node, Code: ev.code, Message: ev.msg}
	n.Span = t.b.tokens[ev.raw].Span.ZeroideToStart()
	top := t.stack[len(t.stack)-1]
	top.Children = append(top.Children, n)
	t.stack = append(t.stack, n)
}

func (t *treeBuilder) close() {
	n := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	n.Span = t.spanOf(n, n.Span.Start)
}

func (t *treeBuilder) spanOf(n *Node, emptyAt uint32) source.Span {
	if len(n.Children) == 0 {
		file := source.FileID(0)
		if t.b.file != nil {
			file = t.b.file.ID
		}
		return source.Span{File: file, Start: emptyAt, End: emptyAt}
	}
	first, last := n.Children[0].Span, n.Children[len(n.Children)-1].Span
	return source.Span{File: first.File, Start: first.Start, End: last.End}
}

func (t *treeBuilder) leaf(raw int) {
	tok := t.b.tokens[raw]
	top := t.stack[len(t.stack)-1]
	top.Children = append(top.Children, &Node{Kind: KindToken, Span: tok.Span, Token: &tok})
}

// flushTrivia emits the tokens before raw into the innermost open node.
// Token events arrive in stream order, so everything skipped here is trivia.
func (t *treeBuilder) flushTrivia(raw int) {
	for t.cursor < raw && t.cursor < len(t.b.tokens) {
		if t.b.tokens[t.cursor].Kind == token.EOF {
			return
		}
		t.leaf(t.cursor)
		t.cursor++
	}
}

// flushRest emits every remaining token except EOF into the innermost open
// node, significant ones included, so the root always covers the input.
func (t *treeBuilder) flushRest() {
	for t.cursor < len(t.b.tokens) {
		if t.b.tokens[t.cursor].Kind == token.EOF {
			return
		}
		t.leaf(t.cursor)
		t.cursor++
	}
}

func (t *treeBuilder) eofOffset() uint32 {
	return t.b.tokens[len(t.b.tokens)-1].Span.Start
}
