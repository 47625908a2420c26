package cst

import "gocst/internal/diag"

type eventKind uint8

const (
	evStart eventKind = iota
	evFinish
	evToken
)

// event is one step of the parse, replayed by Finish to build the tree.
type event struct {
	kind eventKind
	node Kind
	// forwardParent is the distance to the start event of a node that was
	// opened later (Precede) but wraps this one.
	forwardParent int
	// wraps is the distance back to the start event this node was opened to
	// wrap by Precede, or 0.
	wraps int
	// raw is the index into Builder.tokens: the consumed token for evToken,
	// the next significant token for evStart.
	raw  int
	code diag.Code
	msg  string
}
