package cst

import (
	"errors"
	"fmt"

	"gocst/internal/diag"
)

// ErrMarkerOrder is the panic value (wrapped) for markers resolved out of
// LIFO order, resolved twice, or left open at Finish.
var ErrMarkerOrder = errors.New("cst: marker resolved out of order")

// Marker is an open checkpoint. Exactly one of Complete, CompleteError,
// Rollback or Drop must be called on it, innermost marker first.
type Marker struct {
	b     *Builder
	id    uint32
	event int
	pos   int
	// start is the position of the first token the node will own; it differs
	// from pos only for markers created by Precede.
	start int
	// origin is the start event of the first node the marker will own: its
	// own start event, or the origin of the node it wraps.
	origin int
	// preceded is the start event of the node this marker wraps, or -1.
	preceded int
}

// CompletedMarker refers to a finished node and allows wrapping it.
type CompletedMarker struct {
	b      *Builder
	event  int
	origin int
	finish int
	pos    int
	kind   Kind
}

// Complete closes the marker as a node of kind that owns everything consumed
// since Mark.
func (m Marker) Complete(kind Kind) CompletedMarker {
	m.b.pop(m, "complete")
	m.b.events[m.event].node = kind
	m.b.events = append(m.b.events, event{kind: evFinish})
	return CompletedMarker{
		b:      m.b,
		event:  m.event,
		origin: m.origin,
		finish: len(m.b.events) - 1,
		pos:    m.start,
		kind:   kind,
	}
}

// CompleteError closes the marker as an error node with a diagnostic.
func (m Marker) CompleteError(code diag.Code, msg string) CompletedMarker {
	cm := m.Complete(KindError)
	m.b.events[m.event].code = code
	m.b.events[m.event].msg = msg
	return cm
}

// Rollback discards everything recorded since the marker and restores the
// cursor to where the marker was set. Precede links from older nodes into the
// discarded events are cut as well.
func (m Marker) Rollback() {
	m.b.pop(m, "rollback")
	m.b.unlinkFrom(m.event)
	m.b.events = m.b.events[:m.event]
	m.b.pos = m.pos
}

// Drop forgets the marker; consumed tokens and nodes stay with the enclosing node.
func (m Marker) Drop() {
	m.b.pop(m, "drop")
	if m.event == len(m.b.events)-1 {
		m.b.unlinkFrom(m.event)
		m.b.events = m.b.events[:m.event]
	} else {
		m.b.events[m.event].node = kindTombstone
	}
	if m.preceded >= 0 {
		m.b.events[m.preceded].forwardParent = 0
	}
}

// Pos returns the significant-token position the marker was set at.
func (m Marker) Pos() int { return m.pos }

// HasErrors reports whether an error node was recorded since the marker.
// Speculative productions use it to reject an alternative that only parsed
// with recovery.
func (m Marker) HasErrors() bool {
	for _, ev := range m.b.events[m.event+1:] {
		if ev.kind == evStart && ev.node == KindError {
			return true
		}
	}
	return false
}

// Kind returns the kind the node was completed with.
func (cm CompletedMarker) Kind() Kind { return cm.kind }

// Pos returns the position of the first token owned by the node.
func (cm CompletedMarker) Pos() int { return cm.pos }

// Precede opens a new marker that will become the parent of the completed
// node and of everything recorded after it. Rolling it back restores the
// cursor to the point of Precede, not to the start of the wrapped node.
//
// The node must still be a direct child of the innermost open marker and must
// not be wrapped yet; otherwise Precede panics with ErrMarkerOrder.
func (cm CompletedMarker) Precede() Marker {
	b := cm.b
	b.checkPrecede(cm)
	m := b.Mark()
	b.events[cm.event].forwardParent = m.event - cm.event
	b.events[m.event].wraps = m.event - cm.event
	b.links = append(b.links, precedeLink{from: cm.event, to: m.event})
	b.open[len(b.open)-1].origin = cm.origin
	m.preceded = cm.event
	m.start = cm.pos
	m.origin = cm.origin
	return m
}

type openMarker struct {
	id uint32
	// origin is Marker.origin; nodes completed inside the marker start after it.
	origin int
}

// precedeLink records a forwardParent set by Precede. Links are appended in
// event order of their targets.
type precedeLink struct {
	from, to int
}

// unlinkFrom cuts every Precede link whose target is at or after event.
func (b *Builder) unlinkFrom(event int) {
	n := len(b.links)
	for n > 0 && b.links[n-1].to >= event {
		l := b.links[n-1]
		if l.from < event && l.from+b.events[l.from].forwardParent == l.to {
			b.events[l.from].forwardParent = 0
		}
		n--
	}
	b.links = b.links[:n]
}

func (b *Builder) pop(m Marker, op string) {
	if m.b != b {
		panic(fmt.Errorf("%w: %s of a foreign marker", ErrMarkerOrder, op))
	}
	n := len(b.open)
	if n == 0 || b.open[n-1].id != m.id {
		panic(fmt.Errorf("%w: %s of marker %d, innermost open is %s", ErrMarkerOrder, op, m.id, b.describeTop()))
	}
	b.open = b.open[:n-1]
}

func (b *Builder) describeTop() string {
	if len(b.open) == 0 {
		return "none"
	}
	return fmt.Sprintf("%d", b.open[len(b.open)-1].id)
}

// checkPrecede verifies that the node at cm.event can still get a new parent:
// no marker opened after it is open, it has no forward parent yet, and no node
// completed since then encloses it. Only events after the node are scanned.
func (b *Builder) checkPrecede(cm CompletedMarker) {
	if cm.b != b || cm.finish >= len(b.events) || b.events[cm.finish].kind != evFinish {
		panic(fmt.Errorf("%w: precede of a discarded node", ErrMarkerOrder))
	}
	if n := len(b.open); n > 0 && b.open[n-1].origin > cm.origin {
		panic(fmt.Errorf("%w: precede of a node outside innermost open marker %d", ErrMarkerOrder, b.open[n-1].id))
	}
	if b.events[cm.event].forwardParent != 0 {
		panic(fmt.Errorf("%w: node at event %d is already preceded", ErrMarkerOrder, cm.event))
	}
	depth := 0
	for i := cm.finish + 1; i < len(b.events); i++ {
		ev := b.events[i]
		switch ev.kind {
		case evStart:
			if ev.node == kindTombstone {
				continue
			}
			// узел, открытый через Precede вокруг более раннего узла, тоже его охватывает
			if ev.wraps > 0 && i-ev.wraps < cm.event {
				panic(fmt.Errorf("%w: node at event %d is already enclosed", ErrMarkerOrder, cm.event))
			}
			depth++
		case evFinish:
			depth--
			if depth < 0 {
				panic(fmt.Errorf("%w: node at event %d is already enclosed", ErrMarkerOrder, cm.event))
			}
		}
	}
}
