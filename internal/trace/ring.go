package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory so that a crash can be
// reported with what the parser was doing just before it.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever written; buf[total%len(buf)] is the next slot
	level Level
}

// NewRingTracer creates a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = *ev
	t.total++
	t.mu.Unlock()
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	if t.total <= size {
		return append([]Event(nil), t.buf[:t.total]...)
	}
	start := t.total % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[start:]...)
	return append(out, t.buf[:start]...)
}

// OpenSpans returns the begin events of retained spans that have no end
// event: after a panic these are the files and productions that were being
// parsed. Spans whose begin event was overwritten are not reported.
func (t *RingTracer) OpenSpans() []Event {
	events := t.Snapshot()
	ended := make(map[uint64]bool)
	for _, ev := range events {
		if ev.Kind == KindSpanEnd {
			ended[ev.SpanID] = true
		}
	}
	var open []Event
	for _, ev := range events {
		if ev.Kind == KindSpanBegin && !ended[ev.SpanID] {
			open = append(open, ev)
		}
	}
	return open
}

// Dump writes the retained events followed by the spans still open.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	open := t.OpenSpans()
	if len(open) == 0 || format == FormatNDJSON {
		return nil
	}
	if _, err := fmt.Fprintf(w, "-- %d span(s) still open --\n", len(open)); err != nil {
		return err
	}
	for _, ev := range open {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// FindRing returns the RingTracer inside t, if any.
func FindRing(t Tracer) *RingTracer {
	switch tt := t.(type) {
	case *RingTracer:
		return tt
	case fanout:
		for _, inner := range tt {
			if r := FindRing(inner); r != nil {
				return r
			}
		}
	}
	return nil
}
