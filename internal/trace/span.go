package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open driver, file or production span. A nil *Span is valid and
// ignores every call, so callers need not check the level first.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
}

// BeginDriver opens a span for a whole operation such as a directory parse.
func BeginDriver(t Tracer, parent uint64, name string) *Span {
	return begin(t, Event{Scope: ScopeDriver, ParentID: parent, Name: name})
}

// BeginFile opens the span of one file parse. While it is open the file is
// reported by heartbeats as in flight.
func BeginFile(t Tracer, parent uint64, path string) *Span {
	s := begin(t, Event{Scope: ScopeFile, ParentID: parent, Name: path, File: path})
	if s != nil {
		inflight.add(s.begin.SpanID, path, s.started)
	}
	return s
}

// BeginProduction opens a span for one grammar production starting at offset.
func BeginProduction(t Tracer, parent uint64, file, name string, offset uint32) *Span {
	return begin(t, Event{Scope: ScopeProduction, ParentID: parent, Name: name, File: file, Offset: offset})
}

func begin(t Tracer, ev Event) *Span {
	if t == nil || !t.Level().ShouldEmit(ev.Scope) {
		return nil
	}
	ev.Time = time.Now()
	ev.Seq = nextSeq()
	ev.Kind = KindSpanBegin
	ev.SpanID = spanCounter.Add(1)
	t.Emit(&ev)
	return &Span{tracer: t, begin: ev, started: ev.Time}
}

// End closes the span and returns its duration.
func (s *Span) End() time.Duration {
	return s.finish(nil, "")
}

// EndStats closes a file or driver span with the numbers of the parse.
func (s *Span) EndStats(stats ParseStats) time.Duration {
	return s.finish(&stats, "")
}

// EndDetail closes the span with a free-form note, e.g. an error.
func (s *Span) EndDetail(detail string) time.Duration {
	return s.finish(nil, detail)
}

func (s *Span) finish(stats *ParseStats, detail string) time.Duration {
	if s == nil {
		return 0
	}
	if s.begin.Scope == ScopeFile {
		inflight.remove(s.begin.SpanID)
	}
	now := time.Now()
	ev := s.begin
	ev.Time = now
	ev.Seq = nextSeq()
	ev.Kind = KindSpanEnd
	ev.Elapsed = now.Sub(s.started)
	ev.Stats = stats
	ev.Detail = detail
	s.tracer.Emit(&ev)
	return ev.Elapsed
}

// ID returns the span ID, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event such as a cache hit.
func Point(t Tracer, scope Scope, parent uint64, name, detail string) {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
