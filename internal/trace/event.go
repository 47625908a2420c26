package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // files still in flight, emitted by StartHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers whole CLI / LSP operations (a directory walk, a reparse).
	ScopeDriver Scope = iota + 1
	// ScopeFile covers lexing and parsing one file.
	ScopeFile
	// ScopeProduction covers single grammar productions inside a parse.
	ScopeProduction
)

var scopeNames = [...]string{
	ScopeDriver:     "driver",
	ScopeFile:       "file",
	ScopeProduction: "production",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// ParseStats summarises finished parsing work. File spans carry the numbers
// of one file, driver spans the totals of a directory.
type ParseStats struct {
	Files  int
	Cached int
	Tokens int
	// Errors counts error nodes for a file and failing files for a driver span.
	Errors int
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	// Name is "parse-dir" for driver spans, the file path for file spans and
	// the production name ("stmt", "top-level") for production spans.
	Name string
	// File is the file a production span belongs to.
	File string
	// Offset is the byte offset at which a production started.
	Offset uint32
	// Elapsed is set on span end events.
	Elapsed time.Duration
	// Stats is set on the end events of file and driver spans.
	Stats  *ParseStats
	Detail string
}
