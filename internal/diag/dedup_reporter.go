package diag

import "gocst/internal/source"

type exactKey struct {
	code Code
	span source.Span
	msg  string
}

type offsetKey struct {
	file  source.FileID
	start uint32
}

// DedupReporter forwards diagnostics to next, dropping exact repeats (same
// code, span and message) and errors that start where an earlier error
// starts. Recovery often reports several errors at one token; only the first
// reaches next. Warnings are dropped only as exact repeats.
type DedupReporter struct {
	next     Reporter
	seen     map[exactKey]struct{}
	errorsAt map[offsetKey]struct{}
	dropped  int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next:     next,
		seen:     make(map[exactKey]struct{}),
		errorsAt: make(map[offsetKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := exactKey{code: d.Code, span: d.Primary, msg: d.Message}
	if _, ok := r.seen[key]; ok {
		r.dropped++
		return
	}
	if d.Severity >= SevError {
		at := offsetKey{file: d.Primary.File, start: d.Primary.Start}
		if _, ok := r.errorsAt[at]; ok {
			r.dropped++
			return
		}
		r.errorsAt[at] = struct{}{}
	}
	r.seen[key] = struct{}{}
	Emit(r.next, d)
}

// Dropped returns how many diagnostics were filtered out.
func (r *DedupReporter) Dropped() int {
	if r == nil {
		return 0
	}
	return r.dropped
}
