package driver

import "time"

// Stage describes a phase of handling one file.
type Stage string

const (
	// StageLoad reads the file from disk.
	StageLoad Stage = "load"
	// StageLex tokenizes the file.
	StageLex Stage = "lex"
	// StageParse builds the tree.
	StageParse Stage = "parse"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusCached indicates the tree came from the parse cache.
	StatusCached Status = "cached"
	// StatusError indicates the file could not be processed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Finished reports whether ev is the last event for its file.
func (ev Event) Finished() bool {
	return ev.Status == StatusDone || ev.Status == StatusCached || ev.Status == StatusError
}

// emit sends ev unless the run has no progress consumer. The consumer must
// keep draining until the channel is closed by the caller.
func (o *Options) emit(ev Event) {
	if o.Progress == nil {
		return
	}
	o.Progress <- ev
}
