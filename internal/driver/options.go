package driver

import (
	"runtime"

	"gocst/internal/diag"
	"gocst/internal/parser"
	"gocst/internal/project"
	"gocst/internal/trace"
)

// Options controls a driver run. The zero value parses with parser defaults,
// no diagnostic limit, GOMAXPROCS workers and no cache.
type Options struct {
	MaxDepth  int
	MaxErrors int
	// MaxDiagnostics is the capacity of each file's diag.Bag; 0 means unbounded.
	MaxDiagnostics int
	SkipNFCCheck   bool
	// Jobs bounds concurrently parsed files in ParseDir and TokenizeDir.
	Jobs int
	// Extensions selects files when a directory is walked; empty means ".go".
	Extensions []string
	Cache      *TreeCache
	// Progress, if set, receives per-file events. The driver never closes it.
	Progress chan<- Event
}

// OptionsFromConfig maps the [parse] section of gocst.toml onto Options.
// The cache is not opened here; callers use OpenTreeCache when cfg.Cache is set.
func OptionsFromConfig(cfg project.ParseConfig, maxDiagnostics int) Options {
	return Options{
		MaxDepth:       cfg.MaxDepth,
		MaxErrors:      cfg.MaxErrors,
		MaxDiagnostics: maxDiagnostics,
		SkipNFCCheck:   cfg.SkipNFCCheck,
		Jobs:           cfg.Jobs,
		Extensions:     cfg.Extensions,
	}
}

func (o *Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

func (o *Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return []string{".go"}
	}
	return o.Extensions
}

// fingerprint covers every option that changes the produced tree or its
// diagnostics; it is mixed into cache keys.
func (o *Options) fingerprint() project.Digest {
	return project.ParseConfig{
		MaxDepth:     o.MaxDepth,
		MaxErrors:    o.MaxErrors,
		SkipNFCCheck: o.SkipNFCCheck,
	}.Fingerprint()
}

func (o *Options) parserOptions(reporter diag.Reporter, tracer trace.Tracer, parent uint64) parser.Options {
	return parser.Options{
		MaxDepth:     o.MaxDepth,
		MaxErrors:    o.MaxErrors,
		Reporter:     reporter,
		Tracer:       tracer,
		TraceParent:  parent,
		SkipNFCCheck: o.SkipNFCCheck,
	}
}
