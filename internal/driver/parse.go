package driver

import (
	"context"
	"fmt"
	"time"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/parser"
	"gocst/internal/project"
	"gocst/internal/source"
	"gocst/internal/trace"
)

// ParseResult is the outcome of parsing one file. Root is nil only when the
// file could not be loaded; Bag then carries the IO diagnostic.
type ParseResult struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Root    *cst.Node
	Tokens  int
	Bag     *diag.Bag
	Cached  bool
	Elapsed time.Duration
}

// Parse loads path and parses it.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	res := parseFile(ctx, fs.Get(id), &opts)
	res.Path = path
	res.FileSet = fs
	return res, nil
}

// ParseSource parses an in-memory buffer (stdin, editor contents). CRLF and a
// leading BOM are normalised the same way as for files on disk.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id := fs.AddNormalized(name, content, source.FileVirtual)
	res := parseFile(ctx, fs.Get(id), &opts)
	res.Path = name
	res.FileSet = fs
	return res, nil
}

// parseFile parses an already loaded file, going through the cache when one
// is configured. The parser's file span hangs off the span found in ctx.
func parseFile(ctx context.Context, file *source.File, opts *Options) *ParseResult {
	tracer := trace.FromContext(ctx)
	parent := trace.ParentFromContext(ctx)
	start := time.Now()

	res := &ParseResult{
		File: file,
		Bag:  diag.NewBag(opts.MaxDiagnostics),
	}

	key := project.Combine(project.Digest(file.Hash), opts.fingerprint())
	cached, ok, err := opts.Cache.Get(key)
	switch {
	case err != nil:
		res.Bag.Add(cacheWarning(file, err))
	case ok:
		cached.rebind(file.ID)
		res.Root = cached.Root
		res.Tokens = cached.Tokens
		for _, d := range cached.Diagnostics {
			res.Bag.Add(d)
		}
		res.Cached = true
		res.Elapsed = time.Since(start)
		trace.Point(tracer, trace.ScopeFile, parent, "cache-hit", file.Path)
		return res
	}

	// полный список нужен для кэша, лимит применяется при копировании в res.Bag
	all := diag.NewBag(0)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: all})
	out := parser.ParseFile(file, opts.parserOptions(reporter, tracer, parent))
	res.Root = out.Root
	res.Tokens = out.Tokens
	for _, d := range all.Items() {
		res.Bag.Add(d)
	}

	if opts.Cache != nil {
		payload := &CachedTree{Root: out.Root, Diagnostics: all.Items(), Tokens: out.Tokens}
		if err := opts.Cache.Put(key, payload); err != nil {
			res.Bag.Add(cacheWarning(file, err))
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

func cacheWarning(file *source.File, err error) diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.IOCacheError,
		Message:  "parse cache: " + err.Error(),
		Primary:  source.Span{File: file.ID},
	}
}

func loadErrorDiagnostic(err error) diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  "failed to load file: " + err.Error(),
	}
}
