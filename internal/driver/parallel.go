package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gocst/internal/diag"
	"gocst/internal/source"
	"gocst/internal/trace"
)

// ListFiles returns the files under dir whose extension is in exts, sorted.
// Directories named testdata or starting with '.' or '_' are skipped, as the
// go tool does.
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{".go"}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок результатов
	slices.Sort(files)
	return files, nil
}

// preload reads every file into one FileSet. FileSet is not safe for
// concurrent writes, so this happens before any worker starts.
func preload(dir string, files []string) (*source.FileSet, map[string]source.FileID, map[string]error) {
	fileSet := source.NewFileSetWithBase(dir)
	ids := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		ids[path] = id
	}
	return fileSet, ids, loadErrors
}

// ParseDir parses every matching file under dir concurrently, at most
// opts.Jobs at a time. Results are in ListFiles order; a file that failed to
// load has a nil Root and an IO diagnostic. The returned error is non-nil only
// for a walk failure or a cancelled ctx.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*ParseResult, error) {
	files, err := ListFiles(dir, opts.extensions())
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	dirSpan := trace.BeginDriver(trace.FromContext(ctx), trace.ParentFromContext(ctx), "parse-dir")

	fileSet, ids, loadErrors := preload(dir, files)
	for _, path := range files {
		opts.emit(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*ParseResult, len(files))

	// файловые спаны вешаются на спан каталога
	g, gctx := errgroup.WithContext(trace.WithParent(ctx, dirSpan))
	g.SetLimit(min(opts.jobs(), len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(loadErrorDiagnostic(loadErr))
				results[i] = &ParseResult{Path: path, FileSet: fileSet, Bag: bag}
				opts.emit(Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			opts.emit(Event{File: path, Stage: StageParse, Status: StatusWorking})
			res := parseFile(gctx, fileSet.Get(ids[path]), &opts)
			res.Path = path
			res.FileSet = fileSet
			results[i] = res

			status := StatusDone
			if res.Cached {
				status = StatusCached
			}
			opts.emit(Event{File: path, Stage: StageParse, Status: status, Elapsed: res.Elapsed})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		dirSpan.EndDetail(err.Error())
		return fileSet, results, err
	}
	dirSpan.EndStats(dirStats(results))
	opts.emit(Event{Stage: StageParse, Status: StatusDone})
	return fileSet, results, nil
}

// dirStats totals the results of a directory parse for its trace span.
func dirStats(results []*ParseResult) trace.ParseStats {
	st := trace.ParseStats{Files: len(results)}
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Cached {
			st.Cached++
		}
		st.Tokens += res.Tokens
		if res.Bag != nil && res.Bag.HasErrors() {
			st.Errors++
		}
	}
	return st
}

// TokenizeDir runs the lexer over every matching file under dir concurrently.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*TokenizeResult, error) {
	files, err := ListFiles(dir, opts.extensions())
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	fileSet, ids, loadErrors := preload(dir, files)
	results := make([]*TokenizeResult, len(files))

	// файловые спаны вешаются на спан каталога
	g, gctx := errgroup.WithContext(trace.WithParent(ctx, dirSpan))
	g.SetLimit(min(opts.jobs(), len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(loadErrorDiagnostic(loadErr))
				results[i] = &TokenizeResult{Path: path, FileSet: fileSet, Bag: bag}
				return nil
			}

			start := time.Now()
			opts.emit(Event{File: path, Stage: StageLex, Status: StatusWorking})
			res := tokenizeFile(fileSet.Get(ids[path]), &opts)
			res.Path = path
			res.FileSet = fileSet
			results[i] = res
			opts.emit(Event{File: path, Stage: StageLex, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
