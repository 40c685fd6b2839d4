package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cminus/internal/observ"
	"cminus/internal/source"
	"cminus/internal/trace"
)

// SourceExt is the extension of C-Minus sources.
const SourceExt = ".cm"

// DiagnoseDirOptions extends DiagnoseOptions with directory settings.
type DiagnoseDirOptions struct {
	DiagnoseOptions
	Jobs int
	// Match filters files by slash-separated path relative to the directory.
	// nil accepts every source file.
	Match    func(rel string) bool
	Progress ProgressFunc
}

type DiagnoseDirResult struct {
	Path   string // относительный путь
	FileID source.FileID
	Result *DiagnoseResult
	Err    error
}

// ListSourceFiles returns the sorted *.cm files under dir accepted by match.
func ListSourceFiles(dir string, match func(rel string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, SourceExt) {
			return nil
		}
		if match != nil {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			if !match(filepath.ToSlash(rel)) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// DiagnoseDir checks every source file under dir in parallel. Each file gets
// its own tree and symbol table; the FileSet is filled before workers start
// and only read afterwards. A load error is recorded on its file and does not
// stop the others.
func DiagnoseDir(ctx context.Context, dir string, opts *DiagnoseDirOptions) (*source.FileSet, []DiagnoseDirResult, error) {
	if opts == nil {
		opts = &DiagnoseDirOptions{}
	}
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "diagnose_dir")
	defer span.End(dir)

	files, err := ListSourceFiles(dir, opts.Match)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	results := make([]DiagnoseDirResult, len(files))
	for i, path := range files {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		results[i].Path = filepath.ToSlash(rel)
		fileID, loadErr := fileSet.Load(path)
		if loadErr != nil {
			results[i].Err = loadError(path, loadErr)
			continue
		}
		results[i].FileID = fileID
		notify(opts.Progress, ProgressEvent{Path: results[i].Path, Status: ProgressQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	// индексы уникальны для каждой горутины, мьютекс не нужен
	for i := range results {
		if results[i].Err != nil {
			notify(opts.Progress, ProgressEvent{Path: results[i].Path, Status: ProgressFailed})
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			r := &results[i]
			notify(opts.Progress, ProgressEvent{Path: r.Path, Status: ProgressStarted})
			started := time.Now()

			fileSpan, fctx := trace.Start(gctx, trace.ScopeFile, "file:"+r.Path)
			res, diagErr := DiagnoseFile(fctx, fileSet, fileSet.Get(r.FileID), &opts.DiagnoseOptions)
			fileSpan.End("")

			r.Result, r.Err = res, diagErr
			ev := ProgressEvent{Path: r.Path, Status: ProgressDone, Elapsed: time.Since(started)}
			if diagErr != nil {
				ev.Status = ProgressFailed
			} else {
				ev.Errors = res.Bag.Len()
				ev.Cached = res.Cached
			}
			notify(opts.Progress, ev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeTimings folds per-file timers into one report.
func MergeTimings(results []DiagnoseDirResult) *observ.Timer {
	total := observ.NewTimer()
	for _, r := range results {
		if r.Result != nil {
			total.Merge(r.Result.Timer)
		}
	}
	return total
}

func notify(fn ProgressFunc, ev ProgressEvent) {
	if fn != nil {
		fn(ev)
	}
}
