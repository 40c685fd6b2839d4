package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/observ"
	"cminus/internal/parser"
	"cminus/internal/sema"
	"cminus/internal/source"
	"cminus/internal/symbols"
	"cminus/internal/trace"

	"fortio.org/safecast"
)

// DiagnoseStage определяет, до какого прохода доходит диагностика.
type DiagnoseStage string

const (
	DiagnoseStageTokenize DiagnoseStage = "tokenize"
	DiagnoseStageSyntax   DiagnoseStage = "syntax"
	DiagnoseStageSema     DiagnoseStage = "sema"
	DiagnoseStageAll      DiagnoseStage = "all"
)

// ParseStage validates a --stages value.
func ParseStage(s string) (DiagnoseStage, error) {
	switch st := DiagnoseStage(s); st {
	case DiagnoseStageTokenize, DiagnoseStageSyntax, DiagnoseStageSema, DiagnoseStageAll:
		return st, nil
	case "":
		return DiagnoseStageAll, nil
	}
	return "", fmt.Errorf("unknown stage %q (expected: tokenize|syntax|sema|all)", s)
}

func (s DiagnoseStage) runsParser() bool { return s != DiagnoseStageTokenize }

func (s DiagnoseStage) runsSema() bool {
	return s == DiagnoseStageSema || s == DiagnoseStageAll
}

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	Stage          DiagnoseStage
	MaxDiagnostics int
	EnableTimings  bool
	// Cache, when set, serves diagnostics of unchanged files from disk.
	Cache *DiskCache
	// CrashOutput receives the trace ring when the checker panics.
	// Defaults to os.Stderr.
	CrashOutput io.Writer
}

type DiagnoseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	Tree    *ast.Tree
	Table   *symbols.Table
	Timer   *observ.Timer
	// Cached is true when the diagnostics came from the disk cache;
	// Tree and Table are nil then.
	Cached bool
	// SemaSkipped is true when syntax errors kept the semantic passes from running.
	SemaSkipped bool
}

// Diagnose loads path and runs it through the requested stages.
func Diagnose(ctx context.Context, path string, opts *DiagnoseOptions) (*DiagnoseResult, error) {
	if opts == nil {
		opts = &DiagnoseOptions{Stage: DiagnoseStageAll}
	}
	fs := source.NewFileSet()
	span, _ := trace.Start(ctx, trace.ScopePass, "load_file")
	fileID, err := fs.Load(path)
	span.WithExtra("path", path).End("")
	if err != nil {
		return nil, loadError(path, err)
	}
	return DiagnoseFile(ctx, fs, fs.Get(fileID), opts)
}

// DiagnoseFile runs the stages over an already loaded file. Semantic passes
// run only on a syntactically clean tree.
func DiagnoseFile(ctx context.Context, fs *source.FileSet, file *source.File, opts *DiagnoseOptions) (res *DiagnoseResult, err error) {
	if file == nil {
		return nil, errors.New("driver: nil file")
	}
	if opts == nil {
		opts = &DiagnoseOptions{Stage: DiagnoseStageAll}
	}
	stage := opts.Stage
	if stage == "" {
		stage = DiagnoseStageAll
	}

	res = &DiagnoseResult{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	if opts.EnableTimings {
		res.Timer = observ.NewTimer()
	}

	key := cacheKey(file, stage, opts.MaxDiagnostics)
	if opts.Cache != nil && stage == DiagnoseStageAll {
		var payload DiskPayload
		hit, cacheErr := opts.Cache.Get(key, &payload)
		if cacheErr == nil && hit && payload.Schema == diskCacheSchemaVersion {
			restoreDiagnostics(res.Bag, file, &payload)
			res.Cached = true
			trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache_hit", file.Path, trace.ParentID(ctx))
			return res, nil
		}
	}

	// одна и та же ошибка попадает в bag один раз
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	if !stage.runsParser() {
		idx := res.Timer.Begin("tokenize")
		span, _ := trace.Start(ctx, trace.ScopePass, "tokenize")
		toks := lexer.New(file, lexer.Options{Reporter: reporter}).All()
		span.WithExtra("tokens", strconv.Itoa(len(toks))).End("")
		res.Timer.End(idx, fmt.Sprintf("tokens=%d", len(toks)))
		return res, nil
	}

	maxErrors, err := safecast.Conv[uint](res.Bag.Cap())
	if err != nil {
		return nil, err
	}
	idx := res.Timer.Begin("parse")
	span, _ := trace.Start(ctx, trace.ScopePass, "parse")
	parsed := parser.ParseFile(lexer.New(file, lexer.Options{Reporter: reporter}), parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})
	res.Tree = parsed.Tree
	span.WithExtra("errors", strconv.FormatUint(uint64(parsed.Errors), 10)).End("")
	res.Timer.End(idx, fmt.Sprintf("nodes=%d", parsed.Tree.Nodes.Len()))

	if !stage.runsSema() {
		return res, nil
	}
	if res.Bag.HasErrors() {
		res.SemaSkipped = true
		return res, nil
	}

	if err := runSema(ctx, res, reporter, opts); err != nil {
		return nil, err
	}

	if opts.Cache != nil && stage == DiagnoseStageAll && res.Bag.Dropped() == 0 {
		// кэш - best effort, ошибка записи не ломает проверку
		_ = opts.Cache.Put(key, payloadFor(file, res.Bag)) //nolint:errcheck
	}
	return res, nil
}

// runSema builds the symbol table and type-checks the tree. A scope desync
// inside the checker is turned into an error after the trace ring is dumped.
func runSema(ctx context.Context, res *DiagnoseResult, reporter diag.Reporter, opts *DiagnoseOptions) (err error) {
	tracer := trace.FromContext(ctx)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rerr, ok := r.(error)
		if !ok || !errors.Is(rerr, symbols.ErrScopeDesync) {
			panic(r)
		}
		if ring, ok := trace.Ring(tracer); ok {
			out := opts.CrashOutput
			if out == nil {
				out = os.Stderr
			}
			_ = ring.Dump(out, trace.FormatText) //nolint:errcheck
		}
		err = fmt.Errorf("%s: %w", res.File.Path, rerr)
	}()

	idx := res.Timer.Begin("symbols")
	span, _ := trace.Start(ctx, trace.ScopePass, "symbols")
	res.Table = sema.BuildSymbolTable(res.Tree)
	span.WithExtra("scopes", strconv.Itoa(res.Table.Scopes.Len())).End("")
	res.Timer.End(idx, fmt.Sprintf("symbols=%d", res.Table.Symbols.Len()))

	idx = res.Timer.Begin("typecheck")
	span, _ = trace.Start(ctx, trace.ScopePass, "typecheck")
	checked := sema.TypeCheck(res.Tree, res.Table, sema.Options{
		Reporter:    reporter,
		Tracer:      tracer,
		TraceParent: span.ID(),
	})
	span.WithExtra("errors", strconv.FormatUint(uint64(checked.Errors), 10)).End("")
	res.Timer.End(idx, fmt.Sprintf("errors=%d", checked.Errors))
	return nil
}

// loadError keeps the cause inspectable with errors.Is.
func loadError(path string, err error) error {
	return fmt.Errorf("%s load %s: %w", diag.IOLoadFileError.ID(), path, err)
}
