package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cminus/internal/diag"
	"cminus/internal/diagfmt"
	"cminus/internal/driver"
	"cminus/internal/project"
	"cminus/internal/source"
	"cminus/internal/ui"
	"cminus/internal/watch"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.cm|directory]",
		Short: "Run semantic analysis on a C-Minus file or directory",
		Long: `Check scans, parses and analyzes a C-Minus file, or every *.cm file of a
directory in parallel. Without an argument the project root (the directory
holding cminus.toml) or the current directory is checked. Values from
cminus.toml are used unless the matching flag is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", project.DefaultFormat, "output format (listing|pretty|short|json)")
	cmd.Flags().String("stages", "all", "stages to run (tokenize|syntax|sema|all)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory checks (0=auto)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in pretty and short output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("disk-cache", false, "reuse diagnostics of unchanged files from the user cache directory")
	cmd.Flags().Bool("watch", false, "re-check when sources change")
	cmd.Flags().String("ui", "auto", "progress UI for directory checks (auto|on|off)")
	return cmd
}

type checkConfig struct {
	target   string
	isDir    bool
	diagOpts driver.DiagnoseOptions
	jobs     int
	matcher  *project.Matcher
	out      outputOpts
	timings  bool
	useUI    bool
	watch    bool
	debounce time.Duration
	rate     float64
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := readCheckConfig(cmd, args)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if !cfg.watch {
		hasErrors, err := runCheckOnce(cmd.Context(), cfg, stdout, stderr)
		if err != nil {
			return err
		}
		if hasErrors {
			return errHasDiagnostics
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndCheck(ctx, cfg, stdout, stderr)
}

func readCheckConfig(cmd *cobra.Command, args []string) (*checkConfig, error) {
	flags := cmd.Flags()
	rootFlags := cmd.Root().PersistentFlags()

	startDir := "."
	if len(args) > 0 {
		startDir = args[0]
		if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
			startDir = filepath.Dir(startDir)
		}
	}
	manifest, found, err := project.LoadManifest(startDir)
	if err != nil {
		return nil, err
	}

	cfg := &checkConfig{}
	switch {
	case len(args) > 0:
		cfg.target = args[0]
	case found:
		cfg.target = manifest.Root
	default:
		cfg.target = "."
	}
	info, err := os.Stat(cfg.target)
	if err != nil {
		return nil, err
	}
	cfg.isDir = info.IsDir()

	format, err := flags.GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := rootFlags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	cfg.jobs, err = flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	cfg.debounce = time.Duration(project.DefaultDebounceMS) * time.Millisecond
	if found {
		conf := manifest.Config
		if !flags.Changed("format") {
			format = conf.Check.Format
		}
		if !rootFlags.Changed("max-diagnostics") {
			maxDiagnostics = conf.Check.MaxDiagnostics
		}
		if !flags.Changed("jobs") {
			cfg.jobs = conf.Check.Jobs
		}
		cfg.matcher, err = project.NewMatcher(conf.Check.Include, conf.Check.Exclude)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", manifest.Path, err)
		}
		cfg.debounce = conf.Watch.Debounce()
		cfg.rate = conf.Watch.RatePerSecond
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	stagesStr, err := flags.GetString("stages")
	if err != nil {
		return nil, fmt.Errorf("failed to get stages flag: %w", err)
	}
	stage, err := driver.ParseStage(stagesStr)
	if err != nil {
		return nil, err
	}
	cfg.timings, err = rootFlags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	cfg.diagOpts = driver.DiagnoseOptions{
		Stage:          stage,
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  cfg.timings,
		CrashOutput:    cmd.ErrOrStderr(),
	}

	diskCache, err := flags.GetBool("disk-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if diskCache {
		cfg.diagOpts.Cache, err = driver.OpenDiskCache("cminus")
		if err != nil {
			return nil, fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	colorFlag, err := rootFlags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	color, err := useColor(colorFlag, os.Stdout)
	if err != nil {
		return nil, err
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return nil, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return nil, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	cfg.out = outputOpts{format: format, color: color, withNotes: withNotes, pathMode: diagfmt.PathModeRelative}
	if fullPath {
		cfg.out.pathMode = diagfmt.PathModeAbsolute
	}

	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return nil, err
	}
	cfg.watch, err = flags.GetBool("watch")
	if err != nil {
		return nil, fmt.Errorf("failed to get watch flag: %w", err)
	}
	// прогресс имеет смысл только для директории и не в watch-режиме
	cfg.useUI = cfg.isDir && !cfg.watch && shouldUseTUI(mode)
	return cfg, nil
}

// runCheckOnce checks the target and prints diagnostics. It reports whether
// any error was found.
func runCheckOnce(ctx context.Context, cfg *checkConfig, stdout, stderr io.Writer) (bool, error) {
	if !cfg.isDir {
		res, err := driver.Diagnose(ctx, cfg.target, &cfg.diagOpts)
		if err != nil {
			return false, err
		}
		if err := writeDiagnostics(stdout, res.Bag, res.FileSet, cfg.out); err != nil {
			return false, err
		}
		writeDropped(stderr, res.Bag, cfg.target)
		if cfg.timings && res.Timer != nil {
			fmt.Fprint(stderr, res.Timer.Summary())
		}
		return res.Bag.HasErrors(), nil
	}

	fs, results, err := diagnoseDir(ctx, cfg, stderr)
	if err != nil {
		return false, err
	}

	hasErrors := false
	combined := diag.NewBag(0)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", r.Path, r.Err)
			hasErrors = true
			continue
		}
		bag := r.Result.Bag
		hasErrors = hasErrors || bag.HasErrors()
		writeDropped(stderr, bag, r.Path)
		switch cfg.out.format {
		case "json":
			combined.Merge(bag)
		case "listing":
			if bag.Len() == 0 {
				continue
			}
			fmt.Fprintf(stdout, "%s:\n", r.Path)
			if err := writeDiagnostics(stdout, bag, fs, cfg.out); err != nil {
				return false, err
			}
		default:
			if err := writeDiagnostics(stdout, bag, fs, cfg.out); err != nil {
				return false, err
			}
		}
	}
	if cfg.out.format == "json" {
		if err := writeDiagnostics(stdout, combined, fs, cfg.out); err != nil {
			return false, err
		}
	}
	if cfg.timings {
		fmt.Fprint(stderr, driver.MergeTimings(results).Summary())
	}
	return hasErrors, nil
}

func diagnoseDir(ctx context.Context, cfg *checkConfig, stderr io.Writer) (*source.FileSet, []driver.DiagnoseDirResult, error) {
	opts := &driver.DiagnoseDirOptions{
		DiagnoseOptions: cfg.diagOpts,
		Jobs:            cfg.jobs,
	}
	if cfg.matcher != nil {
		opts.Match = cfg.matcher.Match
	}
	if !cfg.useUI {
		return driver.DiagnoseDir(ctx, cfg.target, opts)
	}

	files, err := driver.ListSourceFiles(cfg.target, opts.Match)
	if err != nil {
		return nil, nil, err
	}
	rel := make([]string, len(files))
	for i, f := range files {
		r, relErr := filepath.Rel(cfg.target, f)
		if relErr != nil {
			r = f
		}
		rel[i] = filepath.ToSlash(r)
	}

	// до трёх событий на файл, буфер не даёт воркерам блокироваться
	events := make(chan driver.ProgressEvent, 3*len(files)+1)
	opts.Progress = func(ev driver.ProgressEvent) { events <- ev }

	type dirResult struct {
		fs      *source.FileSet
		results []driver.DiagnoseDirResult
		err     error
	}
	done := make(chan dirResult, 1)
	go func() {
		fs, results, err := driver.DiagnoseDir(ctx, cfg.target, opts)
		close(events)
		done <- dirResult{fs: fs, results: results, err: err}
	}()

	model := ui.NewCheckView("cminus check "+cfg.target, rel, events)
	if _, err := tea.NewProgram(model, tea.WithOutput(stderr), tea.WithContext(ctx)).Run(); err != nil {
		fmt.Fprintf(stderr, "ui: %v\n", err)
	}
	res := <-done
	return res.fs, res.results, res.err
}

// watchAndCheck checks once, then again after every batch of source changes.
func watchAndCheck(ctx context.Context, cfg *checkConfig, stdout, stderr io.Writer) error {
	if _, err := runCheckOnce(ctx, cfg, stdout, stderr); err != nil {
		return err
	}
	root := cfg.target
	if !cfg.isDir {
		root = filepath.Dir(root)
	}
	w, err := watch.New(root, watch.Options{
		Debounce:      cfg.debounce,
		RatePerSecond: cfg.rate,
		Matcher:       cfg.matcher,
		Ext:           driver.SourceExt,
	}, func(paths []string) {
		fmt.Fprintf(stderr, "\n[%s] %d file(s) changed, re-checking\n", time.Now().Format("15:04:05"), len(paths))
		if _, err := runCheckOnce(ctx, cfg, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	fmt.Fprintf(stderr, "watching %s (Ctrl+C to stop)\n", root)
	return w.Run(ctx)
}
