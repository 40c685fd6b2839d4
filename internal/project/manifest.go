package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cminus/internal/diag"
)

// Defaults applied to keys missing from the manifest.
const (
	DefaultMaxDiagnostics = 100
	DefaultFormat         = "listing"
	DefaultDebounceMS     = 200
)

// Formats accepted by [check].format.
var Formats = []string{"listing", "pretty", "short", "json"}

// Manifest is a loaded cminus.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
	Watch   WatchConfig   `toml:"watch"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type CheckConfig struct {
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Format         string   `toml:"format"`
	Jobs           int      `toml:"jobs"`
}

type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
	// RatePerSecond caps re-checks; 0 means unlimited.
	RatePerSecond float64 `toml:"rate_per_second"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default returns the configuration written by `cminus init`.
func Default(name string) Config {
	return Config{
		Package: PackageConfig{Name: name},
		Check: CheckConfig{
			Include:        []string{"**.cm"},
			MaxDiagnostics: DefaultMaxDiagnostics,
			Format:         DefaultFormat,
		},
		Watch: WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}

// LoadManifest finds cminus.toml above startDir and loads it.
// ok is false when there is no manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// ManifestError describes a manifest that exists but cannot be used.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s %s: %v", diag.ProjInvalidManifest.ID(), e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		return Config{}, &ManifestError{Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if !meta.IsDefined("package") {
		return Config{}, &ManifestError{Path: path, Err: errors.New("missing [package]")}
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, &ManifestError{Path: path, Err: errors.New("missing [package].name")}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, &ManifestError{Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	if !meta.IsDefined("check", "max_diagnostics") {
		cfg.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if cfg.Check.Format == "" {
		cfg.Check.Format = DefaultFormat
	}
	if !meta.IsDefined("watch", "debounce_ms") {
		cfg.Watch.DebounceMS = DefaultDebounceMS
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ManifestError{Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks value ranges and glob syntax.
func (c *Config) Validate() error {
	var errs []error
	if c.Check.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[check].max_diagnostics must be >= 0, got %d", c.Check.MaxDiagnostics))
	}
	if c.Check.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[check].jobs must be >= 0, got %d", c.Check.Jobs))
	}
	if !slices.Contains(Formats, c.Check.Format) {
		errs = append(errs, fmt.Errorf("[check].format must be one of %s, got %q", strings.Join(Formats, "|"), c.Check.Format))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("[watch].debounce_ms must be >= 0, got %d", c.Watch.DebounceMS))
	}
	if c.Watch.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("[watch].rate_per_second must be >= 0, got %v", c.Watch.RatePerSecond))
	}
	if _, err := NewMatcher(c.Check.Include, c.Check.Exclude); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WriteManifest creates dir/cminus.toml from cfg. An existing manifest is
// never overwritten.
func WriteManifest(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, ManifestName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("project already initialized: %s exists", path)
		}
		return "", err
	}
	if _, err := f.WriteString("# C-Minus project manifest\n"); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, f.Close()
}
