package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := FindManifest(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, ManifestName), path)

	dir, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, dir)
}

func TestLoadManifestMissing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	require.NoError(t, err)
	// a manifest above the temp dir would be a broken test environment
	if ok {
		t.Skip("cminus.toml found above the temp directory")
	}
	require.Nil(t, m)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package]\nname = \"demo\"\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "demo", cfg.Package.Name)
	require.Equal(t, DefaultMaxDiagnostics, cfg.Check.MaxDiagnostics)
	require.Equal(t, DefaultFormat, cfg.Check.Format)
	require.Equal(t, DefaultDebounceMS, cfg.Watch.DebounceMS)
}

func TestLoadConfigValues(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"

[check]
include = ["src/**.cm"]
exclude = ["src/gen/**"]
max_diagnostics = 0
format = "json"
jobs = 3

[watch]
debounce_ms = 50
rate_per_second = 1.5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"src/**.cm"}, cfg.Check.Include)
	require.Equal(t, []string{"src/gen/**"}, cfg.Check.Exclude)
	require.Equal(t, 0, cfg.Check.MaxDiagnostics, "explicit zero means unlimited")
	require.Equal(t, "json", cfg.Check.Format)
	require.Equal(t, 3, cfg.Check.Jobs)
	require.Equal(t, int64(50), cfg.Watch.Debounce().Milliseconds())
	require.InDelta(t, 1.5, cfg.Watch.RatePerSecond, 1e-9)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"no package", "[check]\njobs = 1\n", "missing [package]"},
		{"no name", "[package]\nname = \" \"\n", "missing [package].name"},
		{"bad toml", "[package\n", "failed to parse TOML"},
		{"unknown key", "[package]\nname = \"x\"\nversion = \"1\"\n", "unknown keys: package.version"},
		{"bad format", "[package]\nname = \"x\"\n[check]\nformat = \"xml\"\n", "[check].format"},
		{"negative jobs", "[package]\nname = \"x\"\n[check]\njobs = -1\n", "[check].jobs"},
		{"bad glob", "[package]\nname = \"x\"\n[check]\nexclude = [\"[\"]\n", "invalid exclude pattern"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.body)
			_, err := LoadConfig(path)
			require.ErrorContains(t, err, tc.want)
			require.ErrorContains(t, err, "PRJ5001")
			var merr *ManifestError
			require.ErrorAs(t, err, &merr)
			require.Equal(t, path, merr.Path)
		})
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteManifest(dir, Default("demo"))
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "demo", cfg.Package.Name)
	require.Equal(t, []string{"**.cm"}, cfg.Check.Include)
	require.Equal(t, DefaultFormat, cfg.Check.Format)

	_, err = WriteManifest(dir, Default("demo"))
	require.ErrorContains(t, err, "already initialized")
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"src/**.cm"}, []string{"src/gen/**", "*_old.cm"})
	require.NoError(t, err)

	require.True(t, m.Match("src/main.cm"))
	require.True(t, m.Match("src/lib/sort.cm"))
	require.False(t, m.Match("src/gen/table.cm"))
	require.False(t, m.Match("main.cm"), "outside include")
	require.True(t, m.Match("src/a_old.cm"), "* stays within a segment")

	all, err := NewMatcher(nil, []string{"*_old.cm"})
	require.NoError(t, err)
	require.True(t, all.Match("x/y.cm"))
	require.False(t, all.Match("a_old.cm"))
	require.True(t, all.Excluded("a_old.cm"))

	var none *Matcher
	require.True(t, none.Match("anything"))
}
