package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cminus/internal/project"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) onChange(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestScheduleDebouncesIntoOneBatch(t *testing.T) {
	rec := &recorder{}
	w, err := New(t.TempDir(), Options{Debounce: 20 * time.Millisecond}, rec.onChange)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	w.schedule("b.cm")
	w.schedule("a.cm")
	w.schedule("b.cm")

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"a.cm", "b.cm"}, rec.all())
}

func TestFilters(t *testing.T) {
	root := t.TempDir()
	m, err := project.NewMatcher(nil, []string{"gen/**", "*_old.cm"})
	require.NoError(t, err)
	w, err := New(root, Options{Matcher: m, Ext: ".cm"}, func([]string) {})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.True(t, w.wantFile(filepath.Join(root, "main.cm")))
	require.False(t, w.wantFile(filepath.Join(root, "notes.txt")))
	require.False(t, w.wantFile(filepath.Join(root, "a_old.cm")))
	require.False(t, w.wantFile(filepath.Join(root, "gen", "x.cm")))
	require.False(t, w.wantFile(filepath.Join(filepath.Dir(root), "outside.cm")))

	require.False(t, w.skipDir(root))
	require.True(t, w.skipDir(filepath.Join(root, "gen")))
	require.True(t, w.skipDir(filepath.Join(root, ".git")))
	require.False(t, w.skipDir(filepath.Join(root, "src")))
}

func TestRunReportsChangedSources(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	rec := &recorder{}
	w, err := New(root, Options{Debounce: 30 * time.Millisecond, Ext: ".cm"}, rec.onChange)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(root, "src", "main.cm")
	require.Eventually(t, func() bool {
		// Run may not have registered the directories yet; keep touching.
		_ = os.WriteFile(target, []byte("void main(void) { }\n"), 0o600)
		_ = os.WriteFile(filepath.Join(root, "src", "notes.txt"), []byte("x"), 0o600)
		return slices.Contains(rec.all(), target)
	}, 5*time.Second, 50*time.Millisecond)
	require.NotContains(t, rec.all(), filepath.Join(root, "src", "notes.txt"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRateLimitCancelledContextSkipsCallback(t *testing.T) {
	rec := &recorder{}
	w, err := New(t.TempDir(), Options{RatePerSecond: 0.001}, rec.onChange)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// первый токен есть сразу
	w.pending["a.cm"] = struct{}{}
	w.flush()
	require.Equal(t, 1, rec.count())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.ctx = ctx
	w.pending["b.cm"] = struct{}{}
	w.flush()
	require.Equal(t, 1, rec.count())
}

func TestNewRejectsNilCallback(t *testing.T) {
	_, err := New(t.TempDir(), Options{}, nil)
	require.Error(t, err)
}
