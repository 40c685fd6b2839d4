package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestColoredKeepsText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	cases := []string{"0.1.0-dev", "1.2.3", "1.0.0-rc.1", "nightly"}
	for _, v := range cases {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	withVersion(t, "1.2.3", "", "")
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
}

func TestInfoOptionalFields(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	withVersion(t, "1.2.3", "", "")
	if got := Info(); got != "cminus 1.2.3\n" {
		t.Fatalf("Info() = %q", got)
	}
	withVersion(t, "1.2.3", "abc123", "2026-01-15")
	want := "cminus 1.2.3\ncommit: abc123\nbuilt:  2026-01-15\n"
	if got := Info(); got != want {
		t.Fatalf("Info() = %q, want %q", got, want)
	}
}
