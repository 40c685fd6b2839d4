package project

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Matcher selects project files by slash-separated relative path.
// `*` stays inside one path segment, `**` crosses segments.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles the patterns. An empty include list accepts everything
// that is not excluded.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	var err error
	if m.include, err = compileGlobs(include, "include"); err != nil {
		return nil, err
	}
	if m.exclude, err = compileGlobs(exclude, "exclude"); err != nil {
		return nil, err
	}
	return m, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether rel is part of the project.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return true
	}
	if m.Excluded(rel) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Excluded reports whether rel hits an exclude pattern.
func (m *Matcher) Excluded(rel string) bool {
	if m == nil {
		return false
	}
	for _, g := range m.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
