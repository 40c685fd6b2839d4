package source

import (
	"path/filepath"
	"strings"
)

// PathStyle selects how a file path is shown to the user.
type PathStyle uint8

const (
	PathAuto PathStyle = iota // as loaded, long absolute paths cut to the base name
	PathAbsolute
	PathRelative // relative to the FileSet base, absolute when outside of it
	PathBase
)

// autoPathLimit is the length above which PathAuto shortens absolute paths.
const autoPathLimit = 40

// DisplayPath renders the file path in the given style. In-memory files keep
// their name as is.
func (f *File) DisplayPath(style PathStyle, base string) string {
	if f.Origin == FromMemory {
		return f.Path
	}
	switch style {
	case PathAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return cleanPath(abs)
		}
	case PathRelative:
		if rel, ok := relativeTo(f.Path, base); ok {
			return rel
		}
	case PathBase:
		return filepath.Base(f.Path)
	default:
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

// relativeTo returns path relative to base, or its absolute form when path
// lies outside base.
func relativeTo(path, base string) (string, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return cleanPath(absPath), true
	}
	return cleanPath(rel), true
}

func cleanPath(p string) string { return filepath.ToSlash(filepath.Clean(p)) }
