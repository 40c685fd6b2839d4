package diagfmt

import "cminus/internal/source"

// PathMode is the path style of rendered locations.
type PathMode = source.PathStyle

const (
	PathModeAuto     = source.PathAuto
	PathModeAbsolute = source.PathAbsolute
	PathModeRelative = source.PathRelative
	PathModeBasename = source.PathBase
)

// PrettyOpts drives the human-readable renderer.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк вокруг строки ошибки
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts drives the machine-readable renderer. Max limits the listed
// entries; Total still reports the whole bag.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
}
