package source

import (
	"sort"

	"fortio.org/safecast"
)

// FileID indexes a file inside its FileSet.
type FileID uint32

// Origin says where the bytes of a file came from.
type Origin uint8

const (
	FromDisk   Origin = iota
	FromMemory        // tests, stdin, generated input
)

// Rewrite records what loading changed in the raw bytes.
type Rewrite uint8

const (
	StrippedBOM Rewrite = 1 << iota
	FoldedCRLF
)

// File is one loaded C-Minus source. Content is immutable once added.
type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Content []byte
	Hash    [32]byte // sha256 of Content; keys the diagnostics cache
	Origin  Origin
	Rewrite Rewrite

	newlines []uint32 // offsets of '\n', ascending
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LineCount is the number of lines; a trailing newline does not open a new one.
func (f *File) LineCount() uint32 {
	n := len(f.newlines) + 1
	if k := len(f.Content); k > 0 && f.Content[k-1] == '\n' {
		n--
	}
	if len(f.Content) == 0 {
		n = 0
	}
	count, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return count
}

// Position maps a byte offset to line and column. A newline belongs to the
// line it terminates.
func (f *File) Position(off uint32) LineCol {
	// число переводов строки строго до off
	before := sort.Search(len(f.newlines), func(i int) bool { return f.newlines[i] >= off })
	if before == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	line, err := safecast.Conv[uint32](before + 1)
	if err != nil {
		panic(err)
	}
	return LineCol{Line: line, Col: off - f.newlines[before-1]}
}

// LineOf is Position(off).Line.
func (f *File) LineOf(off uint32) uint32 { return f.Position(off).Line }

// Line returns the text of line n without its newline, or "" when n is out of range.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.newlines)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.newlines[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.newlines) {
		end = int(f.newlines[n-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

func indexNewlines(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(err)
		}
		out = append(out, off)
	}
	return out
}
