package source

import (
	"bytes"
	"crypto/sha256"
	"os"

	"fortio.org/safecast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileSet owns the files of one run. IDs are dense and start at 0; adding the
// same path twice yields two files.
//
// Loading is not synchronized: fill the set first, then read it from any
// number of goroutines.
type FileSet struct {
	files []*File
	base  string
}

func NewFileSet() *FileSet { return &FileSet{} }

// NewFileSetWithBase makes relative display paths start at base.
func NewFileSetWithBase(base string) *FileSet { return &FileSet{base: base} }

// BaseDir is the directory relative paths are shown against; the working
// directory when none was given.
func (s *FileSet) BaseDir() string {
	if s.base != "" {
		return s.base
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers already normalized content.
func (s *FileSet) Add(path string, content []byte, origin Origin) FileID {
	id, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(err)
	}
	s.files = append(s.files, &File{
		ID:       FileID(id),
		Path:     cleanPath(path),
		Content:  content,
		Hash:     sha256.Sum256(content),
		Origin:   origin,
		newlines: indexNewlines(content),
	})
	return FileID(id)
}

// Load reads path, drops a UTF-8 BOM and folds CRLF line ends.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, rewrite := normalize(raw)
	id := s.Add(path, content, FromDisk)
	s.files[id].Rewrite = rewrite
	return id, nil
}

// AddVirtual registers in-memory source under name.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	content, rewrite := normalize(content)
	id := s.Add(name, content, FromMemory)
	s.files[id].Rewrite = rewrite
	return id
}

// Get returns nil for unknown ids.
func (s *FileSet) Get(id FileID) *File {
	if int(id) >= len(s.files) {
		return nil
	}
	return s.files[id]
}

func (s *FileSet) Len() int { return len(s.files) }

// Resolve maps both ends of span; zero values when its file is unknown.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// normalize strips a leading BOM and turns every "\r\n" into "\n".
// A lone '\r' is kept: the lexer reports it as an unknown character.
func normalize(raw []byte) ([]byte, Rewrite) {
	var rw Rewrite
	if bytes.HasPrefix(raw, utf8BOM) {
		raw = raw[len(utf8BOM):]
		rw |= StrippedBOM
	}
	if bytes.Contains(raw, []byte("\r\n")) {
		raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
		rw |= FoldedCRLF
	}
	return raw, rw
}
