package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // только ring, дамп при падении
	LevelPhase        // driver и проходы
	LevelDetail       // плюс файлы
	LevelDebug        // всё, включая области видимости
)

// StorageMode says where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota // by the output file extension
	FormatText
	FormatNDJSON
)

var (
	levelNames  = []string{"off", "error", "phase", "detail", "debug"}
	modeNames   = []string{"", "stream", "ring", "both"}
	formatNames = []string{"auto", "text", "ndjson"}
)

// deepest scope each level lets through
var levelReach = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopeNode,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeNode,
}

// ShouldEmit reports whether events of scope pass at this level.
// LevelError keeps everything so a crash dump has context.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelReach) && scope <= levelReach[l]
}

func (l Level) String() string       { return nameOf(levelNames, l) }
func (m StorageMode) String() string { return nameOf(modeNames, m) }
func (f Format) String() string      { return nameOf(formatNames, f) }

// ParseLevel treats "" as off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	return parseName[Level]("trace level", levelNames, s)
}

func ParseMode(s string) (StorageMode, error) {
	return parseName[StorageMode]("storage mode", modeNames, s)
}

// ParseFormat accepts "json" as a synonym of ndjson.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatNDJSON, nil
	}
	return parseName[Format]("trace format", formatNames, s)
}

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

func parseName[T ~uint8](what string, names []string, s string) (T, error) {
	s = strings.ToLower(s)
	for i, n := range names {
		if n != "" && n == s {
			return T(i), nil // #nosec G115 -- names are short tables
		}
	}
	var known []string
	for _, n := range names {
		if n != "" {
			known = append(known, n)
		}
	}
	return 0, fmt.Errorf("invalid %s %q, want one of %s", what, s, strings.Join(known, "|"))
}
