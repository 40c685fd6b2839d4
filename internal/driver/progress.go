package driver

import "time"

// ProgressStatus reports where a file is in a directory check.
type ProgressStatus uint8

const (
	ProgressQueued ProgressStatus = iota
	ProgressStarted
	ProgressDone
	ProgressFailed
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressStarted:
		return "started"
	case ProgressDone:
		return "done"
	case ProgressFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressEvent describes one step of a directory check.
type ProgressEvent struct {
	Path    string
	Status  ProgressStatus
	Errors  int
	Cached  bool
	Elapsed time.Duration
}

// ProgressFunc receives progress events. Called from worker goroutines.
type ProgressFunc func(ProgressEvent)
