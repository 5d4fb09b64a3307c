// Package minimap renders a compact bitmap of the document's address space on
// a background worker. Each render is a Job tagged with the document version
// it was requested for; superseded jobs are cancelled cooperatively and a
// completion is only displayed when its version is not older than the one on
// screen.
package minimap

import (
	"errors"
	"sync/atomic"
)

// ErrCancelled is reported by a job that stopped because it was superseded
// or could not read the document.
var ErrCancelled = errors.New("render cancelled")

type Status int32

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Job is one render attempt. Its status only moves forward:
// pending -> running -> completed|cancelled, or pending -> cancelled.
type Job struct {
	ID      uint64
	Version uint64
	Width   int
	Height  int

	status atomic.Int32
}

func NewJob(id, version uint64, width, height int) *Job {
	return &Job{ID: id, Version: version, Width: width, Height: height}
}

func (j *Job) Status() Status { return Status(j.status.Load()) }

// Cancel marks a pending or running job cancelled. It reports whether this
// call made the transition.
func (j *Job) Cancel() bool {
	for {
		cur := Status(j.status.Load())
		if cur == StatusCompleted || cur == StatusCancelled {
			return false
		}
		if j.status.CompareAndSwap(int32(cur), int32(StatusCancelled)) {
			return true
		}
	}
}

func (j *Job) Cancelled() bool { return j.Status() == StatusCancelled }

func (j *Job) start() bool {
	return j.status.CompareAndSwap(int32(StatusPending), int32(StatusRunning))
}

func (j *Job) complete() bool {
	return j.status.CompareAndSwap(int32(StatusRunning), int32(StatusCompleted))
}
