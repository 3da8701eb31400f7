package model

import "time"

// ExecutionStatus is the universal result vocabulary returned by every executor.
type ExecutionStatus int32

const (
	// StatusNotStarted - no execution has begun; also the resting state after a result was consumed
	StatusNotStarted ExecutionStatus = iota
	// StatusInProgress - execution is running and advanced by ticks
	StatusInProgress
	// StatusSucceeded - execution reached its goal
	StatusSucceeded
	// StatusFailed - execution could not start or degraded at runtime
	StatusFailed
	// StatusInterrupted - execution was force-stopped before completion
	StatusInterrupted
)

// String returns human-readable status name
func (s ExecutionStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "NOT_STARTED"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	case StatusInterrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the status ends an execution.
// Everything except InProgress is terminal; NotStarted doubles as the
// "ready for the next intent" resting state.
func (s ExecutionStatus) IsTerminal() bool {
	return s != StatusInProgress
}

// ExecutionResult is the snapshot returned when an execution stops.
type ExecutionResult struct {
	Status          ExecutionStatus
	ExecutionTime   time.Duration
	CompletionRatio float64 // clamped to [0,1]
	Message         string
}
