package behavior

import (
	"time"

	"github.com/udisondev/npcbehave/internal/model"
)

// Executor is the execution contract shared by all behavior executors.
// An executor runs one intent at a time, advanced by cooperative ticks from
// the owning dispatcher. All methods are called from the tick goroutine.
type Executor interface {
	// CanExecute reports whether the executor handles this intent's tag.
	CanExecute(intent model.Intent) bool

	// SupportedTags returns the tag families the executor handles.
	SupportedTags() []model.Tag

	// Execute validates the intent and starts executing it.
	// Returns StatusInProgress on success or StatusFailed when the intent
	// cannot start (missing payload, unresolvable target, dead actor).
	Execute(intent model.Intent) model.ExecutionStatus

	// Tick advances the active execution by dt. No-op when idle.
	Tick(dt time.Duration)

	// Interrupt force-stops the active execution with StatusInterrupted.
	// No-op when idle.
	Interrupt()

	// Status returns the current execution status.
	Status() model.ExecutionStatus

	// Result returns the snapshot of the last (or active) execution.
	Result() model.ExecutionResult

	// CurrentIntent returns the intent being executed (zero Intent when idle).
	CurrentIntent() model.Intent
}

// execCore holds the lifecycle bookkeeping every executor shares: the active
// intent, its status, accumulated execution time, and the result snapshot.
// Executors embed it and drive it through begin/finish.
//
// Plain fields, no locks: only accessed from the Tick() goroutine.
type execCore struct {
	intent  model.Intent
	status  model.ExecutionStatus
	elapsed time.Duration
	ratio   float64
	message string
}

// begin resets the core for a fresh execution.
func (c *execCore) begin(intent model.Intent) {
	c.intent = intent
	c.status = model.StatusInProgress
	c.elapsed = 0
	c.ratio = 0
	c.message = ""
}

// finish stamps a terminal status. The intent is kept for the result
// snapshot until the next begin.
func (c *execCore) finish(status model.ExecutionStatus, ratio float64, message string) {
	c.status = status
	c.ratio = clamp01(ratio)
	c.message = message
}

// failStart records a validation failure for an intent that never started.
func (c *execCore) failStart(intent model.Intent, message string) model.ExecutionStatus {
	c.intent = intent
	c.status = model.StatusFailed
	c.elapsed = 0
	c.ratio = 0
	c.message = message
	return model.StatusFailed
}

// advance accumulates execution time. Call once per tick while in progress.
func (c *execCore) advance(dt time.Duration) {
	c.elapsed += dt
}

// Status returns the current execution status.
func (c *execCore) Status() model.ExecutionStatus {
	return c.status
}

// CurrentIntent returns the intent being executed (zero Intent when idle).
func (c *execCore) CurrentIntent() model.Intent {
	if c.status != model.StatusInProgress {
		return model.Intent{}
	}
	return c.intent
}

// Result returns the snapshot of the last (or active) execution.
func (c *execCore) Result() model.ExecutionResult {
	return model.ExecutionResult{
		Status:          c.status,
		ExecutionTime:   c.elapsed,
		CompletionRatio: c.ratio,
		Message:         c.message,
	}
}

// setRatio updates the completion estimate, clamped to [0,1].
func (c *execCore) setRatio(ratio float64) {
	c.ratio = clamp01(ratio)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
