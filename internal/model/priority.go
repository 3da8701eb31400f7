package model

// Priority represents intent urgency as assigned by the upstream planner.
// The queue stays strictly FIFO regardless of priority; the value is carried
// for executor priority hints and logging.
type Priority int32

const (
	// PriorityIdle - background filler behavior
	PriorityIdle Priority = iota
	// PriorityLow - routine activity
	PriorityLow
	// PriorityNormal - default for planner-issued intents
	PriorityNormal
	// PriorityHigh - urgent reactions
	PriorityHigh
	// PriorityCritical - survival-level behavior
	PriorityCritical
)

// String returns human-readable priority name
func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "IDLE"
	case PriorityLow:
		return "LOW"
	case PriorityNormal:
		return "NORMAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}
