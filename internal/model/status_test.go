package model

import "testing"

func TestExecutionStatusString(t *testing.T) {
	tests := []struct {
		status ExecutionStatus
		want   string
	}{
		{StatusNotStarted, "NOT_STARTED"},
		{StatusInProgress, "IN_PROGRESS"},
		{StatusSucceeded, "SUCCEEDED"},
		{StatusFailed, "FAILED"},
		{StatusInterrupted, "INTERRUPTED"},
		{ExecutionStatus(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("ExecutionStatus.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecutionStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status ExecutionStatus
		want   bool
	}{
		{StatusNotStarted, true},
		{StatusInProgress, false},
		{StatusSucceeded, true},
		{StatusFailed, true},
		{StatusInterrupted, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal(%v) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
