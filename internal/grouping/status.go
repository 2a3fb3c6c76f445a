package grouping

import "strings"

// Status is the closed classification every free-text backend status
// string collapses into.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusLoss      Status = "Loss"
)

// NormalizeStatus maps a raw backend status string onto the closed enum.
// Anything unrecognized, including the empty string, lands in StatusLoss:
// an ambiguous status must never be treated as still active.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive
	case "completed":
		return StatusCompleted
	default:
		return StatusLoss
	}
}

// CanTransition reports whether a pregnancy status change is allowed.
// Active may end in Completed or Loss; both are terminal.
func CanTransition(from, to Status) bool {
	if from != StatusActive {
		return false
	}
	return to == StatusCompleted || to == StatusLoss
}
