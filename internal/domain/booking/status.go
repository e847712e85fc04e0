package booking

import "fmt"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusModifiable Status = "modifiable"
	StatusCancelled  Status = "cancelled"
	StatusCompleted  Status = "completed"
)

// ParseStatus accepts only the closed set of statuses.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusModifiable, StatusCancelled, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

// InitialStatus is confirmed when the caller's policy skips the pending step.
func InitialStatus(autoConfirm bool) Status {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}
