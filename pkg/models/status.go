package models

import "fmt"

// Status is the retention label of a review record. It is always derived from the
// record's counters and never stored on its own.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// AllStatuses lists statuses in learning order.
var AllStatuses = []Status{StatusNew, StatusLearning, StatusReview, StatusMastered}

// Mode selects how a learning session is composed.
type Mode string

const (
	ModeNew    Mode = "new"
	ModeReview Mode = "review"
	ModeMixed  Mode = "mixed"
)

// ParseMode converts a user supplied mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNew, ModeReview, ModeMixed:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown session mode %q", ErrInvalidInput, s)
	}
}
