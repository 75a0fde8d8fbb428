package booking

import "fmt"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// ActiveStatuses occupy the provider's timeline.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

var terminal = map[Status]bool{
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return terminal[s]
}

func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid booking status: %q", v)
	}
	return s, nil
}

// InitialStatus is the status every new booking starts in.
func InitialStatus() Status {
	return StatusPending
}

func ActiveStatusStrings() []string {
	out := make([]string, 0, len(ActiveStatuses))
	for _, s := range ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}
