package booking

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

const (
	ClientRescheduleLimit   = 2
	ProviderRescheduleLimit = 5

	// ClientRescheduleNotice is how far ahead of the current start a client
	// may still move a booking.
	ClientRescheduleNotice = 4 * time.Hour

	rescheduleHorizonMonths = 3
)

// RescheduleLimit returns the cap for role; unlimited for admins.
func RescheduleLimit(role Role) (limit int, unlimited bool) {
	switch role {
	case RoleClient:
		return ClientRescheduleLimit, false
	case RoleProvider:
		return ProviderRescheduleLimit, false
	}
	return 0, true
}

// ReschedulesUsed is the counter compared against the actor's cap.
func (b Booking) ReschedulesUsed(role Role) int {
	switch role {
	case RoleClient:
		return b.ClientRescheduleCount
	case RoleProvider:
		return b.ProviderRescheduleCount
	}
	return b.RescheduleCount
}

// ValidateReschedule checks whether actor may move b to newStart. A zero
// newDurationMinutes keeps the current duration. Slot availability is
// checked separately by the caller.
func ValidateReschedule(b Booking, actor Actor, newStart time.Time, newDurationMinutes int, now time.Time) error {
	if !actor.IsTiedTo(b) {
		return httperr.Permission("reschedule_forbidden", "actor cannot reschedule booking %s", b.Number)
	}

	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return httperr.Validation("invalid_state", "cannot reschedule booking in status %s", b.Status)
	}

	if newDurationMinutes == 0 {
		newDurationMinutes = b.DurationMinutes
	}

	policy := b.Type.Policy()

	if !newStart.After(now) {
		return httperr.ValidationField("time_in_past", "start_time", "new time is in the past")
	}
	if newStart.Before(now.Add(policy.MinAdvance)) {
		return httperr.ValidationField(
			"too_soon",
			"start_time",
			"new time must be at least "+policy.MinAdvance.String()+" from now",
		)
	}

	if err := policy.ValidateDuration(time.Duration(newDurationMinutes) * time.Minute); err != nil {
		return err
	}

	if newStart.After(now.AddDate(0, rescheduleHorizonMonths, 0)) {
		return httperr.ValidationField("too_far", "start_time", "new time must be within 3 months")
	}

	if newStart.Equal(b.StartTime) && newDurationMinutes == b.DurationMinutes {
		return httperr.ValidationField("same_time", "start_time", "new time equals the current time")
	}

	if actor.Role == RoleClient && b.StartTime.Sub(now) < ClientRescheduleNotice {
		return httperr.Validation("reschedule_window_closed", "clients may reschedule up to %s before the start", ClientRescheduleNotice)
	}

	if limit, unlimited := RescheduleLimit(actor.Role); !unlimited && b.ReschedulesUsed(actor.Role) >= limit {
		return httperr.Validation("reschedule_limit", "%s reschedule limit of %d reached", actor.Role, limit)
	}

	return nil
}
