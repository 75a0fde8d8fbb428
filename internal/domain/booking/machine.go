package booking

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

// Event is an operation requested on a booking.
type Event string

const (
	EventConfirm    Event = "confirm"
	EventCancel     Event = "cancel"
	EventStart      Event = "start"
	EventComplete   Event = "complete"
	EventReschedule Event = "reschedule"
	EventNoShow     Event = "no_show"
)

// Payload carries the event arguments.
type Payload struct {
	Reason      string
	NewStart    time.Time
	NewDuration int
}

type rule struct {
	from  []Status
	roles []Role
	guard func(b Booking, actor Actor, p Payload, now time.Time) error
	apply func(b *Booking, actor Actor, p Payload, now time.Time)
}

var rules = map[Event]rule{
	EventConfirm: {
		from:  []Status{StatusPending},
		roles: []Role{RoleProvider, RoleAdmin},
		guard: func(b Booking, _ Actor, _ Payload, now time.Time) error {
			if !b.StartTime.After(now) {
				return httperr.Validation("booking_started", "cannot confirm booking %s: start time has passed", b.Number)
			}
			return nil
		},
		apply: func(b *Booking, _ Actor, _ Payload, now time.Time) {
			b.Status = StatusConfirmed
			b.ConfirmedAt = &now
		},
	},
	EventCancel: {
		from:  []Status{StatusPending, StatusConfirmed},
		roles: []Role{RoleClient, RoleProvider, RoleAdmin},
		guard: func(b Booking, actor Actor, _ Payload, now time.Time) error {
			if actor.IsAdmin() {
				return nil
			}
			if b.StartTime.Sub(now) < MinCancelNotice {
				return httperr.Validation(
					"cancellation_window_closed",
					"booking %s can be cancelled no later than %s before the start",
					b.Number, MinCancelNotice,
				)
			}
			return nil
		},
		apply: func(b *Booking, actor Actor, p Payload, now time.Time) {
			// only the client pays for cancelling
			fee := 0.0
			if actor.Role == RoleClient {
				fee = CancellationFee(*b, now)
			}
			b.Status = StatusCancelled
			b.CancelledAt = &now
			b.CancelledBy = actor.Role
			b.CancellationReason = p.Reason
			b.CancellationFee = fee
		},
	},
	EventStart: {
		from:  []Status{StatusConfirmed},
		roles: []Role{RoleProvider, RoleAdmin},
		apply: func(b *Booking, _ Actor, _ Payload, now time.Time) {
			b.Status = StatusInProgress
			b.StartedAt = &now
		},
	},
	EventComplete: {
		from:  []Status{StatusConfirmed, StatusInProgress},
		roles: []Role{RoleProvider, RoleAdmin},
		guard: func(b Booking, _ Actor, _ Payload, now time.Time) error {
			if b.EndTime.After(now) {
				return httperr.Validation("booking_not_finished", "booking %s ends at %s", b.Number, b.EndTime.Format(time.RFC3339))
			}
			if b.PaymentMethod.RequiresPayment() && b.PaymentID == "" {
				return httperr.Validation("payment_required", "booking %s has no payment", b.Number)
			}
			return nil
		},
		apply: func(b *Booking, _ Actor, _ Payload, now time.Time) {
			b.Status = StatusCompleted
			b.CompletedAt = &now
			b.ReviewRequested = true
		},
	},
	EventReschedule: {
		from:  []Status{StatusPending, StatusConfirmed},
		roles: []Role{RoleClient, RoleProvider, RoleAdmin},
		guard: func(b Booking, actor Actor, p Payload, now time.Time) error {
			return ValidateReschedule(b, actor, p.NewStart, p.NewDuration, now)
		},
		apply: func(b *Booking, actor Actor, p Payload, _ time.Time) {
			duration := p.NewDuration
			if duration == 0 {
				duration = b.DurationMinutes
			}
			b.SetTimes(p.NewStart, duration)
			b.RescheduleCount++
			switch actor.Role {
			case RoleClient:
				b.ClientRescheduleCount++
			case RoleProvider:
				b.ProviderRescheduleCount++
			}
			b.ReminderSent = false
		},
	},
	EventNoShow: {
		from:  []Status{StatusPending, StatusConfirmed},
		roles: []Role{RoleProvider, RoleAdmin},
		guard: func(b Booking, _ Actor, _ Payload, now time.Time) error {
			if now.Before(b.StartTime) {
				return httperr.Validation("booking_not_started", "booking %s has not started yet", b.Number)
			}
			return nil
		},
		apply: func(b *Booking, actor Actor, p Payload, now time.Time) {
			b.Status = StatusNoShow
			b.CancelledAt = &now
			b.CancelledBy = actor.Role
			b.CancellationReason = p.Reason
			b.CancellationFee = roundMoney(b.TotalPrice)
		},
	},
}

// Transition applies ev to b and returns the updated copy. On error b is
// returned unchanged.
func Transition(b Booking, ev Event, actor Actor, p Payload, now time.Time) (Booking, error) {
	r, ok := rules[ev]
	if !ok {
		return b, httperr.Validation("unknown_event", "unknown booking operation %q", ev)
	}

	if !statusIn(b.Status, r.from) {
		return b, httperr.Validation("invalid_transition", "cannot %s booking in status %s", ev, b.Status)
	}

	if !actor.hasRole(r.roles) || !actor.IsTiedTo(b) {
		return b, httperr.Permission("forbidden", "%s cannot %s booking %s", actor.Role, ev, b.Number)
	}

	if r.guard != nil {
		if err := r.guard(b, actor, p, now); err != nil {
			return b, err
		}
	}

	next := b
	r.apply(&next, actor, p, now)
	next.UpdatedAt = now
	return next, nil
}

// Allowed lists the events valid from status s, ignoring guards.
func Allowed(s Status) []Event {
	var out []Event
	for _, ev := range []Event{EventConfirm, EventStart, EventComplete, EventReschedule, EventCancel, EventNoShow} {
		if statusIn(s, rules[ev].from) {
			out = append(out, ev)
		}
	}
	return out
}

func statusIn(s Status, list []Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
