package booking

import "time"

type NotificationKind string

const (
	NotifyCreated         NotificationKind = "booking_created"
	NotifyConfirmed       NotificationKind = "booking_confirmed"
	NotifyCancelled       NotificationKind = "booking_cancelled"
	NotifyRescheduled     NotificationKind = "booking_rescheduled"
	NotifyStarted         NotificationKind = "booking_started"
	NotifyCompleted       NotificationKind = "booking_completed"
	NotifyNoShow          NotificationKind = "booking_no_show"
	NotifyReminder        NotificationKind = "booking_reminder"
	NotifyRefundProcessed NotificationKind = "refund_processed"
)

// Notification is emitted after a booking change has been committed.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	BookingID  uint             `json:"booking_id"`
	Number     string           `json:"number"`
	ProviderID uint             `json:"provider_id"`
	ClientID   uint             `json:"client_id,omitempty"`
	Actor      Role             `json:"actor,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	Data       map[string]any   `json:"data,omitempty"`
}

var eventKinds = map[Event]NotificationKind{
	EventConfirm:    NotifyConfirmed,
	EventCancel:     NotifyCancelled,
	EventStart:      NotifyStarted,
	EventComplete:   NotifyCompleted,
	EventReschedule: NotifyRescheduled,
	EventNoShow:     NotifyNoShow,
}

// NewNotification builds the notification for b.
func NewNotification(kind NotificationKind, b Booking, actor Role, at time.Time) Notification {
	return Notification{
		Kind:       kind,
		BookingID:  b.ID,
		Number:     b.Number,
		ProviderID: b.ProviderID,
		ClientID:   b.ClientID,
		Actor:      actor,
		OccurredAt: at,
		Data:       map[string]any{},
	}
}

// NotificationFor describes a committed transition from before to after.
func NotificationFor(ev Event, before, after Booking, actor Role, at time.Time) Notification {
	n := NewNotification(eventKinds[ev], after, actor, at)
	n.Data["status"] = string(after.Status)

	switch ev {
	case EventCancel, EventNoShow:
		n.Data["reason"] = after.CancellationReason
		n.Data["cancellation_fee"] = after.CancellationFee
	case EventReschedule:
		n.Data["old_start"] = before.StartTime
		n.Data["new_start"] = after.StartTime
		n.Data["new_end"] = after.EndTime
	case EventComplete:
		n.Data["review_requested"] = after.ReviewRequested
	}
	return n
}
