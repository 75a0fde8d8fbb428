package booking

import (
	"reflect"
	"testing"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

func TestTransition_Confirm(t *testing.T) {
	b := sample(StatusPending, 48*time.Hour)

	got, err := Transition(b, EventConfirm, provider, Payload{}, now)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != StatusConfirmed || got.ConfirmedAt == nil || !got.ConfirmedAt.Equal(now) {
		t.Fatalf("unexpected result: status=%s confirmed_at=%v", got.Status, got.ConfirmedAt)
	}
	if b.Status != StatusPending || b.ConfirmedAt != nil {
		t.Fatal("input booking was mutated")
	}
}

func TestTransition_ConfirmRejectsStarted(t *testing.T) {
	b := sample(StatusPending, -time.Minute)
	if _, err := Transition(b, EventConfirm, provider, Payload{}, now); !httperr.IsBusiness(err, "booking_started") {
		t.Fatalf("expected booking_started, got %v", err)
	}
}

func TestTransition_Permissions(t *testing.T) {
	b := sample(StatusPending, 48*time.Hour)
	stranger := Actor{ID: 99, Role: RoleProvider}

	tests := []struct {
		name  string
		ev    Event
		actor Actor
	}{
		{"client confirms", EventConfirm, client},
		{"foreign provider confirms", EventConfirm, stranger},
		{"foreign client cancels", EventCancel, Actor{ID: 8, Role: RoleClient}},
		{"client marks no-show", EventNoShow, client},
		{"anonymous cancels", EventCancel, Actor{Role: RoleClient}},
	}
	for _, tt := range tests {
		_, err := Transition(b, tt.ev, tt.actor, Payload{}, now)
		if !httperr.IsKind(err, httperr.KindPermission) {
			t.Errorf("%s: expected permission error, got %v", tt.name, err)
		}
	}
}

func TestTransition_IllegalLeavesBookingUnchanged(t *testing.T) {
	b := sample(StatusCompleted, -3*time.Hour)

	for _, ev := range []Event{EventConfirm, EventCancel, EventStart, EventComplete, EventReschedule, EventNoShow} {
		got, err := Transition(b, ev, admin, Payload{NewStart: now.Add(72 * time.Hour)}, now)
		if !httperr.IsBusiness(err, "invalid_transition") {
			t.Errorf("%s: expected invalid_transition, got %v", ev, err)
		}
		if !reflect.DeepEqual(got, b) {
			t.Errorf("%s: booking changed on failed transition", ev)
		}
	}
}

func TestTransition_CancelFees(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Duration
		actor   Actor
		wantFee float64
		wantErr string
	}{
		{"client 30h before", 30 * time.Hour, client, 0, ""},
		{"client 10h before", 10 * time.Hour, client, 500, ""},
		{"client 1h before", 1 * time.Hour, client, 0, "cancellation_window_closed"},
		{"provider 10h before", 10 * time.Hour, provider, 0, ""},
		{"admin 1h before", 1 * time.Hour, admin, 0, ""},
	}

	for _, tt := range tests {
		b := sample(StatusConfirmed, tt.in)
		got, err := Transition(b, EventCancel, tt.actor, Payload{Reason: "changed plans"}, now)
		if tt.wantErr != "" {
			if !httperr.IsBusiness(err, tt.wantErr) {
				t.Errorf("%s: expected %s, got %v", tt.name, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got.Status != StatusCancelled || got.CancellationFee != tt.wantFee {
			t.Errorf("%s: expected cancelled with fee %.2f, got %s with %.2f", tt.name, tt.wantFee, got.Status, got.CancellationFee)
		}
		if got.CancelledBy != tt.actor.Role || got.CancellationReason != "changed plans" {
			t.Errorf("%s: cancellation metadata not recorded: %+v", tt.name, got)
		}
	}
}

func TestTransition_StartAndComplete(t *testing.T) {
	b := sample(StatusConfirmed, -30*time.Minute)

	started, err := Transition(b, EventStart, provider, Payload{}, now)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusInProgress || started.StartedAt == nil {
		t.Fatalf("unexpected start result: %+v", started)
	}

	if _, err := Transition(started, EventComplete, provider, Payload{}, now); !httperr.IsBusiness(err, "booking_not_finished") {
		t.Fatalf("expected booking_not_finished, got %v", err)
	}

	later := now.Add(time.Hour)
	done, err := Transition(started, EventComplete, provider, Payload{}, later)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted || !done.ReviewRequested || done.CompletedAt == nil {
		t.Fatalf("unexpected complete result: %+v", done)
	}
}

func TestTransition_CompleteRequiresPayment(t *testing.T) {
	b := sample(StatusInProgress, -2*time.Hour)
	b.PaymentMethod = PaymentCard

	if _, err := Transition(b, EventComplete, provider, Payload{}, now); !httperr.IsBusiness(err, "payment_required") {
		t.Fatalf("expected payment_required, got %v", err)
	}

	b.PaymentID = "mp-123"
	if _, err := Transition(b, EventComplete, provider, Payload{}, now); err != nil {
		t.Fatalf("complete with payment: %v", err)
	}
}

func TestTransition_NoShow(t *testing.T) {
	b := sample(StatusConfirmed, time.Hour)
	if _, err := Transition(b, EventNoShow, provider, Payload{}, now); !httperr.IsBusiness(err, "booking_not_started") {
		t.Fatalf("expected booking_not_started, got %v", err)
	}

	b = sample(StatusConfirmed, -15*time.Minute)
	got, err := Transition(b, EventNoShow, provider, Payload{Reason: "client absent"}, now)
	if err != nil {
		t.Fatalf("no-show: %v", err)
	}
	if got.Status != StatusNoShow || got.CancellationFee != b.TotalPrice {
		t.Fatalf("unexpected result: status=%s fee=%.2f", got.Status, got.CancellationFee)
	}
}

func TestTransition_UnknownEvent(t *testing.T) {
	if _, err := Transition(sample(StatusPending, time.Hour), Event("archive"), admin, Payload{}, now); !httperr.IsBusiness(err, "unknown_event") {
		t.Fatalf("expected unknown_event, got %v", err)
	}
}

func TestAllowed(t *testing.T) {
	got := Allowed(StatusPending)
	want := []Event{EventConfirm, EventReschedule, EventCancel, EventNoShow}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(Allowed(StatusCancelled)) != 0 {
		t.Fatal("terminal status must allow nothing")
	}
}

func TestNotificationFor_Reschedule(t *testing.T) {
	before := sample(StatusConfirmed, 48*time.Hour)
	after := before
	after.SetTimes(now.Add(72*time.Hour), 60)

	n := NotificationFor(EventReschedule, before, after, RoleClient, now)
	if n.Kind != NotifyRescheduled || n.BookingID != before.ID || n.Actor != RoleClient {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !n.Data["old_start"].(time.Time).Equal(before.StartTime) {
		t.Fatalf("old_start not carried: %v", n.Data["old_start"])
	}
}
