package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

var (
	asClient   = domain.Actor{ID: clientID, Role: domain.RoleClient}
	asProvider = domain.Actor{ID: providerID, Role: domain.RoleProvider}
)

func TestTransitions_ConfirmNotifiesAfterCommit(t *testing.T) {
	e := newEnv()
	b := e.booked(domain.StatusPending, at(20, 10, 0))

	res, err := e.trans.Execute(context.Background(), b.ID, domain.EventConfirm, asProvider, domain.Payload{})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Booking.Status != domain.StatusConfirmed || e.repo.get(b.ID).Status != domain.StatusConfirmed {
		t.Fatalf("confirm not persisted: %+v", e.repo.get(b.ID))
	}
	if kinds := e.notes.kinds(); len(kinds) != 1 || kinds[0] != domain.NotifyConfirmed {
		t.Fatalf("unexpected notifications: %v", kinds)
	}
}

func TestTransitions_FailedTransitionHasNoSideEffects(t *testing.T) {
	e := newEnv()
	b := e.booked(domain.StatusPending, at(20, 10, 0))

	_, err := e.trans.Execute(context.Background(), b.ID, domain.EventConfirm, asClient, domain.Payload{})
	if !httperr.IsKind(err, httperr.KindPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}

	_, err = e.trans.Execute(context.Background(), b.ID, domain.EventComplete, asProvider, domain.Payload{})
	if !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("expected invalid_transition, got %v", err)
	}

	if !reflect.DeepEqual(e.repo.get(b.ID), b) {
		t.Fatal("booking changed after failed transitions")
	}
	if len(e.notes.kinds()) != 0 || e.repo.updates != 0 {
		t.Fatalf("failed transitions must not notify or write: %v", e.notes.kinds())
	}
}

func TestTransitions_NotFound(t *testing.T) {
	e := newEnv()
	_, err := e.trans.Execute(context.Background(), 404, domain.EventConfirm, asProvider, domain.Payload{})
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func paidBooking(e *testEnv, start time.Time) domain.Booking {
	b := e.booked(domain.StatusConfirmed, start)
	b.PaymentMethod = domain.PaymentCard
	b.PaymentID = "pay-1"
	b.PaidAmount = 1000
	b.PaymentStatus = domain.PaymentPaid
	_ = e.repo.Update(context.Background(), &b)
	e.repo.updates = 0
	return b
}

func TestTransitions_CancelRefundsThroughGateway(t *testing.T) {
	e := newEnv()
	b := paidBooking(e, monday8.Add(10*time.Hour))

	res, err := e.trans.Execute(context.Background(), b.ID, domain.EventCancel, asClient, domain.Payload{Reason: "sick"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if res.Booking.CancellationFee != 500 {
		t.Fatalf("expected fee 500, got %.2f", res.Booking.CancellationFee)
	}
	if res.Refund == nil || res.Refund.Status != domain.RefundProcessed || res.Refund.Amount != 500 {
		t.Fatalf("unexpected refund: %+v", res.Refund)
	}
	if res.Refund.TransactionID != "rf-pay-1" || res.Refund.Message != domain.MsgRefunded {
		t.Fatalf("unexpected refund details: %+v", res.Refund)
	}
	if len(e.gateway.refundCalls) != 1 || e.gateway.refundCalls[0] != 500 {
		t.Fatalf("unexpected gateway calls: %v", e.gateway.refundCalls)
	}

	stored := e.repo.get(b.ID)
	if stored.Status != domain.StatusCancelled || stored.PaymentStatus != domain.PaymentRefunded || stored.PaidAmount != 500 {
		t.Fatalf("unexpected stored booking: %+v", stored)
	}

	want := []domain.NotificationKind{domain.NotifyCancelled, domain.NotifyRefundProcessed}
	if got := e.notes.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTransitions_RefundKeepsChangesMadeMeanwhile(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	b := paidBooking(e, monday8.Add(10*time.Hour))

	e.gateway.onRefund = func() {
		cur := e.repo.get(b.ID)
		cur.Notes = "client called back"
		if err := e.repo.Update(ctx, &cur); err != nil {
			t.Fatalf("update during refund: %v", err)
		}
	}

	res, err := e.trans.Execute(ctx, b.ID, domain.EventCancel, asClient, domain.Payload{Reason: "sick"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stored := e.repo.get(b.ID)
	if stored.Notes != "client called back" {
		t.Fatalf("change made during the refund was overwritten: %+v", stored)
	}
	if stored.Status != domain.StatusCancelled || stored.PaymentStatus != domain.PaymentRefunded || stored.PaidAmount != 500 {
		t.Fatalf("unexpected stored booking: %+v", stored)
	}
	if res.Booking.Notes != "client called back" || res.Booking.PaidAmount != 500 {
		t.Fatalf("result must reflect the stored row: %+v", res.Booking)
	}
}

func TestTransitions_CancelGatewayFailureNeedsManualRefund(t *testing.T) {
	e := newEnv()
	e.gateway.refundErr = errors.New("gateway down")
	b := paidBooking(e, monday8.Add(30*time.Hour))

	res, err := e.trans.Execute(context.Background(), b.ID, domain.EventCancel, asClient, domain.Payload{})
	if err != nil {
		t.Fatalf("cancel must succeed even if the refund fails: %v", err)
	}
	if res.Refund.Status != domain.RefundPending || !res.Refund.RequiresAction || res.Refund.Amount != 1000 {
		t.Fatalf("unexpected refund: %+v", res.Refund)
	}
	if res.Refund.Message != domain.MsgManualRefund {
		t.Fatalf("unexpected message %q", res.Refund.Message)
	}
	if e.repo.get(b.ID).PaymentStatus != domain.PaymentRefundPending {
		t.Fatalf("unexpected payment status %s", e.repo.get(b.ID).PaymentStatus)
	}
}

func TestTransitions_CancelUnpaidNothingToRefund(t *testing.T) {
	e := newEnv()
	b := e.booked(domain.StatusPending, monday8.Add(30*time.Hour))

	res, err := e.trans.Execute(context.Background(), b.ID, domain.EventCancel, asClient, domain.Payload{})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Refund.Status != domain.RefundNone || res.Refund.Message != domain.MsgNothingToRefund {
		t.Fatalf("unexpected refund: %+v", res.Refund)
	}
	if kinds := e.notes.kinds(); len(kinds) != 1 {
		t.Fatalf("expected only the cancel notification, got %v", kinds)
	}
}

func TestTransitions_RescheduleChecksAvailability(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	a := e.booked(domain.StatusConfirmed, at(20, 10, 0))
	other := e.booked(domain.StatusConfirmed, at(20, 12, 0))
	other.ClientID = 8
	_ = e.repo.Update(ctx, &other)

	_, err := e.trans.Execute(ctx, a.ID, domain.EventReschedule, asProvider, domain.Payload{NewStart: at(20, 11, 30)})
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := e.repo.get(a.ID); !got.StartTime.Equal(at(20, 10, 0)) || got.RescheduleCount != 0 {
		t.Fatalf("booking moved despite conflict: %+v", got)
	}

	_, err = e.trans.Execute(ctx, a.ID, domain.EventReschedule, asProvider, domain.Payload{NewStart: at(20, 13, 30)})
	if !httperr.IsBusiness(err, string(ReasonProviderNotWorking)) {
		t.Fatalf("expected provider_not_working, got %v", err)
	}

	// overlapping its own old slot is fine
	res, err := e.trans.Execute(ctx, a.ID, domain.EventReschedule, asProvider, domain.Payload{NewStart: at(20, 10, 30)})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !res.Booking.EndTime.Equal(at(20, 11, 30)) || res.Booking.ProviderRescheduleCount != 1 {
		t.Fatalf("unexpected result: %+v", res.Booking)
	}
	if kinds := e.notes.kinds(); len(kinds) != 1 || kinds[0] != domain.NotifyRescheduled {
		t.Fatalf("unexpected notifications: %v", kinds)
	}
}

func TestTransitions_ClientRescheduleLimit(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	b := e.booked(domain.StatusConfirmed, at(20, 10, 0))

	for i, start := range []time.Time{at(21, 10, 0), at(22, 10, 0)} {
		if _, err := e.trans.Execute(ctx, b.ID, domain.EventReschedule, asClient, domain.Payload{NewStart: start}); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	_, err := e.trans.Execute(ctx, b.ID, domain.EventReschedule, asClient, domain.Payload{NewStart: at(23, 10, 0)})
	if !httperr.IsBusiness(err, "reschedule_limit") {
		t.Fatalf("expected reschedule_limit, got %v", err)
	}
}
