package booking

import (
	"testing"
	"time"
)

func TestCancellationFee_Tiers(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want float64
	}{
		{30 * time.Hour, 0},
		{24 * time.Hour, 0},
		{10 * time.Hour, 500},
		{2 * time.Hour, 500},
		{1 * time.Hour, 1000},
		{-time.Hour, 1000},
	}

	for _, tt := range tests {
		b := sample(StatusConfirmed, tt.in)
		if got := CancellationFee(b, now); got != tt.want {
			t.Errorf("%s before start: expected fee %.2f, got %.2f", tt.in, tt.want, got)
		}
	}
}

func TestRefundAmount(t *testing.T) {
	if got := RefundAmount(1000, 1000); got != 0 {
		t.Fatalf("expected 0, got %.2f", got)
	}
	if got := RefundAmount(1000, 500); got != 500 {
		t.Fatalf("expected 500, got %.2f", got)
	}
	if got := RefundAmount(300, 500); got != 0 {
		t.Fatalf("refund must never be negative, got %.2f", got)
	}
}

func TestPlanRefund(t *testing.T) {
	r, done := PlanRefund(0, 0)
	if !done || r.Status != RefundNone || r.Message != MsgNothingToRefund {
		t.Fatalf("unpaid: got %+v done=%v", r, done)
	}

	r, done = PlanRefund(1000, 1000)
	if !done || r.Status != RefundForfeited || r.Message != MsgForfeited {
		t.Fatalf("forfeited: got %+v done=%v", r, done)
	}

	r, done = PlanRefund(1000, 500)
	if done || r.Amount != 500 || r.Fee != 500 {
		t.Fatalf("partial: got %+v done=%v", r, done)
	}
}

func TestPaymentStatusAfter(t *testing.T) {
	tests := []struct {
		status RefundStatus
		want   PaymentStatus
	}{
		{RefundProcessed, PaymentRefunded},
		{RefundPending, PaymentRefundPending},
		{RefundForfeited, PaymentForfeited},
		{RefundNone, PaymentUnpaid},
	}
	for _, tt := range tests {
		if got := PaymentStatusAfter(PaymentUnpaid, RefundResult{Status: tt.status}); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.status, tt.want, got)
		}
	}
}
