package booking

import (
	"math"
	"time"
)

const (
	// FreeCancellationWindow and later: no fee.
	FreeCancellationWindow = 24 * time.Hour
	// LateCancellationWindow up to FreeCancellationWindow: half the price.
	LateCancellationWindow = 2 * time.Hour
	LateCancellationRate   = 0.5

	// MinCancelNotice is how close to the start non-admins may still cancel.
	MinCancelNotice = 2 * time.Hour
)

// CancellationFee returns the fee owed when b is cancelled at now:
// >= 24h before start nothing, [2h, 24h) half of the total, < 2h all of it.
func CancellationFee(b Booking, now time.Time) float64 {
	left := b.StartTime.Sub(now)
	switch {
	case left >= FreeCancellationWindow:
		return 0
	case left >= LateCancellationWindow:
		return roundMoney(b.TotalPrice * LateCancellationRate)
	default:
		return roundMoney(b.TotalPrice)
	}
}

func RefundAmount(paidAmount, fee float64) float64 {
	return roundMoney(math.Max(0, paidAmount-fee))
}

// ===============================
// Refund outcome
// ===============================

type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundForfeited RefundStatus = "forfeited"
	RefundProcessed RefundStatus = "refunded"
	RefundPending   RefundStatus = "pending"
)

const (
	MsgNothingToRefund = "No payment was made, nothing to refund."
	MsgForfeited       = "The payment is fully forfeited as a cancellation penalty."
	MsgRefunded        = "Refund issued, funds arrive within 3-5 business days."
	MsgManualRefund    = "Automatic refund unavailable, a manual refund will be made within 24 hours."
)

type RefundResult struct {
	Status         RefundStatus `json:"status"`
	Amount         float64      `json:"amount"`
	Fee            float64      `json:"fee"`
	TransactionID  string       `json:"transaction_id,omitempty"`
	Message        string       `json:"message"`
	RequiresAction bool         `json:"requires_action"`
}

// PlanRefund resolves the cases that need no gateway call. When done is false
// the caller must attempt a refund of result.Amount.
func PlanRefund(paidAmount, fee float64) (result RefundResult, done bool) {
	if paidAmount <= 0 {
		return RefundResult{Status: RefundNone, Fee: fee, Message: MsgNothingToRefund}, true
	}

	amount := RefundAmount(paidAmount, fee)
	if amount <= 0 {
		return RefundResult{Status: RefundForfeited, Fee: fee, Message: MsgForfeited}, true
	}

	return RefundResult{Amount: amount, Fee: fee}, false
}

// PaymentStatusAfter maps a refund outcome onto the booking payment status.
func PaymentStatusAfter(current PaymentStatus, r RefundResult) PaymentStatus {
	switch r.Status {
	case RefundProcessed:
		return PaymentRefunded
	case RefundPending:
		return PaymentRefundPending
	case RefundForfeited:
		return PaymentForfeited
	}
	return current
}
