package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

type ChargeInput struct {
	Token        string
	Method       string
	Installments int
	PayerEmail   string
}

// Payments takes money for bookings through the gateway.
type Payments struct {
	repo     domain.Repository
	gateway  domain.PaymentGateway
	refunds  *Refunds
	notifier domain.Notifier
	clock    timezone.Clock
	log      *zap.Logger
}

func NewPayments(
	repo domain.Repository,
	gateway domain.PaymentGateway,
	refunds *Refunds,
	notifier domain.Notifier,
	clock timezone.Clock,
	log *zap.Logger,
) *Payments {
	return &Payments{
		repo:     repo,
		gateway:  gateway,
		refunds:  refunds,
		notifier: notifier,
		clock:    clock,
		log:      log,
	}
}

// Charge pays the outstanding amount of a booking. A booking that stopped
// being active while the gateway was charging keeps the payment on record
// and has it refunded right away.
func (uc *Payments) Charge(
	ctx context.Context,
	id uint,
	actor domain.Actor,
	in ChargeInput,
) (*domain.Booking, error) {

	b, amount, err := uc.payable(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	res, err := uc.gateway.Charge(ctx, domain.ChargeRequest{
		BookingNumber: b.Number,
		Amount:        amount,
		Description:   "Booking " + b.Number,
		Token:         in.Token,
		Method:        in.Method,
		Installments:  in.Installments,
		PayerEmail:    in.PayerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("charge booking %s: %w", b.Number, err)
	}
	if !res.Success {
		return nil, httperr.Validation("payment_declined", "payment was not approved (%s)", res.Status)
	}

	now := uc.clock.Now()

	var paid domain.Booking
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		cur.PaymentID = res.TransactionID
		cur.PaidAmount += amount
		cur.PaymentStatus = domain.PaymentPaid
		cur.UpdatedAt = now
		if err := tx.Update(ctx, cur); err != nil {
			return err
		}
		paid = *cur
		return nil
	})
	if err != nil {
		// money was taken; the row must be fixed by hand
		uc.log.Error("record payment",
			zap.Uint("booking_id", id),
			zap.String("transaction_id", res.TransactionID),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
		return nil, err
	}

	if !paid.Status.IsActive() {
		return nil, uc.refundLate(ctx, paid, actor, now)
	}

	return &paid, nil
}

func (uc *Payments) refundLate(
	ctx context.Context,
	b domain.Booking,
	actor domain.Actor,
	now time.Time,
) error {

	r := uc.refunds.Execute(ctx, b, b.CancellationFee)

	stored, err := recordRefund(ctx, uc.repo, b.ID, r, now)
	if err != nil {
		uc.log.Error("persist late payment refund",
			zap.Uint("booking_id", b.ID),
			zap.String("refund_status", string(r.Status)),
			zap.Error(err),
		)
		stored = b
	}
	uc.notifier.Notify(refundNotification(stored, r, actor.Role, now))

	return httperr.Conflict(
		"booking_not_active",
		"booking %s was %s while the payment was processed (refund %s)",
		b.Number, b.Status, r.Status,
	)
}

// PaymentLink creates a checkout link for the outstanding amount.
func (uc *Payments) PaymentLink(
	ctx context.Context,
	id uint,
	actor domain.Actor,
) (domain.PaymentResult, error) {

	b, amount, err := uc.payable(ctx, id, actor)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	res, err := uc.gateway.CreatePaymentLink(ctx, b.Number, "Booking "+b.Number, amount)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("payment link for %s: %w", b.Number, err)
	}
	return res, nil
}

func (uc *Payments) payable(
	ctx context.Context,
	id uint,
	actor domain.Actor,
) (*domain.Booking, float64, error) {

	if uc.gateway == nil {
		return nil, 0, httperr.Validation("payment_unavailable", "online payments are not configured")
	}

	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsTiedTo(*b) {
		return nil, 0, httperr.NotFound("booking_not_found", "booking not found")
	}
	if !b.Status.IsActive() {
		return nil, 0, httperr.Validation("invalid_state", "cannot pay for booking in status %s", b.Status)
	}

	amount := b.TotalPrice - b.PaidAmount
	if amount <= 0 {
		return nil, 0, httperr.Conflict("already_paid", "booking %s is already paid", b.Number)
	}
	return b, amount, nil
}
