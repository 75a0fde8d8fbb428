package booking

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
)

// Refunds returns money after a cancellation. A nil gateway means every
// refund is handled manually.
type Refunds struct {
	gateway domain.PaymentGateway
	log     *zap.Logger
}

func NewRefunds(gateway domain.PaymentGateway, log *zap.Logger) *Refunds {
	return &Refunds{gateway: gateway, log: log}
}

func (r *Refunds) Execute(
	ctx context.Context,
	b domain.Booking,
	fee float64,
) domain.RefundResult {

	result, done := domain.PlanRefund(b.PaidAmount, fee)
	if done {
		return result
	}

	manual := domain.RefundResult{
		Status:         domain.RefundPending,
		Amount:         result.Amount,
		Fee:            fee,
		Message:        domain.MsgManualRefund,
		RequiresAction: true,
	}

	if r.gateway == nil || b.PaymentID == "" {
		return manual
	}

	res, err := r.gateway.Refund(ctx, b.PaymentID, result.Amount)
	if err != nil || !res.Success {
		r.log.Warn("automatic refund failed",
			zap.Uint("booking_id", b.ID),
			zap.String("payment_id", b.PaymentID),
			zap.Float64("amount", result.Amount),
			zap.Error(err),
		)
		return manual
	}

	return domain.RefundResult{
		Status:        domain.RefundProcessed,
		Amount:        result.Amount,
		Fee:           fee,
		TransactionID: res.TransactionID,
		Message:       domain.MsgRefunded,
	}
}

// recordRefund stores a refund outcome on the locked row, so changes made
// since the booking was read are kept.
func recordRefund(
	ctx context.Context,
	repo domain.Repository,
	id uint,
	r domain.RefundResult,
	now time.Time,
) (domain.Booking, error) {

	var out domain.Booking
	err := repo.WithinTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		cur.PaymentStatus = domain.PaymentStatusAfter(cur.PaymentStatus, r)
		if r.Status == domain.RefundProcessed {
			cur.PaidAmount = math.Max(0, cur.PaidAmount-r.Amount)
		}
		cur.UpdatedAt = now
		if err := tx.Update(ctx, cur); err != nil {
			return err
		}
		out = *cur
		return nil
	})
	return out, err
}

func refundNotification(b domain.Booking, r domain.RefundResult, actor domain.Role, at time.Time) domain.Notification {
	n := domain.NewNotification(domain.NotifyRefundProcessed, b, actor, at)
	n.Data["refund_status"] = string(r.Status)
	n.Data["amount"] = r.Amount
	n.Data["fee"] = r.Fee
	n.Data["transaction_id"] = r.TransactionID
	n.Data["requires_action"] = r.RequiresAction
	return n
}
