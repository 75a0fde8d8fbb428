package booking

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

type TransitionResult struct {
	Booking domain.Booking       `json:"booking"`
	Refund  *domain.RefundResult `json:"refund,omitempty"`
}

// Transitions runs state-machine events against stored bookings.
type Transitions struct {
	repo     domain.Repository
	avail    *Availability
	refunds  *Refunds
	notifier domain.Notifier
	clock    timezone.Clock
	log      *zap.Logger
}

func NewTransitions(
	repo domain.Repository,
	avail *Availability,
	refunds *Refunds,
	notifier domain.Notifier,
	clock timezone.Clock,
	log *zap.Logger,
) *Transitions {
	return &Transitions{
		repo:     repo,
		avail:    avail,
		refunds:  refunds,
		notifier: notifier,
		clock:    clock,
		log:      log,
	}
}

// Execute locks the booking row, applies ev and commits. Notifications and
// refunds run only after a successful commit.
func (uc *Transitions) Execute(
	ctx context.Context,
	id uint,
	ev domain.Event,
	actor domain.Actor,
	p domain.Payload,
) (*TransitionResult, error) {

	now := uc.clock.Now()

	var before, after domain.Booking
	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next, err := domain.Transition(*cur, ev, actor, p, now)
		if err != nil {
			return err
		}

		if ev == domain.EventReschedule {
			reason, err := uc.avail.reason(ctx, tx, next.ProviderID, next.StartTime, next.EndTime, next.ID)
			if err != nil {
				return err
			}
			if err := reasonError(reason); err != nil {
				return err
			}
		}

		if err := tx.Update(ctx, &next); err != nil {
			return err
		}

		before, after = *cur, next
		return nil
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, slotTaken()
		}
		return nil, err
	}

	uc.notifier.Notify(domain.NotificationFor(ev, before, after, actor.Role, now))

	res := &TransitionResult{Booking: after}
	if ev == domain.EventCancel || ev == domain.EventNoShow {
		refund := uc.settleRefund(ctx, &res.Booking, actor)
		res.Refund = &refund
	}

	return res, nil
}

func (uc *Transitions) settleRefund(
	ctx context.Context,
	b *domain.Booking,
	actor domain.Actor,
) domain.RefundResult {

	r := uc.refunds.Execute(ctx, *b, b.CancellationFee)
	if r.Status == domain.RefundNone {
		return r
	}

	now := uc.clock.Now()
	stored, err := recordRefund(ctx, uc.repo, b.ID, r, now)
	if err != nil {
		uc.log.Error("persist refund outcome",
			zap.Uint("booking_id", b.ID),
			zap.String("refund_status", string(r.Status)),
			zap.Error(err),
		)
		b.PaymentStatus = domain.PaymentStatusAfter(b.PaymentStatus, r)
	} else {
		*b = stored
	}

	uc.notifier.Notify(refundNotification(*b, r, actor.Role, now))
	return r
}
