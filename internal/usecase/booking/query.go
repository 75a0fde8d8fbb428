package booking

import (
	"context"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

type FeePreview struct {
	BookingID       uint                 `json:"booking_id"`
	Number          string               `json:"number"`
	HoursUntilStart float64              `json:"hours_until_start"`
	Fee             float64              `json:"fee"`
	RefundAmount    float64              `json:"refund_amount"`
	CanCancel       bool                 `json:"can_cancel"`
	AllowedEvents   []domain.Event       `json:"allowed_events"`
	Status          domain.Status        `json:"status"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
}

type GetBooking struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetBooking(repo domain.Repository, clock timezone.Clock) *GetBooking {
	return &GetBooking{repo: repo, clock: clock}
}

func (uc *GetBooking) ByID(ctx context.Context, id uint, actor domain.Actor) (*domain.Booking, error) {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return visibleTo(b, actor)
}

func (uc *GetBooking) ByNumber(ctx context.Context, number string, actor domain.Actor) (*domain.Booking, error) {
	b, err := uc.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return visibleTo(b, actor)
}

// CancellationFee previews what cancelling now would cost the client.
func (uc *GetBooking) CancellationFee(ctx context.Context, id uint, actor domain.Actor) (FeePreview, error) {
	b, err := uc.ByID(ctx, id, actor)
	if err != nil {
		return FeePreview{}, err
	}

	now := uc.clock.Now()
	fee := 0.0
	if actor.Role == domain.RoleClient {
		fee = domain.CancellationFee(*b, now)
	}

	_, err = domain.Transition(*b, domain.EventCancel, actor, domain.Payload{}, now)

	return FeePreview{
		BookingID:       b.ID,
		Number:          b.Number,
		HoursUntilStart: b.HoursUntilStart(now),
		Fee:             fee,
		RefundAmount:    domain.RefundAmount(b.PaidAmount, fee),
		CanCancel:       err == nil,
		AllowedEvents:   domain.Allowed(b.Status),
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
	}, nil
}

func visibleTo(b *domain.Booking, actor domain.Actor) (*domain.Booking, error) {
	if !actor.IsTiedTo(*b) {
		return nil, httperr.NotFound("booking_not_found", "booking not found")
	}
	return b, nil
}
