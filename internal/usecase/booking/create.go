package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Actor domain.Actor

	ClientID    uint
	ClientName  string
	ClientPhone string

	ProviderID uint
	ServiceID  uint

	Type            string
	StartTime       time.Time
	DurationMinutes int

	Details       domain.Details
	Notes         string
	PaymentMethod domain.PaymentMethod
	PromoCode     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	avail    *Availability
	quote    *Quote
	locker   Locker
	notifier domain.Notifier
	clock    timezone.Clock
	log      *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	avail *Availability,
	quote *Quote,
	locker Locker,
	notifier domain.Notifier,
	clock timezone.Clock,
	log *zap.Logger,
) *CreateBooking {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &CreateBooking{
		repo:     repo,
		avail:    avail,
		quote:    quote,
		locker:   locker,
		notifier: notifier,
		clock:    clock,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*domain.Booking, error) {

	// --------------------------------------------------
	// 1. Request shape
	// --------------------------------------------------
	t, err := domain.ParseType(in.Type)
	if err != nil {
		return nil, err
	}

	if in.Actor.Role == domain.RoleClient {
		in.ClientID = in.Actor.ID
	}
	if in.ClientID == 0 && strings.TrimSpace(in.ClientName) == "" {
		return nil, httperr.ValidationField("client_name_required", "client_name", "client name is required")
	}

	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentCash
	}
	switch method {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentOnline:
	default:
		return nil, httperr.ValidationField("invalid_payment_method", "payment_method", "payment method must be cash, card or online")
	}

	// --------------------------------------------------
	// 2. Service + price
	// --------------------------------------------------
	priced, err := uc.quote.ValidateAndPrice(ctx, in.ServiceID, t, QuoteInput{
		ClientID:        in.ClientID,
		ClientPhone:     in.ClientPhone,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		Details:         in.Details,
		PromoCode:       in.PromoCode,
	})
	if err != nil {
		return nil, err
	}
	if priced.Service.ProviderID != 0 && priced.Service.ProviderID != in.ProviderID {
		return nil, httperr.ValidationField("service_provider_mismatch", "service_id", "service is not offered by this provider")
	}

	if in.Actor.Role == domain.RoleProvider && in.Actor.ID != in.ProviderID {
		return nil, httperr.Permission("forbidden", "providers may only book their own timeline")
	}

	// --------------------------------------------------
	// 3. Time rules
	// --------------------------------------------------
	now := uc.clock.Now()
	start := in.StartTime
	end := start.Add(priced.Duration)

	reason, err := uc.avail.reason(ctx, uc.repo, in.ProviderID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if err := reasonError(reason); err != nil {
		return nil, err
	}

	policy := t.Policy()
	if start.Before(policy.SlotPolicy().EarliestStart(now)) {
		return nil, httperr.ValidationField(
			"too_soon",
			"start_time",
			"booking must be made at least "+policy.MinAdvance.String()+" in advance",
		)
	}

	// --------------------------------------------------
	// 4. Insert under lock
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, providerLockKey(in.ProviderID), providerLockTTL)
	if err != nil {
		return nil, err
	}
	defer unlock()

	bd := priced.Breakdown
	location := in.Details.Location
	if location == "" {
		location = defaultLocation(t)
	}

	b := domain.Booking{
		Number:         domain.NewNumber(now),
		ClientID:       in.ClientID,
		ClientName:     strings.TrimSpace(in.ClientName),
		ClientPhone:    strings.TrimSpace(in.ClientPhone),
		ProviderID:     in.ProviderID,
		ServiceID:      priced.Service.ID,
		Type:           t,
		Status:         domain.InitialStatus(),
		Location:       location,
		Address:        strings.TrimSpace(in.Details.Address),
		MeetingLink:    strings.TrimSpace(in.Details.MeetingLink),
		Notes:          in.Notes,
		ServicePrice:   bd.ServicePrice,
		TravelFee:      bd.DeliveryFee,
		DiscountAmount: bd.DiscountAmount,
		TotalPrice:     bd.TotalPrice,
		PlatformFee:    bd.PlatformFee,
		ProviderPayout: bd.ProviderPayout,
		PromoCode:      bd.PromoCode,
		PaymentMethod:  method,
		PaymentStatus:  domain.PaymentUnpaid,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.SetTimes(start, int(priced.Duration/time.Minute))

	if err := b.CheckInvariants(); err != nil {
		return nil, err
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		reason, err := uc.avail.reason(ctx, tx, b.ProviderID, b.StartTime, b.EndTime, 0)
		if err != nil {
			return err
		}
		if err := reasonError(reason); err != nil {
			return err
		}
		return tx.Create(ctx, &b)
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, slotTaken()
		}
		return nil, err
	}

	// --------------------------------------------------
	// 5. Notify
	// --------------------------------------------------
	n := domain.NewNotification(domain.NotifyCreated, b, in.Actor.Role, now)
	n.Data["start_time"] = b.StartTime
	n.Data["total_price"] = b.TotalPrice
	n.Data["type"] = string(b.Type)
	uc.notifier.Notify(n)

	uc.log.Info("booking created",
		zap.Uint("booking_id", b.ID),
		zap.String("number", b.Number),
		zap.Uint("provider_id", b.ProviderID),
		zap.Time("start_time", b.StartTime),
	)

	return &b, nil
}

func slotTaken() error {
	return httperr.Conflict("slot_occupied", "the selected time is no longer available")
}

func reasonError(r Reason) error {
	switch r.Code {
	case ReasonNone:
		return nil
	case ReasonSlotOccupied:
		return httperr.Conflict(string(r.Code), "%s", r.Message)
	}
	return httperr.ValidationField(string(r.Code), "start_time", r.Message)
}
