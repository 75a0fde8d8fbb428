package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/pricing"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

// QuoteInput is what a client tells us before booking.
type QuoteInput struct {
	ClientID        uint
	ClientPhone     string
	StartTime       time.Time
	DurationMinutes int
	Details         domain.Details
	PromoCode       string
}

type Priced struct {
	Service   domain.Service
	Type      domain.Type
	Duration  time.Duration
	Breakdown pricing.Breakdown
}

type Quote struct {
	catalog domain.ServiceCatalog
	repo    domain.Repository
	engine  *pricing.Engine
	clock   timezone.Clock
}

func NewQuote(
	catalog domain.ServiceCatalog,
	repo domain.Repository,
	engine *pricing.Engine,
	clock timezone.Clock,
) *Quote {
	return &Quote{
		catalog: catalog,
		repo:    repo,
		engine:  engine,
		clock:   clock,
	}
}

func (q *Quote) Engine() *pricing.Engine {
	return q.engine
}

// ValidateAndPrice checks the per-type fields and duration, then prices the
// booking with the first-booking check and promo code applied.
func (q *Quote) ValidateAndPrice(
	ctx context.Context,
	serviceID uint,
	t domain.Type,
	in QuoteInput,
) (Priced, error) {

	svc, err := loadService(ctx, q.catalog, serviceID)
	if err != nil {
		return Priced{}, err
	}

	policy := t.Policy()
	if err := policy.ValidateDetails(in.Details); err != nil {
		return Priced{}, err
	}

	duration := bookingDuration(svc, t, in.DurationMinutes)
	if err := policy.ValidateDuration(duration); err != nil {
		return Priced{}, err
	}

	first := false
	if in.ClientID != 0 || in.ClientPhone != "" {
		prior, err := q.repo.HasPriorBooking(ctx, in.ClientID, in.ClientPhone)
		if err != nil {
			return Priced{}, fmt.Errorf("check prior bookings: %w", err)
		}
		first = !prior
	}

	location := in.Details.Location
	if location == "" {
		location = defaultLocation(t)
	}

	breakdown := q.engine.Compute(svc.Price, t, pricing.Context{
		StartTime:      in.StartTime,
		Now:            q.clock.Now(),
		Location:       location,
		IsFirstBooking: first,
		PromoCode:      in.PromoCode,
	})

	return Priced{
		Service:   *svc,
		Type:      t,
		Duration:  duration,
		Breakdown: breakdown,
	}, nil
}

// defaultLocation is empty for online sessions.
func defaultLocation(t domain.Type) domain.Location {
	switch t {
	case domain.TypeOutcall:
		return domain.LocationHome
	case domain.TypeOnline:
		return ""
	}
	return domain.LocationSalon
}

// Promo checks code against the price of serviceID.
func (q *Quote) Promo(ctx context.Context, code string, serviceID uint) (pricing.PromoResult, error) {
	svc, err := loadService(ctx, q.catalog, serviceID)
	if err != nil {
		return pricing.PromoResult{}, err
	}
	return q.engine.ApplyPromo(code, svc.Price), nil
}

// Package prices several services of one provider booked together.
func (q *Quote) Package(ctx context.Context, serviceIDs []uint) (pricing.PackageQuote, error) {
	if len(serviceIDs) == 0 {
		return pricing.PackageQuote{}, httperr.ValidationField("services_required", "service_ids", "at least one service is required")
	}

	var providerID uint
	prices := make([]float64, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, err := loadService(ctx, q.catalog, id)
		if err != nil {
			return pricing.PackageQuote{}, err
		}
		if providerID != 0 && svc.ProviderID != providerID {
			return pricing.PackageQuote{}, httperr.Validation("service_provider_mismatch", "package services must belong to one provider")
		}
		providerID = svc.ProviderID
		prices = append(prices, svc.Price)
	}

	return pricing.PackagePrice(prices), nil
}
