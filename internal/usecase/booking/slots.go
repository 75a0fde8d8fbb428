package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

const DefaultSearchDays = 14

type Slots struct {
	lookup  *ScheduleLookup
	repo    domain.Repository
	catalog domain.ServiceCatalog
	clock   timezone.Clock
}

func NewSlots(
	lookup *ScheduleLookup,
	repo domain.Repository,
	catalog domain.ServiceCatalog,
	clock timezone.Clock,
) *Slots {
	return &Slots{
		lookup:  lookup,
		repo:    repo,
		catalog: catalog,
		clock:   clock,
	}
}

// GenerateDaySlots lists the free slots of a provider on date.
func (s *Slots) GenerateDaySlots(
	ctx context.Context,
	date time.Time,
	providerID uint,
	duration time.Duration,
	t domain.Type,
) ([]schedule.Slot, error) {

	eff, err := s.lookup.ScheduleFor(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	return s.daySlots(ctx, eff, providerID, duration, t, s.clock.Now())
}

func (s *Slots) daySlots(
	ctx context.Context,
	eff schedule.Effective,
	providerID uint,
	duration time.Duration,
	t domain.Type,
	now time.Time,
) ([]schedule.Slot, error) {

	if duration <= 0 {
		return nil, httperr.ValidationField("invalid_duration", "duration", "service duration must be positive")
	}
	if !eff.IsWorking {
		return []schedule.Slot{}, nil
	}

	busy, err := s.busyIntervals(ctx, providerID, eff)
	if err != nil {
		return nil, err
	}

	return schedule.GenerateDaySlots(eff, duration, t.Policy().SlotPolicy(), busy, now)
}

func (s *Slots) busyIntervals(
	ctx context.Context,
	providerID uint,
	eff schedule.Effective,
) ([]schedule.Interval, error) {

	// widen by the buffer so bookings ending just before the window still count
	from := eff.Start.Add(-eff.Buffer)
	to := eff.End.Add(eff.Buffer)

	bookings, err := s.repo.ListActiveBetween(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list provider bookings: %w", err)
	}

	busy := make([]schedule.Interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, b.Interval())
	}
	return busy, nil
}

// GenerateAvailableSlots collects the slots of the next days, keyed by
// "2006-01-02". Days without a free slot are left out.
func (s *Slots) GenerateAvailableSlots(
	ctx context.Context,
	providerID uint,
	serviceID uint,
	t domain.Type,
	days int,
) (map[string][]schedule.Slot, error) {

	duration, err := s.ServiceDuration(ctx, serviceID, t)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = DefaultSearchDays
	}

	now := s.clock.Now()
	first := s.lookup.Day(t.Policy().SlotPolicy().EarliestStart(now))
	last := s.lookup.Day(now.AddDate(0, 0, days))

	out := map[string][]schedule.Slot{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		eff, err := s.lookup.ScheduleFor(ctx, providerID, day)
		if err != nil {
			return nil, err
		}
		slots, err := s.daySlots(ctx, eff, providerID, duration, t, now)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			out[day.Format(timezone.DateLayout)] = slots
		}
	}

	return out, nil
}

// ServiceDuration is the length of a booking for serviceID. Services without
// a duration fall back to the type default.
func (s *Slots) ServiceDuration(
	ctx context.Context,
	serviceID uint,
	t domain.Type,
) (time.Duration, error) {

	svc, err := loadService(ctx, s.catalog, serviceID)
	if err != nil {
		return 0, err
	}
	return bookingDuration(svc, t, 0), nil
}

func loadService(ctx context.Context, catalog domain.ServiceCatalog, serviceID uint) (*domain.Service, error) {
	svc, err := catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.Active {
		return nil, httperr.NotFound("service_not_found", "service %d not found", serviceID)
	}
	return svc, nil
}

func bookingDuration(svc *domain.Service, t domain.Type, requestedMinutes int) time.Duration {
	switch {
	case requestedMinutes > 0:
		return time.Duration(requestedMinutes) * time.Minute
	case svc != nil && svc.DurationMinutes > 0:
		return time.Duration(svc.DurationMinutes) * time.Minute
	}
	return t.Policy().DefaultDuration
}
