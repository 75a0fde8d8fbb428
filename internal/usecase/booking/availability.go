package booking

import (
	"context"
	"fmt"
	"math"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

type ReasonCode string

const (
	ReasonNone               ReasonCode = ""
	ReasonTimeInPast         ReasonCode = "time_in_past"
	ReasonProviderNotWorking ReasonCode = "provider_not_working"
	ReasonSlotOccupied       ReasonCode = "slot_occupied"
)

type Reason struct {
	Code          ReasonCode `json:"code"`
	Message       string     `json:"message,omitempty"`
	BookingNumber string     `json:"booking_number,omitempty"`
}

func (r Reason) Available() bool {
	return r.Code == ReasonNone
}

type Occupancy struct {
	Date           string  `json:"date"`
	IsWorking      bool    `json:"is_working"`
	WorkingMinutes int     `json:"working_minutes"`
	BookedMinutes  int     `json:"booked_minutes"`
	FreeMinutes    int     `json:"free_minutes"`
	RatePercent    float64 `json:"rate_percent"`
	BookingCount   int     `json:"booking_count"`
}

type Availability struct {
	lookup *ScheduleLookup
	repo   domain.Repository
	slots  *Slots
	clock  timezone.Clock
}

func NewAvailability(
	lookup *ScheduleLookup,
	repo domain.Repository,
	slots *Slots,
	clock timezone.Clock,
) *Availability {
	return &Availability{
		lookup: lookup,
		repo:   repo,
		slots:  slots,
		clock:  clock,
	}
}

// IsAvailable is true when no active booking of the provider overlaps
// [start, end). excludeBookingID lets a booking ignore itself.
func (a *Availability) IsAvailable(
	ctx context.Context,
	providerID uint,
	start time.Time,
	end time.Time,
	excludeBookingID uint,
) (bool, error) {
	return isFree(ctx, a.repo, providerID, start, end, excludeBookingID)
}

func isFree(
	ctx context.Context,
	repo domain.Repository,
	providerID uint,
	start, end time.Time,
	excludeID uint,
) (bool, error) {
	found, err := repo.FindOverlapping(ctx, providerID, start, end, excludeID)
	if err != nil {
		return false, fmt.Errorf("find overlapping bookings: %w", err)
	}
	return len(found) == 0, nil
}

// FindNextAvailableSlot walks day by day from preferred (or now) for up to
// two weeks and returns the first free slot, or nil when there is none.
func (a *Availability) FindNextAvailableSlot(
	ctx context.Context,
	providerID uint,
	serviceID uint,
	preferred *time.Time,
	t domain.Type,
) (*schedule.Slot, error) {

	duration, err := a.slots.ServiceDuration(ctx, serviceID, t)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	from := now
	if preferred != nil && preferred.After(now) {
		from = *preferred
	}

	day := a.lookup.Day(from)
	for i := 0; i < DefaultSearchDays; i++ {
		eff, err := a.lookup.ScheduleFor(ctx, providerID, day)
		if err != nil {
			return nil, err
		}

		slots, err := a.slots.daySlots(ctx, eff, providerID, duration, t, now)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			if s.Start.Before(from) {
				continue
			}
			slot := s
			return &slot, nil
		}

		day = day.AddDate(0, 0, 1)
	}

	return nil, nil
}

// UnavailabilityReason explains why [start, start+duration) cannot be booked.
// Checks run in order: past, schedule, conflicting booking. A booking closer
// than the provider's buffer counts as conflicting.
func (a *Availability) UnavailabilityReason(
	ctx context.Context,
	providerID uint,
	start time.Time,
	duration time.Duration,
) (Reason, error) {
	return a.reason(ctx, a.repo, providerID, start, start.Add(duration), 0)
}

func (a *Availability) reason(
	ctx context.Context,
	repo domain.Repository,
	providerID uint,
	start, end time.Time,
	excludeID uint,
) (Reason, error) {

	if start.Before(a.clock.Now()) {
		return Reason{Code: ReasonTimeInPast, Message: "requested time is in the past"}, nil
	}

	eff, err := a.lookup.ScheduleFor(ctx, providerID, start)
	if err != nil {
		return Reason{}, err
	}
	if !eff.Contains(start, end) {
		return Reason{Code: ReasonProviderNotWorking, Message: "provider is not working at the requested time"}, nil
	}

	// the provider's buffer keeps the same gap around bookings as the slot list
	found, err := repo.FindOverlapping(ctx, providerID, start.Add(-eff.Buffer), end.Add(eff.Buffer), excludeID)
	if err != nil {
		return Reason{}, fmt.Errorf("find overlapping bookings: %w", err)
	}
	if len(found) > 0 {
		return Reason{
			Code:          ReasonSlotOccupied,
			Message:       "slot occupied by booking #" + found[0].Number,
			BookingNumber: found[0].Number,
		}, nil
	}

	return Reason{Code: ReasonNone}, nil
}

// OccupancyStats summarises how much of a provider's working day is booked.
func (a *Availability) OccupancyStats(
	ctx context.Context,
	providerID uint,
	date time.Time,
) (Occupancy, error) {

	eff, err := a.lookup.ScheduleFor(ctx, providerID, date)
	if err != nil {
		return Occupancy{}, err
	}

	out := Occupancy{
		Date:           eff.Date.Format(timezone.DateLayout),
		IsWorking:      eff.IsWorking,
		WorkingMinutes: eff.WorkingMinutes(),
	}
	if !eff.IsWorking {
		return out, nil
	}

	bookings, err := a.repo.ListActiveBetween(ctx, providerID, eff.Start, eff.End)
	if err != nil {
		return Occupancy{}, fmt.Errorf("list provider bookings: %w", err)
	}

	var booked time.Duration
	for _, b := range bookings {
		start, end := b.StartTime, b.EndTime
		if start.Before(eff.Start) {
			start = eff.Start
		}
		if end.After(eff.End) {
			end = eff.End
		}
		if end.After(start) {
			booked += end.Sub(start)
			out.BookingCount++
		}
	}

	out.BookedMinutes = int(booked / time.Minute)
	out.FreeMinutes = max(0, out.WorkingMinutes-out.BookedMinutes)
	if out.WorkingMinutes > 0 {
		rate := float64(out.BookedMinutes) / float64(out.WorkingMinutes) * 100
		out.RatePercent = math.Round(rate*10) / 10
	}
	return out, nil
}
