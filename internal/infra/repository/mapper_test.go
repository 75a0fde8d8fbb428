package repository

import (
	"testing"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/models"
)

func TestBookingMapping_AnonymousClientStoredAsNull(t *testing.T) {
	b := domain.Booking{
		Number:      "BK-261019-ABCDEF",
		ClientName:  "Anna",
		ClientPhone: "+79123456789",
		ProviderID:  3,
		Type:        domain.TypeOutcall,
		Status:      domain.StatusPending,
		Location:    domain.LocationHome,
		Address:     "Tverskaya 1",
	}
	b.SetTimes(time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC), 90)

	m := toBookingModel(&b)
	if m.ClientID != nil {
		t.Fatalf("anonymous client must map to NULL, got %v", *m.ClientID)
	}
	if m.Type != "outcall" || m.Status != "pending" || !m.BookingDate.Equal(b.Date) {
		t.Fatalf("unexpected row %+v", m)
	}

	back := toBooking(&m)
	if back.ClientID != 0 || !back.EndTime.Equal(b.EndTime) || back.Address != b.Address {
		t.Fatalf("unexpected booking %+v", back)
	}
}

func TestBookingMapping_RegisteredClientAndTimestamps(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	b := domain.Booking{
		ID:              9,
		ClientID:        7,
		Status:          domain.StatusCancelled,
		CancelledBy:     domain.RoleClient,
		CancelledAt:     &at,
		CancellationFee: 500,
		PaymentStatus:   domain.PaymentRefunded,
	}

	m := toBookingModel(&b)
	if m.ClientID == nil || *m.ClientID != 7 {
		t.Fatalf("client id lost: %v", m.ClientID)
	}

	back := toBooking(&m)
	if back.CancelledBy != domain.RoleClient || back.CancelledAt == nil || !back.CancelledAt.Equal(at) {
		t.Fatalf("cancellation fields lost: %+v", back)
	}
	if back.PaymentStatus != domain.PaymentRefunded || back.CancellationFee != 500 {
		t.Fatalf("payment fields lost: %+v", back)
	}
}

func TestScheduleMapping(t *testing.T) {
	w := toWeekly(&models.ProviderSchedule{
		ProviderID:   3,
		Weekday:      int(time.Monday),
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakStart:   "13:00",
		BreakEnd:     "14:00",
		IsWorkingDay: true,
		SlotDuration: 60,
		BufferTime:   15,
	})
	if w.Weekday != time.Monday || w.BufferTime != 15 || w.BreakStart != "13:00" {
		t.Fatalf("unexpected weekly %+v", w)
	}

	ex := toException(&models.ScheduleException{Type: "vacation", IsWorking: false})
	if ex.Type != schedule.ExceptionVacation {
		t.Fatalf("unexpected exception %+v", ex)
	}

	svc := toService(&models.Service{ID: 1, ProviderID: 3, Price: 1000, DurationMin: 60, Active: true})
	if svc.DurationMinutes != 60 || !svc.Active {
		t.Fatalf("unexpected service %+v", svc)
	}
}
