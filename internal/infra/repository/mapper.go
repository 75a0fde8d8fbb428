package repository

import (
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/models"
)

func toBookingModel(b *domain.Booking) models.Booking {
	var clientID *uint
	if b.ClientID != 0 {
		id := b.ClientID
		clientID = &id
	}

	return models.Booking{
		ID:                      b.ID,
		Number:                  b.Number,
		ClientID:                clientID,
		ClientName:              b.ClientName,
		ClientPhone:             b.ClientPhone,
		ProviderID:              b.ProviderID,
		ServiceID:               b.ServiceID,
		Type:                    string(b.Type),
		BookingDate:             b.Date,
		StartTime:               b.StartTime,
		EndTime:                 b.EndTime,
		DurationMinutes:         b.DurationMinutes,
		Status:                  string(b.Status),
		Location:                string(b.Location),
		Address:                 b.Address,
		MeetingLink:             b.MeetingLink,
		Notes:                   b.Notes,
		ServicePrice:            b.ServicePrice,
		TravelFee:               b.TravelFee,
		DiscountAmount:          b.DiscountAmount,
		TotalPrice:              b.TotalPrice,
		PlatformFee:             b.PlatformFee,
		ProviderPayout:          b.ProviderPayout,
		PromoCode:               b.PromoCode,
		PaymentMethod:           string(b.PaymentMethod),
		PaymentStatus:           string(b.PaymentStatus),
		PaymentID:               b.PaymentID,
		PaidAmount:              b.PaidAmount,
		RescheduleCount:         b.RescheduleCount,
		ClientRescheduleCount:   b.ClientRescheduleCount,
		ProviderRescheduleCount: b.ProviderRescheduleCount,
		CancellationReason:      b.CancellationReason,
		CancellationFee:         b.CancellationFee,
		CancelledBy:             string(b.CancelledBy),
		CancelledAt:             b.CancelledAt,
		ConfirmedAt:             b.ConfirmedAt,
		StartedAt:               b.StartedAt,
		CompletedAt:             b.CompletedAt,
		ReminderSent:            b.ReminderSent,
		ReviewRequested:         b.ReviewRequested,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}
}

func toBooking(m *models.Booking) domain.Booking {
	var clientID uint
	if m.ClientID != nil {
		clientID = *m.ClientID
	}

	return domain.Booking{
		ID:                      m.ID,
		Number:                  m.Number,
		ClientID:                clientID,
		ClientName:              m.ClientName,
		ClientPhone:             m.ClientPhone,
		ProviderID:              m.ProviderID,
		ServiceID:               m.ServiceID,
		Type:                    domain.Type(m.Type),
		Date:                    m.BookingDate,
		StartTime:               m.StartTime,
		EndTime:                 m.EndTime,
		DurationMinutes:         m.DurationMinutes,
		Status:                  domain.Status(m.Status),
		Location:                domain.Location(m.Location),
		Address:                 m.Address,
		MeetingLink:             m.MeetingLink,
		Notes:                   m.Notes,
		ServicePrice:            m.ServicePrice,
		TravelFee:               m.TravelFee,
		DiscountAmount:          m.DiscountAmount,
		TotalPrice:              m.TotalPrice,
		PlatformFee:             m.PlatformFee,
		ProviderPayout:          m.ProviderPayout,
		PromoCode:               m.PromoCode,
		PaymentMethod:           domain.PaymentMethod(m.PaymentMethod),
		PaymentStatus:           domain.PaymentStatus(m.PaymentStatus),
		PaymentID:               m.PaymentID,
		PaidAmount:              m.PaidAmount,
		RescheduleCount:         m.RescheduleCount,
		ClientRescheduleCount:   m.ClientRescheduleCount,
		ProviderRescheduleCount: m.ProviderRescheduleCount,
		CancellationReason:      m.CancellationReason,
		CancellationFee:         m.CancellationFee,
		CancelledBy:             domain.Role(m.CancelledBy),
		CancelledAt:             m.CancelledAt,
		ConfirmedAt:             m.ConfirmedAt,
		StartedAt:               m.StartedAt,
		CompletedAt:             m.CompletedAt,
		ReminderSent:            m.ReminderSent,
		ReviewRequested:         m.ReviewRequested,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func toBookings(rows []models.Booking) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for i := range rows {
		out = append(out, toBooking(&rows[i]))
	}
	return out
}

func toWeekly(m *models.ProviderSchedule) *schedule.Weekly {
	return &schedule.Weekly{
		ProviderID:   m.ProviderID,
		Weekday:      time.Weekday(m.Weekday),
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		BreakStart:   m.BreakStart,
		BreakEnd:     m.BreakEnd,
		IsWorkingDay: m.IsWorkingDay,
		SlotDuration: m.SlotDuration,
		BufferTime:   m.BufferTime,
	}
}

func toException(m *models.ScheduleException) schedule.Exception {
	return schedule.Exception{
		ProviderID: m.ProviderID,
		Type:       schedule.ExceptionType(m.Type),
		DateFrom:   m.DateFrom,
		DateTo:     m.DateTo,
		IsWorking:  m.IsWorking,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Reason:     m.Reason,
	}
}

func toService(m *models.Service) *domain.Service {
	return &domain.Service{
		ID:              m.ID,
		ProviderID:      m.ProviderID,
		Name:            m.Name,
		Price:           m.Price,
		DurationMinutes: m.DurationMin,
		Active:          m.Active,
	}
}
