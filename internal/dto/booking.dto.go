package dto

import (
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
)

type BookingDTO struct {
	ID     uint   `json:"id"`
	Number string `json:"number"`

	ClientID    uint   `json:"client_id,omitempty"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone,omitempty"`
	ProviderID  uint   `json:"provider_id"`
	ServiceID   uint   `json:"service_id"`

	Type            string    `json:"type"`
	Date            string    `json:"date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`

	Location    string `json:"location,omitempty"`
	Address     string `json:"address,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
	Notes       string `json:"notes,omitempty"`

	ServicePrice   float64 `json:"service_price"`
	TravelFee      float64 `json:"travel_fee"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalPrice     float64 `json:"total_price"`
	PromoCode      string  `json:"promo_code,omitempty"`

	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	PaidAmount    float64 `json:"paid_amount"`

	RescheduleCount    int        `json:"reschedule_count"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancellationFee    float64    `json:"cancellation_fee"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ReviewRequested    bool       `json:"review_requested"`

	AllowedEvents []domain.Event `json:"allowed_events"`
	CreatedAt     time.Time      `json:"created_at"`
}

func FromBooking(b domain.Booking) BookingDTO {
	out := BookingDTO{
		ID:                 b.ID,
		Number:             b.Number,
		ClientID:           b.ClientID,
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		ProviderID:         b.ProviderID,
		ServiceID:          b.ServiceID,
		Type:               string(b.Type),
		Date:               b.Date.Format("2006-01-02"),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		Location:           string(b.Location),
		Address:            b.Address,
		MeetingLink:        b.MeetingLink,
		Notes:              b.Notes,
		ServicePrice:       b.ServicePrice,
		TravelFee:          b.TravelFee,
		DiscountAmount:     b.DiscountAmount,
		TotalPrice:         b.TotalPrice,
		PromoCode:          b.PromoCode,
		PaymentMethod:      string(b.PaymentMethod),
		PaymentStatus:      string(b.PaymentStatus),
		PaidAmount:         b.PaidAmount,
		RescheduleCount:    b.RescheduleCount,
		CancellationReason: b.CancellationReason,
		CancellationFee:    b.CancellationFee,
		CancelledBy:        string(b.CancelledBy),
		CancelledAt:        b.CancelledAt,
		ConfirmedAt:        b.ConfirmedAt,
		StartedAt:          b.StartedAt,
		CompletedAt:        b.CompletedAt,
		ReviewRequested:    b.ReviewRequested,
		AllowedEvents:      domain.Allowed(b.Status),
		CreatedAt:          b.CreatedAt,
	}
	if out.AllowedEvents == nil {
		out.AllowedEvents = []domain.Event{}
	}
	return out
}

type ProviderBookingDTO struct {
	BookingDTO
	PlatformFee    float64 `json:"platform_fee"`
	ProviderPayout float64 `json:"provider_payout"`
}

// ForViewer hides the platform fee and provider payout from clients.
func ForViewer(b domain.Booking, viewer domain.Actor) any {
	base := FromBooking(b)
	if viewer.Role == domain.RoleClient {
		return base
	}
	return ProviderBookingDTO{
		BookingDTO:     base,
		PlatformFee:    b.PlatformFee,
		ProviderPayout: b.ProviderPayout,
	}
}
