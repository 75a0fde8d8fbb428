package booking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
)

type Location string

const (
	LocationSalon Location = "salon"
	LocationHome  Location = "home"
)

func (l Location) IsValid() bool {
	return l == LocationSalon || l == LocationHome
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

// RequiresPayment is true for methods that must be settled before completion.
func (m PaymentMethod) RequiresPayment() bool {
	return m == PaymentCard || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefundPending PaymentStatus = "refund_pending"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentForfeited     PaymentStatus = "forfeited"
)

// Booking is the value the core works on. Persistence maps it to and from
// its own row type.
type Booking struct {
	ID     uint
	Number string

	ClientID    uint
	ClientName  string
	ClientPhone string
	ProviderID  uint
	ServiceID   uint

	Type            Type
	Date            time.Time
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          Status

	Location    Location
	Address     string
	MeetingLink string
	Notes       string

	ServicePrice   float64
	TravelFee      float64
	DiscountAmount float64
	TotalPrice     float64
	PlatformFee    float64
	ProviderPayout float64
	PromoCode      string

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	PaymentID     string
	PaidAmount    float64

	RescheduleCount         int
	ClientRescheduleCount   int
	ProviderRescheduleCount int

	CancellationReason string
	CancellationFee    float64
	CancelledBy        Role
	CancelledAt        *time.Time

	ConfirmedAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	ReminderSent    bool
	ReviewRequested bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Booking) Interval() schedule.Interval {
	return schedule.Interval{Start: b.StartTime, End: b.EndTime}
}

func (b Booking) Duration() time.Duration {
	return time.Duration(b.DurationMinutes) * time.Minute
}

// SetTimes moves the booking keeping end = start + duration.
func (b *Booking) SetTimes(start time.Time, durationMinutes int) {
	b.StartTime = start
	b.DurationMinutes = durationMinutes
	b.EndTime = start.Add(time.Duration(durationMinutes) * time.Minute)
	b.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}

// HoursUntilStart may be negative once the booking has started.
func (b Booking) HoursUntilStart(now time.Time) float64 {
	return b.StartTime.Sub(now).Hours()
}

// CheckInvariants verifies the time and price relations of a booking.
func (b Booking) CheckInvariants() error {
	if !b.EndTime.Equal(b.StartTime.Add(b.Duration())) {
		return fmt.Errorf("booking %s: end_time does not match start_time + duration", b.Number)
	}
	want := roundMoney(b.ServicePrice + b.TravelFee - b.DiscountAmount)
	if want < 0 || math.Abs(want-b.TotalPrice) > 0.009 {
		return fmt.Errorf("booking %s: total_price %.2f does not match breakdown %.2f", b.Number, b.TotalPrice, want)
	}
	return nil
}

// NewNumber builds the public booking number, e.g. BK-261019-3F9A1C.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BK-%s-%s", now.Format("060102"), suffix)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
