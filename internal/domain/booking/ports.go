package booking

import (
	"context"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
)

type Repository interface {
	// -------- Read --------
	FindByID(ctx context.Context, id uint) (*Booking, error)
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindForUpdate loads the row and locks it until the surrounding
	// transaction ends.
	FindForUpdate(ctx context.Context, id uint) (*Booking, error)

	// FindOverlapping returns active bookings of the provider intersecting
	// [start, end). excludeID 0 excludes nothing.
	FindOverlapping(ctx context.Context, providerID uint, start, end time.Time, excludeID uint) ([]Booking, error)

	// ListActiveBetween returns active bookings of the provider inside [from, to).
	ListActiveBetween(ctx context.Context, providerID uint, from, to time.Time) ([]Booking, error)

	// ListForPeriod returns every booking of the provider starting in
	// [from, to), whatever its status.
	ListForPeriod(ctx context.Context, providerID uint, from, to time.Time) ([]Booking, error)

	// -------- Write --------
	Create(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error

	// -------- Lookups / sweeps --------
	// HasPriorBooking matches by client id, or by phone for anonymous clients.
	HasPriorBooking(ctx context.Context, clientID uint, phone string) (bool, error)
	ListReminderDue(ctx context.Context, from, to time.Time) ([]Booking, error)
	ListStalePending(ctx context.Context, before time.Time) ([]Booking, error)

	// WithinTx runs fn in a transaction. The Repository passed to fn is
	// bound to it.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}

type ScheduleRepository interface {
	// GetWeeklySchedule returns nil, nil when the provider has no row for
	// the weekday.
	GetWeeklySchedule(ctx context.Context, providerID uint, weekday time.Weekday) (*schedule.Weekly, error)
	ListExceptions(ctx context.Context, providerID uint, from, to time.Time) ([]schedule.Exception, error)
}

type Service struct {
	ID              uint
	ProviderID      uint
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
}

type ServiceCatalog interface {
	GetService(ctx context.Context, id uint) (*Service, error)
}

// Notifier delivers notifications without blocking the caller.
type Notifier interface {
	Notify(n Notification)
}

type ChargeRequest struct {
	BookingNumber string
	Amount        float64
	Description   string
	Token         string
	Method        string
	Installments  int
	PayerEmail    string
}

type PaymentResult struct {
	Success       bool
	TransactionID string
	Status        string
	URL           string
}

type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (PaymentResult, error)
	Refund(ctx context.Context, transactionID string, amount float64) (PaymentResult, error)
	CreatePaymentLink(ctx context.Context, bookingNumber, title string, amount float64) (PaymentResult, error)
}
