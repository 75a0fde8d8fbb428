package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/pricing"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

// ======================================================
// Repository
// ======================================================

type memRepo struct {
	mu        sync.Mutex
	bookings  map[uint]domain.Booking
	nextID    uint
	createErr error
	updates   int
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: map[uint]domain.Booking{}}
}

func (r *memRepo) seed(b domain.Booking) domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	if b.Number == "" {
		b.Number = domain.NewNumber(b.StartTime)
	}
	r.bookings[b.ID] = b
	return b
}

func (r *memRepo) get(id uint) domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, httperr.NotFound("booking_not_found", "booking %d not found", id)
	}
	return &b, nil
}

func (r *memRepo) FindByNumber(_ context.Context, number string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.Number == number {
			b := b
			return &b, nil
		}
	}
	return nil, httperr.NotFound("booking_not_found", "booking %s not found", number)
}

func (r *memRepo) FindForUpdate(ctx context.Context, id uint) (*domain.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *memRepo) FindOverlapping(_ context.Context, providerID uint, start, end time.Time, excludeID uint) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool {
		return b.ProviderID == providerID && b.ID != excludeID && b.Blocks(start, end)
	}), nil
}

func (r *memRepo) ListActiveBetween(_ context.Context, providerID uint, from, to time.Time) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool {
		return b.ProviderID == providerID && b.Blocks(from, to)
	}), nil
}

func (r *memRepo) ListForPeriod(_ context.Context, providerID uint, from, to time.Time) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool {
		return b.ProviderID == providerID && !b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

func (r *memRepo) Create(_ context.Context, b *domain.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	*b = r.seed(*b)
	return nil
}

func (r *memRepo) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return httperr.NotFound("booking_not_found", "booking %d not found", b.ID)
	}
	r.bookings[b.ID] = *b
	r.updates++
	return nil
}

func (r *memRepo) HasPriorBooking(_ context.Context, clientID uint, phone string) (bool, error) {
	found := r.filter(func(b domain.Booking) bool {
		if clientID != 0 {
			return b.ClientID == clientID
		}
		return phone != "" && b.ClientPhone == phone
	})
	return len(found) > 0, nil
}

func (r *memRepo) ListReminderDue(_ context.Context, from, to time.Time) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool {
		return b.Status == domain.StatusConfirmed && !b.ReminderSent &&
			!b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

func (r *memRepo) ListStalePending(_ context.Context, before time.Time) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool {
		return b.Status == domain.StatusPending && b.StartTime.Before(before)
	}), nil
}

// listHookRepo runs afterList once the reminder query has returned, to let a
// test change bookings between the read and the write.
type listHookRepo struct {
	*memRepo
	afterList func()
}

func (r *listHookRepo) ListReminderDue(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	out, err := r.memRepo.ListReminderDue(ctx, from, to)
	if r.afterList != nil {
		r.afterList()
	}
	return out, err
}

func (r *memRepo) WithinTx(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *memRepo) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// ======================================================
// Schedules / catalog
// ======================================================

type memSchedules struct {
	weekly     map[time.Weekday]*schedule.Weekly
	exceptions []schedule.Exception
}

func (s *memSchedules) GetWeeklySchedule(_ context.Context, _ uint, wd time.Weekday) (*schedule.Weekly, error) {
	return s.weekly[wd], nil
}

func (s *memSchedules) ListExceptions(_ context.Context, _ uint, _, _ time.Time) ([]schedule.Exception, error) {
	return s.exceptions, nil
}

type memCatalog map[uint]*domain.Service

func (c memCatalog) GetService(_ context.Context, id uint) (*domain.Service, error) {
	svc, ok := c[id]
	if !ok {
		return nil, httperr.NotFound("service_not_found", "service %d not found", id)
	}
	return svc, nil
}

// ======================================================
// Notifier / gateway
// ======================================================

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(v domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, v)
}

func (n *recordingNotifier) kinds() []domain.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.NotificationKind, 0, len(n.sent))
	for _, v := range n.sent {
		out = append(out, v.Kind)
	}
	return out
}

type fakeGateway struct {
	refundErr   error
	refundCalls []float64
	chargeOK    bool

	// run while the gateway call is in flight
	onCharge func()
	onRefund func()
}

func (g *fakeGateway) Charge(_ context.Context, req domain.ChargeRequest) (domain.PaymentResult, error) {
	if g.onCharge != nil {
		g.onCharge()
	}
	if !g.chargeOK {
		return domain.PaymentResult{Success: false, Status: "rejected"}, nil
	}
	return domain.PaymentResult{Success: true, TransactionID: "pay-" + req.BookingNumber, Status: "approved"}, nil
}

func (g *fakeGateway) Refund(_ context.Context, transactionID string, amount float64) (domain.PaymentResult, error) {
	if g.onRefund != nil {
		g.onRefund()
	}
	g.refundCalls = append(g.refundCalls, amount)
	if g.refundErr != nil {
		return domain.PaymentResult{}, g.refundErr
	}
	return domain.PaymentResult{Success: true, TransactionID: "rf-" + transactionID, Status: "approved"}, nil
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, number, _ string, amount float64) (domain.PaymentResult, error) {
	return domain.PaymentResult{Success: true, TransactionID: "pref-" + number, URL: "https://pay.example/" + number}, nil
}

// ======================================================
// Wiring
// ======================================================

const (
	providerID uint = 3
	serviceID  uint = 11
	clientID   uint = 7
)

// 2026-10-19 is a Monday.
var monday8 = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func at(day, h, m int) time.Time {
	return time.Date(2026, 10, day, h, m, 0, 0, time.UTC)
}

type testEnv struct {
	repo     *memRepo
	sched    *memSchedules
	catalog  memCatalog
	notes    *recordingNotifier
	gateway  *fakeGateway
	clock    *timezone.FixedClock
	lookup   *ScheduleLookup
	slots    *Slots
	avail    *Availability
	quote    *Quote
	create   *CreateBooking
	trans    *Transitions
	payments *Payments
	sweeps   *Sweeps
	get      *GetBooking
}

func weekday(wd time.Weekday) *schedule.Weekly {
	return &schedule.Weekly{
		ProviderID:   providerID,
		Weekday:      wd,
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakStart:   "13:00",
		BreakEnd:     "14:00",
		IsWorkingDay: true,
	}
}

func newEnv(workdays ...time.Weekday) *testEnv {
	if len(workdays) == 0 {
		workdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}

	e := &testEnv{
		repo:    newMemRepo(),
		sched:   &memSchedules{weekly: map[time.Weekday]*schedule.Weekly{}},
		catalog: memCatalog{serviceID: {ID: serviceID, ProviderID: providerID, Name: "Classic massage", Price: 1000, DurationMinutes: 60, Active: true}},
		notes:   &recordingNotifier{},
		gateway: &fakeGateway{chargeOK: true},
		clock:   &timezone.FixedClock{T: monday8},
	}
	for _, wd := range workdays {
		e.sched.weekly[wd] = weekday(wd)
	}

	log := zap.NewNop()
	e.lookup = NewScheduleLookup(e.sched, time.UTC)
	e.slots = NewSlots(e.lookup, e.repo, e.catalog, e.clock)
	e.avail = NewAvailability(e.lookup, e.repo, e.slots, e.clock)
	e.quote = NewQuote(e.catalog, e.repo, pricing.NewEngine(pricing.DefaultConfig()), e.clock)
	e.create = NewCreateBooking(e.repo, e.avail, e.quote, NoopLocker{}, e.notes, e.clock, log)
	refunds := NewRefunds(e.gateway, log)
	e.trans = NewTransitions(e.repo, e.avail, refunds, e.notes, e.clock, log)
	e.payments = NewPayments(e.repo, e.gateway, refunds, e.notes, e.clock, log)
	e.sweeps = NewSweeps(e.repo, e.trans, e.notes, e.clock, log, 24*time.Hour, 0)
	e.get = NewGetBooking(e.repo, e.clock)
	return e
}

// booked stores a booking of the test client with the given status.
func (e *testEnv) booked(status domain.Status, start time.Time) domain.Booking {
	b := domain.Booking{
		ClientID:      clientID,
		ClientName:    "Anna",
		ProviderID:    providerID,
		ServiceID:     serviceID,
		Type:          domain.TypeIncall,
		Status:        status,
		Location:      domain.LocationSalon,
		ServicePrice:  1000,
		TotalPrice:    1000,
		PaymentMethod: domain.PaymentCash,
		PaymentStatus: domain.PaymentUnpaid,
	}
	b.SetTimes(start, 60)
	return e.repo.seed(b)
}
