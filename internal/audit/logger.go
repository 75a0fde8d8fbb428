package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/ilya24037/www.spa.com-sub003/internal/models"
)

// Logger writes every event to the booking_events table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Name() string { return "audit_log" }

func (l *Logger) Deliver(ctx context.Context, ev Event) error {
	var payload string
	if len(ev.Data) > 0 {
		if b, err := json.Marshal(ev.Data); err == nil {
			payload = string(b)
		}
	}

	var clientID *uint
	if ev.ClientID != 0 {
		id := ev.ClientID
		clientID = &id
	}

	row := models.BookingEvent{
		EventID:    ev.ID,
		BookingID:  ev.BookingID,
		Number:     ev.Number,
		ProviderID: ev.ProviderID,
		ClientID:   clientID,
		Kind:       string(ev.Kind),
		Actor:      string(ev.Actor),
		Payload:    payload,
		OccurredAt: ev.OccurredAt,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// ------------------------------
// history
// ------------------------------

type Filter struct {
	Kind  string
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (f *Filter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
}

// List returns the recorded events of one booking, newest first, and the
// total count matching f.
func (l *Logger) List(ctx context.Context, bookingID uint, f Filter) ([]models.BookingEvent, int64, error) {
	f.Normalize()

	q := l.db.WithContext(ctx).
		Model(&models.BookingEvent{}).
		Where("booking_id = ?", bookingID)

	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.From != nil {
		q = q.Where("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("occurred_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.BookingEvent
	err := q.
		Order("occurred_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
