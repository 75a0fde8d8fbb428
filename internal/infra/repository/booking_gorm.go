package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *BookingGormRepository) FindByID(
	ctx context.Context,
	id uint,
) (*domain.Booking, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *BookingGormRepository) FindByNumber(
	ctx context.Context,
	number string,
) (*domain.Booking, error) {
	return r.first(r.db.WithContext(ctx).Where("number = ?", number))
}

func (r *BookingGormRepository) FindForUpdate(
	ctx context.Context,
	id uint,
) (*domain.Booking, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *BookingGormRepository) first(q *gorm.DB) (*domain.Booking, error) {
	var m models.Booking
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("booking_not_found", "booking not found")
		}
		return nil, err
	}
	b := toBooking(&m)
	return &b, nil
}

// --------------------------------------------------
// Overlap
// --------------------------------------------------

func (r *BookingGormRepository) FindOverlapping(
	ctx context.Context,
	providerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]domain.Booking, error) {

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"provider_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			providerID,
			domain.ActiveStatusStrings(),
			end,
			start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []models.Booking
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func (r *BookingGormRepository) ListForPeriod(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]domain.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND start_time >= ? AND start_time < ?", providerID, from, to).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func (r *BookingGormRepository) ListActiveBetween(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]domain.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"provider_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			providerID,
			domain.ActiveStatusStrings(),
			to,
			from,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *BookingGormRepository) Create(
	ctx context.Context,
	b *domain.Booking,
) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookingGormRepository) Update(
	ctx context.Context,
	b *domain.Booking,
) error {
	m := toBookingModel(b)
	return r.db.WithContext(ctx).Save(&m).Error
}

// --------------------------------------------------
// Lookups / sweeps
// --------------------------------------------------

func (r *BookingGormRepository) HasPriorBooking(
	ctx context.Context,
	clientID uint,
	phone string,
) (bool, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})
	switch {
	case clientID != 0:
		q = q.Where("client_id = ?", clientID)
	case phone != "":
		q = q.Where("client_id IS NULL AND client_phone = ?", phone)
	default:
		return false, nil
	}

	var count int64
	if err := q.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) ListReminderDue(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]domain.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"status = ? AND reminder_sent = FALSE AND start_time >= ? AND start_time < ?",
			string(domain.StatusConfirmed),
			from,
			to,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func (r *BookingGormRepository) ListStalePending(
	ctx context.Context,
	before time.Time,
) ([]domain.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where("status = ? AND start_time < ?", string(domain.StatusPending), before).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
