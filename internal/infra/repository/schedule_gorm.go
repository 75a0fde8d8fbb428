package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetWeeklySchedule(
	ctx context.Context,
	providerID uint,
	weekday time.Weekday,
) (*schedule.Weekly, error) {

	var m models.ProviderSchedule
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND weekday = ?", providerID, int(weekday)).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toWeekly(&m), nil
}

func (r *ScheduleGormRepository) ListExceptions(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]schedule.Exception, error) {

	var rows []models.ScheduleException
	if err := r.db.WithContext(ctx).
		Where(
			"provider_id = ? AND date_from <= ? AND date_to >= ?",
			providerID,
			to.Format("2006-01-02"),
			from.Format("2006-01-02"),
		).
		Order("date_from ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]schedule.Exception, 0, len(rows))
	for i := range rows {
		out = append(out, toException(&rows[i]))
	}
	return out, nil
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*domain.Service, error) {

	var m models.Service
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("service_not_found", "service %d not found", id)
		}
		return nil, err
	}
	return toService(&m), nil
}

// Compile-time checks
var (
	_ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)
	_ domain.ServiceCatalog     = (*ServiceGormRepository)(nil)
)
