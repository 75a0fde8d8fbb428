package booking

import (
	"context"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

// ListBookings is the provider agenda: every booking of a day or a month,
// in any status.
type ListBookings struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListBookings(repo domain.Repository, loc *time.Location) *ListBookings {
	if loc == nil {
		loc = time.UTC
	}
	return &ListBookings{repo: repo, loc: loc}
}

func (uc *ListBookings) ByDate(
	ctx context.Context,
	providerID uint,
	actor domain.Actor,
	date time.Time,
) ([]domain.Booking, error) {

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, uc.loc)
	return uc.list(ctx, providerID, actor, start, start.AddDate(0, 0, 1))
}

func (uc *ListBookings) ByMonth(
	ctx context.Context,
	providerID uint,
	actor domain.Actor,
	year int,
	month int,
) ([]domain.Booking, error) {

	if month < 1 || month > 12 {
		return nil, httperr.ValidationField("invalid_month", "month", "month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	return uc.list(ctx, providerID, actor, start, start.AddDate(0, 1, 0))
}

func (uc *ListBookings) list(
	ctx context.Context,
	providerID uint,
	actor domain.Actor,
	from, to time.Time,
) ([]domain.Booking, error) {

	if !actor.IsAdmin() && !(actor.Role == domain.RoleProvider && actor.ID == providerID) {
		return nil, httperr.Permission("forbidden", "only the provider can see its agenda")
	}
	return uc.repo.ListForPeriod(ctx, providerID, from, to)
}
