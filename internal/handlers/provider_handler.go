package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/dto"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/httpresp"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

type AgendaLister interface {
	ByDate(ctx context.Context, providerID uint, actor domain.Actor, date time.Time) ([]domain.Booking, error)
	ByMonth(ctx context.Context, providerID uint, actor domain.Actor, year, month int) ([]domain.Booking, error)
}

type ProviderHandler struct {
	avail  AvailabilityChecker
	agenda AgendaLister
	clock  timezone.Clock
	loc    *time.Location
	log    *zap.Logger
}

func NewProviderHandler(
	avail AvailabilityChecker,
	agenda AgendaLister,
	clock timezone.Clock,
	loc *time.Location,
	log *zap.Logger,
) *ProviderHandler {
	return &ProviderHandler{avail: avail, agenda: agenda, clock: clock, loc: loc, log: log}
}

// Occupancy is visible to the provider itself and admins.
func (h *ProviderHandler) Occupancy(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	providerID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if !actor.IsAdmin() && actor.ID != providerID {
		httperr.Write(c, http.StatusForbidden, "forbidden", "Only the provider can see its occupancy.")
		return
	}

	date := timezone.StartOfDay(h.clock.Now().In(h.loc))
	if raw := c.Query("date"); raw != "" {
		d, err := timezone.ParseDate(raw, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		date = d
	}

	stats, err := h.avail.OccupancyStats(c.Request.Context(), providerID, date)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, stats)
}

// Bookings lists the agenda for ?month=YYYY-MM, or for ?date=YYYY-MM-DD
// (default today).
func (h *ProviderHandler) Bookings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	providerID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var (
		list []domain.Booking
		err  error
	)

	if raw := c.Query("month"); raw != "" {
		m, perr := time.ParseInLocation("2006-01", raw, h.loc)
		if perr != nil {
			httperr.BadRequest(c, "invalid_month", "Invalid month, expected YYYY-MM.")
			return
		}
		list, err = h.agenda.ByMonth(c.Request.Context(), providerID, actor, m.Year(), int(m.Month()))
	} else {
		date := h.clock.Now().In(h.loc)
		if raw := c.Query("date"); raw != "" {
			d, perr := timezone.ParseDate(raw, h.loc)
			if perr != nil {
				httperr.BadRequest(c, "invalid_date", "Invalid date.")
				return
			}
			date = d
		}
		list, err = h.agenda.ByDate(c.Request.Context(), providerID, actor, date)
	}
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	out := make([]dto.BookingDTO, 0, len(list))
	for _, b := range list {
		out = append(out, dto.FromBooking(b))
	}
	httpresp.List(c, out)
}
