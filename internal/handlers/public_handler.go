package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/pricing"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/dto"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/httpresp"
	ucBooking "github.com/ilya24037/www.spa.com-sub003/internal/usecase/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/validators"
)

////////////////////////////////////////////////////////
// DEPENDENCIES
////////////////////////////////////////////////////////

type SlotFinder interface {
	GenerateAvailableSlots(ctx context.Context, providerID, serviceID uint, t domain.Type, days int) (map[string][]schedule.Slot, error)
}

type AvailabilityChecker interface {
	FindNextAvailableSlot(ctx context.Context, providerID, serviceID uint, preferred *time.Time, t domain.Type) (*schedule.Slot, error)
	UnavailabilityReason(ctx context.Context, providerID uint, start time.Time, duration time.Duration) (ucBooking.Reason, error)
	OccupancyStats(ctx context.Context, providerID uint, date time.Time) (ucBooking.Occupancy, error)
}

type Quoter interface {
	ValidateAndPrice(ctx context.Context, serviceID uint, t domain.Type, in ucBooking.QuoteInput) (ucBooking.Priced, error)
	Promo(ctx context.Context, code string, serviceID uint) (pricing.PromoResult, error)
	Package(ctx context.Context, serviceIDs []uint) (pricing.PackageQuote, error)
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	slots SlotFinder
	avail AvailabilityChecker
	quote Quoter
	loc   *time.Location
	log   *zap.Logger
}

func NewPublicHandler(
	slots SlotFinder,
	avail AvailabilityChecker,
	quote Quoter,
	loc *time.Location,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		slots: slots,
		avail: avail,
		quote: quote,
		loc:   loc,
		log:   log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type QuoteRequest struct {
	ServiceID       uint   `json:"service_id" binding:"required"`
	Type            string `json:"type"`
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string `json:"time" binding:"required"` // HH:mm
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location"`
	Address         string `json:"address"`
	MeetingLink     string `json:"meeting_link"`
	PromoCode       string `json:"promo_code"`
	ClientPhone     string `json:"client_phone"`
}

type QuoteResponse struct {
	ServiceID       uint              `json:"service_id"`
	ServiceName     string            `json:"service_name"`
	Type            domain.Type       `json:"type"`
	DurationMinutes int               `json:"duration_minutes"`
	Price           pricing.Breakdown `json:"price"`
}

type PromoRequest struct {
	Code      string `json:"code" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
}

type PackageRequest struct {
	ServiceIDs []uint `json:"service_ids" binding:"required"`
}

type AvailabilityResponse struct {
	Available bool             `json:"available"`
	Reason    ucBooking.Reason `json:"reason"`
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	providerID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := uintQuery(c, "service_id", true)
	if !ok {
		return
	}
	t, ok := bookingType(c, h.log, c.Query("type"))
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", ucBooking.DefaultSearchDays)
	if !ok {
		return
	}

	byDay, err := h.slots.GenerateAvailableSlots(c.Request.Context(), providerID, serviceID, t, days)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, dto.DaySlots(byDay, h.loc))
}

func (h *PublicHandler) NextSlot(c *gin.Context) {
	providerID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := uintQuery(c, "service_id", true)
	if !ok {
		return
	}
	t, ok := bookingType(c, h.log, c.Query("type"))
	if !ok {
		return
	}
	preferred, ok := optionalStart(c, h.loc, c.Query("date"), c.Query("time"))
	if !ok {
		return
	}

	slot, err := h.avail.FindNextAvailableSlot(c.Request.Context(), providerID, serviceID, preferred, t)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	if slot == nil {
		httperr.NotFoundResponse(c, "no_available_slot", "No free slot in the next two weeks.")
		return
	}

	httpresp.OK(c, gin.H{
		"date":  slot.Start.In(h.loc).Format("2006-01-02"),
		"start": slot.Start.In(h.loc).Format("15:04"),
		"end":   slot.End.In(h.loc).Format("15:04"),
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	providerID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	start, ok := startTime(c, h.loc, c.Query("date"), c.Query("time"))
	if !ok {
		return
	}
	minutes, ok := intQuery(c, "duration", 60)
	if !ok {
		return
	}
	if minutes == 0 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
		return
	}

	reason, err := h.avail.UnavailabilityReason(
		c.Request.Context(),
		providerID,
		start,
		time.Duration(minutes)*time.Minute,
	)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, AvailabilityResponse{
		Available: reason.Available(),
		Reason:    reason,
	})
}

////////////////////////////////////////////////////////
// PRICING
////////////////////////////////////////////////////////

func (h *PublicHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	t, ok := bookingType(c, h.log, req.Type)
	if !ok {
		return
	}
	start, ok := startTime(c, h.loc, req.Date, req.Time)
	if !ok {
		return
	}

	phone := ""
	if req.ClientPhone != "" {
		if phone, ok = validators.NormalizePhone(req.ClientPhone); !ok {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
	}

	priced, err := h.quote.ValidateAndPrice(c.Request.Context(), req.ServiceID, t, ucBooking.QuoteInput{
		ClientPhone:     phone,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
		Details: domain.Details{
			Location:    domain.Location(req.Location),
			Address:     req.Address,
			MeetingLink: req.MeetingLink,
		},
		PromoCode: req.PromoCode,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, QuoteResponse{
		ServiceID:       priced.Service.ID,
		ServiceName:     priced.Service.Name,
		Type:            priced.Type,
		DurationMinutes: int(priced.Duration / time.Minute),
		Price:           priced.Breakdown,
	})
}

func (h *PublicHandler) Promo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.quote.Promo(c.Request.Context(), req.Code, req.ServiceID)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PublicHandler) PackageQuote(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.quote.Package(c.Request.Context(), req.ServiceIDs)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
