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
	ucBooking "github.com/ilya24037/www.spa.com-sub003/internal/usecase/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/validators"
)

// ======================================================
// DEPENDENCIES
// ======================================================

type BookingCreator interface {
	Execute(ctx context.Context, in ucBooking.CreateBookingInput) (*domain.Booking, error)
}

type BookingReader interface {
	ByID(ctx context.Context, id uint, actor domain.Actor) (*domain.Booking, error)
	ByNumber(ctx context.Context, number string, actor domain.Actor) (*domain.Booking, error)
	CancellationFee(ctx context.Context, id uint, actor domain.Actor) (ucBooking.FeePreview, error)
}

type BookingTransitioner interface {
	Execute(ctx context.Context, id uint, ev domain.Event, actor domain.Actor, p domain.Payload) (*ucBooking.TransitionResult, error)
}

type BookingPayments interface {
	Charge(ctx context.Context, id uint, actor domain.Actor, in ucBooking.ChargeInput) (*domain.Booking, error)
	PaymentLink(ctx context.Context, id uint, actor domain.Actor) (domain.PaymentResult, error)
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create      BookingCreator
	get         BookingReader
	transitions BookingTransitioner
	payments    BookingPayments
	loc         *time.Location
	log         *zap.Logger
}

func NewBookingHandler(
	create BookingCreator,
	get BookingReader,
	transitions BookingTransitioner,
	payments BookingPayments,
	loc *time.Location,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		create:      create,
		get:         get,
		transitions: transitions,
		payments:    payments,
		loc:         loc,
		log:         log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ProviderID      uint   `json:"provider_id" binding:"required"`
	ServiceID       uint   `json:"service_id" binding:"required"`
	Type            string `json:"type"`
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string `json:"time" binding:"required"` // HH:mm
	DurationMinutes int    `json:"duration_minutes"`

	// ClientID is honoured only for providers and admins booking on behalf
	// of a registered client.
	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`

	Location      string `json:"location"`
	Address       string `json:"address"`
	MeetingLink   string `json:"meeting_link"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
	PromoCode     string `json:"promo_code"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

type PayRequest struct {
	Token           string `json:"token" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	Installments    int    `json:"installments"`
	PayerEmail      string `json:"payer_email" binding:"omitempty,email"`
}

type TransitionResponse struct {
	Booking any                  `json:"booking"`
	Refund  *domain.RefundResult `json:"refund,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
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

	clientID := req.ClientID
	if actor.Role == domain.RoleClient {
		clientID = actor.ID
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		Actor:           actor,
		ClientID:        clientID,
		ClientName:      req.ClientName,
		ClientPhone:     phone,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		Type:            req.Type,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
		Details: domain.Details{
			Location:    domain.Location(req.Location),
			Address:     req.Address,
			MeetingLink: req.MeetingLink,
		},
		Notes:         req.Notes,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PromoCode:     req.PromoCode,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.ForViewer(*b, actor))
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	b, err := h.get.ByID(c.Request.Context(), id, actor)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.ForViewer(*b, actor))
}

func (h *BookingHandler) GetByNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	b, err := h.get.ByNumber(c.Request.Context(), c.Param("number"), actor)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.ForViewer(*b, actor))
}

func (h *BookingHandler) CancellationFee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	preview, err := h.get.CancellationFee(c.Request.Context(), id, actor)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, preview)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, domain.EventConfirm, domain.Payload{})
}

func (h *BookingHandler) Start(c *gin.Context) {
	h.transition(c, domain.EventStart, domain.Payload{})
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, domain.EventComplete, domain.Payload{})
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req ReasonRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)
	h.transition(c, domain.EventCancel, domain.Payload{Reason: req.Reason})
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)
	h.transition(c, domain.EventNoShow, domain.Payload{Reason: req.Reason})
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, ok := startTime(c, h.loc, req.Date, req.Time)
	if !ok {
		return
	}

	h.transition(c, domain.EventReschedule, domain.Payload{
		NewStart:    start,
		NewDuration: req.DurationMinutes,
	})
}

func (h *BookingHandler) transition(c *gin.Context, ev domain.Event, p domain.Payload) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	res, err := h.transitions.Execute(c.Request.Context(), id, ev, actor, p)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, TransitionResponse{
		Booking: dto.ForViewer(res.Booking, actor),
		Refund:  res.Refund,
	})
}

// ======================================================
// PAYMENT
// ======================================================

func (h *BookingHandler) Pay(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.payments.Charge(c.Request.Context(), id, actor, ucBooking.ChargeInput{
		Token:        req.Token,
		Method:       req.PaymentMethodID,
		Installments: req.Installments,
		PayerEmail:   req.PayerEmail,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.ForViewer(*b, actor))
}

func (h *BookingHandler) PaymentLink(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	link, err := h.payments.PaymentLink(c.Request.Context(), id, actor)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        link.URL,
		"preference": link.TransactionID,
	})
}
