package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub003/internal/audit"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/httpresp"
	"github.com/ilya24037/www.spa.com-sub003/internal/models"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

type EventLister interface {
	List(ctx context.Context, bookingID uint, f audit.Filter) ([]models.BookingEvent, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	get    BookingReader
	events EventLister
	loc    *time.Location
	log    *zap.Logger
}

func NewAuditLogsHandler(get BookingReader, events EventLister, loc *time.Location, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{get: get, events: events, loc: loc, log: log}
}

// List returns the event history of one booking to anyone allowed to see it.
func (h *AuditLogsHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.get.ByID(c.Request.Context(), id, actor); err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	f := audit.Filter{
		Kind:  c.Query("kind"),
		Page:  page,
		Limit: limit,
	}

	if raw := c.Query("from"); raw != "" {
		if from, err := timezone.ParseDate(raw, h.loc); err == nil {
			f.From = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := timezone.ParseDate(raw, h.loc); err == nil {
			end := to.AddDate(0, 0, 1)
			f.To = &end
		}
	}

	f.Normalize()

	events, total, err := h.events.List(c.Request.Context(), id, f)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.Page(c, events, f.Page, f.Limit, total)
}
