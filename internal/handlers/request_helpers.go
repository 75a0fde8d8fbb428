package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/middleware"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

// --------------------------------------------------
// Path / query params
// --------------------------------------------------

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func uintQuery(c *gin.Context, name string, required bool) (uint, bool) {
	raw := c.Query(name)
	if raw == "" && !required {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return v, true
}

// --------------------------------------------------
// Time
// --------------------------------------------------

// startTime reads a "YYYY-MM-DD" date and "HH:MM" time in loc.
func startTime(c *gin.Context, loc *time.Location, date, clock string) (time.Time, bool) {
	t, err := timezone.ParseDateTime(date, clock, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return time.Time{}, false
	}
	return t, true
}

// optionalStart is nil when neither date nor time is given.
func optionalStart(c *gin.Context, loc *time.Location, date, clock string) (*time.Time, bool) {
	if date == "" && clock == "" {
		return nil, true
	}
	if clock == "" {
		clock = "00:00"
	}
	t, ok := startTime(c, loc, date, clock)
	if !ok {
		return nil, false
	}
	return &t, true
}

// --------------------------------------------------
// Booking type / actor
// --------------------------------------------------

func bookingType(c *gin.Context, log *zap.Logger, raw string) (domain.Type, bool) {
	t, err := domain.ParseType(raw)
	if err != nil {
		httperr.FromError(c, log, err)
		return "", false
	}
	return t, true
}

func currentActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		httperr.Unauthorized(c, "unauthorized", "Authentication required.")
		return domain.Actor{}, false
	}
	return actor, true
}
