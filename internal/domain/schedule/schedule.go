package schedule

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

const (
	DefaultSlotDurationMinutes = 60
	DefaultBufferMinutes       = 0
)

// Weekly is the working plan of one provider for one day of the week.
type Weekly struct {
	ProviderID   uint
	Weekday      time.Weekday
	StartTime    string
	EndTime      string
	BreakStart   string
	BreakEnd     string
	IsWorkingDay bool
	SlotDuration int
	BufferTime   int
}

func (w Weekly) HasBreak() bool {
	return w.BreakStart != "" && w.BreakEnd != ""
}

// Validate checks the row invariants: start < end and break_start < break_end.
func (w Weekly) Validate() error {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return httperr.ValidationField("invalid_weekday", "weekday", "weekday must be 0..6")
	}
	if !w.IsWorkingDay {
		return nil
	}

	day := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)
	start, err := timezone.AtClock(day, w.StartTime)
	if err != nil {
		return httperr.ValidationField("invalid_start_time", "start_time", err.Error())
	}
	end, err := timezone.AtClock(day, w.EndTime)
	if err != nil {
		return httperr.ValidationField("invalid_end_time", "end_time", err.Error())
	}
	if !start.Before(end) {
		return httperr.ValidationField("invalid_working_hours", "end_time", "start_time must be before end_time")
	}

	if (w.BreakStart == "") != (w.BreakEnd == "") {
		return httperr.ValidationField("invalid_break", "break_end", "break_start and break_end go together")
	}
	if w.HasBreak() {
		bs, err := timezone.AtClock(day, w.BreakStart)
		if err != nil {
			return httperr.ValidationField("invalid_break", "break_start", err.Error())
		}
		be, err := timezone.AtClock(day, w.BreakEnd)
		if err != nil {
			return httperr.ValidationField("invalid_break", "break_end", err.Error())
		}
		if !bs.Before(be) {
			return httperr.ValidationField("invalid_break", "break_end", "break_start must be before break_end")
		}
	}

	if w.SlotDuration < 0 || w.BufferTime < 0 {
		return httperr.Validation("invalid_slot_settings", "slot duration and buffer must not be negative")
	}
	return nil
}

// ===============================
// Exceptions
// ===============================

type ExceptionType string

const (
	ExceptionHoliday   ExceptionType = "holiday"
	ExceptionVacation  ExceptionType = "vacation"
	ExceptionSickLeave ExceptionType = "sick_leave"
	ExceptionDayOff    ExceptionType = "day_off"
	ExceptionBusy      ExceptionType = "busy"
	ExceptionSpecial   ExceptionType = "special"
)

func (t ExceptionType) IsValid() bool {
	switch t {
	case ExceptionHoliday, ExceptionVacation, ExceptionSickLeave,
		ExceptionDayOff, ExceptionBusy, ExceptionSpecial:
		return true
	}
	return false
}

// Exception overrides the weekly plan for a single date or an inclusive
// date range.
type Exception struct {
	ProviderID uint
	Type       ExceptionType
	DateFrom   time.Time
	DateTo     time.Time
	IsWorking  bool
	StartTime  string
	EndTime    string
	Reason     string
}

func (e Exception) Covers(date time.Time) bool {
	d := timezone.StartOfDay(date)
	from := calendarDay(e.DateFrom, date.Location())
	to := from
	if !e.DateTo.IsZero() {
		to = calendarDay(e.DateTo, date.Location())
	}
	return !d.Before(from) && !d.After(to)
}

// calendarDay keeps the stored calendar date regardless of the location the
// driver decoded it in.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
