package schedule

import (
	"fmt"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

// Effective is the working window of a provider on one concrete date after
// exceptions have been applied over the weekly plan.
type Effective struct {
	Date         time.Time
	IsWorking    bool
	Start        time.Time
	End          time.Time
	BreakStart   time.Time
	BreakEnd     time.Time
	Buffer       time.Duration
	SlotDuration time.Duration
	Exception    *ExceptionType
}

func NotWorking(date time.Time) Effective {
	return Effective{Date: timezone.StartOfDay(date)}
}

func (e Effective) HasBreak() bool {
	return !e.BreakStart.IsZero() && !e.BreakEnd.IsZero() && e.BreakStart.Before(e.BreakEnd)
}

// Contains reports whether [start, end) lies inside working hours and does
// not touch the break.
func (e Effective) Contains(start, end time.Time) bool {
	if !e.IsWorking {
		return false
	}
	if start.Before(e.Start) || end.After(e.End) {
		return false
	}
	if e.HasBreak() && start.Before(e.BreakEnd) && end.After(e.BreakStart) {
		return false
	}
	return true
}

// WorkingMinutes is the length of the window minus the break.
func (e Effective) WorkingMinutes() int {
	if !e.IsWorking || !e.End.After(e.Start) {
		return 0
	}
	total := e.End.Sub(e.Start)
	if e.HasBreak() {
		bs, be := e.BreakStart, e.BreakEnd
		if bs.Before(e.Start) {
			bs = e.Start
		}
		if be.After(e.End) {
			be = e.End
		}
		if be.After(bs) {
			total -= be.Sub(bs)
		}
	}
	return int(total / time.Minute)
}

// Resolve computes the effective schedule for date. Exceptions win over the
// weekly plan; the first exception covering the date is used.
func Resolve(date time.Time, weekly *Weekly, exceptions []Exception) (Effective, error) {
	day := timezone.StartOfDay(date)

	for _, ex := range exceptions {
		if !ex.Covers(day) {
			continue
		}
		exType := ex.Type
		if !ex.IsWorking {
			eff := NotWorking(day)
			eff.Exception = &exType
			return eff, nil
		}

		start, err := timezone.AtClock(day, ex.StartTime)
		if err != nil {
			return Effective{}, fmt.Errorf("exception start: %w", err)
		}
		end, err := timezone.AtClock(day, ex.EndTime)
		if err != nil {
			return Effective{}, fmt.Errorf("exception end: %w", err)
		}
		if !start.Before(end) {
			eff := NotWorking(day)
			eff.Exception = &exType
			return eff, nil
		}

		eff := Effective{
			Date:         day,
			IsWorking:    true,
			Start:        start,
			End:          end,
			SlotDuration: DefaultSlotDurationMinutes * time.Minute,
			Exception:    &exType,
		}
		if weekly != nil {
			eff.Buffer = time.Duration(weekly.BufferTime) * time.Minute
			if weekly.SlotDuration > 0 {
				eff.SlotDuration = time.Duration(weekly.SlotDuration) * time.Minute
			}
		}
		return eff, nil
	}

	if weekly == nil || !weekly.IsWorkingDay {
		return NotWorking(day), nil
	}

	start, err := timezone.AtClock(day, weekly.StartTime)
	if err != nil {
		return Effective{}, fmt.Errorf("weekly start: %w", err)
	}
	end, err := timezone.AtClock(day, weekly.EndTime)
	if err != nil {
		return Effective{}, fmt.Errorf("weekly end: %w", err)
	}

	eff := Effective{
		Date:         day,
		IsWorking:    start.Before(end),
		Start:        start,
		End:          end,
		Buffer:       time.Duration(weekly.BufferTime) * time.Minute,
		SlotDuration: DefaultSlotDurationMinutes * time.Minute,
	}
	if weekly.SlotDuration > 0 {
		eff.SlotDuration = time.Duration(weekly.SlotDuration) * time.Minute
	}

	if weekly.HasBreak() {
		bs, err := timezone.AtClock(day, weekly.BreakStart)
		if err != nil {
			return Effective{}, fmt.Errorf("weekly break start: %w", err)
		}
		be, err := timezone.AtClock(day, weekly.BreakEnd)
		if err != nil {
			return Effective{}, fmt.Errorf("weekly break end: %w", err)
		}
		if bs.Before(be) {
			eff.BreakStart = bs
			eff.BreakEnd = be
		}
	}

	return eff, nil
}
