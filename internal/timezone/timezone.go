package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "Europe/Moscow"

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ===============================
// Clock
// ===============================

// Clock is the only source of "now" for time-sensitive rules.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	Loc *time.Location
}

func NewClock(tz string) SystemClock {
	return SystemClock{Loc: Location(tz)}
}

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// ===============================
// Date helpers
// ===============================

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AtClock places an "HH:MM" wall-clock value on the calendar day of day.
func AtClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", hm, err)
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

func ParseDateTime(date, hm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+hm, loc)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
