package schedule

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

const DefaultStep = 30 * time.Minute

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open semantics: [a.Start,a.End) and [b.Start,b.End)
// intersect iff a.Start < b.End && b.Start < a.End.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotPolicy is the part of a booking type the generator needs.
type SlotPolicy struct {
	Step       time.Duration
	MinAdvance time.Duration
}

// EarliestStart is the first instant a booking may start at.
func (p SlotPolicy) EarliestStart(now time.Time) time.Time {
	return now.Add(p.MinAdvance)
}

// GenerateDaySlots lists bookable start times inside eff in ascending order.
// busy holds the active bookings of the provider on that day; they are
// widened by the schedule buffer on both sides.
func GenerateDaySlots(
	eff Effective,
	duration time.Duration,
	policy SlotPolicy,
	busy []Interval,
	now time.Time,
) ([]Slot, error) {

	if duration <= 0 {
		return nil, httperr.ValidationField("invalid_duration", "duration", "service duration must be positive")
	}
	if !eff.IsWorking || !eff.End.After(eff.Start) {
		return []Slot{}, nil
	}

	step := policy.Step
	if step <= 0 {
		step = DefaultStep
	}

	earliest := policy.EarliestStart(now)

	cursor := eff.Start
	if earliest.After(cursor) {
		cursor = alignUp(earliest, eff.Start, step)
	}

	slots := []Slot{}
	for !cursor.Add(duration).After(eff.End) {
		end := cursor.Add(duration)

		// jump over the break instead of stepping through it
		if eff.HasBreak() && cursor.Before(eff.BreakEnd) && end.After(eff.BreakStart) {
			cursor = eff.BreakEnd
			if cursor.Before(earliest) {
				cursor = alignUp(earliest, eff.BreakEnd, step)
			}
			continue
		}

		if cursor.Before(earliest) {
			cursor = cursor.Add(step)
			continue
		}

		if !conflicts(Interval{Start: cursor, End: end}, busy, eff.Buffer) {
			slots = append(slots, Slot{Start: cursor, End: end})
		}

		cursor = cursor.Add(step)
	}

	return slots, nil
}

func conflicts(candidate Interval, busy []Interval, buffer time.Duration) bool {
	for _, b := range busy {
		widened := Interval{Start: b.Start.Add(-buffer), End: b.End.Add(buffer)}
		if candidate.Overlaps(widened) {
			return true
		}
	}
	return false
}

// alignUp rounds t up to the next point of the grid anchor + k*step.
func alignUp(t, anchor time.Time, step time.Duration) time.Time {
	if !t.After(anchor) {
		return anchor
	}
	diff := t.Sub(anchor)
	n := diff / step
	if diff%step != 0 {
		n++
	}
	return anchor.Add(n * step)
}
