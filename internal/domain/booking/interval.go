package booking

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return schedule.Interval{Start: aStart, End: aEnd}.Overlaps(schedule.Interval{Start: bStart, End: bEnd})
}

// Blocks reports whether b occupies any part of [start, end).
func (b Booking) Blocks(start, end time.Time) bool {
	return b.Status.IsActive() && Overlaps(b.StartTime, b.EndTime, start, end)
}
