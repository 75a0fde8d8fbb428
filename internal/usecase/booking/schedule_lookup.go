package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

// ScheduleLookup resolves the working window of a provider on a date.
type ScheduleLookup struct {
	schedules domain.ScheduleRepository
	loc       *time.Location
}

func NewScheduleLookup(
	schedules domain.ScheduleRepository,
	loc *time.Location,
) *ScheduleLookup {
	if loc == nil {
		loc = timezone.Location("")
	}
	return &ScheduleLookup{
		schedules: schedules,
		loc:       loc,
	}
}

func (s *ScheduleLookup) Location() *time.Location {
	return s.loc
}

// Day returns midnight of t's calendar day in the provider location.
func (s *ScheduleLookup) Day(t time.Time) time.Time {
	return timezone.StartOfDay(t.In(s.loc))
}

func (s *ScheduleLookup) ScheduleFor(
	ctx context.Context,
	providerID uint,
	date time.Time,
) (schedule.Effective, error) {

	day := s.Day(date)

	exceptions, err := s.schedules.ListExceptions(ctx, providerID, day, day)
	if err != nil {
		return schedule.Effective{}, fmt.Errorf("list schedule exceptions: %w", err)
	}

	weekly, err := s.schedules.GetWeeklySchedule(ctx, providerID, day.Weekday())
	if err != nil {
		return schedule.Effective{}, fmt.Errorf("get weekly schedule: %w", err)
	}

	return schedule.Resolve(day, weekly, exceptions)
}
