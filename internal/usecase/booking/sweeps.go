package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
)

const (
	DefaultReminderLead = 24 * time.Hour
	StaleReason         = "not confirmed in time"
)

// Sweeps are the periodic jobs over stored bookings.
type Sweeps struct {
	repo        domain.Repository
	transitions *Transitions
	notifier    domain.Notifier
	clock       timezone.Clock
	log         *zap.Logger

	reminderLead time.Duration
	pendingGrace time.Duration
}

func NewSweeps(
	repo domain.Repository,
	transitions *Transitions,
	notifier domain.Notifier,
	clock timezone.Clock,
	log *zap.Logger,
	reminderLead time.Duration,
	pendingGrace time.Duration,
) *Sweeps {
	if reminderLead <= 0 {
		reminderLead = DefaultReminderLead
	}
	if pendingGrace < 0 {
		pendingGrace = 0
	}
	return &Sweeps{
		repo:         repo,
		transitions:  transitions,
		notifier:     notifier,
		clock:        clock,
		log:          log,
		reminderLead: reminderLead,
		pendingGrace: pendingGrace,
	}
}

// SendReminders notifies confirmed bookings starting within the lead time,
// once per booking.
func (s *Sweeps) SendReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()

	due, err := s.repo.ListReminderDue(ctx, now, now.Add(s.reminderLead))
	if err != nil {
		return 0, fmt.Errorf("list reminder due: %w", err)
	}

	sent := 0
	for _, d := range due {
		b, ok, err := s.markReminded(ctx, d.ID, now)
		if err != nil {
			s.log.Error("mark reminder sent", zap.Uint("booking_id", d.ID), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		n := domain.NewNotification(domain.NotifyReminder, b, domain.RoleSystem, now)
		n.Data["start_time"] = b.StartTime
		n.Data["hours_until_start"] = b.HoursUntilStart(now)
		s.notifier.Notify(n)
		sent++
	}
	return sent, nil
}

// markReminded sets the reminder flag on the locked row. ok is false when the
// booking was changed after listing and no longer needs a reminder.
func (s *Sweeps) markReminded(ctx context.Context, id uint, now time.Time) (b domain.Booking, ok bool, err error) {
	err = s.repo.WithinTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status != domain.StatusConfirmed || cur.ReminderSent {
			return nil
		}
		if cur.StartTime.Before(now) || !cur.StartTime.Before(now.Add(s.reminderLead)) {
			return nil
		}

		cur.ReminderSent = true
		cur.UpdatedAt = now
		if err := tx.Update(ctx, cur); err != nil {
			return err
		}
		b, ok = *cur, true
		return nil
	})
	return b, ok, err
}

// CancelStalePending cancels pending bookings whose start has passed.
func (s *Sweeps) CancelStalePending(ctx context.Context) (int, error) {
	now := s.clock.Now()

	stale, err := s.repo.ListStalePending(ctx, now.Add(-s.pendingGrace))
	if err != nil {
		return 0, fmt.Errorf("list stale pending: %w", err)
	}

	cancelled := 0
	for _, b := range stale {
		_, err := s.transitions.Execute(ctx, b.ID, domain.EventCancel, domain.SystemActor, domain.Payload{Reason: StaleReason})
		if err != nil {
			s.log.Warn("cancel stale booking", zap.Uint("booking_id", b.ID), zap.Error(err))
			continue
		}
		cancelled++
	}
	return cancelled, nil
}
