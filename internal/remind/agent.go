package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/repquest/internal/models"
)

// ScheduleSource provides the weekly reminder slots. Satisfied by
// *Client.
type ScheduleSource interface {
	GetSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
}

// Agent polls the schedule and fires due reminders. Delivery is a log
// line; wiring it to a platform notifier is the caller's business.
type Agent struct {
	source   ScheduleSource
	state    *StateDB
	interval time.Duration
	log      *slog.Logger
}

// NewAgent creates an Agent polling at the given interval.
func NewAgent(source ScheduleSource, state *StateDB, interval time.Duration, log *slog.Logger) *Agent {
	return &Agent{source: source, state: state, interval: interval, log: log}
}

// Run polls until the context is cancelled. A failed poll logs and
// waits for the next tick; it never stops the loop.
func (a *Agent) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.poll(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			a.poll(ctx, now)
		}
	}
}

func (a *Agent) poll(ctx context.Context, now time.Time) {
	entries, err := a.source.GetSchedule(ctx)
	if err != nil {
		a.log.Warn("schedule fetch failed", "error", err)
		return
	}

	for _, e := range entries {
		if !due(now, e) {
			continue
		}
		key := slotKey(now, e)
		fired, err := a.state.WasFired(key)
		if err != nil {
			a.log.Warn("state lookup failed", "slot", key, "error", err)
			continue
		}
		if fired {
			continue
		}
		a.log.Info("training reminder",
			"day", e.DayOfWeek,
			"time", fmt.Sprintf("%02d:%02d", e.ReminderHour, e.ReminderMinute),
		)
		if err := a.state.MarkFired(key); err != nil {
			a.log.Warn("marking reminder fired failed", "slot", key, "error", err)
		}
	}
}

// due reports whether the slot should fire now: enabled, today is the
// slot's weekday, and the slot time has passed.
func due(now time.Time, e models.ScheduleEntry) bool {
	if !e.Enabled {
		return false
	}
	if int(now.Weekday()) != e.DayOfWeek {
		return false
	}
	slot := time.Date(now.Year(), now.Month(), now.Day(), e.ReminderHour, e.ReminderMinute, 0, 0, now.Location())
	return !now.Before(slot)
}

// slotKey identifies one slot on one calendar day.
func slotKey(now time.Time, e models.ScheduleEntry) string {
	return fmt.Sprintf("%s-%02d:%02d", now.Format("2006-01-02"), e.ReminderHour, e.ReminderMinute)
}
