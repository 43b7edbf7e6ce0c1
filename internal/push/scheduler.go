package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aravn/habitboard/internal/schedule"
	"github.com/aravn/habitboard/internal/stats"
	"github.com/aravn/habitboard/internal/store"
)

// Scheduler sends each person an evening reminder when their day still has
// unfinished habits.
type Scheduler struct {
	mu       sync.RWMutex
	service  *Service
	push     *store.PushStore
	persons  *store.PersonStore
	habits   *store.HabitStore
	entries  *store.EntryStore
	settings *store.SettingsStore
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	// sentOn remembers the last date a reminder went out per person, so a
	// person gets at most one nudge a day. In-memory only; a restart during
	// the reminder hour may repeat one notification, which is harmless.
	sentOn map[string]string
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(svc *Service, pushStore *store.PushStore, personStore *store.PersonStore, habitStore *store.HabitStore, entryStore *store.EntryStore, settingsStore *store.SettingsStore, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		service:  svc,
		push:     pushStore,
		persons:  personStore,
		habits:   habitStore,
		entries:  entryStore,
		settings: settingsStore,
		logger:   logger,
		interval: 60 * time.Second,
		sentOn:   make(map[string]string),
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	persons, err := s.persons.List()
	if err != nil {
		s.logger.Error("reminder tick: list persons", "error", err)
		return
	}

	for _, p := range persons {
		s.checkReminder(p.Name, now)
	}
}

func (s *Scheduler) checkReminder(person string, now time.Time) {
	prefs, err := s.settings.GetPushPreferences(person)
	if err != nil {
		s.logger.Error("reminder: load preferences", "person", person, "error", err)
		return
	}
	if !prefs.RemindersOn || now.Hour() != prefs.ReminderHour {
		return
	}

	today := schedule.FormatDateKey(now)
	s.mu.Lock()
	already := s.sentOn[person] == today
	s.mu.Unlock()
	if already {
		return
	}

	habits, err := s.habits.ListByPerson(person)
	if err != nil {
		s.logger.Error("reminder: list habits", "person", person, "error", err)
		return
	}
	entries, err := s.entries.ListByDateRange(person, today, today)
	if err != nil {
		s.logger.Error("reminder: list entries", "person", person, "error", err)
		return
	}

	day := stats.Day(habits, entries, person, now)
	if day.Total == 0 || day.Completed >= day.Total {
		return
	}

	remaining := day.Total - day.Completed
	payload := Payload{
		Title: "Habit check-in",
		Body:  fmt.Sprintf("%d of %d habits still open today", remaining, day.Total),
		URL:   "/",
		Tag:   "evening-reminder",
	}
	if remaining == 1 {
		payload.Body = "1 habit still open today"
	}

	subs, err := s.push.ListByPerson(person)
	if err != nil {
		s.logger.Error("reminder: list subscriptions", "person", person, "error", err)
		return
	}

	for i := range subs {
		if err := s.service.Send(&subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.dropExpired(person, subs[i].Endpoint)
			} else {
				s.logger.Warn("reminder: send failed", "person", person, "error", err)
			}
		}
	}

	s.mu.Lock()
	s.sentOn[person] = today
	s.mu.Unlock()
}

// dropExpired removes a subscription whose endpoint reported 410 Gone.
func (s *Scheduler) dropExpired(person, endpoint string) {
	if err := s.push.DeleteByEndpoint(endpoint); err != nil {
		s.logger.Warn("reminder: drop expired subscription", "person", person, "error", err)
	}
}
