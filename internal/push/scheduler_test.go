package push

import (
	"testing"

	"github.com/aravn/habitboard/internal/database"
	"github.com/aravn/habitboard/internal/store"
)

func newTestScheduler(t *testing.T) (*Scheduler, *store.PushStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	pushStore := store.NewPushStore(db)
	s := NewScheduler(nil, pushStore, store.NewPersonStore(db), store.NewHabitStore(db),
		store.NewEntryStore(db), store.NewSettingsStore(db), nil)
	return s, pushStore
}

func TestDropExpiredRemovesSubscription(t *testing.T) {
	s, pushStore := newTestScheduler(t)

	sub, err := pushStore.CreateSubscription("veda", "https://push.example/gone", "p256dh", "auth", "tablet")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	s.dropExpired("veda", sub.Endpoint)

	got, err := pushStore.GetByEndpoint(sub.Endpoint)
	if err != nil {
		t.Fatalf("get by endpoint: %v", err)
	}
	if got != nil {
		t.Errorf("subscription %q still present after drop", sub.Endpoint)
	}
}

func TestDropExpiredUnknownEndpoint(t *testing.T) {
	s, _ := newTestScheduler(t)

	// Deleting an endpoint that was already removed must not panic or error.
	s.dropExpired("veda", "https://push.example/never-existed")
}
