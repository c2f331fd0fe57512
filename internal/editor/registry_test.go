package editor

import (
	"context"
	"testing"
	"time"

	"cv-editor/internal/cv"
	"cv-editor/internal/localstate"
)

func TestRegistryEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	state := localstate.NewMemoryState()
	r := NewRegistry(state, nil)
	r.now = func() time.Time { return clock }
	defer r.Close()

	alice, err := r.Session(ctx, "guest:alice")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	editing(t, alice)
	if _, err := alice.Apply(ctx, Command{Op: OpSet, Cell: cv.PersonalPath("firstName"), Value: "Ada"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	clock = clock.Add(20 * time.Minute)
	if _, err := r.Session(ctx, "guest:bob"); err != nil {
		t.Fatalf("Session: %v", err)
	}

	clock = clock.Add(15 * time.Minute)
	if n := r.Evict(30 * time.Minute); n != 1 {
		t.Fatalf("evicted %d sessions, want 1", n)
	}
	if r.Len() != 1 {
		t.Fatalf("open sessions = %d, want 1", r.Len())
	}
	select {
	case <-alice.closed:
	default:
		t.Fatalf("evicted session must be closed")
	}

	reopened, err := r.Session(ctx, "guest:alice")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if reopened == alice {
		t.Fatalf("expected a fresh session after eviction")
	}
	if got := reopened.Store().Data().Personal.FirstName; got != "Ada" {
		t.Fatalf("reopened first name = %q", got)
	}
}

func TestRegistryAccessKeepsSessionAlive(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(localstate.NewMemoryState(), nil)
	r.now = func() time.Time { return clock }
	defer r.Close()

	first, _ := r.Session(ctx, "guest:alice")
	clock = clock.Add(25 * time.Minute)
	_, _ = r.Session(ctx, "guest:alice")
	clock = clock.Add(25 * time.Minute)

	if n := r.Evict(30 * time.Minute); n != 0 {
		t.Fatalf("evicted %d sessions, want 0", n)
	}
	if again, _ := r.Session(ctx, "guest:alice"); again != first {
		t.Fatalf("recently used session must be kept")
	}
}

func TestRunEvictionStopsOnClose(t *testing.T) {
	r := NewRegistry(localstate.NewMemoryState(), nil)
	done := make(chan struct{})
	go func() {
		r.RunEviction(context.Background(), time.Hour, time.Hour)
		close(done)
	}()
	r.Close()
	r.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("eviction loop kept running after Close")
	}
}
