// Package trackertest builds tracker services on private in-memory
// stores for tests.
package trackertest

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

// Clock is a settable clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Start is the initial fake time: Wednesday 2024-05-08 16:00 UTC.
var Start = time.Date(2024, 5, 8, 16, 0, 0, 0, time.UTC)

var seq atomic.Int64

// New returns a service on a fresh in-memory SQLite store with a fake
// clock in UTC. The store is closed when t finishes.
func New(t testing.TB) (*tracker.Service, *Clock) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:trackertest_%d?mode=memory&cache=shared", seq.Add(1)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	c := &Clock{now: Start}
	return tracker.NewService(tracker.ReposFromStore(st), tracker.WithClock(c.Now), tracker.WithLocation(time.UTC)), c
}
