package cache

import (
	"testing"
	"time"

	"retailenroll/infrastructure/enrollment"
)

func TestSessionCacheExpiresIdleSessions(t *testing.T) {
	start := time.Date(2025, 12, 5, 9, 0, 0, 0, time.UTC)
	c := NewEnrollmentSessionCache(time.Hour)

	fresh := enrollment.NewSession("fresh", "", start)
	idle := enrollment.NewSession("idle", "", start)
	c.AddSession(fresh)
	c.AddSession(idle)

	fresh.Touch(start.Add(50 * time.Minute))
	now := start.Add(90 * time.Minute)

	if _, ok := c.FindSessionBySessionToken("fresh", now); !ok {
		t.Fatalf("expected recently used session to be found")
	}
	if _, ok := c.FindSessionBySessionToken("idle", now); ok {
		t.Fatalf("expected idle session to expire")
	}
	if c.Len() != 1 {
		t.Fatalf("expected expired lookup to remove the session, len=%d", c.Len())
	}
}

func TestSessionCacheSweep(t *testing.T) {
	start := time.Date(2025, 12, 5, 9, 0, 0, 0, time.UTC)
	c := NewEnrollmentSessionCache(time.Hour)
	for _, id := range []string{"a", "b", "c"} {
		c.AddSession(enrollment.NewSession(id, "", start))
	}
	keep, _ := c.FindSessionBySessionToken("b", start)
	keep.Touch(start.Add(2 * time.Hour))

	if removed := c.Sweep(start.Add(2 * time.Hour)); removed != 2 {
		t.Fatalf("expected 2 sessions swept, got %d", removed)
	}
	if _, ok := c.FindSessionBySessionToken("b", start.Add(2*time.Hour)); !ok {
		t.Fatalf("expected touched session to survive sweep")
	}
}
