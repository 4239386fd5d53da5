package web

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fuel-dashboard/connectors/config"
)

// fakeClock is a settable time source for session expiry.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func storeWith(clock *fakeClock, ttl time.Duration) *sessionStore {
	s := newSessionStore(ttl)
	s.now = clock.now
	return s
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := storeWith(clock, time.Hour)
	s.Put("a", &session{File: "a.csv"})
	s.Put("b", &session{File: "b.csv"})

	clock.advance(40 * time.Minute)
	if _, ok := s.Get("a"); !ok {
		t.Fatal("a should still be live")
	}

	clock.advance(40 * time.Minute)
	if _, ok := s.Get("a"); !ok {
		t.Fatal("a was used 40 minutes ago and should still be live")
	}
	if _, ok := s.Get("b"); ok {
		t.Fatal("b idle for 80 minutes should have expired")
	}
	if n := s.Count(); n != 1 {
		t.Fatalf("Count() = %d, want 1", n)
	}
}

func TestSessionStorePutSweeps(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := storeWith(clock, time.Minute)
	s.Put("old", &session{})
	clock.advance(2 * time.Minute)
	s.Put("new", &session{})

	s.mu.Lock()
	_, stale := s.sessions["old"]
	n := len(s.sessions)
	s.mu.Unlock()
	if stale || n != 1 {
		t.Fatalf("sweep left %d sessions, old present = %v", n, stale)
	}
}

func TestSessionStoreZeroTTLKeepsSessions(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := storeWith(clock, 0)
	s.Put("a", &session{})
	clock.advance(1000 * time.Hour)
	if _, ok := s.Get("a"); !ok {
		t.Fatal("zero ttl must not expire sessions")
	}
}

func TestExpiredSessionReturnsNotFound(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cfg := config.Default()
	cfg.Server.UIDir = filepath.Join(t.TempDir(), "missing")
	h := newServer(cfg, storeWith(clock, cfg.Server.SessionTTL))

	cookie := upload(t, h)
	if rec := do(h, httptest.NewRequest(http.MethodGet, "/api/metrics", nil), cookie); rec.Code != http.StatusOK {
		t.Fatalf("live session status = %d", rec.Code)
	}

	clock.advance(cfg.Server.SessionTTL + time.Second)
	if rec := do(h, httptest.NewRequest(http.MethodGet, "/api/metrics", nil), cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("expired session status = %d, want 404", rec.Code)
	}
}
