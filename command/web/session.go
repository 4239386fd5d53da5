package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"fuel-dashboard/domain/fuel"
)

const sessionCookie = "fuel_session"

// session holds the working table of one operator session. The table is
// immutable once stored; an upload replaces the whole session.
type session struct {
	File       string
	UploadedAt time.Time
	Raw        int // rows read before filtering
	Working    fuel.Table

	lastSeen time.Time
}

// sessionStore keeps one session per cookie id. A session idle for longer
// than ttl ends and its table is dropped; ttl <= 0 keeps sessions forever.
type sessionStore struct {
	sessions map[string]*session
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{sessions: make(map[string]*session), ttl: ttl, now: time.Now}
}

// Get returns the live session for id and marks it as used.
func (s *sessionStore) Get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		slog.Info("session.expired", "file", sess.File, "idle", now.Sub(sess.lastSeen))
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Put replaces the session for id. The previous table is discarded whole.
// Idle sessions are swept on the way.
func (s *sessionStore) Put(id string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	sess.lastSeen = now
	s.sessions[id] = sess
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of live sessions.
func (s *sessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.sessions)
}

func (s *sessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			slog.Info("session.expired", "file", sess.File, "idle", now.Sub(sess.lastSeen))
		}
	}
}

func (s *sessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func sessionID(c echo.Context) string {
	if ck, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(ck.Value); err == nil {
			return ck.Value
		}
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
