package cache

import (
	"sync"
	"time"

	"retailenroll/infrastructure/enrollment"
)

// EnrollmentSessionCache stores in-progress enrollments by session token.
// Nothing here is persisted; a restart starts every user over.
type EnrollmentSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*enrollment.Session
	ttl      time.Duration
}

func NewEnrollmentSessionCache(ttl time.Duration) *EnrollmentSessionCache {
	return &EnrollmentSessionCache{sessions: make(map[string]*enrollment.Session), ttl: ttl}
}

func (c *EnrollmentSessionCache) AddSession(s *enrollment.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

// FindSessionBySessionToken returns the session unless it has been idle longer than the TTL.
func (c *EnrollmentSessionCache) FindSessionBySessionToken(token string, now time.Time) (*enrollment.Session, bool) {
	c.mu.RLock()
	s, ok := c.sessions[token]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.expired(s, now) {
		c.DeleteSessionBySessionToken(token)
		return nil, false
	}
	return s, true
}

func (c *EnrollmentSessionCache) DeleteSessionBySessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}

// Sweep drops idle sessions and returns how many were removed.
func (c *EnrollmentSessionCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, s := range c.sessions {
		if c.expired(s, now) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

func (c *EnrollmentSessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *EnrollmentSessionCache) expired(s *enrollment.Session, now time.Time) bool {
	return c.ttl > 0 && now.Sub(s.LastSeen()) > c.ttl
}
