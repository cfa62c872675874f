package repository

import (
	"errors"
	"sync"
	"time"

	"antibias-assessment/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	CreateSession(session *model.Session) error
	GetSessionByID(sessionID string) (*model.Session, error)
	SaveResult(sessionID string, result *model.Result) error
	DeleteSession(sessionID string) error
	Close()
}

type sessionEntry struct {
	session  model.Session
	lastSeen time.Time
}

// sessionRepository keeps sessions in memory only. Entries idle for longer
// than ttl are dropped by a janitor goroutine.
type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewSessionRepository(ttl time.Duration) SessionRepository {
	return newSessionRepository(ttl, time.Now)
}

func newSessionRepository(ttl time.Duration, now func() time.Time) *sessionRepository {
	r := &sessionRepository{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go r.janitor(janitorInterval(ttl))
	} else {
		close(r.done)
	}
	return r
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	return interval
}

func (r *sessionRepository) janitor(interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.evictExpired()
		case <-r.stop:
			return
		}
	}
}

func (r *sessionRepository) evictExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (r *sessionRepository) CreateSession(session *model.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = &sessionEntry{session: *session, lastSeen: r.now()}
	return nil
}

func (r *sessionRepository) GetSessionByID(sessionID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.ttl > 0 && e.lastSeen.Before(r.now().Add(-r.ttl)) {
		delete(r.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	s := e.session
	return &s, nil
}

func (r *sessionRepository) SaveResult(sessionID string, result *model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	e.session.LastResult = result
	e.lastSeen = r.now()
	return nil
}

func (r *sessionRepository) DeleteSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

// Close stops the janitor and waits for it to exit. Safe to call twice.
func (r *sessionRepository) Close() {
	r.once.Do(func() { close(r.stop) })
	<-r.done
}
