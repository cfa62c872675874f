package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"antibias-assessment/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestSessionLifecycle(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	defer repo.Close()

	require.NoError(t, repo.CreateSession(&model.Session{ID: "abc", Seed: 42}))

	s, err := repo.GetSessionByID("abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), s.Seed)
	assert.Nil(t, s.LastResult)

	result := &model.Result{Total: 10}
	require.NoError(t, repo.SaveResult("abc", result))

	s, err = repo.GetSessionByID("abc")
	require.NoError(t, err)
	require.NotNil(t, s.LastResult)
	assert.Equal(t, 10, s.LastResult.Total)

	require.NoError(t, repo.DeleteSession("abc"))
	_, err = repo.GetSessionByID("abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionErrors(t *testing.T) {
	repo := NewSessionRepository(0)
	defer repo.Close()

	assert.Error(t, repo.CreateSession(&model.Session{}))
	assert.Error(t, repo.CreateSession(nil))
	assert.ErrorIs(t, repo.SaveResult("missing", &model.Result{}), ErrSessionNotFound)
	assert.ErrorIs(t, repo.DeleteSession("missing"), ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	repo := newSessionRepository(10*time.Minute, clock.Now)
	defer repo.Close()

	require.NoError(t, repo.CreateSession(&model.Session{ID: "old"}))
	clock.Advance(6 * time.Minute)
	require.NoError(t, repo.CreateSession(&model.Session{ID: "new"}))

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, repo.evictExpired())

	_, err := repo.GetSessionByID("old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.GetSessionByID("new")
	assert.NoError(t, err)
}

func TestGetSessionExpiresLazily(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	repo := newSessionRepository(time.Minute, clock.Now)
	defer repo.Close()

	require.NoError(t, repo.CreateSession(&model.Session{ID: "s"}))
	clock.Advance(2 * time.Minute)
	_, err := repo.GetSessionByID("s")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	repo.Close()
	repo.Close()
}

func TestJanitorInterval(t *testing.T) {
	assert.Equal(t, time.Second, janitorInterval(time.Second))
	assert.Equal(t, 30*time.Second, janitorInterval(2*time.Minute))
	assert.Equal(t, time.Minute, janitorInterval(time.Hour))
}
