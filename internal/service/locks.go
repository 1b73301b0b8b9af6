package service

import "sync"

// sessionLocks serializes mutations per session id. WebSocket handlers run
// on one goroutine per connection, so two players of the same session can
// race without this; the lock restores the single-writer model the session
// invariants rely on.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the per-session mutex and returns its unlock function.
func (that *sessionLocks) Lock(sessionID string) func() {
	that.mu.Lock()
	lock, ok := that.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[sessionID] = lock
	}
	that.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}

// Forget drops the mutex of a torn-down session.
func (that *sessionLocks) Forget(sessionID string) {
	that.mu.Lock()
	delete(that.locks, sessionID)
	that.mu.Unlock()
}
