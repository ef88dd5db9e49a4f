package corpus

import "sync"

// sessionLocks serializes index-mutating operations per session. Two
// concurrent mutations on one session must not interleave their rebuilds, or
// the persisted index can end up reflecting only one of them; operations on
// different sessions never contend. Entries are never removed: a goroutine
// may still be queued on a swept session's mutex, and handing out a second
// mutex for the same session would break the serialization guarantee.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for the given session, creating it on first use.
func (l *sessionLocks) get(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	return m
}
