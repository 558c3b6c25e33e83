package service

import "sync"

// scripLocks serializes ledger mutations per (user, scrip) pair. Sales against
// the same pair run one at a time so the allocation plan cannot be invalidated
// between validation and commit; disjoint pairs proceed in parallel.
type scripLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScripLocks() *scripLocks {
	return &scripLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the (user, scrip) pair and returns the unlock function.
func (l *scripLocks) acquire(userID, scrip string) func() {
	key := userID + "|" + scrip

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
