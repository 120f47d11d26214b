// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "sync"

// lockTable hands out one mutex per poll id. Vote submission and the
// explicit lifecycle transitions serialize on the poll's mutex, so the
// load-fingerprints/detect/insert sequence is atomic per poll while
// submissions to different polls never block each other.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// forPoll returns the mutex for a poll, creating it on first use.
// Entries are dropped together with their poll on delete.
func (t *lockTable) forPoll(pollID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.locks[pollID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[pollID] = lock
	}
	return lock
}

func (t *lockTable) drop(pollID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.locks, pollID)
}
