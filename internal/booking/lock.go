package booking

import (
	"sync"
	"time"
)

// slotLocker serializes the check-then-insert window per (pitch, date) so two
// concurrent requests for overlapping slots cannot both pass the conflict
// check. Entries are created on demand and kept for the life of the process.
type slotLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocker() *slotLocker {
	return &slotLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *slotLocker) lock(pitchID string, date time.Time) func() {
	key := pitchID + "|" + date.Format("2006-01-02")

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
