package enableapp

import (
	"slices"
	"sync"
)

// ResultLog is the newest-first sequence of processing outcomes.
//
// The log only grows: Prepend inserts at index 0 and nothing is ever removed
// or replaced. It is safe for concurrent use, although a Coordinator keeps all
// writes on one goroutine so that ordering reflects completion order.
type ResultLog struct {
	mu      sync.RWMutex
	entries []ResultEntry
}

// NewResultLog returns an empty log.
func NewResultLog() *ResultLog {
	return &ResultLog{}
}

// Prepend inserts e at the head of the log.
func (l *ResultLog) Prepend(e ResultEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = slices.Insert(l.entries, 0, e)
}

// Entries returns a copy of the log, most recent first.
func (l *ResultLog) Entries() []ResultEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *ResultLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Failed returns the number of entries that did not succeed.
func (l *ResultLog) Failed() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, e := range l.entries {
		if !e.Success {
			n++
		}
	}
	return n
}
