// Package doclock serializes writers per document id. Transition and capture
// operations on one document must not interleave, or two captures could both
// read a stale received aggregate and overwrite each other.
package doclock

import (
	"fmt"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

type Locker struct {
	mu   sync.Mutex
	held map[string]*entry
}

func New() *Locker {
	return &Locker{held: map[string]*entry{}}
}

// Lock blocks until the key is exclusively held and returns the unlock func.
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.held[key]
	if !ok {
		e = &entry{}
		l.held[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}
}

var std = New()

// Lock locks a key on the process-wide locker.
func Lock(key string) func() {
	return std.Lock(key)
}

// Key builds the canonical lock key for a document.
func Key(docType string, id int64) string {
	return fmt.Sprintf("%s:%d", docType, id)
}
