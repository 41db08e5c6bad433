package stm

import (
	"sync/atomic"

	"github.com/petermattis/goid"
)

// tvarID is a stable, process-unique, totally-ordered identity for a TVar.
// Ascending tvarID order is the lock-acquisition order the commit protocol
// uses to stay deadlock-free (spec §4.3), which rules out anything hash- or
// UUID-based — a plain monotonic counter is the simplest thing that is
// actually ordered. See DESIGN.md for why google/uuid was considered and
// rejected.
type tvarID uint64

var nextTvarID atomic.Uint64

func newTvarID() tvarID {
	return tvarID(nextTvarID.Add(1))
}

// goroutineID returns an identifier for the calling goroutine, used only to
// detect a thread already running a top-level transaction (spec §4.3's
// "process-thread-local flag"). Go has no native goroutine-local storage;
// github.com/petermattis/goid is the pack's own answer to this concern
// (sasha-s/go-deadlock is built on it for the same reason: recovering the
// calling goroutine's identity to key a per-goroutine flag).
func goroutineID() int64 {
	return goid.Get()
}
