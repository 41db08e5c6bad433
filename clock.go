package stm

import "sync/atomic"

// VersionClock is a process-wide monotonic counter. Every mutating commit
// that reaches its write locks advances it by exactly one, including one
// that then fails revalidation. The value a transaction samples at start
// lets a commit skip revalidation when no other commit advanced the clock
// in between; the read set itself is checked against per-TVar versions.
//
// Grounded on tiancaiamao-stm's VersionClock: same two operations, same
// atomic-uint64 representation. Generalized so tests can run independent
// universes of TVars against their own clock (see Run).
type VersionClock struct {
	v atomic.Uint64
}

func (c *VersionClock) load() uint64 {
	return c.v.Load()
}

// increment returns the clock's value after the increment, i.e. the new
// commit version.
func (c *VersionClock) increment() uint64 {
	return c.v.Add(1)
}

// global is the clock used by Atomically. Tests that want an isolated
// universe should use Run with their own VersionClock and TVars instead.
var global VersionClock
