package stm

import (
	"context"
	"sync/atomic"
)

// waiter is a one-shot wake-up handle: fire is idempotent, so a commit that
// races a timeout or a double wake never panics on a double close. Grounded
// on spec §4.5's "a signal handle, once fired, is a no-op if fired again."
type waiter struct {
	ch    chan struct{}
	fired atomic.Bool
}

func newWaiter() *waiter {
	return &waiter{ch: make(chan struct{})}
}

func (w *waiter) fire() {
	if w.fired.CompareAndSwap(false, true) {
		close(w.ch)
	}
}

func (v *tvar) addWaiter(w *waiter) {
	v.waitersMu.Lock()
	v.waiters = append(v.waiters, w)
	v.waitersMu.Unlock()
}

func (v *tvar) removeWaiter(w *waiter) {
	v.waitersMu.Lock()
	for i, x := range v.waiters {
		if x == w {
			v.waiters = append(v.waiters[:i], v.waiters[i+1:]...)
			break
		}
	}
	v.waitersMu.Unlock()
}

// wakeAll drains and fires every handle registered on v. Called by the
// driver after a commit has released the commit lock, so waiters never
// observe the TVar mid-commit (spec §4.5).
func (v *tvar) wakeAll() {
	v.waitersMu.Lock()
	waiters := v.waiters
	v.waiters = nil
	v.waitersMu.Unlock()
	for _, w := range waiters {
		w.fire()
	}
}

// Retry signals that tx's transaction should block until something it read
// changes, then restart.
func Retry(tx *Tx) error {
	return ErrRetry
}

// blockUntilChanged implements spec §4.5 and §4.3 step 5: register on every
// TVar the transaction read, in ascending id order (avoids registration
// races forming a cycle), double-check none has already moved, and park
// until one does or ctx is done. Its only caller, attemptLoop, treats a
// non-nil, non-ErrTimedOut result as "restart now without parking" — so
// errAbort never escapes to the user, matching errors.go's taxonomy.
func blockUntilChanged(ctx context.Context, tx *Tx) error {
	reads := sortedReadTvars(tx)
	if len(reads) == 0 {
		// Reached when the transaction called Retry without reading any
		// TVar (under Or: when no retried alternative read one). Nothing
		// will ever wake this, so restart immediately instead of parking
		// forever.
		return errAbort
	}

	w := newWaiter()
	for _, tv := range reads {
		tv.addWaiter(w)
	}

	// Mandatory double-check (spec §4.5, §9): a commit between the
	// validate/park gap must not be lost.
	stale := false
	for _, tv := range reads {
		if locked, version := tv.lock.load(); locked || version > readVersionOf(tx, tv) {
			stale = true
			break
		}
	}
	if stale {
		for _, tv := range reads {
			tv.removeWaiter(w)
		}
		return nil
	}

	select {
	case <-w.ch:
	case <-ctx.Done():
		for _, tv := range reads {
			tv.removeWaiter(w)
		}
		return ErrTimedOut
	}

	for _, tv := range reads {
		tv.removeWaiter(w)
	}
	return nil
}

func readVersionOf(tx *Tx, tv *tvar) uint64 {
	slot, ok := tx.log.get(tv.id)
	if !ok {
		return 0
	}
	return slot.readVersion
}

func sortedReadTvars(tx *Tx) []*tvar {
	slots := tx.log.readSlots()
	out := make([]*tvar, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.tv)
	}
	sortTvarsByID(out)
	return out
}
