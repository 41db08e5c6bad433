package stm

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Tx is a transaction handle: exclusively owned by the goroutine running
// Atomically, never shared (spec §3's Transaction ownership rule). It
// carries the per-transaction log and the version observed at the start of
// the current attempt.
type Tx struct {
	log          txLog
	clock        *VersionClock
	startVersion uint64
}

// activeGoroutines tracks which goroutines are currently inside a
// top-level Atomically, the process-thread-local flag spec §4.3 calls for.
// Go has no native thread/goroutine-local storage; goroutineID (goid.Get)
// is the stand-in (see id.go).
var activeGoroutines sync.Map // int64 -> struct{}

// Atomically runs f to a successful commit and returns its value. f may run
// more than once before it commits — it must not have side effects other
// than reading and writing TVars. Calling Atomically from a goroutine
// already running one is a fatal programmer error and panics (spec §4.3).
func Atomically[T any](f func(*Tx) (T, error)) (T, error) {
	return AtomicallyContext(context.Background(), f)
}

// AtomicallyContext is Atomically with a context that can cancel a
// transaction parked in Retry. A transaction that is runnable (not
// blocked) ignores ctx entirely — only the wait step in blockUntilChanged
// observes it. On cancellation the zero value and ErrTimedOut are
// returned.
func AtomicallyContext[T any](ctx context.Context, f func(*Tx) (T, error)) (T, error) {
	gid := goroutineID()
	if _, already := activeGoroutines.LoadOrStore(gid, struct{}{}); already {
		logNestedPanic()
		panic(errors.WithStack(ErrNestedTransaction))
	}
	defer activeGoroutines.Delete(gid)

	return runLoop(ctx, &global, f)
}

// Run is Atomically against a caller-supplied clock and a reused Tx,
// avoiding the allocation Atomically makes on every call — the same
// escape hatch tiancaiamao-stm's Run offers over its package-global
// Atomically, useful for benchmarks and for tests that want an isolated
// universe of TVars.
func Run[T any](clock *VersionClock, tx *Tx, f func(*Tx) (T, error)) (T, error) {
	return attemptLoop(context.Background(), clock, tx, f)
}

func runLoop[T any](ctx context.Context, clock *VersionClock, f func(*Tx) (T, error)) (T, error) {
	tx := &Tx{}
	return attemptLoop(ctx, clock, tx, f)
}

func attemptLoop[T any](ctx context.Context, clock *VersionClock, tx *Tx, f func(*Tx) (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var zero T
	for attempt := 1; ; attempt++ {
		if tx.log == nil {
			tx.log = newTxLog()
		} else {
			tx.log.clear()
		}
		tx.clock = clock
		tx.startVersion = clock.load()

		span := startAttemptSpan(ctx, attempt)

		val, err := f(tx)

		switch {
		case err == nil:
			version, commitErr := tryCommit(tx)
			if commitErr != nil {
				recordAbort()
				logAbort(tx, attempt)
				finishSpan(span, "abort")
				continue
			}
			recordCommit()
			logCommit(tx, version, len(tx.log.writeSlots()))
			finishSpan(span, "commit")
			return val, nil

		case errors.Is(err, errAbort):
			recordAbort()
			logAbort(tx, attempt)
			finishSpan(span, "abort")
			continue

		case errors.Is(err, ErrRetry):
			recordRetry()
			logRetry(tx, attempt)
			finishSpan(span, "retry")
			if waitErr := blockUntilChanged(ctx, tx); waitErr != nil {
				// errAbort means "nothing to wait on, restart now" — an
				// internal-only outcome (errors.go) that must never reach
				// the caller. Only a real timeout is surfaced.
				if errors.Is(waitErr, ErrTimedOut) {
					return zero, waitErr
				}
				continue
			}
			continue

		default:
			finishSpan(span, "error")
			return zero, err
		}
	}
}

// tryCommit implements spec §4.3 steps 3-6. It reports the commit version
// used (0 if nothing was written) and, on failure, errInconsistentState —
// the driver's own signal that revalidation found the read set stale.
// Failure always means "loop and try again from scratch," never a value
// returned to the caller.
func tryCommit(tx *Tx) (uint64, error) {
	if !validateReads(tx, nil) {
		return 0, errInconsistentState
	}

	writes := tx.log.writeSlots() // already ascending by TVar id
	if len(writes) == 0 {
		return 0, nil
	}

	lockStart := time.Now()
	for _, s := range writes {
		s.tv.lock.lock()
	}

	newVersion := tx.clock.increment()

	// Optimization ported from tiancaiamao-stm: if we are provably the
	// only committer since this attempt started, the read set cannot
	// have been invalidated and revalidating it is wasted work.
	if newVersion != tx.startVersion+1 {
		if !validateReads(tx, writes) {
			for _, s := range writes {
				s.tv.lock.unlock()
			}
			return 0, errInconsistentState
		}
	}

	toWake := make([]*tvar, 0, len(writes))
	for _, s := range writes {
		s.tv.val = s.pending
		s.tv.lock.commit(newVersion)
		toWake = append(toWake, s.tv)
	}
	commitLockWait.Observe(time.Since(lockStart).Seconds())

	for _, tv := range toWake {
		tv.wakeAll()
	}
	return newVersion, nil
}

// validateReads checks every read TVar's live version against what this
// transaction recorded. When held is non-nil, the caller already holds
// those TVars' commit locks (because it is about to write them), so a TVar
// found locked is only a conflict if it is not one of held's (spec §4.3
// step 5's "locked by me" exception).
func validateReads(tx *Tx, held []*logSlot) bool {
	var heldSet map[tvarID]bool
	if held != nil {
		heldSet = make(map[tvarID]bool, len(held))
		for _, s := range held {
			heldSet[s.tv.id] = true
		}
	}

	for _, s := range tx.log.readSlots() {
		locked, version := s.tv.lock.load()
		if locked && !heldSet[s.tv.id] {
			return false
		}
		if version != s.readVersion {
			return false
		}
	}
	return true
}
