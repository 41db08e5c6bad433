package stm

import "github.com/pkg/errors"

// Or combines two transactional actions into one (spec §4.4). a runs
// first; if it succeeds or returns a user error, that is the result. If a
// retries or aborts, b runs against the log restored to its pre-a state. If
// b also retries or aborts, the final retry watches b's read set plus a's —
// but only when a itself asked to Retry. spec §4.4 draws this distinction:
// an Abort means a's view was simply stale, so its reads carry nothing
// worth preserving, while a Retry means a is a viable alternative still
// waiting on its own dependencies, worth waking on too.
//
// A user error returned by either branch bypasses Or entirely and
// propagates to the caller unchanged — the convention spec §9's Open
// Question adopts.
func Or[T any](a, b func(*Tx) (T, error)) func(*Tx) (T, error) {
	return func(tx *Tx) (T, error) {
		var zero T
		before := tx.log.clone()

		valA, errA := a(tx)
		if errA == nil {
			return valA, nil
		}
		if !isRetryOrAbort(errA) {
			return zero, errA // user error: Or does not catch it
		}
		aRetried := errors.Is(errA, ErrRetry)

		aLog := tx.log // carries a's reads, unioned later only if aRetried
		tx.log = before

		valB, errB := b(tx)
		if errB == nil {
			return valB, nil
		}
		if !isRetryOrAbort(errB) {
			return zero, errB
		}

		if aRetried {
			mergeReadsInto(tx.log, aLog)
		}
		return zero, ErrRetry
	}
}

// mergeReadsInto implements spec §4.2's read-merge rule: child reads are
// added to parent; a TVar already present keeps the parent's observation
// (if the versions disagree the branch that observed the older one would
// already have aborted by commit time, so there is nothing useful to
// reconcile here). Only the read portion of each slot is carried — any
// pending write from the discarded branch must not survive the restore.
func mergeReadsInto(parent txLog, child txLog) {
	for _, s := range child.readSlots() {
		if _, ok := parent.get(s.tv.id); ok {
			continue
		}
		parent.set(&logSlot{tv: s.tv, hasRead: true, readVersion: s.readVersion, snapshot: s.snapshot})
	}
}
