package stm

// logSlot is the per-transaction log entry for one TVar (spec's LogEntry).
// A TVar that is only read has hasWrite == false; one that is only written
// has hasRead == false; a TVar touched both ways has one merged slot, as
// required by spec §4.2.
type logSlot struct {
	tv *tvar

	hasRead     bool
	readVersion uint64

	hasWrite bool
	pending  any

	// snapshot is what Read returns on the second and later touch of this
	// TVar within the same transaction, so repeated reads don't re-touch
	// the TVar (spec §3's LogEntry.snapshot_value).
	snapshot any
}

// txLog is the per-transaction read/write log. Two implementations exist,
// selected at build time (spec §6's hash-registers feature):
//
//   - log_linear.go (default): ordered slice, linear scan. Cache-friendly
//     for the common small transaction; grounded directly on
//     tiancaiamao-stm's fixed-array-backed readSet.
//   - log_hash.go (tag stm_hashlog): map keyed by tvarID, for transactions
//     that touch many TVars.
type txLog interface {
	// get returns the slot for id, if this transaction has touched it.
	get(id tvarID) (*logSlot, bool)
	// set inserts or overwrites the slot for its TVar's id.
	set(slot *logSlot)
	// writeSlots returns every slot with a pending write, in ascending
	// TVar-id order — the order commit-lock acquisition requires.
	writeSlots() []*logSlot
	// readSlots returns every slot with a recorded read (read-only or
	// read+write); write-only slots are not included.
	readSlots() []*logSlot
	// clear empties the log for a retry loop, reusing backing storage.
	clear()
	// clone returns a deep copy, used by Or to snapshot before running an
	// alternative and restore if that alternative retries or aborts.
	clone() txLog
}

func newTxLog() txLog {
	return newDefaultTxLog()
}
