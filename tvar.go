package stm

import "sync"

// tvar is the untyped transactional cell. TVar[T] is a thin generic facade
// over it so the log (which must hold entries for TVars of many different
// T) can store payloads as any, the same trick tiancaiamao-stm uses with
// its interface{}-valued Var.
type tvar struct {
	id   tvarID
	lock versionedLock
	val  any

	waitersMu sync.Mutex
	waiters   []*waiter
}

func newTvar(val any) *tvar {
	return &tvar{id: newTvarID(), val: val}
}

// readConsistent samples (value, version) such that both existed
// simultaneously, using the seqlock scheme of spec §4.1(b): sample the lock
// word, read the value, resample the word. ok is false if a commit was in
// progress throughout, or raced with the read.
func (v *tvar) readConsistent() (val any, version uint64, ok bool) {
	locked, v1 := v.lock.load()
	if locked {
		return nil, 0, false
	}
	val = v.val
	locked2, v2 := v.lock.load()
	if locked2 || v1 != v2 {
		return nil, 0, false
	}
	return val, v1, true
}

// read implements spec §4.1's read(tx): write-set shadowing, then
// read-set snapshot reuse, then a fresh consistent load.
func (v *tvar) read(tx *Tx) (any, error) {
	if slot, ok := tx.log.get(v.id); ok {
		if slot.hasWrite {
			return slot.pending, nil
		}
		return slot.snapshot, nil
	}

	val, version, ok := v.readConsistent()
	if !ok {
		return nil, errAbort
	}

	tx.log.set(&logSlot{tv: v, hasRead: true, readVersion: version, snapshot: val})

	if earlyConflictEnabled && !checkEarlyConflict(tx) {
		return nil, errAbort
	}
	return val, nil
}

// write implements spec §4.1's write(tx, v): stage the value, preserving
// any read_version already recorded for this TVar. Does not touch the TVar.
func (v *tvar) write(tx *Tx, val any) {
	if slot, ok := tx.log.get(v.id); ok {
		slot.hasWrite = true
		slot.pending = val
		slot.snapshot = val
		return
	}
	tx.log.set(&logSlot{tv: v, hasWrite: true, pending: val, snapshot: val})
}

// TVar is a transactional variable holding a T. The zero value is not
// usable; construct one with NewTVar.
type TVar[T any] struct {
	tv *tvar
}

// NewTVar allocates a TVar holding initial. It is ready to share across
// goroutines immediately.
func NewTVar[T any](initial T) *TVar[T] {
	return &TVar[T]{tv: newTvar(initial)}
}

// Read returns the logical value of v within tx: the pending write if this
// transaction already wrote it, the snapshot if already read, or a fresh
// consistent load otherwise.
func (v *TVar[T]) Read(tx *Tx) (T, error) {
	var zero T
	val, err := v.tv.read(tx)
	if err != nil {
		return zero, err
	}
	return val.(T), nil
}

// Write stages val to be committed if and when tx commits. It never fails
// by itself; the error return exists to match spec §6's uniform
// Result-returning surface and to let callers write
// `return v.Write(tx, x)` as the last line of a transaction closure.
func (v *TVar[T]) Write(tx *Tx, val T) error {
	v.tv.write(tx, val)
	return nil
}

// Modify is Write(tx, f(Read(tx))), the common case spec §4.1 calls out
// explicitly. Read and Write each look the TVar up in the log.
func (v *TVar[T]) Modify(tx *Tx, f func(T) T) error {
	cur, err := v.Read(tx)
	if err != nil {
		return err
	}
	return v.Write(tx, f(cur))
}
