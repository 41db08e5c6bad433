/*
Package stm provides software transactional memory for Go.

STM lets goroutines compose read/write operations over shared TVars into
atomic, serializable transactions without explicit locking. A transaction
runs a closure speculatively against a private log; on completion the log is
validated against the live state of every TVar it read, and either
committed atomically or restarted from scratch.

	balance := stm.NewTVar(100)

	_, err := stm.Atomically(func(tx *stm.Tx) (struct{}, error) {
		v, err := balance.Read(tx)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, balance.Write(tx, v-1)
	})

A transaction can block until the world changes by calling Retry:

	_, err := stm.Atomically(func(tx *stm.Tx) (struct{}, error) {
		v, err := balance.Read(tx)
		if err != nil {
			return struct{}{}, err
		}
		if v <= 0 {
			return struct{}{}, stm.Retry(tx)
		}
		return struct{}{}, balance.Write(tx, v-1)
	})

Two transactional actions can be combined as alternatives with Or: the
second only runs if the first calls Retry or aborts on an inconsistent read.

Transactions must not have side effects outside of TVar reads and writes —
a transaction may run more than once before it commits. Calling Atomically
from inside another Atomically on the same goroutine is a programmer error
and panics; nesting would let the inner commit become visible to the outer
transaction before the outer one has validated anything.
*/
package stm
