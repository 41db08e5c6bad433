package stm

import "github.com/pkg/errors"

// Internal outcome sentinels (spec §6/§7's "taxonomy surfaced as values").
// Apart from ErrTimedOut, none of these reach a caller that follows the
// read/write contract: a user closure that propagates every error it
// receives from Read/Write/Retry never sees one escape Atomically.
var (
	// errAbort signals that a TVar.Read observed an inconsistent
	// (value, version) pair — the seqlock double-check failed, or early
	// conflict detection (stm_earlyconflict) tripped. It means "this
	// attempt can't possibly succeed, stop now." Or treats it like
	// ErrRetry and runs the next alternative on the restored log, but does
	// not keep the aborted branch's reads in the retry set. At the top
	// level, with no Or to catch it, the driver just restarts
	// immediately — the data has already changed, so waiting would be
	// pointless.
	errAbort = errors.New("stm: transaction observed an inconsistent read, restarting")

	// errInconsistentState is raised by the driver itself (never by user
	// code) when the read set fails revalidation at commit time. Always
	// causes an immediate restart from a fresh log.
	errInconsistentState = errors.New("stm: commit-time validation failed, restarting")

	// ErrRetry is returned by Retry. It asks Atomically to block until a
	// TVar this transaction read changes, then restart.
	ErrRetry = errors.New("stm: transaction requested retry")

	// ErrTimedOut is returned by AtomicallyContext when the supplied
	// context is done while the transaction is blocked in retry.
	ErrTimedOut = errors.New("stm: transaction retry timed out")
)

// ErrNestedTransaction is the panic value raised when Atomically is called
// from a goroutine that is already running a top-level transaction. This is
// a fatal programmer error (spec §4.3/§7): the inner commit would become
// visible to the outer transaction before the outer one validates anything.
var ErrNestedTransaction = errors.New("stm: nested Atomically on the same goroutine")

// isRetryOrAbort reports whether err is one of the two internal sentinels
// Or treats as "this branch can't proceed right now, try the next one" —
// spec §4.4's "If a produces Retry or Abort, b runs."
func isRetryOrAbort(err error) bool {
	return errors.Is(err, ErrRetry) || errors.Is(err, errAbort)
}
