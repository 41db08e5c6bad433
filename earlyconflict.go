//go:build stm_earlyconflict

package stm

// earlyConflictEnabled gates the extra incremental check tvar.read performs
// after every read when built with -tags stm_earlyconflict (spec §4.1/§6).
const earlyConflictEnabled = true

// checkEarlyConflict re-checks every TVar already in the read set against
// its live version; if any has advanced, the transaction is doomed and can
// abort now instead of running the rest of the (possibly expensive)
// closure.
func checkEarlyConflict(tx *Tx) bool {
	for _, s := range tx.log.readSlots() {
		locked, version := s.tv.lock.load()
		if locked || version > s.readVersion {
			return false
		}
	}
	return true
}
