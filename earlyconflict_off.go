//go:build !stm_earlyconflict

package stm

// earlyConflictEnabled is false in the default build: transactions only
// validate their read set once, at commit time (spec §4.3). Build with
// -tags stm_earlyconflict to validate incrementally on every read instead.
const earlyConflictEnabled = false

func checkEarlyConflict(tx *Tx) bool { return true }
