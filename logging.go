package stm

import "go.uber.org/zap"

func logRetry(tx *Tx, attempt int) {
	currentLogger().Debug("transaction retrying",
		zap.Int("attempt", attempt),
		zap.Int("readSetSize", len(tx.log.readSlots())),
	)
}

func logAbort(tx *Tx, attempt int) {
	currentLogger().Debug("transaction aborted, restarting",
		zap.Int("attempt", attempt),
	)
}

func logCommit(tx *Tx, version uint64, writes int) {
	currentLogger().Debug("transaction committed",
		zap.Uint64("version", version),
		zap.Int("writes", writes),
	)
}

func logNestedPanic() {
	currentLogger().Error("nested Atomically detected on the same goroutine")
}
