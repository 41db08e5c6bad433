package stm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// spec §8 scenario 3: a transaction blocks in Retry until another
// transaction changes a TVar it read.
func TestRetrySemantics(t *testing.T) {
	x := NewTVar(0)
	done := make(chan int, 1)

	go func() {
		v, err := Atomically(func(tx *Tx) (int, error) {
			cur, err := x.Read(tx)
			if err != nil {
				return 0, err
			}
			if cur == 0 {
				return 0, Retry(tx)
			}
			return cur, nil
		})
		if err != nil {
			t.Error(err)
			return
		}
		done <- v
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := Atomically(func(tx *Tx) (struct{}, error) {
		return struct{}{}, x.Write(tx, 7)
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-done:
		if v != 7 {
			t.Errorf("expected 7, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("transaction never woke up after the TVar it read changed")
	}
}

// spec §8 scenario 3 variant: a retry with a timeout surfaces ErrTimedOut
// rather than blocking forever.
func TestRetryTimesOut(t *testing.T) {
	x := NewTVar(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := AtomicallyContext(ctx, func(tx *Tx) (int, error) {
		cur, err := x.Read(tx)
		if err != nil {
			return 0, err
		}
		if cur == 0 {
			return 0, Retry(tx)
		}
		return cur, nil
	})
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", err)
	}
}
