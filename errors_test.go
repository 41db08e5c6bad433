package stm

import (
	"errors"
	"testing"
)

// spec §8 scenario 5: a user error aborts the transaction without
// committing any of its staged writes.
func TestUserErrorAbortsWithoutCommit(t *testing.T) {
	x := NewTVar(5)
	wantErr := errors.New("nope")

	_, err := Atomically(func(tx *Tx) (struct{}, error) {
		if werr := x.Write(tx, 99); werr != nil {
			return struct{}{}, werr
		}
		return struct{}{}, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the user error to propagate, got %v", err)
	}

	got, err := Atomically(func(tx *Tx) (int, error) {
		return x.Read(tx)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("write inside a failed transaction leaked: expected 5, got %d", got)
	}
}

// spec §8 scenario 6: a nested Atomically on the same goroutine is a fatal
// programmer error and panics, leaving the outer transaction uncommitted.
func TestNestedAtomicallyPanics(t *testing.T) {
	x := NewTVar(1)

	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected nested Atomically to panic")
			}
			if !errors.Is(asError(r), ErrNestedTransaction) {
				t.Fatalf("expected ErrNestedTransaction, got %v", r)
			}
		}()

		Atomically(func(tx *Tx) (struct{}, error) {
			if werr := x.Write(tx, 2); werr != nil {
				return struct{}{}, werr
			}
			_, _ = Atomically(func(inner *Tx) (struct{}, error) {
				return struct{}{}, nil
			})
			return struct{}{}, nil
		})
	}()

	got, err := Atomically(func(tx *Tx) (int, error) {
		return x.Read(tx)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("outer transaction committed despite the nested panic: expected 1, got %d", got)
	}
}

func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return nil
}
