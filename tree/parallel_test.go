package tree

import (
	"errors"
	"testing"
)

func TestParallelForSequentialBelowThreshold(t *testing.T) {
	var seen [10]bool
	err := parallelFor(10, 1000, func(i int) error {
		seen[i] = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("index %d was never visited", i)
		}
	}
}

func TestParallelForAboveThreshold(t *testing.T) {
	const n = 1000
	var seen [n]bool
	err := parallelFor(n, 1, func(i int) error {
		seen[i] = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("index %d was never visited", i)
		}
	}
}

func TestParallelForPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	err := parallelFor(500, 1, func(i int) error {
		if i == 250 {
			return wantErr
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected an error to propagate")
	}
}

func TestParallelForZero(t *testing.T) {
	called := false
	err := parallelFor(0, 1, func(i int) error {
		called = true
		return nil
	})
	if err != nil || called {
		t.Fatal("parallelFor(0, ...) must be a no-op")
	}
}
