package sharedtest

import (
	"testing"
	"time"
)

// RequireValue reads the next value from the channel, forcing an immediate test
// exit if nothing arrives before the timeout.
func RequireValue[V any](t *testing.T, ch <-chan V, timeout time.Duration) V {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case v := <-ch:
		return v
	case <-deadline.C:
		var zero V
		t.Fatalf("expected a %T value from channel but did not receive one in %s", zero, timeout)
		return zero // unreachable
	}
}

// AssertNoMoreValues asserts that the channel produces nothing within the timeout.
// A closed channel passes; receiving an actual value fails.
func AssertNoMoreValues[V any](t *testing.T, ch <-chan V, timeout time.Duration) bool {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case v, ok := <-ch:
		if ok {
			t.Errorf("expected no more %T values from channel but got one: %+v", v, v)
			return false
		}
		return true
	case <-deadline.C:
		return true
	}
}

// RequireNoMoreValues is AssertNoMoreValues with an immediate test exit on failure.
func RequireNoMoreValues[V any](t *testing.T, ch <-chan V, timeout time.Duration) {
	t.Helper()
	if !AssertNoMoreValues(t, ch, timeout) {
		t.FailNow()
	}
}
