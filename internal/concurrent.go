package internal

import (
	"sync/atomic"
)

// AtomicBoolean is a boolean with atomic load/store semantics, stored as an int32 because
// sync/atomic in Go 1.18 only covers integer types. Once the minimum Go version reaches 1.19
// this can become atomic.Bool.
type AtomicBoolean struct {
	value int32
}

// Get returns the current value.
func (a *AtomicBoolean) Get() bool {
	return atomic.LoadInt32(&a.value) != 0
}

// Set updates the value.
func (a *AtomicBoolean) Set(value bool) {
	var n int32
	if value {
		n = 1
	}
	atomic.StoreInt32(&a.value, n)
}

// GetAndSet atomically updates the value and returns the previous value.
func (a *AtomicBoolean) GetAndSet(value bool) bool {
	var n int32
	if value {
		n = 1
	}
	return atomic.SwapInt32(&a.value, n) != 0
}
