package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicBooleanZeroValueIsFalse(t *testing.T) {
	var b AtomicBoolean
	assert.False(t, b.Get())
}

func TestAtomicBooleanSet(t *testing.T) {
	var b AtomicBoolean
	b.Set(true)
	assert.True(t, b.Get())
	b.Set(false)
	assert.False(t, b.Get())
}

func TestAtomicBooleanGetAndSet(t *testing.T) {
	var b AtomicBoolean
	assert.False(t, b.GetAndSet(true))
	assert.True(t, b.Get())
	assert.True(t, b.GetAndSet(false))
	assert.False(t, b.Get())
}

func TestAtomicBooleanDataRace(t *testing.T) {
	// fails under the race detector if the implementation is not actually atomic
	var b AtomicBoolean
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Set(true)
		}
		done <- struct{}{}
	}()
	go func() {
		for i := 0; i < 100; i++ {
			b.Get()
		}
		done <- struct{}{}
	}()
	<-done
	<-done
}
