package internal

import (
	"testing"
	"time"

	th "github.com/launchdarkly/go-test-helpers/v3"
)

func TestTickerWithInitialTickTicksImmediately(t *testing.T) {
	ticker := NewTickerWithInitialTick(time.Hour) // the interval is long enough to never elapse here
	defer ticker.Stop()

	th.RequireValue(t, ticker.C, 100*time.Millisecond)
	th.AssertNoMoreValues(t, ticker.C, 100*time.Millisecond)
}

func TestTickerWithInitialTickKeepsTicking(t *testing.T) {
	ticker := NewTickerWithInitialTick(20 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; i < 3; i++ {
		th.RequireValue(t, ticker.C, time.Second)
	}
}

func TestTickerWithInitialTickStop(t *testing.T) {
	ticker := NewTickerWithInitialTick(50 * time.Millisecond)
	th.RequireValue(t, ticker.C, time.Second) // the immediate tick

	ticker.Stop() // before the first interval tick is due

	th.AssertNoMoreValues(t, ticker.C, 200*time.Millisecond)
}
