package internal

import "time"

// TickerWithInitialTick behaves like time.Ticker except that it also delivers an immediate
// first tick. Components that poll on a fixed interval use it so that the first request
// happens right away instead of one full interval after startup.
type TickerWithInitialTick struct {
	*time.Ticker
	C <-chan time.Time
}

// NewTickerWithInitialTick creates a TickerWithInitialTick with the given interval.
func NewTickerWithInitialTick(interval time.Duration) *TickerWithInitialTick {
	c := make(chan time.Time)
	ticker := time.NewTicker(interval)
	t := &TickerWithInitialTick{
		C:      c,
		Ticker: ticker,
	}
	go func() {
		c <- time.Now() // the immediate first tick
		for tt := range ticker.C {
			c <- tt
		}
	}()
	return t
}
