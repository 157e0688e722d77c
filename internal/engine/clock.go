// Package engine drives world initialization and the month-granularity
// simulation loop.
package engine

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// MonthsPerYear — the calendar is twelve uniform months; the economy does
// not model day granularity.
const MonthsPerYear = 12

// Clock emits "month elapsed" signals to the economy tick. The simulation
// is turn-based at month granularity: each signal's handler runs to
// completion before the next fires, so market state is never observed
// mid-tick.
// Speed, Interval, and OnMonth are set before Run and not touched after;
// Stop and Month are safe from any goroutine.
type Clock struct {
	Speed    float64       // Multiplier: 1.0 = one month per interval, 0 = paused
	Interval time.Duration // Base month interval (default 1 second)

	// OnMonth runs once per elapsed month, synchronously.
	OnMonth func(month int)

	month   atomic.Int64 // monotonic month counter, never resets
	running atomic.Bool
}

// Month returns the current month counter.
func (c *Clock) Month() int {
	return int(c.month.Load())
}

// NewClock creates a simulation clock with default settings.
func NewClock() *Clock {
	return &Clock{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (c *Clock) Run() {
	c.running.Store(true)
	slog.Info("simulation clock started", "month", c.Month(), "speed", c.Speed)

	for c.running.Load() {
		if c.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		c.Step()

		// Sleep for the remainder of the month interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(c.Interval) / c.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation clock stopped", "month", c.Month())
}

// Stop halts the simulation loop. Safe to call from another goroutine.
func (c *Clock) Stop() {
	c.running.Store(false)
}

// Step advances the simulation by one month. Exposed so callers that drive
// the calendar themselves (tests, batch runs) can skip the timed loop.
func (c *Clock) Step() {
	month := int(c.month.Add(1))
	if c.OnMonth != nil {
		c.OnMonth(month)
	}
}

// SimDate returns a human-readable calendar date for a month counter,
// anchored at the campaign start year.
func SimDate(month, startYear int) string {
	monthNames := [MonthsPerYear]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	year := startYear + (month-1)/MonthsPerYear
	m := (month - 1) % MonthsPerYear
	return fmt.Sprintf("%s %d", monthNames[m], year)
}
