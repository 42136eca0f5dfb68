package cadence

import (
	"fmt"
	"math"

	"github.com/teranos/cadence/trip"
)

// Clock is the cycle phase accumulator. It is the only stateful piece of the
// engine and must be advanced from a single frame callback.
//
// The zero value is a clock at phase 0.
type Clock struct {
	phase   float64
	cycles  uint64
	elapsed float64
}

// Advance moves the phase forward by elapsedSeconds at the given cycle
// duration and returns the new phase in [0,1).
//
// The increment is split into whole cycles and a fraction before it touches
// the phase, so a suspended host that comes back after many cycles lands on
// the same phase as one that ticked through them, and long sessions never add
// large numbers to a small phase.
func (c *Clock) Advance(elapsedSeconds, durationSeconds float64) (float64, error) {
	if math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) || elapsedSeconds < 0 {
		return c.phase, trip.OutOfRange(fmt.Sprintf("elapsed %v must be a finite non-negative number of seconds", elapsedSeconds),
			trip.Context{"elapsed": elapsedSeconds, "phase": c.phase})
	}
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds <= 0 {
		return c.phase, trip.OutOfRange(fmt.Sprintf("cycle duration %v must be positive", durationSeconds),
			trip.Context{"duration": durationSeconds, "phase": c.phase})
	}

	whole, frac := math.Modf(elapsedSeconds / durationSeconds)

	phase := c.phase + frac
	cycles := addCycles(c.cycles, whole)
	if phase >= 1 {
		phase--
		cycles = addCycles(cycles, 1)
	}
	// phase+frac can round up to exactly 1 and then down to a hair under 0.
	if phase < 0 || phase >= 1 {
		phase = 0
	}

	c.phase = phase
	c.cycles = cycles
	c.elapsed += elapsedSeconds
	return c.phase, nil
}

// addCycles adds a whole, non-negative cycle count, saturating at
// math.MaxUint64.
func addCycles(cycles uint64, whole float64) uint64 {
	// 2^64 is the first float64 a uint64 cannot hold.
	if whole >= 1<<64 {
		return math.MaxUint64
	}
	n := uint64(whole)
	if n > math.MaxUint64-cycles {
		return math.MaxUint64
	}
	return cycles + n
}

// Phase returns the current phase in [0,1).
func (c *Clock) Phase() float64 { return c.phase }

// Cycles returns the number of completed cycles.
func (c *Clock) Cycles() uint64 { return c.cycles }

// Elapsed returns the total real seconds fed to Advance.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Reset discards the clock state, as when the animation is unmounted.
func (c *Clock) Reset() {
	*c = Clock{}
}
