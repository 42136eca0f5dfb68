package cadence

import (
	"math"

	"github.com/teranos/cadence/trip"
)

// Tempo maps speed to beats per minute and cycle duration. It holds only
// constants; every method is a pure function of the speed passed in, so a
// speed change is felt on the very next frame.
type Tempo struct {
	BaseBPM       float64
	BPMRange      float64
	BeatsPerCycle float64
}

// NewTempo builds a Tempo from cfg, failing fast when either BPM endpoint or
// the beats per cycle would give a non-positive cycle duration.
func NewTempo(cfg Config) (Tempo, error) {
	t := Tempo{
		BaseBPM:       cfg.BaseBPM,
		BPMRange:      cfg.BPMRange,
		BeatsPerCycle: cfg.BeatsPerCycle,
	}
	if !(t.BaseBPM > 0) || math.IsInf(t.BaseBPM, 0) {
		return Tempo{}, trip.Configuration("base BPM must be positive and finite",
			trip.Context{"base_bpm": t.BaseBPM})
	}
	if !(t.BPMRange >= 0) || math.IsInf(t.BaseBPM+t.BPMRange, 0) {
		return Tempo{}, trip.Configuration("BPM range must be non-negative and finite",
			trip.Context{"base_bpm": t.BaseBPM, "bpm_range": t.BPMRange})
	}
	if !(t.BeatsPerCycle > 0) || math.IsInf(t.BeatsPerCycle, 0) {
		return Tempo{}, trip.Configuration("beats per cycle must be positive and finite",
			trip.Context{"beats_per_cycle": t.BeatsPerCycle})
	}
	return t, nil
}

// BPM returns base + speed*range, clamped to [BPM(0), BPM(1)], so it never
// falls as speed rises.
func (t Tempo) BPM(speed float64) float64 {
	bpm := t.BaseBPM + speed*t.BPMRange
	if math.IsNaN(bpm) {
		return t.BaseBPM
	}
	return math.Max(t.BaseBPM, math.Min(t.BaseBPM+t.BPMRange, bpm))
}

// CycleDuration returns the seconds per full left+right stride pair.
func (t Tempo) CycleDuration(speed float64) float64 {
	return t.BeatsPerCycle * 60 / t.BPM(speed)
}

// BeatDuration returns the seconds between beats.
func (t Tempo) BeatDuration(speed float64) float64 {
	return 60 / t.BPM(speed)
}
