package cadence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounce(t *testing.T) {
	assert.InDelta(t, 3.0, Bounce(0), tolerance)
	assert.InDelta(t, 0.0, Bounce(0.125), tolerance)
	assert.InDelta(t, 6.0, Bounce(0.375), tolerance)
	assert.InDelta(t, 0.0, Bounce(0.625), tolerance, "second peak in the same cycle")

	for i := 0; i <= 100; i++ {
		b := Bounce(float64(i) / 100)
		assert.GreaterOrEqual(t, b, -tolerance)
		assert.LessOrEqual(t, b, 6+tolerance)
	}
}

func TestShadow_AntiPhaseWithFlight(t *testing.T) {
	// Ground contact: shadow at its largest and darkest.
	assert.InDelta(t, 1.1, ShadowScale(0), tolerance)
	assert.InDelta(t, 0.5, ShadowOpacity(0), tolerance)

	// Flight, midway between strikes.
	assert.InDelta(t, 0.9, ShadowScale(0.25), tolerance)
	assert.InDelta(t, 0.3, ShadowOpacity(0.25), tolerance)

	assert.InDelta(t, ShadowScale(0), ShadowScale(0.5), tolerance, "two strikes per cycle")
}

func TestHeadSway(t *testing.T) {
	assert.InDelta(t, 0.0, HeadSway(0), tolerance)
	assert.InDelta(t, 1.0, HeadSway(0.25), tolerance)
	assert.InDelta(t, 0.0, HeadSway(0.5), tolerance)
}

func TestBeatPulse(t *testing.T) {
	assert.InDelta(t, 1.0, BeatPulse(0, 2), tolerance)
	assert.InDelta(t, 0.0, BeatPulse(0.25, 2), tolerance)
	assert.InDelta(t, 1.0, BeatPulse(0.5, 2), tolerance)
	assert.InDelta(t, 0.0, BeatPulse(0.5, 1), tolerance)
}

func TestLeanAndSpine(t *testing.T) {
	assert.Equal(t, 0.0, Lean(0, DefaultLeanGain))
	assert.Equal(t, DefaultLeanGain, Lean(1, DefaultLeanGain))

	upright := Spine(0, 0)
	leaning := Spine(0, 4)
	assert.Equal(t, upright[0].X+4, leaning[0].X)
	assert.Equal(t, upright[1].X+2, leaning[1].X)
	assert.Equal(t, hip, leaning[2], "spine stays attached to the hip")

	head := Head(0.25, 4)
	assert.InDelta(t, headCenter.X+5, head.X, tolerance)
	assert.Equal(t, headCenter.Y, head.Y)
}

func TestDeriveSignals(t *testing.T) {
	cfg := DefaultConfig()
	s := DeriveSignals(0.375, 0.5, cfg)

	assert.InDelta(t, 6.0, s.Bounce, tolerance)
	assert.InDelta(t, 2.0, s.Lean, tolerance)
	assert.InDelta(t, HeadSway(0.375), s.HeadSway, tolerance)
	assert.InDelta(t, ShadowScale(0.375), s.ShadowScale, tolerance)
	assert.InDelta(t, ShadowOpacity(0.375), s.ShadowOpacity, tolerance)
	assert.InDelta(t, BeatPulse(0.375, cfg.BeatsPerCycle), s.BeatPulse, tolerance)
}
