package cadence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cadence/trip"
)

func TestTempo_Endpoints(t *testing.T) {
	tempo, err := NewTempo(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseBPM, tempo.BPM(0))
	assert.Equal(t, DefaultBaseBPM+DefaultBPMRange, tempo.BPM(1))
	assert.InDelta(t, 120.0, tempo.BPM(0.5), tolerance)

	assert.InDelta(t, 2.0, tempo.CycleDuration(0), tolerance)
	assert.InDelta(t, 2.0/3.0, tempo.CycleDuration(1), tolerance)
	assert.InDelta(t, 1.0, tempo.BeatDuration(0), tolerance)
	assert.InDelta(t, tempo.CycleDuration(0.3)/DefaultBeatsPerCycle, tempo.BeatDuration(0.3), tolerance)
}

func TestTempo_Monotonic(t *testing.T) {
	tempo, err := NewTempo(DefaultConfig())
	require.NoError(t, err)

	prevBPM := tempo.BPM(0)
	prevDur := tempo.CycleDuration(0)
	for i := 1; i <= 100; i++ {
		speed := float64(i) / 100
		bpm := tempo.BPM(speed)
		dur := tempo.CycleDuration(speed)
		assert.GreaterOrEqual(t, bpm, prevBPM, "speed %v", speed)
		assert.LessOrEqual(t, dur, prevDur, "speed %v", speed)
		assert.Greater(t, dur, 0.0)
		prevBPM, prevDur = bpm, dur
	}
}

func TestTempo_ClampsUnvalidatedSpeed(t *testing.T) {
	tempo, err := NewTempo(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, tempo.BPM(0), tempo.BPM(-3))
	assert.Equal(t, tempo.BPM(1), tempo.BPM(7))
	assert.Greater(t, tempo.CycleDuration(-3), 0.0)
}

func TestNewTempo_Misconfigured(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero base", func(c *Config) { c.BaseBPM = 0 }},
		{"range drives top negative", func(c *Config) { c.BPMRange = -80 }},
		{"negative range slows with speed", func(c *Config) { c.BaseBPM, c.BPMRange = 180, -100 }},
		{"infinite base", func(c *Config) { c.BaseBPM = math.Inf(1) }},
		{"zero beats", func(c *Config) { c.BeatsPerCycle = 0 }},
		{"negative beats", func(c *Config) { c.BeatsPerCycle = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewTempo(cfg)
			require.Error(t, err)
			assert.True(t, trip.IsConfiguration(err))
		})
	}
}
