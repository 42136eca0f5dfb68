package cadence

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cadence/trip"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 60.0, cfg.BaseBPM)
	assert.Equal(t, 120.0, cfg.BPMRange)
	assert.Equal(t, 2.0, cfg.BeatsPerCycle)
	assert.Equal(t, 0.5, cfg.StrideGain)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NaN base", func(c *Config) { c.BaseBPM = math.NaN() }},
		{"infinite range", func(c *Config) { c.BPMRange = math.Inf(1) }},
		{"zero base", func(c *Config) { c.BaseBPM = 0 }},
		{"non-positive top", func(c *Config) { c.BPMRange = -60 }},
		{"negative range", func(c *Config) { c.BaseBPM, c.BPMRange = 180, -100 }},
		{"zero beats", func(c *Config) { c.BeatsPerCycle = 0 }},
		{"negative stride gain", func(c *Config) { c.StrideGain = -0.1 }},
		{"idle threshold above 1", func(c *Config) { c.IdleThreshold = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, trip.IsConfiguration(err))
		})
	}
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_PartialOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "tempo.json", `{"base_bpm": 80, "bpm_range": 100}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.BaseBPM)
	assert.Equal(t, 100.0, cfg.BPMRange)
	assert.Equal(t, DefaultBeatsPerCycle, cfg.BeatsPerCycle)
	assert.Equal(t, DefaultStrideGain, cfg.StrideGain)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "tempo.yaml", `base_bpm: 80`))
	assert.True(t, trip.IsConfiguration(err))

	_, err = LoadConfig(writeConfig(t, "broken.json", `{"base_bpm": `))
	assert.True(t, trip.IsConfiguration(err))

	_, err = LoadConfig(writeConfig(t, "zero.json", `{"beats_per_cycle": 0}`))
	require.Error(t, err)
	assert.True(t, trip.IsConfiguration(err))
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.False(t, trip.IsConfiguration(err))

	big := writeConfig(t, "big.json", `{"base_bpm": 80, "pad": "`+strings.Repeat("x", 1<<20)+`"}`)
	_, err = LoadConfig(big)
	assert.True(t, trip.IsConfiguration(err))
}
