package cadence

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/teranos/cadence/trip"
)

// Canonical tempo mapping. One cycle is a full left+right stride pair and
// spans two beats, so the BPM readout counts foot strikes.
const (
	DefaultBaseBPM       = 60.0
	DefaultBPMRange      = 120.0
	DefaultBeatsPerCycle = 2.0

	DefaultStrideGain    = 0.5
	DefaultLeanGain      = 4.0
	DefaultIdleThreshold = 0.05
)

// Config defines the tempo and stride constants for an Engine.
//
// The zero value is not usable; start from DefaultConfig and override the
// fields you need:
//
//	cfg := cadence.DefaultConfig()
//	cfg.BPMRange = 100 // 60..160 BPM
//	engine, err := cadence.New(cfg)
type Config struct {
	// BaseBPM is the tempo at speed 0
	BaseBPM float64 `json:"base_bpm"`
	// BPMRange is added to BaseBPM at speed 1
	BPMRange float64 `json:"bpm_range"`
	// BeatsPerCycle is the number of beats in one left+right stride pair
	BeatsPerCycle float64 `json:"beats_per_cycle"`
	// StrideGain scales horizontal limb reach: stride = 1 + speed*StrideGain
	StrideGain float64 `json:"stride_gain"`
	// LeanGain is the forward torso lean in viewBox units at speed 1
	LeanGain float64 `json:"lean_gain"`
	// IdleThreshold is the speed at or below which a frame reports !Active
	IdleThreshold float64 `json:"idle_threshold"`
}

// DefaultConfig returns the canonical configuration: 60..180 BPM, two beats
// per cycle, stride gain 0.5.
func DefaultConfig() Config {
	return Config{
		BaseBPM:       DefaultBaseBPM,
		BPMRange:      DefaultBPMRange,
		BeatsPerCycle: DefaultBeatsPerCycle,
		StrideGain:    DefaultStrideGain,
		LeanGain:      DefaultLeanGain,
		IdleThreshold: DefaultIdleThreshold,
	}
}

// Validate checks that the configuration can drive an animation. Every
// failure is a fatal configuration trip.
func (c Config) Validate() error {
	fields := map[string]float64{
		"base_bpm":        c.BaseBPM,
		"bpm_range":       c.BPMRange,
		"beats_per_cycle": c.BeatsPerCycle,
		"stride_gain":     c.StrideGain,
		"lean_gain":       c.LeanGain,
		"idle_threshold":  c.IdleThreshold,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return trip.Configuration(fmt.Sprintf("%s must be finite, got %v", name, v),
				trip.Context{"field": name, "value": v})
		}
	}

	if c.BaseBPM <= 0 {
		return trip.Configuration(fmt.Sprintf("base_bpm must be positive, got %g", c.BaseBPM),
			trip.Context{"base_bpm": c.BaseBPM})
	}
	// A negative range would slow the tempo as speed rises.
	if c.BPMRange < 0 {
		return trip.Configuration(fmt.Sprintf("bpm_range must be non-negative, got %g", c.BPMRange),
			trip.Context{"base_bpm": c.BaseBPM, "bpm_range": c.BPMRange})
	}
	if c.BeatsPerCycle <= 0 {
		return trip.Configuration(fmt.Sprintf("beats_per_cycle must be positive, got %g", c.BeatsPerCycle),
			trip.Context{"beats_per_cycle": c.BeatsPerCycle})
	}
	// A negative gain would pull limbs toward the pivot as speed rises.
	if c.StrideGain < 0 {
		return trip.Configuration(fmt.Sprintf("stride_gain must be non-negative, got %g", c.StrideGain),
			trip.Context{"stride_gain": c.StrideGain})
	}
	if c.IdleThreshold < 0 || c.IdleThreshold > 1 {
		return trip.Configuration(fmt.Sprintf("idle_threshold must be between 0 and 1, got %g", c.IdleThreshold),
			trip.Context{"idle_threshold": c.IdleThreshold})
	}

	return nil
}

// LoadConfig loads a Config from a JSON file. Fields omitted from the file
// keep their DefaultConfig values, so partial configs are safe.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, trip.Configurationf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return cfg, trip.Configurationf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, trip.Configuration(fmt.Sprintf("failed to parse config JSON: %v", err),
			trip.Context{"path": cleanPath})
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
