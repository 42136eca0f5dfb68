// Package cadence provides a phase-driven procedural animation engine for a
// running figure.
//
// A single scalar speed in [0,1] drives both the tempo (beats per minute and
// cycle duration) and the stride length. The engine keeps one piece of state,
// the cycle phase, and derives everything else per frame: limb polylines
// interpolated from keyframe tables, head and torso positions, bounce, lean
// and ground-shadow values, and the BPM readout.
//
// Basic usage, from whatever frame callback the host has:
//
//	engine, err := cadence.New(cadence.DefaultConfig())
//	if err != nil {
//		return err // configuration errors are fatal
//	}
//
//	// every frame:
//	frame, err := engine.Tick(elapsed.Seconds(), speed)
//	if err != nil {
//		return err // out-of-range trips indicate a bug upstream
//	}
//	draw(frame.Limbs, frame.Head, frame.Signals)
//
// The engine never blocks and is not safe for concurrent use: Tick must be
// called from a single goroutine, once per rendered frame, with the true
// elapsed time since the previous call.
package cadence

import (
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/cadence/trip"
)

// Frame is the pose bundle for one rendered frame.
type Frame struct {
	Phase         float64         // Master phase after this frame's advance
	Cycles        uint64          // Completed cycles so far
	Speed         float64         // Speed the frame was computed for
	BPM           float64         // Tempo for the BPM readout
	CycleDuration float64         // Seconds per left+right stride pair
	BeatDuration  float64         // Seconds between beats, the readout's pulse period
	Stride        float64         // Horizontal reach multiplier
	Active        bool            // Speed above the idle threshold
	Limbs         [LimbCount]Pose // Polylines indexed by Limb
	Head          r2.Vec          // Head centre
	Spine         [3]r2.Vec       // Torso control points: neck, mid, hip
	Signals       Signals
}

// Polyline returns the three joints of a limb.
func (f Frame) Polyline(limb Limb) Pose {
	return f.Limbs[limb]
}

// Segment is one drawn bone in viewBox units.
type Segment struct {
	A, B r2.Vec
}

// Segments returns the torso and limb bones, torso first, lifted by the
// frame's bounce. Renderers draw the head and shadow separately.
func (f Frame) Segments() []Segment {
	lift := r2.Vec{Y: -f.Signals.Bounce}
	out := make([]Segment, 0, 2+LimbCount*(JointCount-1))
	for i := 0; i < len(f.Spine)-1; i++ {
		out = append(out, Segment{r2.Add(f.Spine[i], lift), r2.Add(f.Spine[i+1], lift)})
	}
	for _, limb := range Limbs {
		p := f.Limbs[limb]
		for i := 0; i < JointCount-1; i++ {
			out = append(out, Segment{r2.Add(p[i], lift), r2.Add(p[i+1], lift)})
		}
	}
	return out
}

// HeadCenter returns the head centre lifted by the frame's bounce.
func (f Frame) HeadCenter() r2.Vec {
	return r2.Vec{X: f.Head.X, Y: f.Head.Y - f.Signals.Bounce}
}

// DisplayBPM returns the BPM rounded for a readout.
func (f Frame) DisplayBPM() int {
	return int(math.Round(f.BPM))
}

// Engine ties the tempo model, cycle clock, limb synchronizer and signal
// derivers together.
type Engine struct {
	cfg    Config
	tempo  Tempo
	clock  Clock
	sync   *Synchronizer
	table  *KeyframeTable
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for construction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithKeyframes replaces the built-in runner cycles.
func WithKeyframes(table *KeyframeTable) Option {
	return func(e *Engine) {
		if table != nil {
			e.table = table
		}
	}
}

// New validates cfg and the keyframe table and returns an engine at phase 0.
// Every error it returns is a fatal configuration trip.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tempo, err := NewTempo(cfg)
	if err != nil {
		return nil, err
	}
	e.tempo = tempo

	if e.table == nil {
		e.table = DefaultKeyframes()
	} else if err := e.table.Validate(); err != nil {
		return nil, err
	}
	e.sync = NewSynchronizer(e.table)

	e.logger.Debug("cadence engine ready",
		"base_bpm", cfg.BaseBPM,
		"bpm_range", cfg.BPMRange,
		"beats_per_cycle", cfg.BeatsPerCycle,
		"stride_gain", cfg.StrideGain,
		"min_cycle_seconds", tempo.CycleDuration(1),
		"max_cycle_seconds", tempo.CycleDuration(0))

	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Tempo returns the engine's tempo model.
func (e *Engine) Tempo() Tempo { return e.tempo }

// Phase returns the current master phase.
func (e *Engine) Phase() float64 { return e.clock.Phase() }

// Tick advances the clock by elapsedSeconds at the tempo for the live speed
// and returns the frame at the new phase. The tempo is evaluated first, then
// the clock, then the pose, so every read sees the post-advance phase.
//
// speed is expected in [0,1]; hosts clamp raw input before calling.
func (e *Engine) Tick(elapsedSeconds, speed float64) (Frame, error) {
	duration := e.tempo.CycleDuration(speed)
	phase, err := e.clock.Advance(elapsedSeconds, duration)
	if err != nil {
		return Frame{}, err
	}
	return e.Sample(phase, speed)
}

// Sample computes the frame for an arbitrary phase without touching the
// clock. Cycles reports the engine's running count.
func (e *Engine) Sample(phase, speed float64) (Frame, error) {
	if math.IsNaN(phase) || phase < 0 || phase >= 1 {
		return Frame{}, trip.OutOfRange("master phase outside [0,1)",
			trip.Context{"phase": phase, "speed": speed})
	}

	stride := StrideScalar(speed, e.cfg.StrideGain)
	limbs, err := e.sync.Poses(phase, stride)
	if err != nil {
		return Frame{}, err
	}

	signals := DeriveSignals(phase, speed, e.cfg)

	return Frame{
		Phase:         phase,
		Cycles:        e.clock.Cycles(),
		Speed:         speed,
		BPM:           e.tempo.BPM(speed),
		CycleDuration: e.tempo.CycleDuration(speed),
		BeatDuration:  e.tempo.BeatDuration(speed),
		Stride:        stride,
		Active:        speed > e.cfg.IdleThreshold,
		Limbs:         limbs,
		Head:          Head(phase, signals.Lean),
		Spine:         Spine(phase, signals.Lean),
		Signals:       signals,
	}, nil
}

// Reset returns the engine to phase 0, as when the animation is remounted.
func (e *Engine) Reset() {
	e.clock.Reset()
}
