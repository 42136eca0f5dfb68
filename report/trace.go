// Package report records engine runs and renders them as plots and charts.
package report

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/teranos/cadence"
	"github.com/teranos/cadence/internal/logs"
	"github.com/teranos/cadence/trip"
)

// Sample is one frame of a trace.
type Sample struct {
	T             float64 // Seconds since the start of the run
	Speed         float64
	Phase         float64
	Cycles        uint64
	BPM           float64
	Bounce        float64
	ShadowScale   float64
	ShadowOpacity float64
	BeatPulse     float64
}

// Trace is a recorded run.
type Trace struct {
	Run     logs.Run
	FPS     int
	Samples []Sample
}

// Add appends a frame observed t seconds into the run.
func (tr *Trace) Add(t float64, f cadence.Frame) {
	tr.Samples = append(tr.Samples, Sample{
		T:             t,
		Speed:         f.Speed,
		Phase:         f.Phase,
		Cycles:        f.Cycles,
		BPM:           f.BPM,
		Bounce:        f.Signals.Bounce,
		ShadowScale:   f.Signals.ShadowScale,
		ShadowOpacity: f.Signals.ShadowOpacity,
		BeatPulse:     f.Signals.BeatPulse,
	})
}

// Summary condenses a trace for logs.
type Summary struct {
	Frames   int
	Cycles   uint64
	Duration float64
	MinBPM   float64
	MaxBPM   float64
}

// Summary returns the frame count, completed cycles, span and BPM range.
func (tr *Trace) Summary() Summary {
	s := Summary{Frames: len(tr.Samples)}
	if len(tr.Samples) == 0 {
		return s
	}
	first, last := tr.Samples[0], tr.Samples[len(tr.Samples)-1]
	s.Cycles = last.Cycles - first.Cycles
	s.Duration = last.T - first.T
	s.MinBPM, s.MaxBPM = math.Inf(1), math.Inf(-1)
	for _, sm := range tr.Samples {
		s.MinBPM = math.Min(s.MinBPM, sm.BPM)
		s.MaxBPM = math.Max(s.MaxBPM, sm.BPM)
	}
	return s
}

// SpeedFunc returns the speed at a point in a run.
type SpeedFunc func(at time.Duration) float64

// Constant holds one speed for the whole run.
func Constant(speed float64) SpeedFunc {
	return func(time.Duration) float64 { return speed }
}

// Recorder drives an engine at a fixed step and records every frame.
type Recorder struct {
	engine *cadence.Engine
	fps    int
	logger *slog.Logger
}

// NewRecorder returns a recorder sampling at fps frames per second.
func NewRecorder(engine *cadence.Engine, fps int, logger *slog.Logger) *Recorder {
	if fps <= 0 {
		fps = 60
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{engine: engine, fps: fps, logger: logger.With("component", "report")}
}

// Record resets the engine and runs it for duration. The first sample is the
// starting frame at t=0.
func (r *Recorder) Record(ctx context.Context, speed SpeedFunc, duration time.Duration) (*Trace, error) {
	if duration <= 0 {
		return nil, trip.Configurationf("trace duration %v must be positive", duration)
	}
	run, ok := logs.RunFrom(ctx)
	if !ok {
		ctx, run = logs.NewRun(ctx)
	}

	frames := int(duration.Seconds()*float64(r.fps)) + 1
	step := time.Second / time.Duration(r.fps)
	dt := 1 / float64(r.fps)

	r.engine.Reset()
	trace := &Trace{Run: run, FPS: r.fps, Samples: make([]Sample, 0, frames)}

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		elapsed := dt
		if i == 0 {
			elapsed = 0
		}
		at := time.Duration(i) * step
		frame, err := r.engine.Tick(elapsed, speed(at))
		if err != nil {
			return trace, err
		}
		trace.Add(float64(i)*dt, frame)
	}

	s := trace.Summary()
	r.logger.InfoContext(ctx, "trace recorded",
		"frames", s.Frames, "cycles", s.Cycles, "min_bpm", s.MinBPM, "max_bpm", s.MaxBPM)
	return trace, nil
}
