package film

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/teranos/cadence"
	"github.com/teranos/cadence/internal/logs"
	"github.com/teranos/cadence/trip"
)

// Cue sets the speed from At onwards.
type Cue struct {
	At    time.Duration
	Speed float64
}

// Script is a piecewise-constant speed program.
type Script []Cue

// SpeedAt returns the speed of the last cue at or before t, or 0 before the
// first cue.
func (s Script) SpeedAt(t time.Duration) float64 {
	speed := 0.0
	for _, cue := range s {
		if cue.At > t {
			break
		}
		speed = cue.Speed
	}
	return speed
}

// Shot is one captured frame.
type Shot struct {
	Index int
	Path  string
	At    time.Duration
	Phase float64
	Speed float64
	BPM   int
}

// Reel is the result of one Operator run.
type Reel struct {
	Run      logs.Run
	Dir      string
	Shots    []Shot
	Duration time.Duration
}

// Operator drives an engine at a fixed frame rate and captures every frame.
// The fixed step makes reels reproducible: the same script always yields the
// same images.
type Operator struct {
	engine *cadence.Engine
	stage  *RenderingStage
	config Config
	fps    int
	logger *slog.Logger
	trips  *trip.Handler
}

// NewOperator returns an operator shooting at fps frames per second.
func NewOperator(engine *cadence.Engine, config Config, fps int, logger *slog.Logger) *Operator {
	if fps <= 0 {
		fps = 30
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Operator{
		engine: engine,
		stage:  NewRenderingStage(config),
		config: config,
		fps:    fps,
		logger: logger.With("component", "film"),
		trips:  trip.NewHandler("film", nil),
	}
}

// Trips returns the handler collecting this operator's trips.
func (op *Operator) Trips() *trip.Handler { return op.trips }

// Shoot resets the engine, plays the script for duration and writes one PNG
// per frame into a fresh reel directory under the configured output
// directory. The reel is named after the context's run, or a new one.
func (op *Operator) Shoot(ctx context.Context, script Script, duration time.Duration) (*Reel, error) {
	if duration <= 0 {
		return nil, trip.Configurationf("reel duration %v must be positive", duration)
	}
	script = append(Script(nil), script...)
	sort.SliceStable(script, func(i, j int) bool { return script[i].At < script[j].At })

	run, ok := logs.RunFrom(ctx)
	if !ok {
		ctx, run = logs.NewRun(ctx)
	}

	dir := filepath.Join(op.config.OutputDir, string(run))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reel directory: %w", err)
	}

	frames := int(duration.Seconds() * float64(op.fps))
	if frames < 1 {
		frames = 1
	}
	step := time.Second / time.Duration(op.fps)
	dt := 1 / float64(op.fps)

	op.engine.Reset()
	reel := &Reel{Run: run, Dir: dir, Duration: duration}
	op.logger.InfoContext(ctx, "shooting reel", "dir", dir, "frames", frames, "fps", op.fps)

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return reel, err
		}

		at := time.Duration(i) * step
		speed := script.SpeedAt(at)
		elapsed := dt
		if i == 0 {
			elapsed = 0
		}

		frame, err := op.engine.Tick(elapsed, speed)
		if err != nil {
			op.trips.Record(err)
			op.logger.ErrorContext(ctx, "engine tick failed", "frame", i, "error", err)
			if !op.trips.ShouldContinue() {
				return reel, err
			}
			continue
		}

		op.stage.RenderFrame(frame)
		path := filepath.Join(dir, fmt.Sprintf("shot_%04d.png", i))
		if err := op.stage.CaptureFrame(path); err != nil {
			return reel, fmt.Errorf("failed to capture shot %d: %w", i, err)
		}

		reel.Shots = append(reel.Shots, Shot{
			Index: i,
			Path:  path,
			At:    at,
			Phase: frame.Phase,
			Speed: speed,
			BPM:   frame.DisplayBPM(),
		})
	}

	op.logger.InfoContext(ctx, "reel complete", "shots", len(reel.Shots), "summary", op.trips.Summary())
	return reel, nil
}
