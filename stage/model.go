// Package stage hosts the cadence engine in a terminal.
//
// The bubbletea frame loop is the engine's frame callback: every FrameMsg
// carries the tick time, the model turns it into elapsed seconds and calls
// Engine.Tick once with the live speed. Speed comes from the pace slider and
// is optionally smoothed with a critically damped spring before the engine
// sees it; the engine itself never smooths.
package stage

import (
	"io"
	"log/slog"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/teranos/cadence"
	"github.com/teranos/cadence/trip"
)

// FrameMsg is delivered once per frame with the tick time.
type FrameMsg time.Time

// SpeedStep is the slider increment for the arrow keys.
const SpeedStep = 0.05

const (
	DefaultFPS = 30

	springFrequency = 6.0
	springDamping   = 1.0
)

// Options configures a Model.
type Options struct {
	FPS       int
	Speed     float64 // Initial slider position
	Smoothing bool
	Width     int // Canvas cells
	Height    int
	Logger    *slog.Logger
}

// Model is the bubbletea model for the running figure.
type Model struct {
	engine *cadence.Engine
	logger *slog.Logger
	trips  *trip.Handler
	canvas *Canvas

	fps       int
	target    float64 // Slider position
	speed     float64 // Speed handed to the engine
	velocity  float64
	spring    harmonica.Spring
	smoothing bool

	last    time.Time
	ticking bool
	paused  bool
	frame   cadence.Frame
	err     error
}

// New returns a model showing the engine's current phase at opts.Speed.
func New(engine *cadence.Engine, opts Options) (*Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	speed := clampSpeed(opts.Speed)
	m := &Model{
		engine:    engine,
		logger:    opts.Logger.With("component", "stage"),
		trips:     trip.NewHandler("stage", nil),
		canvas:    NewCanvas(opts.Width, opts.Height),
		fps:       opts.FPS,
		target:    speed,
		speed:     speed,
		spring:    harmonica.NewSpring(harmonica.FPS(opts.FPS), springFrequency, springDamping),
		smoothing: opts.Smoothing,
	}

	frame, err := engine.Sample(engine.Phase(), speed)
	if err != nil {
		return nil, err
	}
	m.frame = frame
	return m, nil
}

// Init starts the frame loop.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	m.ticking = true
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Update handles frame ticks and keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		return m.advance(time.Time(msg))
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) advance(now time.Time) (tea.Model, tea.Cmd) {
	m.ticking = false
	if m.paused {
		return m, nil
	}

	elapsed := 0.0
	if !m.last.IsZero() {
		d := now.Sub(m.last)
		if d < 0 {
			m.trips.Record(trip.Timing("frame clock went backwards",
				trip.Context{"delta": d.String()}))
			m.logger.Warn("frame clock went backwards", "delta", d)
			d = 0
		}
		elapsed = d.Seconds()
	}
	m.last = now

	m.settleSpeed()

	frame, err := m.engine.Tick(elapsed, m.speed)
	if err != nil {
		m.trips.Record(err)
		m.err = err
		m.logger.Error("engine tick failed", "error", err, "elapsed", elapsed, "speed", m.speed)
	} else {
		m.frame = frame
	}

	if !m.trips.ShouldContinue() {
		m.logger.Info("stopping", "summary", m.trips.Summary())
		return m, tea.Quit
	}
	return m, m.tick()
}

// settleSpeed moves the engine speed toward the slider.
func (m *Model) settleSpeed() {
	if !m.smoothing {
		m.speed, m.velocity = m.target, 0
		return
	}
	m.speed, m.velocity = m.spring.Update(m.speed, m.velocity, m.target)
	m.speed = clampSpeed(m.speed)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.SetSpeed(m.target - SpeedStep)
	case "right", "l":
		m.SetSpeed(m.target + SpeedStep)
	case "s":
		m.smoothing = !m.smoothing
		m.logger.Debug("smoothing toggled", "on", m.smoothing)
	case " ", "space":
		return m, m.togglePause()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			m.SetSpeed(float64(key[0]-'0') / 10)
		}
	}
	return m, nil
}

func (m *Model) togglePause() tea.Cmd {
	m.paused = !m.paused
	m.logger.Debug("pause toggled", "paused", m.paused, "phase", m.engine.Phase())
	if m.paused {
		return nil
	}
	// Time spent paused is not fed to the clock.
	m.last = time.Time{}
	if m.ticking {
		return nil
	}
	return m.tick()
}

// SetSpeed moves the slider, clamped to [0,1].
func (m *Model) SetSpeed(speed float64) {
	m.target = clampSpeed(speed)
	// Slider steps land on round values.
	m.target = math.Round(m.target*1000) / 1000
}

// Target returns the slider position.
func (m *Model) Target() float64 { return m.target }

// Speed returns the speed last handed to the engine.
func (m *Model) Speed() float64 { return m.speed }

// Frame returns the most recent frame.
func (m *Model) Frame() cadence.Frame { return m.frame }

// Paused reports whether the frame loop is stopped.
func (m *Model) Paused() bool { return m.paused }

// Smoothing reports whether speed changes go through the spring.
func (m *Model) Smoothing() bool { return m.smoothing }

// Trips returns the handler collecting this session's trips.
func (m *Model) Trips() *trip.Handler { return m.trips }

// Err returns the last engine error, if the session stopped on one.
func (m *Model) Err() error { return m.err }

func clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
