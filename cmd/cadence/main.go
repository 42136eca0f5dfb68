// Command cadence runs the animated runner in the terminal, or headless to
// shoot PNG reels and tempo traces.
//
// Run the terminal host:
//
//	cadence -speed 0.4 -log-file cadence.log
//
// Shoot a reel and a trace of a walk-to-run ramp:
//
//	cadence -film out/film -trace out/trace -seconds 6 -ramp
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/cadence"
	"github.com/teranos/cadence/film"
	"github.com/teranos/cadence/internal/logs"
	"github.com/teranos/cadence/report"
	"github.com/teranos/cadence/stage"
)

type options struct {
	config   string
	speed    float64
	fps      int
	smooth   bool
	logFile  string
	logLevel string
	jsonLog  string
	filmDir  string
	traceDir string
	seconds  float64
	ramp     bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("cadence", flag.ContinueOnError)
	fs.StringVar(&o.config, "config", "", "JSON tempo configuration (defaults apply to missing fields)")
	fs.Float64Var(&o.speed, "speed", 0.3, "initial speed, 0 (walk) to 1 (run)")
	fs.IntVar(&o.fps, "fps", stage.DefaultFPS, "frames per second")
	fs.BoolVar(&o.smooth, "smooth", true, "ease slider changes with a spring")
	fs.StringVar(&o.logFile, "log-file", "", "write text logs to this file")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&o.jsonLog, "json-log", "", "also write JSON logs to this file")
	fs.StringVar(&o.filmDir, "film", "", "shoot a PNG reel into this directory and exit")
	fs.StringVar(&o.traceDir, "trace", "", "write a tempo trace (PNG and HTML) into this directory and exit")
	fs.Float64Var(&o.seconds, "seconds", 4, "length of a headless run")
	fs.BoolVar(&o.ramp, "ramp", false, "headless runs ramp from walk to run instead of holding -speed")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.fps <= 0 {
		return o, fmt.Errorf("-fps must be positive, got %d", o.fps)
	}
	if math.IsNaN(o.speed) || o.speed < 0 || o.speed > 1 {
		return o, fmt.Errorf("-speed must be in [0,1], got %v", o.speed)
	}
	if o.seconds <= 0 {
		return o, fmt.Errorf("-seconds must be positive, got %v", o.seconds)
	}
	return o, nil
}

func (o options) headless() bool {
	return o.filmDir != "" || o.traceDir != ""
}

// script holds -speed, or with -ramp climbs from walk to run in tenths over
// the run.
func (o options) script() film.Script {
	if !o.ramp {
		return film.Script{{Speed: o.speed}}
	}
	total := time.Duration(o.seconds * float64(time.Second))
	script := make(film.Script, 0, 11)
	for i := 0; i <= 10; i++ {
		script = append(script, film.Cue{At: total * time.Duration(i) / 11, Speed: float64(i) / 10})
	}
	return script
}

func openLogger(o options) (*slog.Logger, func(), error) {
	if err := logs.SetLevel(o.logLevel); err != nil {
		return nil, nil, err
	}

	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	open := func(path string) (io.Writer, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}

	var opts logs.Options
	text, err := open(o.logFile)
	if err != nil {
		return nil, nil, err
	}
	if text != nil {
		opts.Text = text
	} else if o.headless() {
		// the terminal host owns stdout and stderr
		opts.Text = os.Stderr
	}

	js, err := open(o.jsonLog)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if js != nil {
		opts.JSON = js
	}

	return logs.New(opts), closeAll, nil
}

func run(ctx context.Context, o options, logger *slog.Logger) error {
	cfg := cadence.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = cadence.LoadConfig(o.config); err != nil {
			return err
		}
	}

	engine, err := cadence.New(cfg, cadence.WithLogger(logger))
	if err != nil {
		return err
	}

	if !o.headless() {
		return runStage(engine, o, logger)
	}

	ctx, id := logs.NewRun(ctx)
	duration := time.Duration(o.seconds * float64(time.Second))
	script := o.script()

	if o.filmDir != "" {
		filmCfg := film.DefaultConfig()
		filmCfg.OutputDir = o.filmDir
		reel, err := film.NewOperator(engine, filmCfg, o.fps, logger).Shoot(ctx, script, duration)
		if err != nil {
			return err
		}
		sheet, err := film.SaveContactSheet(reel)
		if err != nil {
			return err
		}
		fmt.Printf("reel: %d shots in %s (contact sheet %s)\n", len(reel.Shots), reel.Dir, sheet)
	}

	if o.traceDir != "" {
		trace, err := report.NewRecorder(engine, o.fps, logger).Record(ctx, script.SpeedAt, duration)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(o.traceDir, 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		base := filepath.Join(o.traceDir, string(id))
		if err := report.WritePlot(trace, base+".png"); err != nil {
			return err
		}
		if err := writeHTML(trace, base+".html"); err != nil {
			return err
		}
		s := trace.Summary()
		fmt.Printf("trace: %d frames, %d cycles, %.0f-%.0f BPM in %s.{png,html}\n",
			s.Frames, s.Cycles, s.MinBPM, s.MaxBPM, base)
	}
	return nil
}

func writeHTML(trace *report.Trace, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteHTML(trace, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runStage(engine *cadence.Engine, o options, logger *slog.Logger) error {
	model, err := stage.New(engine, stage.Options{
		FPS:       o.fps,
		Speed:     o.speed,
		Smoothing: o.smooth,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}

	logger.Info("session ended", "summary", model.Trips().Summary())
	if model.Trips().HasTrips() {
		fmt.Fprint(os.Stderr, model.Trips().DetailedReport())
	}
	return model.Err()
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, closeLogs, err := openLogger(o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, o, logger)
	stop()
	closeLogs()

	if err != nil {
		fmt.Fprintf(os.Stderr, "cadence: %v\n", err)
		os.Exit(1)
	}
}
