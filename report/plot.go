package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type series struct {
	name  string
	value func(Sample) float64
}

// Signals are normalised to [0,1] so they share an axis.
var signalSeries = []series{
	{"phase", func(s Sample) float64 { return s.Phase }},
	{"speed", func(s Sample) float64 { return s.Speed }},
	{"beat pulse", func(s Sample) float64 { return s.BeatPulse }},
	{"bounce / 6", func(s Sample) float64 { return s.Bounce / 6 }},
	{"shadow opacity", func(s Sample) float64 { return s.ShadowOpacity }},
}

// WritePlot saves the phase and secondary signals of a trace as a PNG (or
// any format gonum/plot infers from the extension).
func WritePlot(trace *Trace, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("cadence run %s", trace.Run)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Value"
	p.Y.Min = 0
	p.Y.Max = 1
	p.Add(plotter.NewGrid())

	for i, s := range signalSeries {
		pts := make(plotter.XYs, 0, len(trace.Samples))
		for _, sm := range trace.Samples {
			pts = append(pts, plotter.XY{X: sm.T, Y: s.value(sm)})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
