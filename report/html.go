package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders a trace as an interactive page: the BPM readout over
// time, then the phase and secondary signals.
func WriteHTML(trace *Trace, w io.Writer) error {
	x := make([]string, len(trace.Samples))
	for i, s := range trace.Samples {
		x[i] = fmt.Sprintf("%.3f", s.T)
	}

	bpm := charts.NewLine()
	bpm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "cadence trace", Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Tempo", Subtitle: fmt.Sprintf("run=%s fps=%d", trace.Run, trace.FPS)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "BPM", NameLocation: "middle", NameGap: 35}),
	)
	bpm.SetXAxis(x).AddSeries("BPM", lineData(trace, func(s Sample) float64 { return s.BPM }),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	signals := charts.NewLine()
	signals.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Phase and signals"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	signals.SetXAxis(x)
	for _, s := range signalSeries {
		signals.AddSeries(s.name, lineData(trace, s.value),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	page := components.NewPage()
	page.PageTitle = "cadence trace"
	page.AddCharts(bpm, signals)
	return page.Render(w)
}

func lineData(trace *Trace, value func(Sample) float64) []opts.LineData {
	out := make([]opts.LineData, len(trace.Samples))
	for i, s := range trace.Samples {
		out[i] = opts.LineData{Value: value(s)}
	}
	return out
}
