package stage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	figureStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	bpmStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	bpmBeatStyle = bpmStyle.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("86"))
	trackStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("213"))
	sliderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const sliderWidth = 30

// TrackLabel names the pace band for a BPM readout.
func TrackLabel(bpm int) string {
	switch {
	case bpm < 100:
		return "Slow Motion"
	case bpm < 130:
		return "Steady Pace"
	case bpm < 160:
		return "Power Surge"
	default:
		return "Maximum Velocity"
	}
}

// Slider draws the pace slider for a position in [0,1].
func Slider(pos float64, width int) string {
	filled := int(clampSpeed(pos)*float64(width) + 0.5)
	return "Walk [" + strings.Repeat("=", filled) + strings.Repeat(".", width-filled) + "] Run"
}

// View renders the figure, the BPM readout and the pace slider.
func (m *Model) View() string {
	f := m.frame

	m.canvas.Clear()
	m.canvas.DrawFrame(f)

	var b strings.Builder
	b.WriteString(titleStyle.Render("cadence"))
	b.WriteString("\n")
	b.WriteString(figureStyle.Render(m.canvas.String()))
	b.WriteString("\n\n")

	bpm := f.DisplayBPM()
	readout := fmt.Sprintf(" %3d BPM ", bpm)
	if f.Signals.BeatPulse > 0.5 {
		b.WriteString(bpmBeatStyle.Render(readout))
	} else {
		b.WriteString(bpmStyle.Render(readout))
	}
	b.WriteString("  ")
	b.WriteString(trackStyle.Render(TrackLabel(bpm)))
	b.WriteString("\n")

	b.WriteString(sliderStyle.Render(Slider(m.target, sliderWidth)))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n", m.target*100))

	var status []string
	if m.paused {
		status = append(status, "paused")
	}
	if !f.Active {
		status = append(status, "idle")
	}
	if m.smoothing {
		status = append(status, "smoothing")
	}
	status = append(status, fmt.Sprintf("beat %.2fs", f.BeatDuration))
	status = append(status, fmt.Sprintf("cycle %d", f.Cycles))
	b.WriteString(dimStyle.Render(strings.Join(status, " | ")))
	b.WriteString("\n")

	if m.trips.HasTrips() || m.trips.HasStumbles() {
		b.WriteString(errorStyle.Render(m.trips.Summary()))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("←/→ pace  0-9 jump  s smoothing  space pause  q quit"))
	return b.String()
}
