package film

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cadence"
)

func sample(t *testing.T, phase, speed float64) cadence.Frame {
	t.Helper()
	engine, err := cadence.New(cadence.DefaultConfig())
	require.NoError(t, err)
	frame, err := engine.Sample(phase, speed)
	require.NoError(t, err)
	return frame
}

func render(t *testing.T, phase, speed float64) *RenderingStage {
	t.Helper()
	rs := NewRenderingStage(DefaultConfig())
	rs.RenderFrame(sample(t, phase, speed))
	return rs
}

func TestRenderingStage_Size(t *testing.T) {
	rs := NewRenderingStage(Config{})
	b := rs.Image().Bounds()
	assert.Equal(t, 360, b.Dx())
	assert.Equal(t, 480, b.Dy())
}

func TestRenderingStage_DrawsFigure(t *testing.T) {
	rs := render(t, 0.25, 0.5)
	img := rs.Image()

	white := color.RGBA{255, 255, 255, 255}
	scale := DefaultConfig().Scale
	frame := sample(t, 0.25, 0.5)

	head := frame.HeadCenter()
	assert.Equal(t, white, img.RGBAAt(int(head.X*scale), int(head.Y*scale)), "head is filled")

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(2, img.Bounds().Dy()-2), "corner stays background")

	shadow := img.RGBAAt(int(cadence.ViewBoxWidth/2*scale), int(cadence.GroundY*scale))
	assert.NotEqual(t, color.RGBA{0, 0, 0, 255}, shadow, "shadow drawn")
	assert.NotEqual(t, white, shadow, "shadow is translucent")
}

func TestRenderingStage_ShadowFollowsOpacity(t *testing.T) {
	scale := DefaultConfig().Scale
	at := func(phase float64) uint8 {
		img := render(t, phase, 0.5).Image()
		return img.RGBAAt(int(cadence.ViewBoxWidth/2*scale), int(cadence.GroundY*scale)).R
	}
	// darkest shadow at contact, faintest in flight
	assert.Greater(t, at(0), at(0.25))
}

func TestRenderingStage_WrapIsSeamless(t *testing.T) {
	ss := NewScriptSupervisor("", "").WithTolerance(0.001)

	for _, speed := range []float64{0, 0.5, 1} {
		end := render(t, 1-1e-9, speed).Snapshot()
		start := render(t, 0, speed).Snapshot()

		ok, d := ss.Continuous(end, start)
		assert.True(t, ok, "speed %v: %.4f of pixels differ across the wrap", speed, d)
	}
}

func TestRenderingStage_MotionIsVisible(t *testing.T) {
	a := render(t, 0, 0.5).Snapshot()
	b := render(t, 0.25, 0.5).Snapshot()
	assert.Greater(t, Difference(a, b), 0.01)
}

func TestRenderingStage_IdleFigureStandsStill(t *testing.T) {
	a := render(t, 0, 0).Snapshot()
	b := render(t, 0.3, 0).Snapshot()
	assert.Equal(t, 0.0, Difference(a, b))
}

func TestRenderingStage_CaptureFrame(t *testing.T) {
	rs := render(t, 0, 0)
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, rs.CaptureFrame(path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, rs.Image().Bounds(), img.Bounds())
	assert.Equal(t, 0.0, Difference(rs.Image(), img))
}

func TestRenderingStage_CaptureFrameBadPath(t *testing.T) {
	rs := render(t, 0, 0)
	err := rs.CaptureFrame(filepath.Join(t.TempDir(), "missing", "frame.png"))
	assert.Error(t, err)
}
