package film

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifference(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 10, 10))
	b := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Equal(t, 0.0, Difference(a, b))

	b.SetRGBA(3, 3, color.RGBA{255, 0, 0, 255})
	b.SetRGBA(4, 4, color.RGBA{255, 0, 0, 255})
	assert.InDelta(t, 0.02, Difference(a, b), 1e-12)

	c := image.NewRGBA(image.Rect(0, 0, 5, 10))
	assert.Equal(t, 1.0, Difference(a, c))

	// same pixels under a shifted origin
	d := image.NewRGBA(image.Rect(5, 5, 15, 15))
	assert.Equal(t, 0.0, Difference(a, d))
}

func TestDiffImage(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 2, 1))
	a.SetRGBA(0, 0, color.RGBA{200, 200, 200, 255})
	b := image.NewRGBA(image.Rect(0, 0, 2, 1))
	b.SetRGBA(0, 0, color.RGBA{200, 200, 200, 255})
	b.SetRGBA(1, 0, color.RGBA{0, 0, 255, 255})

	diff := DiffImage(a, b)
	assert.Equal(t, color.RGBA{100, 100, 100, 255}, diff.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, diff.RGBAAt(1, 0))
}

func TestScriptSupervisor_Baseline(t *testing.T) {
	baseline := filepath.Join(t.TempDir(), "baseline")
	current := t.TempDir()
	ss := NewScriptSupervisor(baseline, current)
	assert.Equal(t, 0.01, ss.Tolerance())

	rs := render(t, 0, 0.5)
	shot := filepath.Join(current, "contact.png")
	require.NoError(t, rs.CaptureFrame(shot))
	require.NoError(t, ss.SetBaseline("contact", shot))
	assert.FileExists(t, filepath.Join(baseline, "contact.png"))

	assert.NoError(t, ss.ValidateConsistency("contact"))

	rs = render(t, 0.25, 0.5)
	require.NoError(t, rs.CaptureFrame(shot))
	err := ss.ValidateConsistency("contact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continuity broken")
	assert.FileExists(t, filepath.Join(current, "contact_diff.png"))

	assert.Error(t, ss.ValidateConsistency("missing"))
}
