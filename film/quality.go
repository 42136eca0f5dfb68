package film

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// ScriptSupervisor checks frames for visual continuity, either in memory or
// against baseline PNGs on disk.
type ScriptSupervisor struct {
	baselineDir string
	currentDir  string
	tolerance   float64 // Fraction of pixels allowed to differ
}

// NewScriptSupervisor compares shots in currentDir against baselineDir.
func NewScriptSupervisor(baselineDir, currentDir string) *ScriptSupervisor {
	return &ScriptSupervisor{
		baselineDir: baselineDir,
		currentDir:  currentDir,
		tolerance:   0.01,
	}
}

// WithTolerance sets the allowed fraction of differing pixels.
func (ss *ScriptSupervisor) WithTolerance(tolerance float64) *ScriptSupervisor {
	ss.tolerance = tolerance
	return ss
}

// Tolerance returns the allowed fraction of differing pixels.
func (ss *ScriptSupervisor) Tolerance() float64 { return ss.tolerance }

// Continuous reports whether two images differ by no more than the
// tolerance, along with the measured difference.
func (ss *ScriptSupervisor) Continuous(a, b image.Image) (bool, float64) {
	d := Difference(a, b)
	return d <= ss.tolerance, d
}

// ValidateConsistency compares name.png in the current and baseline
// directories and writes name_diff.png next to the current shot when they
// diverge.
func (ss *ScriptSupervisor) ValidateConsistency(name string) error {
	baseline, err := loadImage(filepath.Join(ss.baselineDir, name+".png"))
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}
	current, err := loadImage(filepath.Join(ss.currentDir, name+".png"))
	if err != nil {
		return fmt.Errorf("failed to load current: %w", err)
	}

	if ok, d := ss.Continuous(baseline, current); !ok {
		diffPath := filepath.Join(ss.currentDir, name+"_diff.png")
		if err := writePNG(diffPath, DiffImage(baseline, current)); err != nil {
			return fmt.Errorf("continuity broken: %.2f%% difference; diff image: %w", d*100, err)
		}
		return fmt.Errorf("continuity broken: %.2f%% difference (tolerance: %.2f%%)",
			d*100, ss.tolerance*100)
	}
	return nil
}

// SetBaseline stores a shot as the baseline for name.
func (ss *ScriptSupervisor) SetBaseline(name, shotPath string) error {
	if err := os.MkdirAll(ss.baselineDir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	input, err := os.Open(shotPath)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(filepath.Join(ss.baselineDir, name+".png"))
	if err != nil {
		return err
	}
	if _, err := output.ReadFrom(input); err != nil {
		output.Close()
		return err
	}
	return output.Close()
}

// Difference returns the fraction of pixels that differ. Images of
// different sizes are entirely different.
func Difference(a, b image.Image) float64 {
	ba, bb := a.Bounds(), b.Bounds()
	if ba.Size() != bb.Size() {
		return 1
	}
	total := ba.Dx() * ba.Dy()
	if total == 0 {
		return 0
	}

	different := 0
	for y := 0; y < ba.Dy(); y++ {
		for x := 0; x < ba.Dx(); x++ {
			if !sameColor(a.At(ba.Min.X+x, ba.Min.Y+y), b.At(bb.Min.X+x, bb.Min.Y+y)) {
				different++
			}
		}
	}
	return float64(different) / float64(total)
}

// DiffImage marks differing pixels red over a dimmed copy of a.
func DiffImage(a, b image.Image) *image.RGBA {
	bounds := a.Bounds()
	diff := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ca := a.At(x, y)
			if !sameColor(ca, b.At(x, y)) {
				diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				continue
			}
			r, g, bl, al := ca.RGBA()
			diff.Set(x, y, color.RGBA{uint8(r >> 9), uint8(g >> 9), uint8(bl >> 9), uint8(al >> 8)})
		}
	}
	return diff
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
