// Package film renders cadence frames to images and shoots numbered PNG reels
// from a scripted speed program.
package film

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/cadence"
)

// Config defines the look of a rendered frame.
type Config struct {
	Scale      float64    // Pixels per viewBox unit
	LineWidth  float64    // Bone thickness in viewBox units
	Background color.RGBA // Background color
	Foreground color.RGBA // Figure and label color
	Shadow     color.RGBA // Shadow color; alpha comes from the frame
	OutputDir  string     // Directory reels are written under
}

// DefaultConfig renders white on black at 3 pixels per unit.
func DefaultConfig() Config {
	return Config{
		Scale:      3,
		LineWidth:  3,
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 255, 255, 255},
		Shadow:     color.RGBA{90, 90, 90, 255},
		OutputDir:  "film",
	}
}

// RenderingStage rasterizes frames into a reusable image buffer.
type RenderingStage struct {
	config Config
	img    *image.RGBA
	raster *vector.Rasterizer
	font   font.Face
}

// NewRenderingStage allocates a buffer sized to the figure viewBox.
func NewRenderingStage(config Config) *RenderingStage {
	if config.Scale <= 0 {
		config.Scale = DefaultConfig().Scale
	}
	if config.LineWidth <= 0 {
		config.LineWidth = DefaultConfig().LineWidth
	}
	w := int(math.Ceil(cadence.ViewBoxWidth * config.Scale))
	h := int(math.Ceil(cadence.ViewBoxHeight * config.Scale))

	return &RenderingStage{
		config: config,
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		raster: vector.NewRasterizer(w, h),
		font:   basicfont.Face7x13,
	}
}

// RenderFrame draws one frame over a cleared buffer: shadow, bones, head,
// then the BPM readout in the top-left corner. Idle frames are drawn
// standing.
func (rs *RenderingStage) RenderFrame(f cadence.Frame) {
	f = f.Drawn()
	bounds := rs.img.Bounds()
	draw.Draw(rs.img, bounds, image.NewUniform(rs.config.Background), image.Point{}, draw.Src)

	shadow := rs.config.Shadow
	shadow.A = uint8(math.Round(255 * clamp01(f.Signals.ShadowOpacity)))
	rs.fill(func() {
		rs.ellipse(r2.Vec{X: cadence.ViewBoxWidth / 2, Y: cadence.GroundY},
			cadence.ShadowRadius*f.Signals.ShadowScale, 4)
	}, premultiply(shadow))

	rs.fill(func() {
		for _, seg := range f.Segments() {
			rs.bone(seg.A, seg.B)
		}
	}, rs.config.Foreground)

	rs.fill(func() {
		rs.ellipse(f.HeadCenter(), cadence.HeadRadius, cadence.HeadRadius)
	}, rs.config.Foreground)

	drawer := &font.Drawer{
		Dst:  rs.img,
		Src:  image.NewUniform(rs.config.Foreground),
		Face: rs.font,
		Dot:  fixed.P(6, 16),
	}
	drawer.DrawString(fmt.Sprintf("%d BPM", f.DisplayBPM()))
}

// fill rasterizes the paths added by build in a single colour.
func (rs *RenderingStage) fill(build func(), c color.Color) {
	b := rs.img.Bounds()
	rs.raster.Reset(b.Dx(), b.Dy())
	rs.raster.DrawOp = draw.Over
	build()
	rs.raster.Draw(rs.img, b, image.NewUniform(c), image.Point{})
}

func (rs *RenderingStage) px(v r2.Vec) (float32, float32) {
	return float32(v.X * rs.config.Scale), float32(v.Y * rs.config.Scale)
}

// bone adds a thick segment as a quad.
func (rs *RenderingStage) bone(a, b r2.Vec) {
	d := r2.Sub(b, a)
	n := r2.Norm(d)
	if n == 0 {
		d = r2.Vec{X: 1}
		n = 1
	}
	half := rs.config.LineWidth / 2
	side := r2.Scale(half/n, r2.Vec{X: -d.Y, Y: d.X})
	along := r2.Scale(half/n, d)

	// extend past each joint so neighbouring bones overlap
	a = r2.Sub(a, along)
	b = r2.Add(b, along)

	rs.raster.MoveTo(rs.px(r2.Add(a, side)))
	rs.raster.LineTo(rs.px(r2.Add(b, side)))
	rs.raster.LineTo(rs.px(r2.Sub(b, side)))
	rs.raster.LineTo(rs.px(r2.Sub(a, side)))
	rs.raster.ClosePath()
}

const ellipseSegments = 48

func (rs *RenderingStage) ellipse(c r2.Vec, rx, ry float64) {
	for i := 0; i < ellipseSegments; i++ {
		theta := 2 * math.Pi * float64(i) / ellipseSegments
		p := r2.Vec{X: c.X + rx*math.Cos(theta), Y: c.Y + ry*math.Sin(theta)}
		if i == 0 {
			rs.raster.MoveTo(rs.px(p))
		} else {
			rs.raster.LineTo(rs.px(p))
		}
	}
	rs.raster.ClosePath()
}

// Image returns the current buffer. It is overwritten by the next
// RenderFrame.
func (rs *RenderingStage) Image() *image.RGBA {
	return rs.img
}

// Snapshot returns a copy of the current buffer.
func (rs *RenderingStage) Snapshot() *image.RGBA {
	out := image.NewRGBA(rs.img.Bounds())
	copy(out.Pix, rs.img.Pix)
	return out
}

// CaptureFrame writes the current buffer to a PNG file.
func (rs *RenderingStage) CaptureFrame(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(file, rs.img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func premultiply(c color.RGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
