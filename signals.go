package cadence

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Secondary signals are pure functions of the master phase and speed. Two
// bounces per cycle line up with the two foot strikes.

const strikesPerCycle = 2

func strikeAngle(phase float64) float64 {
	return 2 * math.Pi * strikesPerCycle * phase
}

// Bounce returns the upward body offset in viewBox units, in [0, 6].
func Bounce(phase float64) float64 {
	return -3*math.Sin(strikeAngle(phase)) + 3
}

// Lean returns the forward torso lean in viewBox units.
func Lean(speed, gain float64) float64 {
	return speed * gain
}

// HeadSway returns the forward head drift in viewBox units, 0 at each
// strike and 1 midway between strikes.
func HeadSway(phase float64) float64 {
	return 0.5 * (1 - math.Cos(strikeAngle(phase)))
}

// ShadowScale returns the horizontal ground-shadow scale. Largest at ground
// contact, smallest in flight.
func ShadowScale(phase float64) float64 {
	return 1 + 0.1*math.Cos(strikeAngle(phase))
}

// ShadowOpacity returns the ground-shadow opacity in [0.3, 0.5].
func ShadowOpacity(phase float64) float64 {
	return 0.4 + 0.1*math.Cos(strikeAngle(phase))
}

// BeatPulse returns 1 on every beat falling to 0 halfway between beats. A
// BPM readout driven by it pulses in step with the stride.
func BeatPulse(phase, beatsPerCycle float64) float64 {
	return 0.5 * (1 + math.Cos(2*math.Pi*beatsPerCycle*phase))
}

var (
	neck       = r2.Vec{X: 62, Y: 38}
	midBack    = r2.Vec{X: 58.5, Y: 56}
	headCenter = r2.Vec{X: 65, Y: 22}
)

// Figure geometry in viewBox units.
const (
	ViewBoxWidth  = 120
	ViewBoxHeight = 160

	HeadRadius = 14

	// GroundY is where the shadow sits; it does not bounce.
	GroundY = 140
	// ShadowRadius is the shadow ellipse's horizontal radius at scale 1.
	ShadowRadius = 28
)

// Head returns the head centre: the rest position pushed forward by lean and
// head sway.
func Head(phase, lean float64) r2.Vec {
	return r2.Vec{X: headCenter.X + lean + HeadSway(phase), Y: headCenter.Y}
}

// Spine returns the torso control points (neck, mid, hip). The hip stays on
// the leg pivot; the neck is pushed forward by lean and rocks two units once
// per cycle.
func Spine(phase, lean float64) [3]r2.Vec {
	rock := 2 * math.Sin(2*math.Pi*phase)
	return [3]r2.Vec{
		{X: neck.X + lean + rock, Y: neck.Y},
		{X: midBack.X + lean/2 + rock/2, Y: midBack.Y},
		hip,
	}
}

// Signals bundles the secondary signals for one frame.
type Signals struct {
	Bounce        float64
	Lean          float64
	HeadSway      float64
	ShadowScale   float64
	ShadowOpacity float64
	BeatPulse     float64
}

// DeriveSignals computes every secondary signal for (phase, speed).
func DeriveSignals(phase, speed float64, cfg Config) Signals {
	return Signals{
		Bounce:        Bounce(phase),
		Lean:          Lean(speed, cfg.LeanGain),
		HeadSway:      HeadSway(phase),
		ShadowScale:   ShadowScale(phase),
		ShadowOpacity: ShadowOpacity(phase),
		BeatPulse:     BeatPulse(phase, cfg.BeatsPerCycle),
	}
}
