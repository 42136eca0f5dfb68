package cadence

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/cadence/trip"
)

// JointCount is the number of joints in every limb pose: the pivot
// (hip/shoulder), the middle joint (knee/elbow) and the end (ankle/hand).
const JointCount = 3

// Pose is a concrete limb polyline in the figure's 120x160 viewBox
// (x right, y down).
type Pose [JointCount]r2.Vec

// Pivot returns the joint the limb swings from.
func (p Pose) Pivot() r2.Vec { return p[0] }

// coords flattens the pose into x0,y0,x1,y1,... for the interpolator.
func (p Pose) coords() []float64 {
	out := make([]float64, 0, 2*JointCount)
	for _, j := range p {
		out = append(out, j.X, j.Y)
	}
	return out
}

func poseFromCoords(c []float64) Pose {
	var p Pose
	for i := range p {
		p[i] = r2.Vec{X: c[2*i], Y: c[2*i+1]}
	}
	return p
}

// PoseTemplate is a named pose expressed relative to its pivot. Offsets
// hold the non-pivot joints.
type PoseTemplate struct {
	Pivot   r2.Vec
	Offsets [JointCount - 1]r2.Vec
}

// At places the template for the given stride scalar. Horizontal reach is
// multiplied by stride; vertical drop is not, so limbs reach further without
// growing longer.
func (t PoseTemplate) At(stride float64) Pose {
	p := Pose{t.Pivot}
	for i, off := range t.Offsets {
		p[i+1] = r2.Add(t.Pivot, r2.Vec{X: off.X * stride, Y: off.Y})
	}
	return p
}

// LimbClass selects a keyframe cycle.
type LimbClass int

const (
	ClassLeg LimbClass = iota
	ClassArm
)

func (c LimbClass) String() string {
	switch c {
	case ClassLeg:
		return "leg"
	case ClassArm:
		return "arm"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Keyframe is a named pose at a phase timestamp.
type Keyframe struct {
	Time     float64
	Name     string
	Template PoseTemplate
}

// KeyframeTable maps each limb class to its closed keyframe cycle.
type KeyframeTable struct {
	cycles map[LimbClass][]Keyframe
}

// NewKeyframeTable builds a table and checks every cycle is closed.
func NewKeyframeTable(cycles map[LimbClass][]Keyframe) (*KeyframeTable, error) {
	t := &KeyframeTable{cycles: make(map[LimbClass][]Keyframe, len(cycles))}
	for class, kfs := range cycles {
		t.cycles[class] = append([]Keyframe(nil), kfs...)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

var (
	hip      = r2.Vec{X: 55, Y: 75}
	shoulder = r2.Vec{X: 60, Y: 45}
)

func legPose(kx, ky, ax, ay float64) PoseTemplate {
	return PoseTemplate{Pivot: hip, Offsets: [2]r2.Vec{{X: kx, Y: ky}, {X: ax, Y: ay}}}
}

func armPose(ex, ey, hx, hy float64) PoseTemplate {
	return PoseTemplate{Pivot: shoulder, Offsets: [2]r2.Vec{{X: ex, Y: ey}, {X: hx, Y: hy}}}
}

// Leg and arm cycles for the right side. The left side replays them half a
// cycle later. Every non-pivot offset has a non-zero horizontal component so
// stride always moves it away from the pivot.
var (
	legContact = legPose(18, 28, 26, 54)
	armBack    = armPose(-18, 12, -28, 2)

	defaultLegCycle = []Keyframe{
		{Time: 0, Name: "contact", Template: legContact},
		{Time: 0.15, Name: "loading", Template: legPose(10, 32, 4, 56)},
		{Time: 0.35, Name: "midstance", Template: legPose(-6, 33, -16, 52)},
		{Time: 0.5, Name: "toe-off", Template: legPose(-14, 26, -32, 40)},
		{Time: 0.7, Name: "swing", Template: legPose(4, 24, -18, 30)},
		{Time: 1, Name: "contact", Template: legContact},
	}

	defaultArmCycle = []Keyframe{
		{Time: 0, Name: "back", Template: armBack},
		{Time: 0.25, Name: "pass-forward", Template: armPose(-4, 16, 6, 12)},
		{Time: 0.5, Name: "forward", Template: armPose(22, 8, 30, -4)},
		{Time: 0.75, Name: "pass-back", Template: armPose(5, 16, -5, 13)},
		{Time: 1, Name: "back", Template: armBack},
	}
)

// DefaultKeyframes returns the built-in runner cycles.
func DefaultKeyframes() *KeyframeTable {
	t, err := NewKeyframeTable(map[LimbClass][]Keyframe{
		ClassLeg: defaultLegCycle,
		ClassArm: defaultArmCycle,
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Poses returns a copy of the ordered keyframes for a limb class.
func (t *KeyframeTable) Poses(class LimbClass) ([]Keyframe, error) {
	kfs, err := t.cycle(class)
	if err != nil {
		return nil, err
	}
	return append([]Keyframe(nil), kfs...), nil
}

// cycle returns the table's own slice; callers must not modify it.
func (t *KeyframeTable) cycle(class LimbClass) ([]Keyframe, error) {
	kfs, ok := t.cycles[class]
	if !ok {
		return nil, trip.Configuration(fmt.Sprintf("no keyframes for %s", class),
			trip.Context{"class": class.String()})
	}
	return kfs, nil
}

// Times returns the keyframe timestamps for a limb class.
func (t *KeyframeTable) Times(class LimbClass) ([]float64, error) {
	kfs, err := t.cycle(class)
	if err != nil {
		return nil, err
	}
	times := make([]float64, len(kfs))
	for i, kf := range kfs {
		times[i] = kf.Time
	}
	return times, nil
}

// Validate checks the closed-loop invariant for every class: at least two
// keyframes, the first at 0, strictly increasing times, the last at 1 and
// the last template equal to the first.
func (t *KeyframeTable) Validate() error {
	for _, class := range []LimbClass{ClassLeg, ClassArm} {
		if _, ok := t.cycles[class]; !ok {
			return trip.Configuration(fmt.Sprintf("missing %s cycle", class),
				trip.Context{"class": class.String()})
		}
	}

	for class, kfs := range t.cycles {
		ctx := trip.Context{"class": class.String(), "keyframes": len(kfs)}
		if len(kfs) < 2 {
			return trip.Configuration(fmt.Sprintf("%s cycle needs at least 2 keyframes", class), ctx)
		}
		if kfs[0].Time != 0 {
			ctx["first"] = kfs[0].Time
			return trip.Configuration(fmt.Sprintf("%s cycle must start at phase 0", class), ctx)
		}
		for i := 1; i < len(kfs); i++ {
			if !(kfs[i].Time > kfs[i-1].Time) {
				ctx["index"] = i
				return trip.Configuration(fmt.Sprintf("%s cycle timestamps must strictly increase", class), ctx)
			}
		}
		last := kfs[len(kfs)-1]
		if last.Time != 1 {
			ctx["last"] = last.Time
			return trip.Configuration(fmt.Sprintf("%s cycle must end at phase 1", class), ctx)
		}
		if last.Template != kfs[0].Template {
			return trip.Configuration(fmt.Sprintf("%s cycle is open: last pose differs from first", class), ctx)
		}
	}
	return nil
}
