package cadence

import (
	"fmt"
	"math"
)

// Limb identifies one of the four animated limbs.
type Limb int

const (
	RightLeg Limb = iota
	LeftLeg
	RightArm
	LeftArm

	LimbCount = 4
)

// Limbs lists every limb in draw order.
var Limbs = [LimbCount]Limb{RightLeg, LeftLeg, RightArm, LeftArm}

func (l Limb) String() string {
	switch l {
	case RightLeg:
		return "right_leg"
	case LeftLeg:
		return "left_leg"
	case RightArm:
		return "right_arm"
	case LeftArm:
		return "left_arm"
	default:
		return fmt.Sprintf("limb(%d)", int(l))
	}
}

// Phase offsets from the master phase. Right-side limbs follow the master
// phase; left-side limbs run half a cycle behind.
const (
	RightOffset = 0.0
	LeftOffset  = 0.5
)

type limbBinding struct {
	class  LimbClass
	offset float64
}

// Constant mapping; never derived from speed.
var limbBindings = [LimbCount]limbBinding{
	RightLeg: {class: ClassLeg, offset: RightOffset},
	LeftLeg:  {class: ClassLeg, offset: LeftOffset},
	RightArm: {class: ClassArm, offset: RightOffset},
	LeftArm:  {class: ClassArm, offset: LeftOffset},
}

// Class returns the keyframe cycle the limb follows.
func (l Limb) Class() LimbClass { return limbBindings[l].class }

// Offset returns the limb's fixed phase offset.
func (l Limb) Offset() float64 { return limbBindings[l].offset }

// LimbPhase returns (master + offset) mod 1, always in [0,1) for a master
// phase in [0,1).
func LimbPhase(master, offset float64) float64 {
	p := math.Mod(master+offset, 1)
	if p < 0 {
		p++
	}
	if p >= 1 {
		p = 0
	}
	return p
}

// StrideScalar returns 1 + speed*gain, the horizontal reach multiplier
// shared by all limbs in a frame.
func StrideScalar(speed, gain float64) float64 {
	return 1 + speed*gain
}

// Synchronizer derives per-limb poses from the master phase.
type Synchronizer struct {
	table *KeyframeTable
}

// NewSynchronizer binds a keyframe table.
func NewSynchronizer(table *KeyframeTable) *Synchronizer {
	return &Synchronizer{table: table}
}

// Pose interpolates the limb's cycle at its offset phase.
func (s *Synchronizer) Pose(limb Limb, master, stride float64) (Pose, error) {
	kfs, err := s.table.cycle(limb.Class())
	if err != nil {
		return Pose{}, err
	}
	return InterpolatePose(LimbPhase(master, limb.Offset()), kfs, stride)
}

// Poses interpolates every limb for one frame.
func (s *Synchronizer) Poses(master, stride float64) ([LimbCount]Pose, error) {
	var out [LimbCount]Pose
	for _, limb := range Limbs {
		p, err := s.Pose(limb, master, stride)
		if err != nil {
			return out, fmt.Errorf("%s: %w", limb, err)
		}
		out[limb] = p
	}
	return out, nil
}
