package cadence

// Standing figure drawn while a frame is idle. The engine keeps advancing
// at speed 0; only the drawing stands still.
var (
	restArm      = Pose{shoulder, {X: 50, Y: 60}, {X: 55, Y: 70}}
	restRightLeg = Pose{hip, {X: 58, Y: 103}, {X: 57, Y: 131}}
	restLeftLeg  = Pose{hip, {X: 52, Y: 103}, {X: 53, Y: 131}}
)

// Resting returns the frame as hosts draw it when it is not Active: limbs
// hang in a standing pose, the torso is upright, and the head, bounce and
// shadow hold their rest values. Timing fields are kept so readouts stay
// live.
func (f Frame) Resting() Frame {
	f.Limbs = [LimbCount]Pose{
		RightLeg: restRightLeg,
		LeftLeg:  restLeftLeg,
		RightArm: restArm,
		LeftArm:  restArm,
	}
	f.Head = headCenter
	f.Spine = Spine(0, 0)
	f.Signals.Bounce = 0
	f.Signals.Lean = 0
	f.Signals.HeadSway = 0
	f.Signals.ShadowScale = 1
	f.Signals.ShadowOpacity = 0.4
	return f
}

// Drawn returns the frame a renderer should draw: Resting when idle, the
// frame itself otherwise.
func (f Frame) Drawn() Frame {
	if f.Active {
		return f
	}
	return f.Resting()
}
