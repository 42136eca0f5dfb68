package cadence

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/teranos/cadence/trip"
)

// Interpolate returns the linear blend of poses at phase. times must be a
// closed cycle as produced by a KeyframeTable: times[0] == 0, strictly
// increasing, times[len-1] == 1. Every pose vector must have the same length.
//
// A phase outside [0,1) is an upstream clock bug and is reported as an
// out-of-range trip, never clamped.
func Interpolate(phase float64, times []float64, poses [][]float64) ([]float64, error) {
	if math.IsNaN(phase) || phase < 0 || phase >= 1 {
		return nil, trip.OutOfRange(fmt.Sprintf("phase %v outside [0,1)", phase),
			trip.Context{"phase": phase})
	}
	if len(times) < 2 || len(times) != len(poses) {
		return nil, trip.Configuration("keyframe times and poses must pair up",
			trip.Context{"times": len(times), "poses": len(poses)})
	}

	// First keyframe strictly after phase; the segment starts one before it.
	next := sort.Search(len(times), func(i int) bool {
		return times[i] > phase
	})
	if next == 0 || next >= len(times) {
		return nil, trip.OutOfRange(fmt.Sprintf("phase %v not covered by keyframes [%v, %v]", phase, times[0], times[len(times)-1]),
			trip.Context{"phase": phase})
	}
	i := next - 1

	from, to := poses[i], poses[next]
	if len(from) != len(to) {
		return nil, trip.Configuration("keyframe poses differ in length",
			trip.Context{"segment": i, "from": len(from), "to": len(to)})
	}

	t := (phase - times[i]) / (times[next] - times[i])

	// out = from + t*(to-from)
	out := make([]float64, len(from))
	floats.SubTo(out, to, from)
	floats.Scale(t, out)
	floats.Add(out, from)
	return out, nil
}

// InterpolatePose interpolates a keyframe cycle at phase with every template
// placed at the given stride.
func InterpolatePose(phase float64, keyframes []Keyframe, stride float64) (Pose, error) {
	times := make([]float64, len(keyframes))
	poses := make([][]float64, len(keyframes))
	for i, kf := range keyframes {
		times[i] = kf.Time
		poses[i] = kf.Template.At(stride).coords()
	}

	c, err := Interpolate(phase, times, poses)
	if err != nil {
		return Pose{}, err
	}
	return poseFromCoords(c), nil
}
