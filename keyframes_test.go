package cadence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/cadence/trip"
)

func TestDefaultKeyframes_ClosedLoop(t *testing.T) {
	table := DefaultKeyframes()
	require.NoError(t, table.Validate())

	legs, err := table.Poses(ClassLeg)
	require.NoError(t, err)
	assert.Len(t, legs, 6, "leg cycle has 5 poses plus the wrap duplicate")

	arms, err := table.Poses(ClassArm)
	require.NoError(t, err)
	assert.Len(t, arms, 5, "arm cycle has 4 poses plus the wrap duplicate")

	for _, kfs := range [][]Keyframe{legs, arms} {
		assert.Equal(t, 0.0, kfs[0].Time)
		assert.Equal(t, 1.0, kfs[len(kfs)-1].Time)
		assert.Equal(t, kfs[0].Template, kfs[len(kfs)-1].Template)
		assert.Equal(t, kfs[0].Name, kfs[len(kfs)-1].Name)
	}
}

func TestKeyframeTable_Times(t *testing.T) {
	times, err := DefaultKeyframes().Times(ClassLeg)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.15, 0.35, 0.5, 0.7, 1}, times)

	_, err = DefaultKeyframes().Times(LimbClass(9))
	assert.True(t, trip.IsConfiguration(err))
}

func TestPoseTemplate_At(t *testing.T) {
	tmpl := PoseTemplate{
		Pivot:   r2.Vec{X: 10, Y: 10},
		Offsets: [2]r2.Vec{{X: 4, Y: 6}, {X: -2, Y: 12}},
	}

	p := tmpl.At(1.5)
	assert.Equal(t, r2.Vec{X: 10, Y: 10}, p.Pivot())
	assert.Equal(t, r2.Vec{X: 16, Y: 16}, p[1])
	assert.Equal(t, r2.Vec{X: 7, Y: 22}, p[2])
}

// Every joint of every keyframe moves away from its pivot as stride grows.
func TestPoseTemplate_StrideScaling(t *testing.T) {
	table := DefaultKeyframes()
	strides := []float64{1, 1.1, 1.25, 1.5}

	for _, class := range []LimbClass{ClassLeg, ClassArm} {
		kfs, err := table.Poses(class)
		require.NoError(t, err)

		for _, kf := range kfs {
			for i := 1; i < len(strides); i++ {
				near := kf.Template.At(strides[i-1])
				far := kf.Template.At(strides[i])
				for j := 1; j < JointCount; j++ {
					dNear := r2.Norm(r2.Sub(near[j], near.Pivot()))
					dFar := r2.Norm(r2.Sub(far[j], far.Pivot()))
					assert.Greater(t, dFar, dNear, "%s %s joint %d at stride %v", class, kf.Name, j, strides[i])
				}
			}
		}
	}
}

func TestNewKeyframeTable_Invalid(t *testing.T) {
	a := legPose(1, 1, 2, 2)
	b := legPose(3, 3, 4, 4)
	arms := defaultArmCycle

	tests := []struct {
		name string
		legs []Keyframe
	}{
		{"too short", []Keyframe{{Time: 0, Template: a}}},
		{"late start", []Keyframe{{Time: 0.1, Template: a}, {Time: 1, Template: a}}},
		{"not increasing", []Keyframe{{Time: 0, Template: a}, {Time: 0.5, Template: b}, {Time: 0.5, Template: b}, {Time: 1, Template: a}}},
		{"early end", []Keyframe{{Time: 0, Template: a}, {Time: 0.5, Template: b}, {Time: 0.9, Template: a}}},
		{"open loop", []Keyframe{{Time: 0, Template: a}, {Time: 0.5, Template: a}, {Time: 1, Template: b}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewKeyframeTable(map[LimbClass][]Keyframe{ClassLeg: tt.legs, ClassArm: arms})
			assert.Nil(t, table)
			require.Error(t, err)
			assert.True(t, trip.IsConfiguration(err))

			tr, ok := trip.As(err)
			require.True(t, ok)
			assert.True(t, tr.IsFall())
		})
	}
}

func TestNewKeyframeTable_MissingClass(t *testing.T) {
	_, err := NewKeyframeTable(map[LimbClass][]Keyframe{ClassLeg: defaultLegCycle})
	assert.True(t, trip.IsConfiguration(err))
}

func TestNewKeyframeTable_Copies(t *testing.T) {
	legs := append([]Keyframe(nil), defaultLegCycle...)
	table, err := NewKeyframeTable(map[LimbClass][]Keyframe{ClassLeg: legs, ClassArm: defaultArmCycle})
	require.NoError(t, err)

	legs[1].Time = 0.9
	require.NoError(t, table.Validate(), "table must not alias the caller's slice")
}

func TestKeyframeTable_PosesReturnsCopy(t *testing.T) {
	table := DefaultKeyframes()

	legs, err := table.Poses(ClassLeg)
	require.NoError(t, err)
	legs[len(legs)-1].Template = legPose(40, 0, 40, 0)
	legs[1].Time = 0.9

	require.NoError(t, table.Validate(), "editing the returned slice must not reopen the loop")
	again, err := table.Poses(ClassLeg)
	require.NoError(t, err)
	assert.Equal(t, defaultLegCycle, again)
}
