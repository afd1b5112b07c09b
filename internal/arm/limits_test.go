package arm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
)

func TestJointLimits(t *testing.T) {
	limits := arm.JointLimits(arm.Model5)
	require.Len(t, limits, 5)
	assert.Equal(t, arm.Range{Min: -225, Max: 11}, limits[2], "joint 3 has the asymmetric elbow range")

	limits = arm.JointLimits(arm.Model6)
	require.Len(t, limits, 6)

	limits = arm.JointLimits(arm.Model7)
	require.Len(t, limits, 7)
	assert.Equal(t, arm.Range{Min: -180, Max: 180}, limits[6])
}

func TestJointLimits850SharesSixJointTable(t *testing.T) {
	assert.Equal(t, arm.JointLimits(arm.Model6), arm.JointLimits(arm.Model850))
	assert.Equal(t, 6, arm.Model850.JointCount())
}

func TestJointLimitsUnknownModelFallsBack(t *testing.T) {
	assert.Len(t, arm.JointLimits(arm.Model(9)), 7)
}

func TestRangeContains(t *testing.T) {
	r := arm.Range{Min: -225, Max: 11}

	assert.True(t, r.Contains(-225), "bounds are inclusive")
	assert.True(t, r.Contains(11))
	assert.True(t, r.Contains(0))
	assert.False(t, r.Contains(11.1))
	assert.False(t, r.Contains(-226))
}

func TestRangeIntersect(t *testing.T) {
	user := arm.Range{Min: -2000, Max: 2000}
	hw := arm.Range{Min: -800, Max: 800}

	assert.Equal(t, hw, user.Intersect(hw), "wider range tightens to hardware")
	assert.Equal(t, arm.Range{Min: -100, Max: 100}, arm.Range{Min: -100, Max: 100}.Intersect(hw),
		"narrower range is untouched")
}

func TestClamp(t *testing.T) {
	assert.InDelta(t, 5.0, arm.Clamp(10, 0, 5), 0.001)
	assert.InDelta(t, 0.0, arm.Clamp(-1, 0, 5), 0.001)
	assert.InDelta(t, 3.0, arm.Clamp(3, 0, 5), 0.001)
}

func TestSafetyLevelMultiplier(t *testing.T) {
	assert.InDelta(t, 0.1, arm.SafetyEmergency.Multiplier(), 0.001)
	assert.InDelta(t, 0.5, arm.SafetyHigh.Multiplier(), 0.001)
	assert.InDelta(t, 0.8, arm.SafetyMedium.Multiplier(), 0.001)
	assert.InDelta(t, 1.0, arm.SafetyLow.Multiplier(), 0.001)
}

func TestModelString(t *testing.T) {
	assert.Equal(t, "xArm6", arm.Model6.String())
	assert.Equal(t, "xArm850", arm.Model850.String())
}

func TestPoseArrayAndAdd(t *testing.T) {
	p := arm.Pose{X: 300, Y: 0, Z: 300, Roll: 180}
	assert.Equal(t, [6]float64{300, 0, 300, 180, 0, 0}, p.Array())

	moved := p.Add(arm.Pose{X: -50, Z: 10})
	assert.InDelta(t, 250.0, moved.X, 0.001)
	assert.InDelta(t, 310.0, moved.Z, 0.001)
	assert.InDelta(t, 180.0, moved.Roll, 0.001)
}
