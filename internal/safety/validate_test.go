package safety_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

func defaultEnvelope(t *testing.T) safety.Envelope {
	t.Helper()
	env, warnings := safety.Resolve(safety.DefaultConfig(), arm.Hardware)
	require.Empty(t, warnings)

	return env
}

func TestValidatePose(t *testing.T) {
	env := defaultEnvelope(t)

	err := safety.ValidatePose(arm.Pose{X: 300, Y: 0, Z: 300, Roll: 180}, env)
	assert.NoError(t, err)

	err = safety.ValidatePose(arm.Pose{X: 1000, Y: 0, Z: 300, Roll: 180}, env)
	require.Error(t, err)

	var poseErr *safety.PoseError
	require.ErrorAs(t, err, &poseErr)
	assert.Equal(t, "x", poseErr.Axis)
	assert.InDelta(t, 1000.0, poseErr.Value, 0.001)
	assert.Equal(t, arm.Range{Min: -700, Max: 700}, poseErr.Limit)
}

func TestValidatePoseRotation(t *testing.T) {
	env := defaultEnvelope(t)

	err := safety.ValidatePose(arm.Pose{X: 300, Z: 300, Roll: 200}, env)
	require.Error(t, err)

	var poseErr *safety.PoseError
	require.ErrorAs(t, err, &poseErr)
	assert.Equal(t, "roll", poseErr.Axis)
}

func TestValidateJoints(t *testing.T) {
	limits := arm.JointLimits(arm.Model5)

	err := safety.ValidateJoints(arm.JointVector{0, 0, 0, 0, 0}, limits)
	assert.NoError(t, err)

	// Joint 3 of the 5-series stops at 11 degrees.
	err = safety.ValidateJoints(arm.JointVector{0, 0, 50, 0, 0}, limits)
	require.Error(t, err)

	var jointErr *safety.JointError
	require.ErrorAs(t, err, &jointErr)
	assert.Equal(t, 3, jointErr.Joint)
	assert.InDelta(t, 50.0, jointErr.Value, 0.001)
}

func TestValidateJointsTooFew(t *testing.T) {
	err := safety.ValidateJoints(arm.JointVector{0, 0, 0}, arm.JointLimits(arm.Model6))
	require.Error(t, err)

	var countErr *safety.JointCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 3, countErr.Got)
	assert.Equal(t, 6, countErr.Want)
}

func TestValidateJointsExtraAnglesIgnored(t *testing.T) {
	limits := arm.JointLimits(arm.Model5)
	err := safety.ValidateJoints(arm.JointVector{0, 0, 0, 0, 0, 9999}, limits)
	assert.NoError(t, err, "angles beyond the model's joint count are not checked")
}

func TestValidateSpeed(t *testing.T) {
	limit := arm.Range{Min: 1, Max: 800}

	assert.NoError(t, safety.ValidateSpeed("tcp speed", 100, limit))

	err := safety.ValidateSpeed("tcp speed", 900, limit)
	require.Error(t, err)

	var speedErr *safety.SpeedError
	require.ErrorAs(t, err, &speedErr)
	assert.Equal(t, "tcp speed", speedErr.Kind)
}

func TestValidateTrackPosition(t *testing.T) {
	limit := arm.Range{Min: 0, Max: 700}
	zones := []safety.TrackDangerZone{
		{Name: "loader", Start: 100, End: 200, Block: true},
		{Name: "camera", Start: 400, End: 450, Block: false},
	}

	warnings, err := safety.ValidateTrackPosition(300, limit, zones)
	assert.NoError(t, err)
	assert.Empty(t, warnings)

	_, err = safety.ValidateTrackPosition(800, limit, zones)
	require.Error(t, err)

	_, err = safety.ValidateTrackPosition(150, limit, zones)
	require.Error(t, err)
	var trackErr *safety.TrackError
	require.ErrorAs(t, err, &trackErr)
	assert.Equal(t, "loader", trackErr.Zone)

	warnings, err = safety.ValidateTrackPosition(420, limit, zones)
	assert.NoError(t, err, "non-blocking zones warn instead of rejecting")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "camera")
}
