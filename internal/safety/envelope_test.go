package safety_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

func TestResolveClampsToHardware(t *testing.T) {
	user := safety.DefaultConfig()
	user.Workspace.X = arm.Range{Min: -2000, Max: 2000}
	user.MaxTCPSpeed = 5000
	user.CollisionSensitivity = 9

	env, warnings := safety.Resolve(user, arm.Hardware)

	assert.Equal(t, arm.Range{Min: -800, Max: 800}, env.Workspace.X)
	assert.InDelta(t, 1500.0, env.MaxTCPSpeed, 0.001)
	assert.InDelta(t, 5.0, env.CollisionSensitivity, 0.001)

	fields := make(map[string]bool)
	for _, w := range warnings {
		fields[w.Field] = true
	}
	assert.True(t, fields["workspace.x"])
	assert.True(t, fields["max_tcp_speed"])
	assert.True(t, fields["collision_sensitivity"])
}

func TestResolveEnvelopeIsSubsetOfHardware(t *testing.T) {
	user := safety.DefaultConfig()
	user.Workspace.Z = arm.Range{Min: -9000, Max: 9000}
	user.MaxJointSpeed = 999

	env, _ := safety.Resolve(user, arm.Hardware)

	for i, axis := range env.Workspace.Axes() {
		hw := arm.Hardware.Workspace.Axes()[i]
		assert.GreaterOrEqual(t, axis.Range.Min, hw.Range.Min, axis.Name)
		assert.LessOrEqual(t, axis.Range.Max, hw.Range.Max, axis.Name)
	}
	assert.LessOrEqual(t, env.MaxTCPSpeed, arm.Hardware.MaxTCPSpeed)
	assert.LessOrEqual(t, env.MaxJointSpeed, arm.Hardware.MaxJointSpeed)
}

func TestResolveDefaultsProduceNoWarnings(t *testing.T) {
	_, warnings := safety.Resolve(safety.DefaultConfig(), arm.Hardware)
	assert.Empty(t, warnings)
}

func TestResolveIsDeterministic(t *testing.T) {
	user := safety.DefaultConfig()
	user.Workspace.Y = arm.Range{Min: -1200, Max: 1200}

	env1, warn1 := safety.Resolve(user, arm.Hardware)
	env2, warn2 := safety.Resolve(user, arm.Hardware)

	require.Equal(t, env1, env2)
	require.Equal(t, warn1, warn2)
}

func TestSpeedCaps(t *testing.T) {
	env, _ := safety.Resolve(safety.DefaultConfig(), arm.Hardware)

	tcp, joint := safety.SpeedCaps(env, arm.SafetyHigh)
	assert.InDelta(t, 500.0, tcp, 0.001)
	assert.InDelta(t, 90.0, joint, 0.001)

	tcp, joint = safety.SpeedCaps(env, arm.SafetyLow)
	assert.InDelta(t, 1000.0, tcp, 0.001)
	assert.InDelta(t, 180.0, joint, 0.001)
}
