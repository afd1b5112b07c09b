package safety_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

func TestCheckWorkspaceCollision(t *testing.T) {
	env := defaultEnvelope(t)
	zones := safety.DefaultZones()

	hit, zone := safety.CheckWorkspaceCollision(arm.Pose{X: 300, Z: 300, Roll: 180}, env, zones.Collision)
	assert.False(t, hit)
	assert.Empty(t, zone)

	// Below the base plane, inside the table box.
	hit, zone = safety.CheckWorkspaceCollision(arm.Pose{X: 0, Y: 0, Z: -10, Roll: 180}, env, zones.Collision)
	assert.True(t, hit)
	assert.Equal(t, "table", zone)

	hit, zone = safety.CheckWorkspaceCollision(arm.Pose{X: 100, Y: 0, Z: 50, Roll: 180}, env, zones.Collision)
	assert.True(t, hit)
	assert.Equal(t, "base", zone)
}

func TestCheckWorkspaceCollisionEnvelopeViolation(t *testing.T) {
	env := defaultEnvelope(t)

	// A pose outside the envelope is a collision with no zone name.
	hit, zone := safety.CheckWorkspaceCollision(arm.Pose{X: 5000}, env, nil)
	assert.True(t, hit)
	assert.Empty(t, zone)
}

func TestCheckJointCollision(t *testing.T) {
	limits := arm.JointLimits(arm.Model6)
	rules := []safety.SelfCollisionRule{
		{
			Name: "elbow_folded",
			Conditions: []safety.JointCondition{
				{Joint: 2, Op: "gt", Value: 100},
				{Joint: 3, Op: "lt", Value: -200},
			},
		},
	}

	hit, rule := safety.CheckJointCollision(arm.JointVector{0, 0, 0, 0, 0, 0}, limits, rules)
	assert.False(t, hit)
	assert.Empty(t, rule)

	hit, rule = safety.CheckJointCollision(arm.JointVector{0, 110, -210, 0, 0, 0}, limits, rules)
	assert.True(t, hit)
	assert.Equal(t, "elbow_folded", rule)

	// One condition failing means the rule does not match.
	hit, _ = safety.CheckJointCollision(arm.JointVector{0, 110, 0, 0, 0, 0}, limits, rules)
	assert.False(t, hit)
}

func TestCheckJointCollisionBadRuleIndex(t *testing.T) {
	limits := arm.JointLimits(arm.Model5)
	rules := []safety.SelfCollisionRule{
		{Name: "ghost", Conditions: []safety.JointCondition{{Joint: 9, Op: "gt", Value: 0}}},
	}

	hit, _ := safety.CheckJointCollision(arm.JointVector{0, 0, 0, 0, 0}, limits, rules)
	assert.False(t, hit, "a condition on a missing joint never matches")
}

func TestLoadZones(t *testing.T) {
	doc := `
collision_zones:
  - name: fixture
    x: {min: -100, max: 100}
    y: {min: -100, max: 100}
    z: {min: 0, max: 250}
self_collision_rules:
  - name: wrist_twist
    conditions:
      - {joint: 5, op: abs_gt, value: 170}
track_danger_zones:
  - name: loader
    start: 100
    end: 200
    block_movement: true
`
	zones, err := safety.LoadZones(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, zones.Collision, 1)
	assert.Equal(t, "fixture", zones.Collision[0].Name)
	assert.Equal(t, arm.Range{Min: 0, Max: 250}, zones.Collision[0].Z)

	require.Len(t, zones.SelfCollision, 1)
	assert.Equal(t, "abs_gt", zones.SelfCollision[0].Conditions[0].Op)

	require.Len(t, zones.TrackDanger, 1)
	assert.True(t, zones.TrackDanger[0].Block)
}

func TestLoadZonesInvalid(t *testing.T) {
	_, err := safety.LoadZones(strings.NewReader("collision_zones: [not a zone"))
	assert.Error(t, err)
}
