package safety

import (
	"fmt"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
)

// Config is the raw user safety configuration before clamping. Callers fill
// omitted fields with the defaults from the arm package; Resolve never sees
// partial values.
type Config struct {
	Workspace            arm.Workspace
	MaxTCPSpeed          float64
	MaxJointSpeed        float64
	CollisionSensitivity float64
	Temperature          arm.TemperatureThresholds
}

// Envelope is the hardware-clamped safety configuration in force for the
// session. It is immutable after Resolve; reconfiguration means re-resolving.
type Envelope struct {
	Workspace            arm.Workspace
	MaxTCPSpeed          float64
	MaxJointSpeed        float64
	CollisionSensitivity float64
	Temperature          arm.TemperatureThresholds
}

// Warning records a configuration field that had to be clamped to stay
// within hardware capabilities. Non-fatal.
type Warning struct {
	Field    string
	Original string
	Clamped  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s clamped from %s to %s (hardware limit)", w.Field, w.Original, w.Clamped)
}

// Zone is a named axis-aligned box in Cartesian space, used only by the
// simulated collision check.
type Zone struct {
	Name string    `yaml:"name"`
	X    arm.Range `yaml:"x"`
	Y    arm.Range `yaml:"y"`
	Z    arm.Range `yaml:"z"`
}

// JointCondition is one boolean term of a self-collision rule. Op is one of
// "gt", "lt", "abs_gt", "abs_lt" and Joint is 1-based.
type JointCondition struct {
	Joint int     `yaml:"joint"`
	Op    string  `yaml:"op"`
	Value float64 `yaml:"value"`
}

// SelfCollisionRule flags a joint configuration as self-colliding when every
// condition holds. Rules are configuration data, not physics.
type SelfCollisionRule struct {
	Name       string           `yaml:"name"`
	Conditions []JointCondition `yaml:"conditions"`
}

// TrackDangerZone is a linear-track interval that either blocks motion or
// only produces a warning.
type TrackDangerZone struct {
	Name  string  `yaml:"name"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Block bool    `yaml:"block_movement"`
}

// ZoneSet bundles all declarative collision/danger regions for a site.
type ZoneSet struct {
	Collision     []Zone              `yaml:"collision_zones"`
	SelfCollision []SelfCollisionRule `yaml:"self_collision_rules"`
	TrackDanger   []TrackDangerZone   `yaml:"track_danger_zones"`
}
