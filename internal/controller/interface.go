package controller

import (
	"github.com/benbjohnson/clock"
	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
)

// Speeds are the session motion parameters. They are clamped against the
// resolved envelope at construction and may be reduced further by
// speed-limit recovery.
type Speeds struct {
	TCPSpeed   float64 // mm/s
	TCPAccel   float64 // mm/s²
	JointSpeed float64 // deg/s
	JointAccel float64 // deg/s²
}

// DefaultSpeeds returns the stock motion parameters.
func DefaultSpeeds() Speeds {
	return Speeds{
		TCPSpeed:   100,
		TCPAccel:   2000,
		JointSpeed: 20,
		JointAccel: 500,
	}
}

// Location is a named target: either a Cartesian pose or a joint vector.
type Location struct {
	Pose   *arm.Pose
	Joints arm.JointVector
}

// ForceTorqueConfig bounds the force/torque sensor paths.
type ForceTorqueConfig struct {
	MaxForce  float64 // N, safety threshold on force magnitude
	MaxTorque float64 // Nm, safety threshold on torque magnitude
	DeadZone  float64 // readings below this magnitude have no direction
}

// DefaultForceTorqueConfig returns the stock sensor bounds.
func DefaultForceTorqueConfig() ForceTorqueConfig {
	return ForceTorqueConfig{
		MaxForce:  50,
		MaxTorque: 10,
		DeadZone:  0.5,
	}
}

// Config assembles everything the controller needs beyond the driver and
// the resolved envelope.
type Config struct {
	Model       arm.Model
	Gripper     driver.GripperKind
	EnableTrack bool
	SafetyLevel arm.SafetyLevel

	Speeds       Speeds
	GripperSpeed float64
	TrackSpeed   float64

	// Track travel and speed limits.
	TrackLimit      arm.Range
	TrackSpeedLimit arm.Range

	MaxRecoveryAttempts int

	Locations   map[string]Location
	ForceTorque ForceTorqueConfig

	// Checker decides pre-dispatch collision checking. Nil selects the
	// zone-table checker, which is the simulated-driver default; real
	// deployments pass a DriverChecker so the hardware planner decides.
	Checker CollisionChecker

	// Clock defaults to the wall clock; tests inject a mock.
	Clock clock.Clock
}

// DefaultConfig returns a controller configuration for the given model with
// stock parameters.
func DefaultConfig(model arm.Model) Config {
	return Config{
		Model:               model,
		Gripper:             driver.GripperBio,
		EnableTrack:         true,
		SafetyLevel:         arm.SafetyMedium,
		Speeds:              DefaultSpeeds(),
		GripperSpeed:        300,
		TrackSpeed:          200,
		TrackLimit:          arm.Range{Min: 0, Max: 700},
		TrackSpeedLimit:     arm.Range{Min: 1, Max: 1000},
		MaxRecoveryAttempts: defaultMaxRecoveryAttempts,
		ForceTorque:         DefaultForceTorqueConfig(),
	}
}

// MoveOptions tune a single motion command. The zero value is not useful;
// start from DefaultMoveOptions.
type MoveOptions struct {
	Speed          float64 // 0 means the session default
	Accel          float64 // 0 means the session default
	CheckCollision bool
	Wait           bool
}

// DefaultMoveOptions enables collision checking and completion waiting.
func DefaultMoveOptions() MoveOptions {
	return MoveOptions{CheckCollision: true, Wait: true}
}
