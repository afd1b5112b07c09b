package safety

import (
	"fmt"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
)

// Resolve clamps the user safety configuration against the hardware envelope.
// Ranges are tightened toward the hardware bound, scalars are capped, and
// every altered field produces a Warning. The result is guaranteed to be a
// subset of hw. Pure and deterministic.
func Resolve(user Config, hw arm.HardwareLimits) (Envelope, []Warning) {
	var warnings []Warning

	clampRange := func(field string, u, h arm.Range) arm.Range {
		clamped := u.Intersect(h)
		if clamped != u {
			warnings = append(warnings, Warning{
				Field:    field,
				Original: u.String(),
				Clamped:  clamped.String(),
			})
		}

		return clamped
	}

	capScalar := func(field string, u, h float64) float64 {
		if u > h {
			warnings = append(warnings, Warning{
				Field:    field,
				Original: fmt.Sprintf("%g", u),
				Clamped:  fmt.Sprintf("%g", h),
			})
			return h
		}

		return u
	}

	env := Envelope{
		Workspace: arm.Workspace{
			X:     clampRange("workspace.x", user.Workspace.X, hw.Workspace.X),
			Y:     clampRange("workspace.y", user.Workspace.Y, hw.Workspace.Y),
			Z:     clampRange("workspace.z", user.Workspace.Z, hw.Workspace.Z),
			Roll:  clampRange("workspace.roll", user.Workspace.Roll, hw.Workspace.Roll),
			Pitch: clampRange("workspace.pitch", user.Workspace.Pitch, hw.Workspace.Pitch),
			Yaw:   clampRange("workspace.yaw", user.Workspace.Yaw, hw.Workspace.Yaw),
		},
		MaxTCPSpeed:   capScalar("max_tcp_speed", user.MaxTCPSpeed, hw.MaxTCPSpeed),
		MaxJointSpeed: capScalar("max_joint_speed", user.MaxJointSpeed, hw.MaxJointSpeed),
		Temperature: arm.TemperatureThresholds{
			Warning:  capScalar("temperature.warning", user.Temperature.Warning, hw.Temperature.Warning),
			Critical: capScalar("temperature.critical", user.Temperature.Critical, hw.Temperature.Critical),
		},
	}

	sens := arm.Clamp(user.CollisionSensitivity, hw.CollisionSensitivity.Min, hw.CollisionSensitivity.Max)
	if sens != user.CollisionSensitivity {
		warnings = append(warnings, Warning{
			Field:    "collision_sensitivity",
			Original: fmt.Sprintf("%g", user.CollisionSensitivity),
			Clamped:  fmt.Sprintf("%g", sens),
		})
	}
	env.CollisionSensitivity = sens

	return env, warnings
}

// DefaultConfig returns the user-level safety defaults applied when the
// configuration omits the safety section entirely.
func DefaultConfig() Config {
	return Config{
		Workspace:            arm.DefaultWorkspace,
		MaxTCPSpeed:          arm.DefaultMaxTCPSpeed,
		MaxJointSpeed:        arm.DefaultMaxJointSpeed,
		CollisionSensitivity: arm.DefaultCollisionSensitivity,
		Temperature:          arm.DefaultTemperature,
	}
}

// SpeedCaps scales the envelope's speed limits by the safety level
// multiplier. These are the effective caps for the session.
func SpeedCaps(env Envelope, level arm.SafetyLevel) (tcpSpeed, jointSpeed float64) {
	m := level.Multiplier()
	return env.MaxTCPSpeed * m, env.MaxJointSpeed * m
}
