package arm

// HardwareLimits describes the absolute physical envelope of the machine.
// User safety configuration may tighten these bounds but never exceed them.
type HardwareLimits struct {
	Workspace            Workspace
	MaxTCPSpeed          float64 // mm/s
	MaxJointSpeed        float64 // deg/s
	Temperature          TemperatureThresholds
	CollisionSensitivity Range
}

// Hardware is the compiled-in envelope shared by all supported models.
var Hardware = HardwareLimits{
	Workspace: Workspace{
		X:     Range{-800, 800},
		Y:     Range{-800, 800},
		Z:     Range{-400, 850},
		Roll:  Range{-360, 360},
		Pitch: Range{-180, 180},
		Yaw:   Range{-360, 360},
	},
	MaxTCPSpeed:   1500,
	MaxJointSpeed: 200,
	Temperature: TemperatureThresholds{
		Warning:  80,
		Critical: 95,
	},
	CollisionSensitivity: Range{0, 5},
}

// jointLimitTable maps each model to its per-joint angle ranges in degrees.
// The 850 shares the 6-joint kinematics of the xArm6.
var jointLimitTable = map[Model][]Range{
	Model5: {
		{-360, 360}, {-118, 120}, {-225, 11}, {-180, 180}, {-180, 180},
	},
	Model6: {
		{-360, 360}, {-118, 120}, {-225, 11}, {-180, 180}, {-180, 180}, {-360, 360},
	},
	Model7: {
		{-360, 360}, {-118, 120}, {-225, 11}, {-180, 180}, {-180, 180}, {-360, 360}, {-180, 180},
	},
}

// JointLimits returns the per-joint angle ranges for the model. Unknown
// models fall back to the 7-joint table.
func JointLimits(m Model) []Range {
	if m == Model850 {
		return jointLimitTable[Model6]
	}
	if limits, ok := jointLimitTable[m]; ok {
		return limits
	}

	return jointLimitTable[Model7]
}

// Default user-level safety values, used when configuration omits a field.
var (
	DefaultWorkspace = Workspace{
		X:     Range{-700, 700},
		Y:     Range{-700, 700},
		Z:     Range{-200, 700},
		Roll:  Range{-180, 180},
		Pitch: Range{-180, 180},
		Yaw:   Range{-180, 180},
	}

	DefaultTemperature = TemperatureThresholds{
		Warning:  60,
		Critical: 75,
	}
)

const (
	DefaultMaxTCPSpeed          = 1000 // mm/s
	DefaultMaxJointSpeed        = 180  // deg/s
	DefaultCollisionSensitivity = 3

	// Acceleration ceilings of the machine.
	MaxTCPAccel   = 50000 // mm/s²
	MaxJointAccel = 1145  // deg/s²
)

// Clamp bounds v to [minValue, maxValue].
func Clamp(v, minValue, maxValue float64) float64 {
	if v < minValue {
		return minValue
	}
	if v > maxValue {
		return maxValue
	}

	return v
}
