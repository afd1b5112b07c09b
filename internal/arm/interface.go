package arm

import "fmt"

// Model identifies the robot arm variant. The number matches the joint count
// for the 5/6/7 series; the 850 is a 6-joint machine.
type Model int

const (
	Model5   Model = 5
	Model6   Model = 6
	Model7   Model = 7
	Model850 Model = 850
)

// JointCount returns the number of controllable joints for the model.
func (m Model) JointCount() int {
	switch m {
	case Model5:
		return 5
	case Model7:
		return 7
	default:
		return 6
	}
}

func (m Model) String() string {
	return fmt.Sprintf("xArm%d", int(m))
}

// IsValid reports whether m is a known model.
func (m Model) IsValid() bool {
	switch m {
	case Model5, Model6, Model7, Model850:
		return true
	default:
		return false
	}
}

// Range is an inclusive [Min, Max] interval in the unit of its context
// (millimeters or degrees).
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Intersect tightens r toward other, never loosening either bound.
func (r Range) Intersect(other Range) Range {
	out := r
	if out.Min < other.Min {
		out.Min = other.Min
	}
	if out.Max > other.Max {
		out.Max = other.Max
	}

	return out
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Pose is a Cartesian TCP pose: x/y/z in millimeters, roll/pitch/yaw in
// degrees.
type Pose struct {
	X, Y, Z          float64
	Roll, Pitch, Yaw float64
}

// Array returns the pose as the conventional six-element vector.
func (p Pose) Array() [6]float64 {
	return [6]float64{p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw}
}

// Add returns the pose offset by delta, component-wise.
func (p Pose) Add(delta Pose) Pose {
	return Pose{
		X:     p.X + delta.X,
		Y:     p.Y + delta.Y,
		Z:     p.Z + delta.Z,
		Roll:  p.Roll + delta.Roll,
		Pitch: p.Pitch + delta.Pitch,
		Yaw:   p.Yaw + delta.Yaw,
	}
}

// JointVector is an ordered set of per-joint angles in degrees. Its length
// must be at least the model's joint count; extra entries are ignored.
type JointVector []float64

// Workspace holds the reachable bounds per pose axis.
type Workspace struct {
	X, Y, Z          Range
	Roll, Pitch, Yaw Range
}

// Axes returns the workspace ranges keyed by axis name, in pose order.
func (w Workspace) Axes() []struct {
	Name  string
	Range Range
} {
	return []struct {
		Name  string
		Range Range
	}{
		{"x", w.X}, {"y", w.Y}, {"z", w.Z},
		{"roll", w.Roll}, {"pitch", w.Pitch}, {"yaw", w.Yaw},
	}
}

// TemperatureThresholds holds per-joint temperature alarm levels in Celsius.
type TemperatureThresholds struct {
	Warning  float64
	Critical float64
}

// SafetyLevel scales configured speed caps. Lower levels move slower.
type SafetyLevel int

const (
	SafetyEmergency SafetyLevel = iota
	SafetyHigh
	SafetyMedium
	SafetyLow
)

// Multiplier returns the speed multiplier applied to configured max speeds.
func (l SafetyLevel) Multiplier() float64 {
	switch l {
	case SafetyEmergency:
		return 0.1
	case SafetyHigh:
		return 0.5
	case SafetyMedium:
		return 0.8
	default:
		return 1.0
	}
}

func (l SafetyLevel) String() string {
	switch l {
	case SafetyEmergency:
		return "emergency"
	case SafetyHigh:
		return "high"
	case SafetyMedium:
		return "medium"
	default:
		return "low"
	}
}
