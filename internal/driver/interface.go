package driver

import (
	"github.com/cyrilcaoyang/xarmctl/internal/arm"
)

// Mode and state values of the vendor controller.
const (
	ModePosition = 0
	ModeVelocity = 5

	StateReady      = 0
	StateStopped    = 4
	StateRecovering = 5
)

// GripperKind selects the gripper family the primitive addresses.
type GripperKind string

const (
	GripperBio      GripperKind = "bio"
	GripperStandard GripperKind = "standard"
	GripperRobotiq  GripperKind = "robotiq"
	GripperNone     GripperKind = "none"
)

// EventType distinguishes the two notification streams of the vendor driver.
type EventType int

const (
	EventFault EventType = iota
	EventState
)

// Event is one asynchronous notification from the driver. Fault events carry
// the fault and warning codes; state events carry the new controller state.
type Event struct {
	Type      EventType
	FaultCode int
	WarnCode  int
	State     int
}

// Status is a point-in-time snapshot of the vendor controller.
type Status struct {
	Connected bool
	State     int
	Mode      int
	FaultCode int
	WarnCode  int
}

// Driver is the complete operation set this layer consumes from the vendor
// hardware driver. The simulated implementation reproduces every code path
// the core calls; the real implementation wraps the vendor SDK and is
// supplied by the embedding process.
type Driver interface {
	// Connection
	Connect() error
	Disconnect() error
	Status() (Status, error)

	// Fault management
	ClearFault() error
	ClearWarning() error
	EmergencyStop() error

	// Motion setup
	EnableMotion(enable bool) error
	SetMode(mode int) error
	SetState(state int) error
	// SetCheckOnly switches the driver into dry-run mode: motion commands
	// are planned and collision-checked but not executed.
	SetCheckOnly(on bool) error

	// Motion
	SetJointAngles(angles arm.JointVector, speed, accel float64, wait bool) error
	SetPose(p arm.Pose, speed float64, wait, relative bool) error
	GoHome(wait bool) error
	SetCartesianVelocity(v [6]float64) error
	SetJointVelocity(v []float64) error

	// Readback
	Position() (arm.Pose, error)
	JointAngles() (arm.JointVector, error)
	Temperatures() ([]float64, error)
	JointTorques() ([]float64, error)
	JointCurrents() ([]float64, error)

	// Gripper primitives
	EnableGripper(kind GripperKind, enable bool) error
	OpenGripper(kind GripperKind, speed float64, wait bool) error
	CloseGripper(kind GripperKind, speed float64, wait bool) error

	// Linear track primitives
	EnableTrack(enable bool) error
	SetTrackSpeed(speed float64) error
	SetTrackPosition(pos, speed float64, wait bool) error
	TrackPosition() (float64, error)

	// Force/torque sensor primitives
	EnableForceTorque(enable bool) error
	CalibrateForceTorque() error
	ReadForceTorque() ([6]float64, error)

	// Events returns the bounded notification stream. The channel lives for
	// the lifetime of the driver value and survives reconnects; when the
	// buffer is full the driver drops the oldest event.
	Events() <-chan Event
}
