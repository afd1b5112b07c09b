package driver

import (
	"sync"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
)

const eventBufferSize = 32

// Default readings reported by the simulated arm per joint.
const (
	simTemperature = 35.0 // °C
	simTorque      = 5.0  // Nm
	simCurrent     = 0.5  // A
)

// Sim is the in-memory driver. It stores the last commanded joint vector,
// pose and track position, reports success for every primitive, and lets
// tests push fault and state events through the same channel the real
// driver would use.
type Sim struct {
	model arm.Model

	mu        sync.Mutex
	connected bool
	state     int
	mode      int
	faultCode int
	warnCode  int
	checkOnly bool

	pose     arm.Pose
	joints   arm.JointVector
	trackPos float64

	ftEnabled    bool
	ftCalibrated bool
	ftReading    [6]float64

	events chan Event
	errs   errors.Factory
}

var _ Driver = (*Sim)(nil)

// NewSim creates a simulated driver for the given model, parked at the
// stock home pose.
func NewSim(model arm.Model) *Sim {
	return &Sim{
		model:  model,
		pose:   arm.Pose{X: 300, Y: 0, Z: 300, Roll: 180, Pitch: 0, Yaw: 0},
		joints: make(arm.JointVector, model.JointCount()),
		events: make(chan Event, eventBufferSize),
		errs:   errors.New(),
	}
}

func (s *Sim) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.state = StateReady

	return nil
}

func (s *Sim) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false

	return nil
}

func (s *Sim) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Connected: s.connected,
		State:     s.state,
		Mode:      s.mode,
		FaultCode: s.faultCode,
		WarnCode:  s.warnCode,
	}, nil
}

func (s *Sim) ClearFault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faultCode = 0

	return nil
}

func (s *Sim) ClearWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnCode = 0

	return nil
}

func (s *Sim) EmergencyStop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateStopped

	return nil
}

func (s *Sim) EnableMotion(bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady

	return nil
}

func (s *Sim) SetMode(mode int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode

	return nil
}

func (s *Sim) SetState(state int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state

	return nil
}

func (s *Sim) SetCheckOnly(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOnly = on

	return nil
}

func (s *Sim) SetJointAngles(angles arm.JointVector, _, _ float64, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return s.errs.New(errors.ErrNotConnected)
	}
	if s.checkOnly {
		return nil
	}

	n := s.model.JointCount()
	if len(angles) < n {
		return s.errs.WithData(errors.ErrInvalidArgument, len(angles))
	}
	s.joints = append(arm.JointVector(nil), angles[:n]...)

	return nil
}

func (s *Sim) SetPose(p arm.Pose, _ float64, _, relative bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return s.errs.New(errors.ErrNotConnected)
	}
	if s.checkOnly {
		return nil
	}

	if relative {
		p = s.pose.Add(p)
	}
	s.pose = p

	return nil
}

func (s *Sim) GoHome(bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return s.errs.New(errors.ErrNotConnected)
	}
	s.joints = make(arm.JointVector, s.model.JointCount())
	s.pose = arm.Pose{X: 300, Y: 0, Z: 300, Roll: 180, Pitch: 0, Yaw: 0}

	return nil
}

func (s *Sim) SetCartesianVelocity([6]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return s.errs.New(errors.ErrNotConnected)
	}

	return nil
}

func (s *Sim) SetJointVelocity([]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return s.errs.New(errors.ErrNotConnected)
	}

	return nil
}

func (s *Sim) Position() (arm.Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pose, nil
}

func (s *Sim) JointAngles() (arm.JointVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(arm.JointVector(nil), s.joints...), nil
}

func (s *Sim) Temperatures() ([]float64, error) {
	return s.perJoint(simTemperature), nil
}

func (s *Sim) JointTorques() ([]float64, error) {
	return s.perJoint(simTorque), nil
}

func (s *Sim) JointCurrents() ([]float64, error) {
	return s.perJoint(simCurrent), nil
}

func (s *Sim) perJoint(v float64) []float64 {
	out := make([]float64, s.model.JointCount())
	for i := range out {
		out[i] = v
	}

	return out
}

func (s *Sim) EnableGripper(GripperKind, bool) error {
	return nil
}

func (s *Sim) OpenGripper(GripperKind, float64, bool) error {
	return nil
}

func (s *Sim) CloseGripper(GripperKind, float64, bool) error {
	return nil
}

func (s *Sim) EnableTrack(bool) error {
	return nil
}

func (s *Sim) SetTrackSpeed(float64) error {
	return nil
}

func (s *Sim) SetTrackPosition(pos, _ float64, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackPos = pos

	return nil
}

func (s *Sim) TrackPosition() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.trackPos, nil
}

func (s *Sim) EnableForceTorque(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ftEnabled = enable
	if !enable {
		s.ftCalibrated = false
	}

	return nil
}

func (s *Sim) CalibrateForceTorque() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ftEnabled {
		return s.errs.New(errors.ErrComponentDisabled)
	}
	s.ftCalibrated = true
	s.ftReading = [6]float64{}

	return nil
}

func (s *Sim) ReadForceTorque() ([6]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ftEnabled {
		return [6]float64{}, s.errs.New(errors.ErrComponentDisabled)
	}

	return s.ftReading, nil
}

// SetForceTorqueReading overrides the sensor output, letting tests drive the
// force-guided motion paths.
func (s *Sim) SetForceTorqueReading(reading [6]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ftReading = reading
}

func (s *Sim) Events() <-chan Event {
	return s.events
}

// InjectFault pushes a fault notification, standing in for the hardware
// callback. The fault code also becomes visible through Status until cleared.
func (s *Sim) InjectFault(faultCode, warnCode int) {
	s.mu.Lock()
	s.faultCode = faultCode
	s.warnCode = warnCode
	s.mu.Unlock()

	s.push(Event{Type: EventFault, FaultCode: faultCode, WarnCode: warnCode})
}

// InjectState pushes a state-changed notification.
func (s *Sim) InjectState(state int) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.push(Event{Type: EventState, State: state})
}

func (s *Sim) push(ev Event) {
	for {
		select {
		case s.events <- ev:
			return
		default:
			// Full buffer: drop the oldest so fresh faults are never lost.
			select {
			case <-s.events:
			default:
			}
		}
	}
}
