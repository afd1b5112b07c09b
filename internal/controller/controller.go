package controller

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

// The controller is the monitor's alert sink.
var _ monitor.Sink = (*Controller)(nil)

// Controller owns all mutable state of the motion layer: the component
// state machine, error history, recovery counters and session speeds. One
// controller per arm; all subsystems receive it by reference, there are no
// package globals.
type Controller struct {
	cfg         Config
	drv         driver.Driver
	env         safety.Envelope
	zones       safety.ZoneSet
	jointLimits []arm.Range
	checker     CollisionChecker
	states      *stateTracker
	hist        *history
	metrics     *monitor.Metrics
	clk         clock.Clock
	errs        errors.Factory

	mu            sync.Mutex
	alive         bool
	speeds        Speeds
	attempts      map[int]int
	lastFaultCode int
	lastWarnCode  int
	lastPose      arm.Pose
	lastJoints    arm.JointVector
	lastTrackPos  float64
	ftCalibrated  bool
}

// New assembles a controller around a driver and a resolved envelope. The
// session speeds are clamped against the envelope scaled by the safety
// level before first use.
func New(cfg Config, drv driver.Driver, env safety.Envelope, zones safety.ZoneSet) *Controller {
	if cfg.MaxRecoveryAttempts <= 0 {
		cfg.MaxRecoveryAttempts = defaultMaxRecoveryAttempts
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	limits := arm.JointLimits(cfg.Model)

	checker := cfg.Checker
	if checker == nil {
		checker = NewZoneChecker(env, zones, limits)
	}

	c := &Controller{
		cfg:         cfg,
		drv:         drv,
		env:         env,
		zones:       zones,
		jointLimits: limits,
		checker:     checker,
		states:      newStateTracker(),
		hist:        newHistory(),
		metrics:     monitor.NewMetrics(cfg.Model.JointCount()),
		clk:         cfg.Clock,
		errs:        errors.New(),
		alive:       true,
		attempts:    make(map[int]int),
		lastJoints:  make(arm.JointVector, cfg.Model.JointCount()),
	}
	c.speeds = c.clampSpeeds(cfg.Speeds)

	return c
}

// clampSpeeds bounds the session motion parameters to the envelope scaled
// by the safety level, with a floor of 1 so motion stays possible.
func (c *Controller) clampSpeeds(s Speeds) Speeds {
	maxTCP, maxJoint := safety.SpeedCaps(c.env, c.cfg.SafetyLevel)

	clamped := Speeds{
		TCPSpeed:   arm.Clamp(s.TCPSpeed, 1, maxTCP),
		TCPAccel:   arm.Clamp(s.TCPAccel, 1, arm.MaxTCPAccel),
		JointSpeed: arm.Clamp(s.JointSpeed, 1, maxJoint),
		JointAccel: arm.Clamp(s.JointAccel, 1, arm.MaxJointAccel),
	}

	if clamped.TCPSpeed != s.TCPSpeed {
		logger.Warn().
			Float64("configured", s.TCPSpeed).
			Float64("applied", clamped.TCPSpeed).
			Msg("TCP speed limited for safety")
	}
	if clamped.JointSpeed != s.JointSpeed {
		logger.Warn().
			Float64("configured", s.JointSpeed).
			Float64("applied", clamped.JointSpeed).
			Msg("Joint speed limited for safety")
	}

	return clamped
}

// Metrics exposes the rolling performance windows shared with the monitor.
func (c *Controller) Metrics() *monitor.Metrics {
	return c.metrics
}

// Envelope returns the resolved safety envelope in force for the session.
func (c *Controller) Envelope() safety.Envelope {
	return c.env
}

// Initialize connects to the arm, enables motion and, per configuration,
// the gripper and track components.
func (c *Controller) Initialize() error {
	logger.Info().Str("model", c.cfg.Model.String()).Msg("Initializing arm controller")

	c.states.set(ComponentConnection, StateEnabling)
	if err := c.drv.Connect(); err != nil {
		c.states.set(ComponentConnection, StateError)
		return c.errs.Wrap(errors.ErrConnectFailed, err)
	}
	c.states.set(ComponentConnection, StateEnabled)

	if err := c.drv.ClearWarning(); err != nil {
		logger.Warn().Err(err).Msg("clear warning failed during init")
	}
	if err := c.drv.ClearFault(); err != nil {
		logger.Warn().Err(err).Msg("clear fault failed during init")
	}

	if err := c.enableArm(); err != nil {
		return err
	}

	if c.cfg.Gripper != driver.GripperNone {
		if err := c.EnableComponent(ComponentGripper); err != nil {
			logger.Error().Err(err).Msg("gripper enable failed")
		}
	}
	if c.cfg.EnableTrack {
		if err := c.EnableComponent(ComponentTrack); err != nil {
			logger.Error().Err(err).Msg("track enable failed")
		}
	}

	c.refreshPositions()
	logger.Info().Msg("Arm controller initialized")

	return nil
}

func (c *Controller) enableArm() error {
	c.states.set(ComponentArm, StateEnabling)

	if err := c.drv.EnableMotion(true); err != nil {
		c.states.set(ComponentArm, StateError)
		return c.errs.Wrap(errors.ErrEnableFailed, err)
	}
	if err := c.drv.SetMode(driver.ModePosition); err != nil {
		c.states.set(ComponentArm, StateError)
		return c.errs.Wrap(errors.ErrEnableFailed, err)
	}
	if err := c.drv.SetState(driver.StateReady); err != nil {
		c.states.set(ComponentArm, StateError)
		return c.errs.Wrap(errors.ErrEnableFailed, err)
	}

	c.states.set(ComponentArm, StateEnabled)

	return nil
}

// EnableComponent drives the Disabled -> Enabling -> Enabled transition for
// the given component. Enabling an already enabled component is a no-op
// success without touching the driver.
func (c *Controller) EnableComponent(kind ComponentKind) error {
	if c.states.isEnabled(kind) {
		return nil
	}

	c.states.set(kind, StateEnabling)

	var err error
	switch kind {
	case ComponentConnection:
		err = c.drv.Connect()
	case ComponentArm:
		return c.enableArm()
	case ComponentGripper:
		if c.cfg.Gripper == driver.GripperNone {
			c.states.set(kind, StateDisabled)
			return c.errs.WithMessage(errors.ErrEnableFailed, "no gripper configured")
		}
		err = c.drv.EnableGripper(c.cfg.Gripper, true)
	case ComponentTrack:
		if !c.cfg.EnableTrack {
			c.states.set(kind, StateDisabled)
			return c.errs.WithMessage(errors.ErrEnableFailed, "linear track disabled")
		}
		err = c.drv.EnableTrack(true)
	case ComponentForceTorque:
		err = c.drv.EnableForceTorque(true)
	default:
		c.states.set(kind, StateUnknown)
		return c.errs.WithData(errors.ErrUnknownComponent, kind)
	}

	if err != nil {
		c.states.set(kind, StateError)
		return c.errs.Wrap(errors.ErrEnableFailed, err)
	}

	c.states.set(kind, StateEnabled)
	logger.Info().Str("component", string(kind)).Msg("Component enabled")

	return nil
}

// DisableComponent is the mirror of EnableComponent.
func (c *Controller) DisableComponent(kind ComponentKind) error {
	var err error
	switch kind {
	case ComponentConnection:
		err = c.drv.Disconnect()
	case ComponentArm:
		err = c.drv.EnableMotion(false)
	case ComponentGripper:
		if c.cfg.Gripper == driver.GripperNone {
			c.states.set(kind, StateDisabled)
			return nil
		}
		err = c.drv.EnableGripper(c.cfg.Gripper, false)
	case ComponentTrack:
		if !c.cfg.EnableTrack {
			c.states.set(kind, StateDisabled)
			return nil
		}
		err = c.drv.EnableTrack(false)
	case ComponentForceTorque:
		c.mu.Lock()
		c.ftCalibrated = false
		c.mu.Unlock()
		err = c.drv.EnableForceTorque(false)
	default:
		return c.errs.WithData(errors.ErrUnknownComponent, kind)
	}

	if err != nil {
		c.states.set(kind, StateError)
		return c.errs.Wrap(errors.ErrDisableFailed, err)
	}

	c.states.set(kind, StateDisabled)
	logger.Info().Str("component", string(kind)).Msg("Component disabled")

	return nil
}

// IsComponentEnabled is a pure read of the state machine.
func (c *Controller) IsComponentEnabled(kind ComponentKind) bool {
	return c.states.isEnabled(kind)
}

// ComponentStates returns the current state of every component.
func (c *Controller) ComponentStates() map[ComponentKind]ComponentState {
	return c.states.snapshot()
}

// IsAlive reports whether the controller considers the arm safe to command.
func (c *Controller) IsAlive() bool {
	c.mu.Lock()
	alive := c.alive
	c.mu.Unlock()

	if !alive {
		return false
	}

	status, err := c.drv.Status()
	if err != nil {
		return false
	}

	return status.Connected && status.FaultCode == 0 && status.State < driver.StateStopped
}

// requireEnabled guards every operation on a component.
func (c *Controller) requireEnabled(kind ComponentKind) error {
	if !c.states.isEnabled(kind) {
		return c.errs.WithData(errors.ErrComponentDisabled, kind)
	}

	return nil
}

// ClearErrors resets driver faults, the error history, the recovery
// counters and the liveness flag, then re-enables components parked in the
// Error state. This is the only path back to motion after an unrecoverable
// fault.
func (c *Controller) ClearErrors() error {
	if err := c.drv.ClearFault(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	if err := c.drv.ClearWarning(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	c.hist.clear()

	c.mu.Lock()
	c.alive = true
	c.lastFaultCode = 0
	c.lastWarnCode = 0
	c.attempts = make(map[int]int)
	c.mu.Unlock()

	if c.states.get(ComponentArm) == StateError {
		if err := c.enableArm(); err != nil {
			return err
		}
	}
	if c.states.get(ComponentGripper) == StateError {
		if err := c.EnableComponent(ComponentGripper); err != nil {
			return err
		}
	}
	if c.states.get(ComponentTrack) == StateError {
		if err := c.EnableComponent(ComponentTrack); err != nil {
			return err
		}
	}

	logger.Info().Msg("Errors cleared")

	return nil
}

// StopMotion halts the arm immediately.
func (c *Controller) StopMotion() error {
	if err := c.drv.EmergencyStop(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	return nil
}

// Shutdown disconnects from the arm and marks connection and arm disabled.
func (c *Controller) Shutdown() error {
	logger.Info().Msg("Disconnecting arm")
	c.states.set(ComponentConnection, StateDisabled)
	c.states.set(ComponentArm, StateDisabled)

	if err := c.drv.Disconnect(); err != nil {
		return c.errs.Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}

// Run consumes driver notifications until the context is canceled, feeding
// fault events through the recovery dispatcher. Run is the single consumer
// of the event channel; the driver callback thread never mutates controller
// state directly.
func (c *Controller) Run(ctx context.Context) {
	events := c.drv.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handleEvent(ev)
		}
	}
}

// refreshPositions updates the cached pose, joint vector and track position
// from the driver.
func (c *Controller) refreshPositions() {
	pose, err := c.drv.Position()
	if err == nil {
		c.mu.Lock()
		c.lastPose = pose
		c.mu.Unlock()
	}

	joints, err := c.drv.JointAngles()
	if err == nil {
		c.mu.Lock()
		c.lastJoints = joints
		c.mu.Unlock()
	}

	if c.states.isEnabled(ComponentTrack) {
		pos, err := c.drv.TrackPosition()
		if err == nil {
			c.mu.Lock()
			c.lastTrackPos = pos
			c.mu.Unlock()
		}
	}
}
