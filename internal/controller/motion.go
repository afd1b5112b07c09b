package controller

import (
	"math"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

// requireMotion gates every motion command: the controller must be alive
// and the arm component enabled. Ordering matters for reporting, a halted
// controller is named before a disabled component.
func (c *Controller) requireMotion() error {
	c.mu.Lock()
	alive := c.alive
	c.mu.Unlock()

	if !alive {
		return c.errs.New(errors.ErrControllerHalted)
	}

	return c.requireEnabled(ComponentArm)
}

// resolveCartesian fills zero speed and acceleration from the session
// defaults and validates the result against the effective caps.
func (c *Controller) resolveCartesian(opts MoveOptions) (speed, accel float64, err error) {
	c.mu.Lock()
	session := c.speeds
	c.mu.Unlock()

	speed, accel = opts.Speed, opts.Accel
	if speed == 0 {
		speed = session.TCPSpeed
	}
	if accel == 0 {
		accel = session.TCPAccel
	}

	maxTCP, _ := safety.SpeedCaps(c.env, c.cfg.SafetyLevel)
	if err := safety.ValidateSpeed("tcp speed", speed, arm.Range{Min: 1, Max: maxTCP}); err != nil {
		return 0, 0, c.errs.Wrap(errors.ErrSpeedOutOfRange, err)
	}

	return speed, accel, nil
}

// resolveJoint is the joint-space counterpart of resolveCartesian.
func (c *Controller) resolveJoint(opts MoveOptions) (speed, accel float64, err error) {
	c.mu.Lock()
	session := c.speeds
	c.mu.Unlock()

	speed, accel = opts.Speed, opts.Accel
	if speed == 0 {
		speed = session.JointSpeed
	}
	if accel == 0 {
		accel = session.JointAccel
	}

	_, maxJoint := safety.SpeedCaps(c.env, c.cfg.SafetyLevel)
	if err := safety.ValidateSpeed("joint speed", speed, arm.Range{Min: 1, Max: maxJoint}); err != nil {
		return 0, 0, c.errs.Wrap(errors.ErrSpeedOutOfRange, err)
	}

	return speed, accel, nil
}

// MoveToPose validates the target against the envelope, runs the collision
// check unless disabled, and dispatches the Cartesian move.
func (c *Controller) MoveToPose(target arm.Pose, opts MoveOptions) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	speed, _, err := c.resolveCartesian(opts)
	if err != nil {
		return err
	}

	if err := safety.ValidatePose(target, c.env); err != nil {
		return c.errs.Wrap(errors.ErrPoseOutOfBounds, err)
	}
	if opts.CheckCollision {
		if err := c.checker.CheckPose(target, speed); err != nil {
			return err
		}
	}

	start := c.clk.Now()
	err = c.drv.SetPose(target, speed, opts.Wait, false)
	c.metrics.RecordCycle(c.clk.Since(start), err == nil)

	if err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	if opts.Wait {
		c.recordAccuracy(target)
	}
	c.refreshPositions()

	logger.Debug().
		Float64("x", target.X).Float64("y", target.Y).Float64("z", target.Z).
		Float64("speed", speed).
		Msg("Pose command completed")

	return nil
}

// MoveRelative offsets the current pose by delta and runs the full
// MoveToPose validation on the absolute result. A relative move can never
// bypass the envelope.
func (c *Controller) MoveRelative(delta arm.Pose, opts MoveOptions) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	current, err := c.drv.Position()
	if err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	return c.MoveToPose(current.Add(delta), opts)
}

// MoveJoints validates the joint vector against the model limit table, runs
// the collision check unless disabled, and dispatches the joint-space move.
func (c *Controller) MoveJoints(joints arm.JointVector, opts MoveOptions) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	speed, accel, err := c.resolveJoint(opts)
	if err != nil {
		return err
	}

	if err := safety.ValidateJoints(joints, c.jointLimits); err != nil {
		return c.errs.Wrap(errors.ErrJointOutOfRange, err)
	}
	if opts.CheckCollision {
		if err := c.checker.CheckJoints(joints, speed, accel); err != nil {
			return err
		}
	}

	start := c.clk.Now()
	err = c.drv.SetJointAngles(joints, speed, accel, opts.Wait)
	c.metrics.RecordCycle(c.clk.Since(start), err == nil)

	if err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	c.refreshPositions()

	return nil
}

// MoveSingleJoint moves one joint while holding the others at their current
// angles. Joint is 1-based to match the reporting convention.
func (c *Controller) MoveSingleJoint(joint int, angle float64, opts MoveOptions) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	if joint < 1 || joint > c.cfg.Model.JointCount() {
		return c.errs.WithData(errors.ErrInvalidArgument, joint)
	}

	current, err := c.drv.JointAngles()
	if err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	target := make(arm.JointVector, len(current))
	copy(target, current)
	target[joint-1] = angle

	return c.MoveJoints(target, opts)
}

// MoveToLocation resolves a named location from the configuration and moves
// to it through the pose or joint path.
func (c *Controller) MoveToLocation(name string, opts MoveOptions) error {
	loc, ok := c.cfg.Locations[name]
	if !ok {
		return c.errs.WithData(errors.ErrUnknownLocation, name)
	}

	if loc.Pose != nil {
		return c.MoveToPose(*loc.Pose, opts)
	}
	if len(loc.Joints) > 0 {
		return c.MoveJoints(loc.Joints, opts)
	}

	return c.errs.WithMessage(errors.ErrInvalidConfig, "location defines neither pose nor joints")
}

// GoHome retracts the arm to the factory home position.
func (c *Controller) GoHome(wait bool) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	start := c.clk.Now()
	err := c.drv.GoHome(wait)
	c.metrics.RecordCycle(c.clk.Since(start), err == nil)

	if err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	c.refreshPositions()

	return nil
}

// SetCartesianVelocity switches the arm into velocity mode and streams a
// Cartesian jog. The linear components are bounded by the effective TCP
// speed cap; stop by sending the zero vector.
func (c *Controller) SetCartesianVelocity(v [6]float64) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	maxTCP, _ := safety.SpeedCaps(c.env, c.cfg.SafetyLevel)
	linear := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if linear > maxTCP {
		return c.errs.Wrap(errors.ErrSpeedOutOfRange,
			&safety.SpeedError{Kind: "tcp velocity", Value: linear, Limit: arm.Range{Min: 0, Max: maxTCP}})
	}

	if err := c.drv.SetMode(driver.ModeVelocity); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	if err := c.drv.SetCartesianVelocity(v); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	return nil
}

// SetJointVelocity is the joint-space jog counterpart of
// SetCartesianVelocity. Every component is bounded by the effective joint
// speed cap.
func (c *Controller) SetJointVelocity(v []float64) error {
	if err := c.requireMotion(); err != nil {
		return err
	}

	_, maxJoint := safety.SpeedCaps(c.env, c.cfg.SafetyLevel)
	for i, jv := range v {
		if math.Abs(jv) > maxJoint {
			return c.errs.Wrap(errors.ErrSpeedOutOfRange,
				&safety.JointError{Joint: i + 1, Value: jv, Limit: arm.Range{Min: -maxJoint, Max: maxJoint}})
		}
	}

	if err := c.drv.SetMode(driver.ModeVelocity); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	if err := c.drv.SetJointVelocity(v); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	return nil
}

// StopVelocity zeroes any running jog and restores position mode.
func (c *Controller) StopVelocity() error {
	if err := c.drv.SetCartesianVelocity([6]float64{}); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	if err := c.drv.SetMode(driver.ModePosition); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	return nil
}

// recordAccuracy compares the commanded pose with the reported one and
// feeds the linear distance into the accuracy window. Best effort, readback
// failures are ignored.
func (c *Controller) recordAccuracy(target arm.Pose) {
	actual, err := c.drv.Position()
	if err != nil {
		return
	}

	dx := actual.X - target.X
	dy := actual.Y - target.Y
	dz := actual.Z - target.Z
	c.metrics.RecordAccuracyError(math.Sqrt(dx*dx + dy*dy + dz*dz))
}
