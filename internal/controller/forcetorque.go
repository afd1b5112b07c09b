package controller

import (
	"context"
	"math"
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
)

// ftPollInterval is the guarded-motion sensor sampling period, 100 Hz.
const ftPollInterval = 10 * time.Millisecond

// ForceTorqueReading is one calibrated sensor sample split into its force
// and torque halves.
type ForceTorqueReading struct {
	Force  [3]float64 // N
	Torque [3]float64 // Nm
}

// ForceMagnitude is the Euclidean norm of the force vector.
func (r ForceTorqueReading) ForceMagnitude() float64 {
	return math.Sqrt(r.Force[0]*r.Force[0] + r.Force[1]*r.Force[1] + r.Force[2]*r.Force[2])
}

// TorqueMagnitude is the Euclidean norm of the torque vector.
func (r ForceTorqueReading) TorqueMagnitude() float64 {
	return math.Sqrt(r.Torque[0]*r.Torque[0] + r.Torque[1]*r.Torque[1] + r.Torque[2]*r.Torque[2])
}

// ForceDirection returns the unit vector of the force, or false when the
// magnitude is inside the sensor dead zone and no direction is meaningful.
func (c *Controller) ForceDirection(r ForceTorqueReading) ([3]float64, bool) {
	mag := r.ForceMagnitude()
	if mag < c.cfg.ForceTorque.DeadZone {
		return [3]float64{}, false
	}

	return [3]float64{r.Force[0] / mag, r.Force[1] / mag, r.Force[2] / mag}, true
}

// CalibrateForceTorque zeroes the sensor at the current load. Guarded
// motion refuses to start before calibration.
func (c *Controller) CalibrateForceTorque() error {
	if err := c.requireEnabled(ComponentForceTorque); err != nil {
		return err
	}

	if err := c.drv.CalibrateForceTorque(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	c.mu.Lock()
	c.ftCalibrated = true
	c.mu.Unlock()

	logger.Info().Msg("Force/torque sensor calibrated")

	return nil
}

// ReadForceTorque returns one sensor sample.
func (c *Controller) ReadForceTorque() (ForceTorqueReading, error) {
	if err := c.requireEnabled(ComponentForceTorque); err != nil {
		return ForceTorqueReading{}, err
	}

	raw, err := c.drv.ReadForceTorque()
	if err != nil {
		return ForceTorqueReading{}, c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	return ForceTorqueReading{
		Force:  [3]float64{raw[0], raw[1], raw[2]},
		Torque: [3]float64{raw[3], raw[4], raw[5]},
	}, nil
}

// checkForceSafety rejects readings beyond the configured sensor bounds.
func (c *Controller) checkForceSafety(r ForceTorqueReading) error {
	if f := r.ForceMagnitude(); f > c.cfg.ForceTorque.MaxForce {
		return c.errs.WithData(errors.ErrSafetyViolation, f)
	}
	if t := r.TorqueMagnitude(); t > c.cfg.ForceTorque.MaxTorque {
		return c.errs.WithData(errors.ErrSafetyViolation, t)
	}

	return nil
}

// requireGuardedMotion gates the contact-seeking moves: motion must be
// allowed, the sensor enabled and calibrated.
func (c *Controller) requireGuardedMotion() error {
	if err := c.requireMotion(); err != nil {
		return err
	}
	if err := c.requireEnabled(ComponentForceTorque); err != nil {
		return err
	}

	c.mu.Lock()
	calibrated := c.ftCalibrated
	c.mu.Unlock()
	if !calibrated {
		return c.errs.WithMessage(errors.ErrSafetyViolation, "force/torque sensor not calibrated")
	}

	return nil
}

// MoveUntilForce jogs the arm along direction until the measured force
// magnitude reaches threshold newtons, the context expires or a safety
// bound trips. The velocity is zeroed and position mode restored on every
// exit path.
func (c *Controller) MoveUntilForce(ctx context.Context, direction [3]float64, speed, threshold float64) error {
	if err := c.requireGuardedMotion(); err != nil {
		return err
	}
	if threshold <= 0 || threshold > c.cfg.ForceTorque.MaxForce {
		return c.errs.WithData(errors.ErrInvalidArgument, threshold)
	}

	mag := math.Sqrt(direction[0]*direction[0] + direction[1]*direction[1] + direction[2]*direction[2])
	if mag == 0 {
		return c.errs.WithMessage(errors.ErrInvalidArgument, "zero direction vector")
	}

	v := [6]float64{
		direction[0] / mag * speed,
		direction[1] / mag * speed,
		direction[2] / mag * speed,
	}
	if err := c.SetCartesianVelocity(v); err != nil {
		return err
	}
	defer c.stopGuarded()

	return c.pollUntil(ctx, func(r ForceTorqueReading) bool {
		return r.ForceMagnitude() >= threshold
	})
}

// MoveJointUntilTorque jogs a single joint until the torque magnitude
// reaches threshold, with the same exit guarantees as MoveUntilForce. Joint
// is 1-based; negative speed reverses direction.
func (c *Controller) MoveJointUntilTorque(ctx context.Context, joint int, speed, threshold float64) error {
	if err := c.requireGuardedMotion(); err != nil {
		return err
	}
	if joint < 1 || joint > c.cfg.Model.JointCount() {
		return c.errs.WithData(errors.ErrInvalidArgument, joint)
	}
	if threshold <= 0 || threshold > c.cfg.ForceTorque.MaxTorque {
		return c.errs.WithData(errors.ErrInvalidArgument, threshold)
	}

	v := make([]float64, c.cfg.Model.JointCount())
	v[joint-1] = speed
	if err := c.SetJointVelocity(v); err != nil {
		return err
	}
	defer c.stopGuarded()

	return c.pollUntil(ctx, func(r ForceTorqueReading) bool {
		return r.TorqueMagnitude() >= threshold
	})
}

// pollUntil samples the sensor at 100 Hz until done reports true. Context
// cancellation maps to a timeout error; a safety bound trip aborts with the
// violation.
func (c *Controller) pollUntil(ctx context.Context, done func(ForceTorqueReading) bool) error {
	ticker := c.clk.Ticker(ftPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return c.errs.Wrap(errors.ErrTimeout, ctx.Err())
		case <-ticker.C:
			reading, err := c.ReadForceTorque()
			if err != nil {
				return err
			}
			if err := c.checkForceSafety(reading); err != nil {
				return err
			}
			if done(reading) {
				return nil
			}
		}
	}
}

// stopGuarded zeroes the velocity and restores position mode. Failures are
// logged, not returned, so deferred cleanup never masks the primary error.
func (c *Controller) stopGuarded() {
	if err := c.drv.SetCartesianVelocity([6]float64{}); err != nil {
		logger.Error().Err(err).Msg("failed to zero velocity after guarded motion")
	}
	if err := c.drv.SetMode(driver.ModePosition); err != nil {
		logger.Error().Err(err).Msg("failed to restore position mode after guarded motion")
	}
}
