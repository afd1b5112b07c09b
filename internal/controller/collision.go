package controller

import (
	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

// CollisionChecker performs the pre-dispatch collision check for a motion
// command. Implementations must be side-effect free with respect to the
// arm's observable motion state.
type CollisionChecker interface {
	CheckPose(p arm.Pose, speed float64) error
	CheckJoints(j arm.JointVector, speed, accel float64) error
}

// ZoneChecker validates against the declarative zone tables, standing in
// for the hardware planner when no physical robot is present.
type ZoneChecker struct {
	env    safety.Envelope
	zones  safety.ZoneSet
	limits []arm.Range
	errs   errors.Factory
}

// NewZoneChecker builds the simulated collision checker.
func NewZoneChecker(env safety.Envelope, zones safety.ZoneSet, limits []arm.Range) *ZoneChecker {
	return &ZoneChecker{env: env, zones: zones, limits: limits, errs: errors.New()}
}

func (c *ZoneChecker) CheckPose(p arm.Pose, _ float64) error {
	if hit, zone := safety.CheckWorkspaceCollision(p, c.env, c.zones.Collision); hit {
		if zone == "" {
			return c.errs.New(errors.ErrCollisionZone)
		}
		return c.errs.WithData(errors.ErrCollisionZone, zone)
	}

	return nil
}

func (c *ZoneChecker) CheckJoints(j arm.JointVector, _, _ float64) error {
	if hit, rule := safety.CheckJointCollision(j, c.limits, c.zones.SelfCollision); hit {
		if rule == "" {
			return c.errs.New(errors.ErrSelfCollision)
		}
		return c.errs.WithData(errors.ErrSelfCollision, rule)
	}

	return nil
}

// DriverChecker runs the command through the driver's dry-run mode so the
// hardware planner performs the collision check without moving.
type DriverChecker struct {
	drv  driver.Driver
	errs errors.Factory
}

// NewDriverChecker builds the hardware collision checker.
func NewDriverChecker(drv driver.Driver) *DriverChecker {
	return &DriverChecker{drv: drv, errs: errors.New()}
}

func (c *DriverChecker) CheckPose(p arm.Pose, speed float64) error {
	if err := c.drv.SetCheckOnly(true); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	defer c.drv.SetCheckOnly(false) //nolint:errcheck // best effort restore

	if err := c.drv.SetPose(p, speed, false, false); err != nil {
		return c.errs.Wrap(errors.ErrCollisionZone, err)
	}

	return nil
}

func (c *DriverChecker) CheckJoints(j arm.JointVector, speed, accel float64) error {
	if err := c.drv.SetCheckOnly(true); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	defer c.drv.SetCheckOnly(false) //nolint:errcheck // best effort restore

	if err := c.drv.SetJointAngles(j, speed, accel, false); err != nil {
		return c.errs.Wrap(errors.ErrSelfCollision, err)
	}

	return nil
}
