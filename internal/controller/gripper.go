package controller

import (
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
)

// OpenGripper opens the configured gripper at the session gripper speed.
func (c *Controller) OpenGripper(wait bool) error {
	if err := c.requireEnabled(ComponentGripper); err != nil {
		return err
	}

	if err := c.drv.OpenGripper(c.cfg.Gripper, c.cfg.GripperSpeed, wait); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	logger.Debug().Str("gripper", string(c.cfg.Gripper)).Msg("Gripper opened")

	return nil
}

// CloseGripper closes the configured gripper at the session gripper speed.
func (c *Controller) CloseGripper(wait bool) error {
	if err := c.requireEnabled(ComponentGripper); err != nil {
		return err
	}

	if err := c.drv.CloseGripper(c.cfg.Gripper, c.cfg.GripperSpeed, wait); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	logger.Debug().Str("gripper", string(c.cfg.Gripper)).Msg("Gripper closed")

	return nil
}
