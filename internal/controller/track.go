package controller

import (
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
)

// MoveTrack validates the target against the travel limits and the danger
// zone table, then moves the linear track. Non-blocking danger zones are
// crossed with a warning; blocking zones reject the command.
func (c *Controller) MoveTrack(pos float64, speed float64, wait bool) error {
	if err := c.requireEnabled(ComponentTrack); err != nil {
		return err
	}

	if speed == 0 {
		speed = c.cfg.TrackSpeed
	}
	if err := safety.ValidateSpeed("track speed", speed, c.cfg.TrackSpeedLimit); err != nil {
		return c.errs.Wrap(errors.ErrSpeedOutOfRange, err)
	}

	warnings, err := safety.ValidateTrackPosition(pos, c.cfg.TrackLimit, c.zones.TrackDanger)
	if err != nil {
		var trackErr *safety.TrackError
		if errors.As(err, &trackErr) && trackErr.Zone != "" {
			return c.errs.Wrap(errors.ErrTrackDangerZone, err)
		}
		return c.errs.Wrap(errors.ErrTrackOutOfRange, err)
	}
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	if err := c.drv.SetTrackPosition(pos, speed, wait); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	c.mu.Lock()
	c.lastTrackPos = pos
	c.mu.Unlock()

	logger.Debug().Float64("position", pos).Float64("speed", speed).Msg("Track moved")

	return nil
}

// ResetTrack returns the track to its origin.
func (c *Controller) ResetTrack(wait bool) error {
	return c.MoveTrack(c.cfg.TrackLimit.Min, c.cfg.TrackSpeed, wait)
}

// TrackPosition reads the current track position from the driver.
func (c *Controller) TrackPosition() (float64, error) {
	if err := c.requireEnabled(ComponentTrack); err != nil {
		return 0, err
	}

	pos, err := c.drv.TrackPosition()
	if err != nil {
		return 0, c.errs.Wrap(errors.ErrOperationFailed, err)
	}

	c.mu.Lock()
	c.lastTrackPos = pos
	c.mu.Unlock()

	return pos, nil
}
