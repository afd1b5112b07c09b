package controller

import (
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
)

// defaultMaxRecoveryAttempts bounds automated recovery per fault code.
// Exceeding it parks the arm until ClearErrors.
const defaultMaxRecoveryAttempts = 3

// recoveryKind is the closed set of automated recovery strategies.
type recoveryKind int

const (
	recoverNone recoveryKind = iota
	recoverCollision
	recoverJointLimit
	recoverHardJointLimit
	recoverJointSpeed
	recoverTCPSpeed
	recoverCommunication
	recoverState
)

func (k recoveryKind) String() string {
	switch k {
	case recoverCollision:
		return "collision"
	case recoverJointLimit:
		return "joint_limit"
	case recoverHardJointLimit:
		return "hard_joint_limit"
	case recoverJointSpeed:
		return "joint_speed"
	case recoverTCPSpeed:
		return "tcp_speed"
	case recoverCommunication:
		return "communication"
	case recoverState:
		return "state"
	default:
		return "none"
	}
}

// Vendor fault codes with an automated recovery strategy. Anything not in
// the table is unrecoverable and parks the arm.
var faultStrategies = map[int]recoveryKind{
	1:  recoverCommunication,
	2:  recoverCommunication,
	4:  recoverState,
	23: recoverJointLimit,
	24: recoverJointSpeed,
	31: recoverCollision,
	38: recoverHardJointLimit,
	60: recoverTCPSpeed,
}

// handleFault records the fault, then runs the matching recovery strategy
// with a bounded attempt count per fault code. A successful recovery resets
// that code's counter; exhaustion or an unknown code marks the arm
// unrecoverable until ClearErrors.
func (c *Controller) handleFault(faultCode, warnCode int) {
	c.hist.append(ErrorRecord{
		Timestamp: c.clk.Now(),
		Kind:      RecordFault,
		FaultCode: faultCode,
		WarnCode:  warnCode,
	})

	c.mu.Lock()
	c.lastFaultCode = faultCode
	c.lastWarnCode = warnCode
	c.mu.Unlock()

	kind, known := faultStrategies[faultCode]
	if !known {
		logger.Error().
			Int("fault_code", faultCode).
			Msg("No recovery strategy for fault")
		c.park(faultCode)
		return
	}

	c.mu.Lock()
	attempts := c.attempts[faultCode]
	if attempts >= c.cfg.MaxRecoveryAttempts {
		c.mu.Unlock()
		logger.Error().
			Int("fault_code", faultCode).
			Int("attempts", attempts).
			Msg("Recovery attempts exhausted")
		c.park(faultCode)
		return
	}
	c.attempts[faultCode] = attempts + 1
	c.mu.Unlock()

	logger.Warn().
		Int("fault_code", faultCode).
		Str("strategy", kind.String()).
		Int("attempt", attempts+1).
		Int("max_attempts", c.cfg.MaxRecoveryAttempts).
		Msg("Attempting fault recovery")

	if err := c.recover(kind); err != nil {
		logger.Error().
			Err(err).
			Int("fault_code", faultCode).
			Str("strategy", kind.String()).
			Msg("Recovery failed")
		return
	}

	c.mu.Lock()
	delete(c.attempts, faultCode)
	c.lastFaultCode = 0
	c.mu.Unlock()

	logger.Info().
		Int("fault_code", faultCode).
		Str("strategy", kind.String()).
		Msg("Fault recovered")
}

// park marks the arm unrecoverable. Motion commands fail with
// ErrControllerHalted until ClearErrors.
func (c *Controller) park(faultCode int) {
	c.mu.Lock()
	c.alive = false
	c.mu.Unlock()
	c.states.set(ComponentArm, StateError)

	logger.ErrorWithCode(c.errs.WithData(errors.ErrUnrecoverable, faultCode)).
		Msg("Arm parked, clear errors to resume")
}

func (c *Controller) recover(kind recoveryKind) error {
	switch kind {
	case recoverCollision:
		return c.recoverCollisionFault()
	case recoverJointLimit:
		return c.recoverJointLimitFault()
	case recoverHardJointLimit:
		return c.recoverHardJointLimitFault()
	case recoverJointSpeed:
		return c.recoverJointSpeed()
	case recoverTCPSpeed:
		return c.recoverTCPSpeed()
	case recoverCommunication:
		return c.recoverConnection()
	case recoverState:
		return c.recoverViaReset(500 * time.Millisecond)
	default:
		return c.errs.New(errors.ErrUnrecoverable)
	}
}

// recoverCollisionFault halts any residual motion before clearing the fault
// and re-enabling.
func (c *Controller) recoverCollisionFault() error {
	if err := c.drv.EmergencyStop(); err != nil {
		logger.Warn().Err(err).Msg("stop during collision recovery")
	}

	return c.recoverViaReset(500 * time.Millisecond)
}

// recoverJointLimitFault clears the fault and retracts to home so the
// offending joint leaves its limit band.
func (c *Controller) recoverJointLimitFault() error {
	if err := c.recoverViaReset(500 * time.Millisecond); err != nil {
		return err
	}

	return c.GoHome(true)
}

// recoverHardJointLimitFault requires a full stop before the fault clears.
func (c *Controller) recoverHardJointLimitFault() error {
	if err := c.drv.EmergencyStop(); err != nil {
		logger.Warn().Err(err).Msg("stop during hard limit recovery")
	}

	return c.recoverViaReset(time.Second)
}

// recoverViaReset clears the fault, waits for the controller to settle and
// re-runs the motion enable sequence.
func (c *Controller) recoverViaReset(settle time.Duration) error {
	if err := c.drv.ClearFault(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	c.clk.Sleep(settle)

	return c.enableArm()
}

// recoverJointSpeed clears the fault and reduces the session joint speed
// and acceleration by 20 percent. The reduction persists for the rest of
// the session so repeated speed faults ratchet the arm down.
func (c *Controller) recoverJointSpeed() error {
	if err := c.drv.ClearFault(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	c.clk.Sleep(500 * time.Millisecond)

	c.mu.Lock()
	c.speeds.JointSpeed *= 0.8
	c.speeds.JointAccel *= 0.8
	reduced := c.speeds.JointSpeed
	c.mu.Unlock()

	logger.Warn().
		Float64("joint_speed", reduced).
		Msg("Session joint speed reduced after speed fault")

	return c.enableArm()
}

// recoverTCPSpeed is the Cartesian counterpart of recoverJointSpeed.
func (c *Controller) recoverTCPSpeed() error {
	if err := c.drv.ClearFault(); err != nil {
		return c.errs.Wrap(errors.ErrOperationFailed, err)
	}
	c.clk.Sleep(500 * time.Millisecond)

	c.mu.Lock()
	c.speeds.TCPSpeed *= 0.8
	c.speeds.TCPAccel *= 0.8
	reduced := c.speeds.TCPSpeed
	c.mu.Unlock()

	logger.Warn().
		Float64("tcp_speed", reduced).
		Msg("Session TCP speed reduced after speed fault")

	return c.enableArm()
}

// recoverConnection drops the link, waits and reconnects, then restores the
// motion enable sequence.
func (c *Controller) recoverConnection() error {
	if err := c.drv.Disconnect(); err != nil {
		logger.Warn().Err(err).Msg("disconnect during communication recovery")
	}
	c.states.set(ComponentConnection, StateEnabling)
	c.clk.Sleep(2 * time.Second)

	if err := c.drv.Connect(); err != nil {
		c.states.set(ComponentConnection, StateError)
		return c.errs.Wrap(errors.ErrConnectFailed, err)
	}
	c.states.set(ComponentConnection, StateEnabled)

	return c.enableArm()
}

// SessionSpeeds returns the current motion parameters, after any
// speed-limit recovery reductions.
func (c *Controller) SessionSpeeds() Speeds {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.speeds
}

// handleEvent dispatches one driver notification. Fault events go through
// recovery; a stop state parks the arm.
func (c *Controller) handleEvent(ev driver.Event) {
	switch ev.Type {
	case driver.EventFault:
		if ev.FaultCode != 0 {
			c.handleFault(ev.FaultCode, ev.WarnCode)
		} else if ev.WarnCode != 0 {
			c.mu.Lock()
			c.lastWarnCode = ev.WarnCode
			c.mu.Unlock()
			logger.Warn().Int("warn_code", ev.WarnCode).Msg("Driver warning")
		}
	case driver.EventState:
		if ev.State == driver.StateStopped {
			logger.Error().Int("state", ev.State).Msg("Controller entered stop state")
			c.park(0)
		}
	}
}

// RecordMaintenance implements the monitor sink: alerts that survived rate
// limiting land in the error history tagged as maintenance records.
func (c *Controller) RecordMaintenance(alert monitor.Alert) {
	a := alert
	c.hist.append(ErrorRecord{
		Timestamp: alert.Timestamp,
		Kind:      RecordMaintenance,
		Alert:     &a,
	})
}
