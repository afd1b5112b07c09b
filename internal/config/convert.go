package config

import (
	"os"
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/controller"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
	"github.com/cyrilcaoyang/xarmctl/internal/telemetry"
)

// ArmModel maps the numeric model setting onto the typed constant.
func (c *Config) ArmModel() arm.Model {
	return arm.Model(c.Model)
}

// SafetyConfig translates the safety section into the raw envelope input,
// substituting the stock defaults for omitted fields so the resolver never
// sees partial values.
func (c *Config) SafetyConfig() safety.Config {
	cfg := safety.DefaultConfig()
	s := c.Safety

	rangeOf := func(minVal, maxVal float64, fallback arm.Range) arm.Range {
		if minVal == 0 && maxVal == 0 {
			return fallback
		}
		return arm.Range{Min: minVal, Max: maxVal}
	}

	cfg.Workspace.X = rangeOf(s.XMin, s.XMax, cfg.Workspace.X)
	cfg.Workspace.Y = rangeOf(s.YMin, s.YMax, cfg.Workspace.Y)
	cfg.Workspace.Z = rangeOf(s.ZMin, s.ZMax, cfg.Workspace.Z)

	if s.MaxTCPSpeed > 0 {
		cfg.MaxTCPSpeed = s.MaxTCPSpeed
	}
	if s.MaxJointSpeed > 0 {
		cfg.MaxJointSpeed = s.MaxJointSpeed
	}
	if s.CollisionSensitivity > 0 {
		cfg.CollisionSensitivity = s.CollisionSensitivity
	}
	if s.TempWarning > 0 {
		cfg.Temperature.Warning = s.TempWarning
	}
	if s.TempCritical > 0 {
		cfg.Temperature.Critical = s.TempCritical
	}

	return cfg
}

// SafetyLevelValue maps the string setting onto the typed level.
func (c *Config) SafetyLevelValue() arm.SafetyLevel {
	switch c.SafetyLevel {
	case "emergency":
		return arm.SafetyEmergency
	case "high":
		return arm.SafetyHigh
	case "low":
		return arm.SafetyLow
	default:
		return arm.SafetyMedium
	}
}

// ControllerConfig assembles the controller configuration from the merged
// settings. The collision checker and clock stay nil so the controller
// picks its defaults.
func (c *Config) ControllerConfig() controller.Config {
	cfg := controller.DefaultConfig(c.ArmModel())
	cfg.Gripper = driver.GripperKind(c.Gripper)
	cfg.EnableTrack = c.EnableTrack
	cfg.SafetyLevel = c.SafetyLevelValue()

	if c.TCPSpeed > 0 {
		cfg.Speeds.TCPSpeed = c.TCPSpeed
	}
	if c.TCPAccel > 0 {
		cfg.Speeds.TCPAccel = c.TCPAccel
	}
	if c.JointSpeed > 0 {
		cfg.Speeds.JointSpeed = c.JointSpeed
	}
	if c.JointAccel > 0 {
		cfg.Speeds.JointAccel = c.JointAccel
	}
	if c.GripperSpeed > 0 {
		cfg.GripperSpeed = c.GripperSpeed
	}
	if c.TrackSpeed > 0 {
		cfg.TrackSpeed = c.TrackSpeed
	}

	if len(c.Locations) > 0 {
		cfg.Locations = make(map[string]controller.Location, len(c.Locations))
		for name, loc := range c.Locations {
			cfg.Locations[name] = toLocation(loc)
		}
	}

	return cfg
}

func toLocation(loc LocationSection) controller.Location {
	if len(loc.Pose) == 6 {
		p := &arm.Pose{
			X: loc.Pose[0], Y: loc.Pose[1], Z: loc.Pose[2],
			Roll: loc.Pose[3], Pitch: loc.Pose[4], Yaw: loc.Pose[5],
		}
		return controller.Location{Pose: p}
	}

	return controller.Location{Joints: arm.JointVector(loc.Joints)}
}

// MonitorConfig assembles the monitor configuration with the resolved
// temperature thresholds. The simulator only serves canned readings, so
// simulated sessions run without driver polling.
func (c *Config) MonitorConfig(temps arm.TemperatureThresholds) monitor.Config {
	cfg := monitor.DefaultConfig(temps)
	cfg.Enabled = c.Monitor.Enabled && !c.Simulate
	if c.Monitor.IntervalMs > 0 {
		cfg.Interval = time.Duration(c.Monitor.IntervalMs) * time.Millisecond
	}
	if c.Monitor.AlertCooldownSec > 0 {
		cfg.AlertCooldown = time.Duration(c.Monitor.AlertCooldownSec) * time.Second
	}

	return cfg
}

// TelemetryConfig assembles the telemetry configuration.
func (c *Config) TelemetryConfig() telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.Enabled = c.Telemetry.Enabled
	if c.Telemetry.DBPath != "" {
		cfg.DBPath = c.Telemetry.DBPath
	}

	return cfg
}

// ZoneSet loads the YAML zone tables from ZonesPath, or the built-in
// defaults when no path is configured.
func (c *Config) ZoneSet() (safety.ZoneSet, error) {
	if c.ZonesPath == "" {
		return safety.DefaultZones(), nil
	}

	f, err := os.Open(c.ZonesPath)
	if err != nil {
		return safety.ZoneSet{}, errors.New().Wrap(errors.ErrReadConfig, err)
	}
	defer f.Close()

	return safety.LoadZones(f)
}

// LogFlags maps the log level onto the logger's debug/verbose switches.
func (c *Config) LogFlags() (debug, verbose bool) {
	switch c.LogLevel {
	case "debug":
		return true, false
	case "info":
		return false, true
	default:
		return false, false
	}
}
