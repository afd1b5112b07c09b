package controller

import (
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
)

// SystemStatus is a point-in-time snapshot of the whole layer, serialized
// with string component states for reporting.
type SystemStatus struct {
	Timestamp  time.Time         `json:"timestamp"`
	Model      string            `json:"model"`
	Alive      bool              `json:"alive"`
	Components map[string]string `json:"components"`
	Pose       arm.Pose          `json:"pose"`
	Joints     arm.JointVector   `json:"joints"`
	TrackPos   float64           `json:"track_position"`
	FaultCode  int               `json:"fault_code"`
	WarnCode   int               `json:"warn_code"`
	Speeds     Speeds            `json:"speeds"`
	ErrorCount int               `json:"error_count"`
}

// Status assembles the system snapshot from cached positions and the state
// machine. It never blocks on the driver.
func (c *Controller) Status() SystemStatus {
	components := make(map[string]string, len(componentKinds))
	for kind, state := range c.states.snapshot() {
		components[string(kind)] = state.String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return SystemStatus{
		Timestamp:  c.clk.Now(),
		Model:      c.cfg.Model.String(),
		Alive:      c.alive,
		Components: components,
		Pose:       c.lastPose,
		Joints:     append(arm.JointVector(nil), c.lastJoints...),
		TrackPos:   c.lastTrackPos,
		FaultCode:  c.lastFaultCode,
		WarnCode:   c.lastWarnCode,
		Speeds:     c.speeds,
		ErrorCount: c.hist.count(),
	}
}

// maintenanceSample is how many recent history entries feed the
// maintenance aggregation.
const maintenanceSample = 50

// MaintenanceStatus derives per-category health from the recent maintenance
// alerts in the error history.
func (c *Controller) MaintenanceStatus() monitor.MaintenanceStatus {
	return monitor.AggregateStatus(c.hist.recentMaintenanceAlerts(maintenanceSample))
}

// PerformanceMetrics returns the condensed rolling-window summaries.
func (c *Controller) PerformanceMetrics() map[string]monitor.WindowSummary {
	return c.metrics.Summary()
}

// ErrorHistory returns the newest n history records, oldest first.
func (c *Controller) ErrorHistory(n int) []ErrorRecord {
	return c.hist.recent(n)
}

// SystemInfo describes the static configuration of the session.
type SystemInfo struct {
	Model       string       `json:"model"`
	JointCount  int          `json:"joint_count"`
	Gripper     string       `json:"gripper"`
	HasTrack    bool         `json:"has_track"`
	SafetyLevel string       `json:"safety_level"`
	Workspace   armWorkspace `json:"workspace"`
}

type armWorkspace struct {
	X [2]float64 `json:"x"`
	Y [2]float64 `json:"y"`
	Z [2]float64 `json:"z"`
}

// Info returns the static session description.
func (c *Controller) Info() SystemInfo {
	return SystemInfo{
		Model:       c.cfg.Model.String(),
		JointCount:  c.cfg.Model.JointCount(),
		Gripper:     string(c.cfg.Gripper),
		HasTrack:    c.cfg.EnableTrack,
		SafetyLevel: c.cfg.SafetyLevel.String(),
		Workspace: armWorkspace{
			X: [2]float64{c.env.Workspace.X.Min, c.env.Workspace.X.Max},
			Y: [2]float64{c.env.Workspace.Y.Min, c.env.Workspace.Y.Max},
			Z: [2]float64{c.env.Workspace.Z.Min, c.env.Workspace.Z.Max},
		},
	}
}
