package monitor

import (
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
)

// AlertKind names the condition a maintenance alert reports.
type AlertKind string

const (
	AlertTemperatureWarning  AlertKind = "temperature_warning"
	AlertTemperatureCritical AlertKind = "temperature_critical"
	AlertTorqueHigh          AlertKind = "torque_high"
	AlertCurrentHigh         AlertKind = "current_high"
	AlertCycleTime           AlertKind = "performance_cycle_time"
	AlertTCPUtilization      AlertKind = "performance_tcp_utilization"
	AlertJointUtilization    AlertKind = "performance_joint_utilization"
)

// Severity of a maintenance alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one rate-limited maintenance notification. Joint is 1-based and
// zero for alerts that are not joint-specific.
type Alert struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      AlertKind `json:"kind"`
	Severity  Severity  `json:"severity"`
	Joint     int       `json:"joint,omitempty"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
}

// Sink receives alerts that survived rate limiting. The controller feeds
// them into its error history so maintenance status can be derived later.
type Sink interface {
	RecordMaintenance(alert Alert)
}

// Thresholds are the performance and wear limits the monitor checks against.
// The torque and current baselines are configuration defaults, not
// calibrated physics; recalibrate them per robot before trusting the alerts.
type Thresholds struct {
	MaxCycleTime     time.Duration
	MaxAccuracyError float64 // mm
	MaxUtilization   float64 // percent
	TorqueBaseline   float64 // Nm per joint
	CurrentBaseline  float64 // A per joint
}

// DefaultThresholds returns the stock monitor thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxCycleTime:     10 * time.Second,
		MaxAccuracyError: 1.0,
		MaxUtilization:   85.0,
		TorqueBaseline:   50.0,
		CurrentBaseline:  2.0,
	}
}

// Config controls the monitor loop.
type Config struct {
	Enabled       bool
	Interval      time.Duration
	AlertCooldown time.Duration
	Thresholds    Thresholds
	Temperature   arm.TemperatureThresholds
}

// DefaultConfig returns the stock monitor configuration: 10 Hz polling with
// a one minute per-kind alert cooldown.
func DefaultConfig(temps arm.TemperatureThresholds) Config {
	return Config{
		Enabled:       true,
		Interval:      100 * time.Millisecond,
		AlertCooldown: time.Minute,
		Thresholds:    DefaultThresholds(),
		Temperature:   temps,
	}
}

// WindowSummary condenses one rolling metric window.
type WindowSummary struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// CategoryStatus is the derived health of one maintenance category.
type CategoryStatus string

const (
	StatusNormal   CategoryStatus = "normal"
	StatusWarning  CategoryStatus = "warning"
	StatusCritical CategoryStatus = "critical"
)

// MaintenanceStatus aggregates recent alerts per category plus an overall
// health verdict.
type MaintenanceStatus struct {
	Temperature CategoryStatus `json:"temperature"`
	Torque      CategoryStatus `json:"torque"`
	Current     CategoryStatus `json:"current"`
	Overall     string         `json:"overall_health"`
}
