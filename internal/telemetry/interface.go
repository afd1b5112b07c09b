package telemetry

import (
	"context"
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
)

// Collector persists periodic state snapshots and maintenance alerts.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	RecordAlert(ctx context.Context, alert *monitor.Alert) error
	Close() error
}

// Snapshot is one persisted observation of the arm.
type Snapshot struct {
	Timestamp time.Time
	Position  PositionMetrics
	Health    HealthMetrics
	Load      LoadMetrics
}

// PositionMetrics captures where the arm and track are.
type PositionMetrics struct {
	X        float64
	Y        float64
	Z        float64
	TrackPos float64
}

// HealthMetrics captures fault state and liveness.
type HealthMetrics struct {
	Alive      bool
	FaultCode  int
	WarnCode   int
	ErrorCount int
}

// LoadMetrics captures the rolling performance view.
type LoadMetrics struct {
	MeanCycleTime    float64 // seconds
	TCPUtilization   float64 // percent
	JointUtilization float64 // percent
}
