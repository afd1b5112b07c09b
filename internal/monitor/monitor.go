package monitor

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
)

// Monitor polls the driver on a fixed cadence, feeds the rolling windows and
// raises rate-limited maintenance alerts. It runs independently of the
// command path and is constructed disabled for simulated drivers.
type Monitor struct {
	cfg     Config
	drv     driver.Driver
	metrics *Metrics
	sink    Sink
	clk     clock.Clock

	lastFired map[AlertKind]time.Time
}

// New creates a monitor. A nil clk uses the wall clock.
func New(cfg Config, drv driver.Driver, metrics *Metrics, sink Sink, clk clock.Clock) *Monitor {
	if clk == nil {
		clk = clock.New()
	}

	return &Monitor{
		cfg:       cfg,
		drv:       drv,
		metrics:   metrics,
		sink:      sink,
		clk:       clk,
		lastFired: make(map[AlertKind]time.Time),
	}
}

// Run drives the poll loop until the context is canceled. Returns
// immediately when the monitor is disabled.
func (m *Monitor) Run(ctx context.Context) {
	if !m.cfg.Enabled {
		logger.Debug().Msg("Maintenance monitor disabled")
		return
	}

	ticker := m.clk.Ticker(m.cfg.Interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", m.cfg.Interval).Msg("Maintenance monitor started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Maintenance monitor stopped")
			return
		case <-ticker.C:
			m.Poll()
		}
	}
}

// Poll performs one monitoring pass: sample the driver, update windows,
// check thresholds. Exported so tests can step the monitor synchronously.
func (m *Monitor) Poll() {
	m.pollWear()
	m.pollUtilization()
	m.checkPerformance()
}

func (m *Monitor) pollWear() {
	temps, err := m.drv.Temperatures()
	if err != nil {
		logger.Debug().Err(err).Msg("temperature poll failed")
	} else {
		m.checkTemperatures(temps)
	}

	torques, terr := m.drv.JointTorques()
	currents, cerr := m.drv.JointCurrents()
	if terr != nil || cerr != nil {
		logger.Debug().AnErr("torque", terr).AnErr("current", cerr).Msg("wear poll failed")
		return
	}

	m.metrics.RecordWear(torques, currents)
	m.checkWearTrends(len(torques))
}

func (m *Monitor) checkTemperatures(temps []float64) {
	for i, temp := range temps {
		switch {
		case temp > m.cfg.Temperature.Critical:
			m.raise(Alert{
				Kind: AlertTemperatureCritical, Severity: SeverityCritical,
				Joint: i + 1, Value: temp, Threshold: m.cfg.Temperature.Critical,
			})
		case temp > m.cfg.Temperature.Warning:
			m.raise(Alert{
				Kind: AlertTemperatureWarning, Severity: SeverityWarning,
				Joint: i + 1, Value: temp, Threshold: m.cfg.Temperature.Warning,
			})
		}
	}
}

func (m *Monitor) checkWearTrends(jointCount int) {
	for i := 0; i < jointCount; i++ {
		torque, current, ok := m.metrics.WearTrend(i)
		if !ok {
			continue
		}
		if torque > m.cfg.Thresholds.TorqueBaseline {
			m.raise(Alert{
				Kind: AlertTorqueHigh, Severity: SeverityWarning,
				Joint: i + 1, Value: torque, Threshold: m.cfg.Thresholds.TorqueBaseline,
			})
		}
		if current > m.cfg.Thresholds.CurrentBaseline {
			m.raise(Alert{
				Kind: AlertCurrentHigh, Severity: SeverityWarning,
				Joint: i + 1, Value: current, Threshold: m.cfg.Thresholds.CurrentBaseline,
			})
		}
	}
}

func (m *Monitor) pollUtilization() {
	pose, err := m.drv.Position()
	if err == nil {
		tcpUtil := math.Min(100, math.Abs((pose.X+pose.Y+pose.Z)/3000*100))

		joints, jerr := m.drv.JointAngles()
		jointUtil := 0.0
		if jerr == nil && len(joints) > 0 {
			sum := 0.0
			for _, angle := range joints {
				sum += math.Abs(angle)
			}
			jointUtil = math.Min(100, sum/float64(len(joints)))
		}

		m.metrics.RecordUtilization(tcpUtil, jointUtil)
	}
}

func (m *Monitor) checkPerformance() {
	if mean := m.metrics.MeanCycleTime(); mean > m.cfg.Thresholds.MaxCycleTime.Seconds() {
		m.raise(Alert{
			Kind: AlertCycleTime, Severity: SeverityWarning,
			Value: mean, Threshold: m.cfg.Thresholds.MaxCycleTime.Seconds(),
		})
	}

	tcp, joint := m.metrics.MeanUtilization()
	if tcp > m.cfg.Thresholds.MaxUtilization {
		m.raise(Alert{
			Kind: AlertTCPUtilization, Severity: SeverityWarning,
			Value: tcp, Threshold: m.cfg.Thresholds.MaxUtilization,
		})
	}
	if joint > m.cfg.Thresholds.MaxUtilization {
		m.raise(Alert{
			Kind: AlertJointUtilization, Severity: SeverityWarning,
			Value: joint, Threshold: m.cfg.Thresholds.MaxUtilization,
		})
	}
}

// raise delivers the alert unless one of the same kind fired within the
// cooldown window. Suppressed alerts are dropped, not queued.
func (m *Monitor) raise(alert Alert) {
	now := m.clk.Now()
	if last, ok := m.lastFired[alert.Kind]; ok && now.Sub(last) < m.cfg.AlertCooldown {
		return
	}
	m.lastFired[alert.Kind] = now

	alert.Timestamp = now
	logger.Warn().
		Str("kind", string(alert.Kind)).
		Str("severity", string(alert.Severity)).
		Int("joint", alert.Joint).
		Float64("value", alert.Value).
		Float64("threshold", alert.Threshold).
		Msg("Maintenance alert")

	if m.sink != nil {
		m.sink.RecordMaintenance(alert)
	}
}

// AggregateStatus derives per-category health from recent maintenance
// alerts: the most severe alert per category wins, and overall health is
// critical > warning > good.
func AggregateStatus(alerts []Alert) MaintenanceStatus {
	status := MaintenanceStatus{
		Temperature: StatusNormal,
		Torque:      StatusNormal,
		Current:     StatusNormal,
		Overall:     "good",
	}

	escalate := func(current CategoryStatus, severity Severity) CategoryStatus {
		if severity == SeverityCritical {
			return StatusCritical
		}
		if current == StatusNormal {
			return StatusWarning
		}

		return current
	}

	for _, alert := range alerts {
		switch alert.Kind {
		case AlertTemperatureWarning, AlertTemperatureCritical:
			status.Temperature = escalate(status.Temperature, alert.Severity)
		case AlertTorqueHigh:
			status.Torque = escalate(status.Torque, alert.Severity)
		case AlertCurrentHigh:
			status.Current = escalate(status.Current, alert.Severity)
		}
	}

	switch {
	case status.Temperature == StatusCritical || status.Torque == StatusCritical || status.Current == StatusCritical:
		status.Overall = "critical"
	case status.Temperature == StatusWarning || status.Torque == StatusWarning || status.Current == StatusWarning:
		status.Overall = "warning"
	}

	return status
}
