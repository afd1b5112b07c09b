package monitor

import (
	"sync"
	"time"
)

const metricWindowSize = 100

// trendSamples is how many of the newest torque/current readings feed the
// per-joint wear analysis.
const trendSamples = 10

// Metrics holds the rolling performance windows shared between the command
// path (cycle times, accuracy, success rate) and the monitor loop
// (utilization, temperature, torque, current). Safe for concurrent use.
type Metrics struct {
	mu           sync.Mutex
	cycleTimes   *window
	accuracyErrs *window
	tcpUtil      *window
	jointUtil    *window
	successRate  *window

	// Per-joint wear windows, one per joint index.
	torque  []*window
	current []*window
}

// NewMetrics creates the metric windows for an arm with jointCount joints.
func NewMetrics(jointCount int) *Metrics {
	m := &Metrics{
		cycleTimes:   newWindow(metricWindowSize),
		accuracyErrs: newWindow(metricWindowSize),
		tcpUtil:      newWindow(metricWindowSize),
		jointUtil:    newWindow(metricWindowSize),
		successRate:  newWindow(metricWindowSize),
		torque:       make([]*window, jointCount),
		current:      make([]*window, jointCount),
	}
	for i := 0; i < jointCount; i++ {
		m.torque[i] = newWindow(metricWindowSize)
		m.current[i] = newWindow(metricWindowSize)
	}

	return m
}

// RecordCycle records the duration and outcome of one motion command.
func (m *Metrics) RecordCycle(d time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cycleTimes.push(d.Seconds())
	if success {
		m.successRate.push(1.0)
	} else {
		m.successRate.push(0.0)
	}
}

// RecordAccuracyError records the distance between a commanded and reported
// position, in millimeters.
func (m *Metrics) RecordAccuracyError(mm float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accuracyErrs.push(mm)
}

// RecordUtilization records one TCP and joint utilization sample, percent.
func (m *Metrics) RecordUtilization(tcp, joint float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tcpUtil.push(tcp)
	m.jointUtil.push(joint)
}

// RecordWear records one torque and current reading per joint. Readings
// longer than the joint count are truncated.
func (m *Metrics) RecordWear(torques, currents []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.torque {
		if i < len(torques) {
			w.push(torques[i])
		}
	}
	for i, w := range m.current {
		if i < len(currents) {
			w.push(currents[i])
		}
	}
}

// MeanCycleTime returns the average command duration in seconds.
func (m *Metrics) MeanCycleTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cycleTimes.mean()
}

// MeanUtilization returns the average TCP and joint utilization.
func (m *Metrics) MeanUtilization() (tcp, joint float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tcpUtil.mean(), m.jointUtil.mean()
}

// WearTrend returns the trailing torque and current averages for a joint
// index, and whether enough samples exist to trust them.
func (m *Metrics) WearTrend(joint int) (torque, current float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if joint < 0 || joint >= len(m.torque) {
		return 0, 0, false
	}
	if m.torque[joint].len() < trendSamples {
		return 0, 0, false
	}

	return m.torque[joint].meanTail(trendSamples), m.current[joint].meanTail(trendSamples), true
}

// Summary returns the condensed view of every command-path window.
func (m *Metrics) Summary() map[string]WindowSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]WindowSummary{
		"cycle_times":          m.cycleTimes.summary(),
		"accuracy_errors":      m.accuracyErrs.summary(),
		"tcp_utilization":      m.tcpUtil.summary(),
		"joint_utilization":    m.jointUtil.summary(),
		"command_success_rate": m.successRate.summary(),
	}
}
