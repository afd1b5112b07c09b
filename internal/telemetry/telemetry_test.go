package telemetry_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
	"github.com/cyrilcaoyang/xarmctl/internal/telemetry"
)

func testSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Timestamp: time.Now(),
		Position:  telemetry.PositionMetrics{X: 300, Y: 0, Z: 300, TrackPos: 150},
		Health:    telemetry.HealthMetrics{Alive: true},
		Load:      telemetry.LoadMetrics{MeanCycleTime: 1.5, TCPUtilization: 20},
	}
}

func TestServiceRecord(t *testing.T) {
	cfg := telemetry.Config{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "telemetry.db"),
	}

	svc, err := telemetry.NewService(cfg)
	require.NoError(t, err)
	defer svc.Close()

	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, testSnapshot()))

	alert := &monitor.Alert{
		Timestamp: time.Now(),
		Kind:      monitor.AlertTemperatureWarning,
		Severity:  monitor.SeverityWarning,
		Joint:     2,
		Value:     65,
		Threshold: 60,
	}
	require.NoError(t, svc.RecordAlert(ctx, alert))
}

func TestServiceRejectsNilSnapshot(t *testing.T) {
	cfg := telemetry.Config{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "telemetry.db"),
	}

	svc, err := telemetry.NewService(cfg)
	require.NoError(t, err)
	defer svc.Close()

	assert.Error(t, svc.Record(context.Background(), nil))
}

func TestDisabledServiceIsNoop(t *testing.T) {
	svc, err := telemetry.NewService(telemetry.Config{Enabled: false})
	require.NoError(t, err)

	assert.NoError(t, svc.Record(context.Background(), testSnapshot()))
	assert.NoError(t, svc.RecordAlert(context.Background(), &monitor.Alert{}))
	assert.NoError(t, svc.Close())
}

type recordingCollector struct {
	alerts   []monitor.Alert
	alertErr error
}

func (c *recordingCollector) Record(context.Context, *telemetry.Snapshot) error { return nil }
func (c *recordingCollector) Close() error                                      { return nil }

func (c *recordingCollector) RecordAlert(_ context.Context, alert *monitor.Alert) error {
	if c.alertErr != nil {
		return c.alertErr
	}
	c.alerts = append(c.alerts, *alert)

	return nil
}

type recordingSink struct {
	alerts []monitor.Alert
}

func (s *recordingSink) RecordMaintenance(alert monitor.Alert) {
	s.alerts = append(s.alerts, alert)
}

func TestAlertSinkPersistsAndForwards(t *testing.T) {
	collector := &recordingCollector{}
	next := &recordingSink{}
	sink := telemetry.NewAlertSink(collector, next)

	alert := monitor.Alert{
		Timestamp: time.Now(),
		Kind:      monitor.AlertTorqueHigh,
		Severity:  monitor.SeverityWarning,
		Joint:     3,
		Value:     55,
		Threshold: 50,
	}
	sink.RecordMaintenance(alert)

	require.Len(t, next.alerts, 1)
	require.Len(t, collector.alerts, 1)
	assert.Equal(t, monitor.AlertTorqueHigh, collector.alerts[0].Kind)
}

func TestAlertSinkForwardsDespiteStorageFailure(t *testing.T) {
	collector := &recordingCollector{alertErr: assert.AnError}
	next := &recordingSink{}
	sink := telemetry.NewAlertSink(collector, next)

	sink.RecordMaintenance(monitor.Alert{Kind: monitor.AlertCurrentHigh})

	assert.Len(t, next.alerts, 1, "the history sink must see the alert even if storage fails")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, telemetry.Config{Enabled: false}.Validate())
	assert.NoError(t, telemetry.DefaultConfig().Validate())
	assert.Error(t, telemetry.Config{Enabled: true, DBPath: ""}.Validate())
}

func TestRecordHonorsCanceledContext(t *testing.T) {
	cfg := telemetry.Config{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "telemetry.db"),
	}

	svc, err := telemetry.NewService(cfg)
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, svc.Record(ctx, testSnapshot()))
}
