package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/config"
	"github.com/cyrilcaoyang/xarmctl/internal/controller"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
	"github.com/cyrilcaoyang/xarmctl/internal/pid"
	"github.com/cyrilcaoyang/xarmctl/internal/safety"
	"github.com/cyrilcaoyang/xarmctl/internal/telemetry"
)

// statusInterval is how often the daemon logs and persists a snapshot.
const statusInterval = 5 * time.Second

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	debug, verbose := cfg.LogFlags()
	logger.Init(debug, verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer pid.Remove() //nolint:errcheck // best effort cleanup

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("daemon exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	env, warnings := safety.Resolve(cfg.SafetyConfig(), arm.Hardware)
	for _, w := range warnings {
		logger.Warn().Msg(w.String())
	}

	zones, err := cfg.ZoneSet()
	if err != nil {
		return err
	}

	drv := newDriver()

	ctrl := controller.New(cfg.ControllerConfig(), drv, env, zones)
	if err := ctrl.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := ctrl.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	collector, err := telemetry.NewService(cfg.TelemetryConfig())
	if err != nil {
		return err
	}
	defer collector.Close() //nolint:errcheck // best effort close

	sink := telemetry.NewAlertSink(collector, ctrl)
	mon := monitor.New(cfg.MonitorConfig(env.Temperature), drv, ctrl.Metrics(), sink, nil)

	go ctrl.Run(ctx)
	go mon.Run(ctx)

	return loop(ctx, ctrl, collector)
}

// newDriver picks the driver binding. The simulator is the only in-tree
// binding; a hardware build replaces this constructor.
func newDriver() driver.Driver {
	if !cfg.Simulate {
		logger.Warn().
			Str("host", cfg.Host).
			Msg("No hardware driver binding compiled in, using simulator")
	}

	return driver.NewSim(cfg.ArmModel())
}

func loop(ctx context.Context, ctrl *controller.Controller, collector telemetry.Collector) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			status := ctrl.Status()
			logStatus(status)

			if err := collector.Record(ctx, snapshotOf(ctrl, status)); err != nil {
				logger.Warn().Err(err).Msg("telemetry record failed")
			}
		}
	}
}

func snapshotOf(ctrl *controller.Controller, status controller.SystemStatus) *telemetry.Snapshot {
	tcp, joint := ctrl.Metrics().MeanUtilization()

	return &telemetry.Snapshot{
		Timestamp: status.Timestamp,
		Position: telemetry.PositionMetrics{
			X:        status.Pose.X,
			Y:        status.Pose.Y,
			Z:        status.Pose.Z,
			TrackPos: status.TrackPos,
		},
		Health: telemetry.HealthMetrics{
			Alive:      status.Alive,
			FaultCode:  status.FaultCode,
			WarnCode:   status.WarnCode,
			ErrorCount: status.ErrorCount,
		},
		Load: telemetry.LoadMetrics{
			MeanCycleTime:    ctrl.Metrics().MeanCycleTime(),
			TCPUtilization:   tcp,
			JointUtilization: joint,
		},
	}
}

func logStatus(status controller.SystemStatus) {
	logger.Info().
		Bool("alive", status.Alive).
		Float64("x", status.Pose.X).
		Float64("y", status.Pose.Y).
		Float64("z", status.Pose.Z).
		Float64("track", status.TrackPos).
		Int("fault_code", status.FaultCode).
		Int("errors", status.ErrorCount).
		Msg("Arm status")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
