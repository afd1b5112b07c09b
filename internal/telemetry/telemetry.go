package telemetry

import (
	"context"

	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
)

type service struct {
	repo Repository
	cfg  Config
}

// NewService builds a collector. With telemetry disabled a no-op collector
// is returned so callers never branch on the setting.
func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		return noopCollector{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, snapshot); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) RecordAlert(ctx context.Context, alert *monitor.Alert) error {
	errFactory := errors.New()

	if alert == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	if err := s.repo.StoreAlert(ctx, alert); err != nil {
		return errFactory.Wrap(ErrRecordFailed, err)
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

// alertSink forwards surviving maintenance alerts to the wrapped sink and
// persists them through the collector. Storage failures are logged, not
// propagated; the monitor loop must not stall on the database.
type alertSink struct {
	collector Collector
	next      monitor.Sink
}

// NewAlertSink wraps next so every alert it receives is also recorded by
// the collector.
func NewAlertSink(collector Collector, next monitor.Sink) monitor.Sink {
	return &alertSink{
		collector: collector,
		next:      next,
	}
}

func (s *alertSink) RecordMaintenance(alert monitor.Alert) {
	s.next.RecordMaintenance(alert)

	if err := s.collector.RecordAlert(context.Background(), &alert); err != nil {
		logger.Warn().Err(err).Msg("Telemetry alert record failed")
	}
}

// noopCollector discards everything.
type noopCollector struct{}

func (noopCollector) Record(context.Context, *Snapshot) error           { return nil }
func (noopCollector) RecordAlert(context.Context, *monitor.Alert) error { return nil }
func (noopCollector) Close() error                                      { return nil }
