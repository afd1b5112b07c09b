package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/cyrilcaoyang/xarmctl/internal/errors"
	"github.com/cyrilcaoyang/xarmctl/internal/logger"
	"github.com/cyrilcaoyang/xarmctl/internal/monitor"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	StoreAlert(ctx context.Context, alert *monitor.Alert) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Str("path", cfg.DBPath).Msg("Initializing telemetry repository")

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{db: db}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO snapshots (
            timestamp, x, y, z, track_position,
            alive, fault_code, warn_code, error_count,
            mean_cycle_time, tcp_utilization, joint_utilization
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            x = excluded.x,
            y = excluded.y,
            z = excluded.z,
            track_position = excluded.track_position,
            alive = excluded.alive,
            fault_code = excluded.fault_code,
            warn_code = excluded.warn_code,
            error_count = excluded.error_count,
            mean_cycle_time = excluded.mean_cycle_time,
            tcp_utilization = excluded.tcp_utilization,
            joint_utilization = excluded.joint_utilization
    `,
		snapshot.Timestamp.Unix(),
		snapshot.Position.X,
		snapshot.Position.Y,
		snapshot.Position.Z,
		snapshot.Position.TrackPos,
		boolToInt(snapshot.Health.Alive),
		snapshot.Health.FaultCode,
		snapshot.Health.WarnCode,
		snapshot.Health.ErrorCount,
		snapshot.Load.MeanCycleTime,
		snapshot.Load.TCPUtilization,
		snapshot.Load.JointUtilization,
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) StoreAlert(ctx context.Context, alert *monitor.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO alerts (timestamp, kind, severity, joint, value, threshold)
        VALUES (?, ?, ?, ?, ?, ?)
    `,
		alert.Timestamp.Unix(),
		string(alert.Kind),
		string(alert.Severity),
		alert.Joint,
		alert.Value,
		alert.Threshold,
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
