package telemetry

import (
	"database/sql"

	"github.com/cyrilcaoyang/xarmctl/internal/errors"
)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS snapshots (
            timestamp INTEGER PRIMARY KEY,
            x REAL,
            y REAL,
            z REAL,
            track_position REAL,
            alive INTEGER,
            fault_code INTEGER,
            warn_code INTEGER,
            error_count INTEGER,
            mean_cycle_time REAL,
            tcp_utilization REAL,
            joint_utilization REAL
        );
        CREATE TABLE IF NOT EXISTS alerts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp INTEGER NOT NULL,
            kind TEXT NOT NULL,
            severity TEXT NOT NULL,
            joint INTEGER,
            value REAL,
            threshold REAL
        );
        CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp);
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}
