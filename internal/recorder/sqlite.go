package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the fetch audit trail to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series_fetches (
			id              TEXT PRIMARY KEY,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			display_period  TEXT,
			fetch_period    TEXT,
			served_period   TEXT,
			interval        TEXT,
			adjusted        INTEGER,
			fetched_points  INTEGER,
			kept_points     INTEGER,
			server_channels TEXT,
			local_channels  TEXT,
			error           TEXT,
			duration_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_symbol_ts ON series_fetches(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(rec *FetchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	adjusted := 0
	if rec.Adjusted {
		adjusted = 1
	}
	_, err := r.db.Exec(`INSERT INTO series_fetches
		(id, timestamp, symbol, display_period, fetch_period, served_period, interval, adjusted,
		 fetched_points, kept_points, server_channels, local_channels, error, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Timestamp.UnixMilli(), rec.Symbol, rec.DisplayPeriod, rec.FetchPeriod, rec.ServedPeriod, rec.Interval, adjusted,
		rec.FetchedPoints, rec.KeptPoints,
		strings.Join(rec.ServerChannels, ","), strings.Join(rec.LocalChannels, ","),
		rec.Error, rec.Duration.Milliseconds(),
	)
	return err
}

// RecentFetches returns the newest records first. An empty symbol matches all.
func (r *SQLiteRecorder) RecentFetches(symbol string, limit int) ([]FetchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, timestamp, symbol, display_period, fetch_period, served_period, interval, adjusted,
		fetched_points, kept_points, server_channels, local_channels, error, duration_ms
		FROM series_fetches`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fetches: %w", err)
	}
	defer rows.Close()

	var out []FetchRecord
	for rows.Next() {
		var (
			rec            FetchRecord
			ts, durationMs int64
			adjusted       int
			server, local  string
			served         sql.NullString
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Symbol, &rec.DisplayPeriod, &rec.FetchPeriod, &served, &rec.Interval, &adjusted,
			&rec.FetchedPoints, &rec.KeptPoints, &server, &local, &rec.Error, &durationMs); err != nil {
			return nil, fmt.Errorf("scan fetch: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.ServedPeriod = served.String
		rec.Adjusted = adjusted == 1
		rec.ServerChannels = splitList(server)
		rec.LocalChannels = splitList(local)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
