// Package telemetry persists battery samples, link transitions, and
// report counters to an on-device SQLite database. It is observability
// only: write failures are logged by the caller and never fatal.
package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sweeney/ring-mouse/internal/button"
	"github.com/sweeney/ring-mouse/internal/link"
	"github.com/sweeney/ring-mouse/internal/power"
)

const dirPerm = 0o755

// Store writes telemetry rows to SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("telemetry: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("create telemetry dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS battery (
            ts INTEGER NOT NULL,
            percent INTEGER,
            voltage REAL,
            charging INTEGER
        );
        CREATE TABLE IF NOT EXISTS link_events (
            ts INTEGER NOT NULL,
            state TEXT NOT NULL
        );
        CREATE TABLE IF NOT EXISTS counters (
            ts INTEGER NOT NULL,
            left_presses INTEGER,
            right_presses INTEGER,
            wheel_up_presses INTEGER,
            wheel_down_presses INTEGER,
            reports_flushed INTEGER,
            reports_failed INTEGER
        )
    `)
	if err != nil {
		return fmt.Errorf("init telemetry schema: %w", err)
	}
	return nil
}

// RecordBattery stores one battery sample.
func (s *Store) RecordBattery(ts time.Time, st power.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO battery (ts, percent, voltage, charging) VALUES (?, ?, ?, ?)`,
		ts.Unix(), st.Percent, st.Voltage, boolToInt(st.Charging),
	)
	if err != nil {
		return fmt.Errorf("record battery: %w", err)
	}
	return nil
}

// RecordLinkEvent stores one link transition.
func (s *Store) RecordLinkEvent(ts time.Time, state link.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO link_events (ts, state) VALUES (?, ?)`,
		ts.Unix(), state.String(),
	)
	if err != nil {
		return fmt.Errorf("record link event: %w", err)
	}
	return nil
}

// RecordCounters stores one counters row, written at heartbeat cadence.
func (s *Store) RecordCounters(ts time.Time, counts button.Counts, flushed, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO counters (
            ts, left_presses, right_presses,
            wheel_up_presses, wheel_down_presses,
            reports_flushed, reports_failed
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.Unix(),
		counts.Presses[button.Left],
		counts.Presses[button.Right],
		counts.Presses[button.WheelUp],
		counts.Presses[button.WheelDown],
		flushed, failed,
	)
	if err != nil {
		return fmt.Errorf("record counters: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
