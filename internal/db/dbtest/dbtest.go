// Package dbtest opens throwaway in-memory SQLite databases carrying the
// analytics tables read by the consumption endpoints.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Fixture tables. Column names match the analytics tables; types are the
// closest SQLite equivalents.
const schema = `
CREATE TABLE unified_hr_packet (
    user_name           TEXT NOT NULL,
    device_id           TEXT NOT NULL,
    hr_value            REAL NOT NULL,
    processed_timestamp TIMESTAMP NOT NULL
);
CREATE TABLE per_second_heart_rate_aggregate (
    user_name           TEXT NOT NULL,
    rounded_up_time     TIMESTAMP NOT NULL,
    avg_hr_per_second   REAL NOT NULL,
    processed_timestamp TIMESTAMP NOT NULL
);
CREATE TABLE processed_ant_hr_packet (
    device_id             TEXT NOT NULL,
    previous_beat_time    REAL NOT NULL,
    last_beat_time        REAL NOT NULL,
    calculated_heart_rate REAL NOT NULL,
    heart_beat_count      INTEGER NOT NULL
);`

// Open returns a fresh in-memory database with the fixture tables. The
// database is closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	return db
}

// Seeder inserts fixture rows, failing the test on error.
type Seeder struct {
	t  *testing.T
	db *sql.DB
}

// NewSeeder returns a Seeder writing to db.
func NewSeeder(t *testing.T, db *sql.DB) *Seeder {
	return &Seeder{t: t, db: db}
}

// Unified inserts one unified_hr_packet row.
func (s *Seeder) Unified(user string, hr float64, ts time.Time) {
	s.exec("unified_hr_packet",
		`INSERT INTO unified_hr_packet (user_name, device_id, hr_value, processed_timestamp)
		 VALUES (?, ?, ?, ?)`,
		user, "dev-"+user, hr, ts.UTC(),
	)
}

// PerSecond inserts one per_second_heart_rate_aggregate row for the second
// containing ts.
func (s *Seeder) PerSecond(user string, avgHR float64, ts time.Time) {
	s.exec("per_second_heart_rate_aggregate",
		`INSERT INTO per_second_heart_rate_aggregate
		     (user_name, rounded_up_time, avg_hr_per_second, processed_timestamp)
		 VALUES (?, ?, ?, ?)`,
		user, ts.UTC().Truncate(time.Second), avgHR, ts.UTC(),
	)
}

// Processed inserts one processed_ant_hr_packet row.
func (s *Seeder) Processed(deviceID string, lastBeat, hr float64) {
	s.exec("processed_ant_hr_packet",
		`INSERT INTO processed_ant_hr_packet
		     (device_id, previous_beat_time, last_beat_time, calculated_heart_rate, heart_beat_count)
		 VALUES (?, ?, ?, ?, ?)`,
		deviceID, lastBeat-1, lastBeat, hr, 1,
	)
}

func (s *Seeder) exec(table, query string, args ...any) {
	s.t.Helper()
	if _, err := s.db.Exec(query, args...); err != nil {
		s.t.Fatalf("seed %s: %v", table, err)
	}
}
