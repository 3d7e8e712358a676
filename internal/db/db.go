// Package db provides the connection pool and the query executor used by the
// consumption endpoints.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Connect opens a read pool for dsn and verifies connectivity. See
// DriverFor for how the driver is chosen.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	driver, source := DriverFor(dsn)

	pool, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	slog.Info("database connected", "driver", driver, "dsn", redactDSN(dsn))
	return pool, nil
}

// Healthy returns nil when the database is reachable.
func Healthy(ctx context.Context, pool *sql.DB) error {
	return pool.PingContext(ctx)
}

// DriverFor returns the database/sql driver name for dsn and the data
// source to hand it. sqlite serves "sqlite:" DSNs (prefix stripped),
// "file:" URIs, ":memory:" and paths ending in .db, .sqlite or .sqlite3;
// everything else goes to pgx.
func DriverFor(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return "sqlite", strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return "sqlite", dsn
	}

	path, _, _ := strings.Cut(dsn, "?")
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(path, ext) && !strings.Contains(path, "://") {
			return "sqlite", dsn
		}
	}
	return "pgx", dsn
}

// redactDSN hides the password of URL-style DSNs.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
