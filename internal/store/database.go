package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

// Database wraps the connection to the document store.
type Database struct {
	conn    *sql.DB
	dialect dialect
}

// NewDatabase opens the store for driver ("postgres" or "sqlite"), verifies
// the connection and creates any missing collections.
func NewDatabase(ctx context.Context, driver, dsn string) (*Database, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.singleWriter {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(time.Hour)
		conn.SetConnMaxIdleTime(10 * time.Minute)
	}

	for _, pragma := range d.pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &Database{conn: conn, dialect: d}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// Driver returns the configured driver name.
func (db *Database) Driver() string {
	return db.dialect.name
}

// EnsureSchema creates every collection table that does not exist yet.
func (db *Database) EnsureSchema(ctx context.Context) error {
	for _, c := range Collections() {
		if _, err := db.conn.ExecContext(ctx, db.dialect.createTable(c)); err != nil {
			return fmt.Errorf("create collection %s: %w", c, err)
		}
	}
	return nil
}

// Reset drops and recreates every collection.
func (db *Database) Reset(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range Collections() {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+string(c)); err != nil {
			return fmt.Errorf("drop collection %s: %w", c, err)
		}
		if _, err := tx.ExecContext(ctx, db.dialect.createTable(c)); err != nil {
			return fmt.Errorf("create collection %s: %w", c, err)
		}
	}
	return tx.Commit()
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
