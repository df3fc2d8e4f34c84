package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quantmind-br/claudeport/internal/core"
)

// DB is the build ledger with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New opens the ledger with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	// Read pool: Can have multiple connections
	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(10)
	read.SetMaxIdleConns(5)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// initSchema creates the schema if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS builds (
    build_id TEXT PRIMARY KEY,
    version TEXT,
    build_date DATETIME DEFAULT CURRENT_TIMESTAMP,
    installer_file TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    desktop_file TEXT,
    metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_builds_version ON builds(version);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);
	`

	_, err := db.write.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Create records a completed build
func (db *DB) Create(ctx context.Context, rec *core.BuildRecord) error {
	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
INSERT INTO builds (build_id, version, build_date, installer_file, output_dir, desktop_file, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.write.ExecContext(ctx, query,
		rec.BuildID,
		rec.Version,
		rec.BuildDate,
		rec.InstallerFile,
		rec.OutputDir,
		rec.DesktopFile,
		string(metadataJSON),
	)

	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	return nil
}

// Get retrieves a build record by ID
func (db *DB) Get(ctx context.Context, buildID string) (*core.BuildRecord, error) {
	query := `
SELECT build_id, version, build_date, installer_file, output_dir, desktop_file, metadata
FROM builds WHERE build_id = ?
	`

	var rec core.BuildRecord
	var metadataJSON string

	err := db.read.QueryRowContext(ctx, query, buildID).Scan(
		&rec.BuildID,
		&rec.Version,
		&rec.BuildDate,
		&rec.InstallerFile,
		&rec.OutputDir,
		&rec.DesktopFile,
		&metadataJSON,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("build not found: %s", buildID)
	}
	if err != nil {
		return nil, fmt.Errorf("query build: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return &rec, nil
}

// List retrieves all build records, newest first
func (db *DB) List(ctx context.Context) ([]core.BuildRecord, error) {
	query := `
SELECT build_id, version, build_date, installer_file, output_dir, desktop_file, metadata
FROM builds ORDER BY build_date DESC
	`

	rows, err := db.read.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []core.BuildRecord
	for rows.Next() {
		var rec core.BuildRecord
		var metadataJSON string

		err := rows.Scan(
			&rec.BuildID,
			&rec.Version,
			&rec.BuildDate,
			&rec.InstallerFile,
			&rec.OutputDir,
			&rec.DesktopFile,
			&metadataJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}

		if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}

		builds = append(builds, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return builds, nil
}

// Delete removes a build record
func (db *DB) Delete(ctx context.Context, buildID string) error {
	query := "DELETE FROM builds WHERE build_id = ?"

	result, err := db.write.ExecContext(ctx, query, buildID)
	if err != nil {
		return fmt.Errorf("delete build: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("build not found: %s", buildID)
	}

	return nil
}

// Latest returns the most recent build record, or nil when the ledger
// is empty.
func (db *DB) Latest(ctx context.Context) (*core.BuildRecord, error) {
	builds, err := db.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		return nil, nil
	}
	return &builds[0], nil
}
