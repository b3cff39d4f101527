package sqlite

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/profile"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

//go:embed schema/LATEST.sql
var schemaFS embed.FS

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// Connect with some sane settings:
	// - No foreign key constraints: explicit to prevent surprises on SQLite upgrades.
	// - Busy timeout so catalog writes and match reads don't fail on transient locks.
	// - WAL journal mode: the recommended mode, prevents locking issues.
	//
	// With the `modernc.org/sqlite` driver each pragma must be prefixed with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// A single connection is optimal for SQLite with WAL; it serializes the
	// catalog write path for free while reads go through the same handle.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type='table' AND name='product')").Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}

// ApplyLatestSchema creates all tables from the embedded schema file.
func (d *DB) ApplyLatestSchema(ctx context.Context) error {
	buf, err := schemaFS.ReadFile("schema/LATEST.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read latest schema")
	}
	if _, err := d.db.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute latest schema")
	}
	return nil
}

func (d *DB) UpsertMigrationHistory(ctx context.Context, upsert *store.UpsertMigrationHistory) (*store.MigrationHistory, error) {
	stmt := `
		INSERT INTO migration_history (version)
		VALUES (?)
		ON CONFLICT (version) DO UPDATE SET version = excluded.version
		RETURNING version, created_ts
	`
	var history store.MigrationHistory
	if err := d.db.QueryRowContext(ctx, stmt, upsert.Version).Scan(&history.Version, &history.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert migration history")
	}
	return &history, nil
}

func (d *DB) FindMigrationHistoryList(ctx context.Context, _ *store.FindMigrationHistory) ([]*store.MigrationHistory, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT version, created_ts FROM migration_history ORDER BY created_ts DESC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list migration history")
	}
	defer rows.Close()

	var list []*store.MigrationHistory
	for rows.Next() {
		var history store.MigrationHistory
		if err := rows.Scan(&history.Version, &history.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan migration history")
		}
		list = append(list, &history)
	}
	return list, rows.Err()
}
