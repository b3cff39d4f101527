package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/profile"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

//go:embed schema/LATEST.sql
var schemaFS embed.FS

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL connection from the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, fmt.Errorf("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db with dsn %s: %w", profile.DSN, err)
	}

	return &DB{db: pgDB, profile: profile}, nil
}

func (db *DB) GetDB() *sql.DB {
	return db.db
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := db.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = 'product')",
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if database is initialized: %w", err)
	}
	return exists, nil
}

// ApplyLatestSchema creates all tables from the embedded schema file.
func (db *DB) ApplyLatestSchema(ctx context.Context) error {
	buf, err := schemaFS.ReadFile("schema/LATEST.sql")
	if err != nil {
		return fmt.Errorf("failed to read latest schema: %w", err)
	}
	if _, err := db.db.ExecContext(ctx, string(buf)); err != nil {
		return fmt.Errorf("failed to execute latest schema: %w", err)
	}
	return nil
}

func (db *DB) UpsertMigrationHistory(ctx context.Context, upsert *store.UpsertMigrationHistory) (*store.MigrationHistory, error) {
	query := `
		INSERT INTO migration_history (version)
		VALUES ($1)
		ON CONFLICT (version) DO UPDATE SET version = EXCLUDED.version
		RETURNING version, created_ts
	`
	var history store.MigrationHistory
	if err := db.db.QueryRowContext(ctx, query, upsert.Version).Scan(&history.Version, &history.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert migration history: %w", err)
	}
	return &history, nil
}

func (db *DB) FindMigrationHistoryList(ctx context.Context, _ *store.FindMigrationHistory) ([]*store.MigrationHistory, error) {
	rows, err := db.db.QueryContext(ctx, "SELECT version, created_ts FROM migration_history ORDER BY created_ts DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list migration history: %w", err)
	}
	defer rows.Close()

	var list []*store.MigrationHistory
	for rows.Next() {
		var history store.MigrationHistory
		if err := rows.Scan(&history.Version, &history.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan migration history: %w", err)
		}
		list = append(list, &history)
	}
	return list, rows.Err()
}
