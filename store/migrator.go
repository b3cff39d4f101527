package store

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/version"
)

type MigrationHistory struct {
	Version   string
	CreatedTs int64
}

type UpsertMigrationHistory struct {
	Version string
}

type FindMigrationHistory struct{}

// Migrate brings the database up to the schema this binary expects. A fresh
// database gets the full latest schema; an existing one is only checked for
// version compatibility (there are no incremental migrations yet).
func (s *Store) Migrate(ctx context.Context) error {
	currentVersion := version.GetSchemaVersion(version.GetCurrentVersion(s.profile.Mode))

	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database state")
	}

	if !initialized {
		if err := s.driver.ApplyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if _, err := s.driver.UpsertMigrationHistory(ctx, &UpsertMigrationHistory{Version: currentVersion}); err != nil {
			return errors.Wrap(err, "failed to record migration history")
		}
		slog.Info("database initialized", "version", currentVersion, "driver", s.profile.Driver)
		return nil
	}

	histories, err := s.driver.FindMigrationHistoryList(ctx, &FindMigrationHistory{})
	if err != nil {
		return errors.Wrap(err, "failed to find migration history")
	}
	if len(histories) == 0 {
		// Pre-versioning database; record the current version and move on.
		if _, err := s.driver.UpsertMigrationHistory(ctx, &UpsertMigrationHistory{Version: currentVersion}); err != nil {
			return errors.Wrap(err, "failed to record migration history")
		}
		return nil
	}

	latest := histories[0].Version
	if version.IsVersionGreaterThan(latest, currentVersion) {
		return errors.Errorf("database schema version %s is newer than binary version %s", latest, currentVersion)
	}
	if version.IsVersionGreaterThan(currentVersion, latest) {
		if _, err := s.driver.UpsertMigrationHistory(ctx, &UpsertMigrationHistory{Version: currentVersion}); err != nil {
			return errors.Wrap(err, "failed to record migration history")
		}
		slog.Info("schema version recorded", "from", latest, "to", currentVersion)
	}
	return nil
}
