package db

import (
	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/profile"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
	"github.com/nischalvasista13-maker/Snap-and-sell/store/db/postgres"
	"github.com/nischalvasista13-maker/Snap-and-sell/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s", profile.Driver)
	}
}
