package db

import (
	"github.com/pkg/errors"

	"github.com/hmztgr/smartdocs/internal/profile"
	"github.com/hmztgr/smartdocs/store"
	"github.com/hmztgr/smartdocs/store/db/postgres"
	"github.com/hmztgr/smartdocs/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// PostgreSQL is the production database. SQLite is supported for
// development and testing and implements the full driver surface.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
