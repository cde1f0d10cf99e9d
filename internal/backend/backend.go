// Package backend opens the storage.Backend selected in the settings.
package backend

import (
	"context"
	"fmt"

	"gtodo/internal/backend/filestore"
	"gtodo/internal/backend/memstore"
	"gtodo/internal/backend/pgstore"
	"gtodo/internal/backend/sqlitestore"
	"gtodo/internal/config"
	"gtodo/internal/storage"
)

// Open returns the driver named in s.Driver.
func Open(ctx context.Context, s config.StorageSettings) (storage.Backend, error) {
	if err := storage.ValidateKey(s.Key); err != nil {
		return nil, err
	}
	switch s.Driver {
	case storage.DriverFile, "":
		return filestore.New(s.Dir)
	case storage.DriverSQLite:
		return sqlitestore.New(s.Path)
	case storage.DriverPostgres:
		if s.DSN == "" {
			return nil, fmt.Errorf("postgres storage requires storage.dsn")
		}
		return pgstore.Connect(ctx, s.DSN)
	case storage.DriverMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s (want one of %v)", s.Driver, storage.Drivers())
	}
}
