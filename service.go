package solder

import (
	"fmt"
	"os"
	"path/filepath"

	"solder/common"
	"solder/srv"
	"solder/srv/redis"
	"solder/srv/sqlite"

	"github.com/rs/zerolog/log"
)

// GetStorage returns the session/deploy-history storage backend selected via
// SOLDER_STORAGE, defaulting to SQLite under the solder data home.
func GetStorage() (srv.Storage, error) {
	switch os.Getenv("SOLDER_STORAGE") {
	case "redis":
		log.Info().Msg("Using Redis storage")
		return redis.NewStorage(), nil
	default:
		dataHome, err := common.GetSolderDataHome()
		if err != nil {
			return nil, fmt.Errorf("failed to get solder data home: %w", err)
		}
		db, err := sqlite.NewDb(filepath.Join(dataHome, "solder.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		if err := sqlite.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate SQLite storage: %w", err)
		}
		log.Info().Msg("Using SQLite storage")
		return sqlite.NewStorage(db), nil
	}
}
