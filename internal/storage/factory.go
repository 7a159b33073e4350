package storage

import (
	"fmt"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/config"
)

// New builds the configured backend.
func New(cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case "postgres":
		return NewPostgresStore(cfg.DBDSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.DBType)
	}
}
