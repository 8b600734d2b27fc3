// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/openfootball/matchsim/internal/config"
	"github.com/openfootball/matchsim/internal/logging"
	gormstorage "github.com/openfootball/matchsim/internal/storage/gorm"
	"github.com/openfootball/matchsim/internal/storage/memory"
	sqlitestorage "github.com/openfootball/matchsim/internal/storage/sqlite"
	"github.com/openfootball/matchsim/internal/storage/websocket"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return gormstorage.New(gormstorage.Dependencies{LogManager: logManager}), nil
	case "sqlite":
		b, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, logManager)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "websocket":
		return websocket.New(cfg.Websocket), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
