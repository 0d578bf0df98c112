// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/internal/database"
	gormstorage "github.com/flappyballoon/balloon/internal/storage/gorm"
	"github.com/flappyballoon/balloon/internal/storage/memory"
	"github.com/rs/zerolog"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres", "sqlite":
		mgr := database.NewManager(log)
		if err := mgr.Connect(cfg); err != nil {
			return nil, err
		}
		return gormstorage.New(mgr.DB, log), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
