// internal/storage/storage_test.go
package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/internal/storage"
	gormstorage "github.com/flappyballoon/balloon/internal/storage/gorm"
	"github.com/flappyballoon/balloon/internal/storage/memory"
	"github.com/flappyballoon/balloon/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend    = (*memory.Backend)(nil)
	_ storage.Exportable = (*memory.Backend)(nil)
	_ storage.Backend    = (*gormstorage.Backend)(nil)
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Type: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)
}

func TestNewBackend_SQLite(t *testing.T) {
	cfg := config.StorageConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "balloon.db")},
	}
	b, err := storage.NewBackend(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.RecordRun(&core.RunResult{Score: 4, FinishedAt: time.Now()}))
	best, err := b.BestScore()
	require.NoError(t, err)
	assert.Equal(t, 4, best)
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "redis"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown storage type")
}

func TestErrNotFound(t *testing.T) {
	b := memory.New(config.MemoryConfig{})
	_, err := b.BestScore()
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
