// internal/storage/storage_test.go
package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfootball/matchsim/internal/config"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/storage"
	"github.com/openfootball/matchsim/internal/storage/memory"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, logging.NewSlogManager())
	require.NoError(t, err)
	assert.IsType(t, (*memory.Backend)(nil), b)
}

func TestNewBackend_UnknownType(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "carrier-pigeon"}, logging.NewSlogManager())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
