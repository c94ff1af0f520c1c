package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleToml = `
[dev.database]
max_dimension = 128
max_points_per_collection = 100
memory_budget_bytes = 0
strict_finite = true
max_page_limit = 50
max_topk_limit = 50

[dev.persistence]
persistence_enabled = true
snapshot_path = "dev/snapshot.json"
wal_path = "dev/wal.jsonl"
wal_sync_on_write = true
checkpoint_interval = 10

[dev.server]
port = 9090
log_level = "debug"

[test.database]
max_dimension = 8
max_points_per_collection = 10
strict_finite = true
max_page_limit = 10
max_topk_limit = 10

[test.persistence]
persistence_enabled = false
snapshot_path = "test/snapshot.json"
wal_path = "test/wal.jsonl"
checkpoint_interval = 3

[test.server]
port = 0
log_level = "error"
`

func writeSampleConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleToml), 0o644))
	return path
}

func TestLoadDevProfile(t *testing.T) {
	path := writeSampleConfig(t)
	cfg, err := Load(path, "dev")
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Database.MaxDimension)
	assert.Equal(t, uint16(9090), cfg.Server.Port)
}

func TestLoadTestProfile(t *testing.T) {
	path := writeSampleConfig(t)
	cfg, err := Load(path, "test")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Database.MaxDimension)
	assert.False(t, cfg.Persistence.Enabled)
}

func TestDefaultIsUsable(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.Database.MaxDimension, 0)
	assert.True(t, cfg.Persistence.Enabled)
}
