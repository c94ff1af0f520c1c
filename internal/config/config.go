// Package config loads the engine's TOML configuration: a profile-selected
// AppConfig decoded with BurntSushi/toml.
package config

import "github.com/BurntSushi/toml"

// DatabaseConfig holds the process-wide ceilings and defaults.
type DatabaseConfig struct {
	MaxDimension           int    `toml:"max_dimension"`
	MaxPointsPerCollection int    `toml:"max_points_per_collection"`
	MemoryBudgetBytes      uint64 `toml:"memory_budget_bytes"`
	StrictFinite           bool   `toml:"strict_finite"`
	MaxPageLimit           int    `toml:"max_page_limit"`
	MaxTopKLimit           int    `toml:"max_topk_limit"`
}

// PersistenceConfig holds WAL/snapshot/checkpoint tuning.
type PersistenceConfig struct {
	Enabled                    bool   `toml:"persistence_enabled"`
	SnapshotPath               string `toml:"snapshot_path"`
	WalPath                    string `toml:"wal_path"`
	WalSyncOnWrite             bool   `toml:"wal_sync_on_write"`
	WalSyncEveryNWrites        int    `toml:"wal_sync_every_n_writes"`
	WalSyncIntervalSeconds     int    `toml:"wal_sync_interval_seconds"`
	WalGroupCommitMaxBatch     int    `toml:"wal_group_commit_max_batch"`
	WalGroupCommitFlushDelayMs int    `toml:"wal_group_commit_flush_delay_ms"`
	CheckpointInterval         int    `toml:"checkpoint_interval"`
	AsyncCheckpoints           bool   `toml:"async_checkpoints"`
	CheckpointCompactAfter     int    `toml:"checkpoint_compact_after"`
}

// IndexConfig holds the IVF knobs. The three AIONBD_L2_INDEX_* settings are
// read directly from the environment (see internal/ivfindex/settings.go,
// each memoized with sync.Once) rather than this struct, since they're
// meant to be tunable without a config reload.
type IndexConfig struct{}

// ServerConfig holds the HTTP transport's own knobs, kept here so
// cmd/server has somewhere real to read from.
type ServerConfig struct {
	Port     uint16 `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// AppConfig is the top-level decoded configuration document.
type AppConfig struct {
	Database    DatabaseConfig    `toml:"database"`
	Persistence PersistenceConfig `toml:"persistence"`
	Index       IndexConfig       `toml:"index"`
	Server      ServerConfig      `toml:"server"`
}

// ProfileConfig groups a dev and a test AppConfig under one TOML document.
type ProfileConfig struct {
	Dev  AppConfig `toml:"dev"`
	Test AppConfig `toml:"test"`
}

// Default returns the built-in configuration used when no config.toml is
// present, so the engine and its tests don't depend on a file on disk.
func Default() AppConfig {
	return AppConfig{
		Database: DatabaseConfig{
			MaxDimension:           4096,
			MaxPointsPerCollection: 1_000_000,
			MemoryBudgetBytes:      0,
			StrictFinite:           true,
			MaxPageLimit:           1000,
			MaxTopKLimit:           1000,
		},
		Persistence: PersistenceConfig{
			Enabled:                    true,
			SnapshotPath:               "data/snapshot.json",
			WalPath:                    "data/wal.jsonl",
			WalSyncOnWrite:             true,
			WalSyncEveryNWrites:        0,
			WalSyncIntervalSeconds:     0,
			WalGroupCommitMaxBatch:     64,
			WalGroupCommitFlushDelayMs: 0,
			CheckpointInterval:         1000,
			AsyncCheckpoints:           false,
			CheckpointCompactAfter:     8,
		},
		Server: ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
	}
}

// Load decodes path into a ProfileConfig and returns the named profile
// ("dev" or "test").
func Load(path, profile string) (AppConfig, error) {
	var profiles ProfileConfig
	if _, err := toml.DecodeFile(path, &profiles); err != nil {
		return AppConfig{}, err
	}
	switch profile {
	case "test":
		return profiles.Test, nil
	default:
		return profiles.Dev, nil
	}
}
