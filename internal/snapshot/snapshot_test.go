package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/wal"
)

func seededRegistry(t *testing.T) *collection.Registry {
	t.Helper()
	r := collection.NewRegistry()
	c, err := r.Create("widgets", collection.Config{Dimension: 2, StrictFinite: true}, 0)
	require.NoError(t, err)
	_, err = c.UpsertPoint(1, collection.Vector{1, 2}, collection.Payload{"tag": "a"}, 0)
	require.NoError(t, err)
	_, err = c.UpsertPoint(2, collection.Vector{3, 4}, nil, 0)
	require.NoError(t, err)
	return r
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	original := seededRegistry(t)
	require.NoError(t, Write(path, original))

	restored, err := Load(path, 0, 0)
	require.NoError(t, err)

	c, err := restored.Get("widgets")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	values, payload, ok := c.GetPoint(1)
	require.True(t, ok)
	assert.Equal(t, collection.Vector{1, 2}, values)
	assert.Equal(t, "a", payload["tag"])
}

func TestLoadMissingSnapshotReturnsEmptyRegistry(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "absent.json"), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, r.Names())
}

func TestWriteIsAtomicNoPartialFileObservable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	registry := seededRegistry(t)

	require.NoError(t, Write(path, registry))
	// No leftover temp file after a successful write.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "snapshot.json", e.Name())
	}
}

func TestCheckpointTruncatesWal(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "snapshot.json")
	walPath := filepath.Join(dir, "wal.jsonl")

	registry := collection.NewRegistry()
	_, err := registry.Create("widgets", collection.Config{Dimension: 2}, 0)
	require.NoError(t, err)

	_, err = wal.Append(walPath, wal.NewCreateCollection("widgets", 2, false), true)
	require.NoError(t, err)
	_, err = wal.Append(walPath, wal.NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, nil), true)
	require.NoError(t, err)

	require.NoError(t, Checkpoint(snapshotPath, walPath, registry, 4))

	data, err := os.ReadFile(walPath)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = os.Stat(snapshotPath)
	assert.NoError(t, err)
}

func TestRecoverOrdersSnapshotThenIncrementalsThenWal(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "snapshot.json")
	walPath := filepath.Join(dir, "wal.jsonl")

	base := collection.NewRegistry()
	c, err := base.Create("widgets", collection.Config{Dimension: 1}, 0)
	require.NoError(t, err)
	_, err = c.UpsertPoint(1, collection.Vector{1}, nil, 0)
	require.NoError(t, err)
	require.NoError(t, Write(snapshotPath, base))

	incDir := IncrementalsDir(snapshotPath)
	_, err = WriteSegment(incDir, []wal.Record{
		wal.NewUpsertPoint("widgets", 2, collection.Vector{2}, nil),
	})
	require.NoError(t, err)

	_, err = wal.Append(walPath, wal.NewUpsertPoint("widgets", 3, collection.Vector{3}, nil), true)
	require.NoError(t, err)

	recovered, err := Recover(snapshotPath, walPath, 0, 0)
	require.NoError(t, err)

	c2, err := recovered.Get("widgets")
	require.NoError(t, err)
	assert.Equal(t, []collection.PointId{1, 2, 3}, c2.PointIds())
}

func TestListSegmentsIgnoresNonJsonlAndMissingDir(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "snapshot.json.incrementals")
	require.NoError(t, os.MkdirAll(incDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(incDir, "0000.jsonl"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(incDir, "readme.txt"), []byte(""), 0o644))

	names, err := ListSegments(incDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0000.jsonl"}, names)

	names, err = ListSegments(filepath.Join(dir, "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListSegmentsIgnoresRegularFileInPlaceOfDirectory(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "snapshot.json.incrementals")
	require.NoError(t, os.WriteFile(incDir, []byte("not a directory"), 0o644))

	names, err := ListSegments(incDir)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPruneSegmentsKeepsMostRecent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		_, err := WriteSegment(dir, []wal.Record{wal.NewUpsertPoint("widgets", collection.PointId(i), collection.Vector{1}, nil)})
		require.NoError(t, err)
	}
	require.NoError(t, PruneSegments(dir, 2))

	names, err := ListSegments(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0003.jsonl", "0004.jsonl"}, names)
}
