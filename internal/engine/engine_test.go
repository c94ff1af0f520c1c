package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/collfilter"
	"vecdb-go/internal/config"
	"vecdb-go/internal/vecmath"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.MaxDimension = 8
	cfg.Database.MaxPointsPerCollection = 0
	cfg.Persistence.SnapshotPath = filepath.Join(dir, "snapshot.json")
	cfg.Persistence.WalPath = filepath.Join(dir, "wal.jsonl")
	cfg.Persistence.WalSyncOnWrite = true

	e, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngineCreateUpsertGetRoundtrip(t *testing.T) {
	e := newTestEngine(t)

	info, apiErr := e.CreateCollection("widgets", 3, true)
	require.Nil(t, apiErr)
	assert.Equal(t, 3, info.Dimension)

	outcome, apiErr := e.UpsertPoint("widgets", 1, []float32{1, 2, 3}, collection.Payload{"color": "red"})
	require.Nil(t, apiErr)
	assert.Equal(t, collection.Created, outcome)

	values, payload, apiErr := e.GetPoint("widgets", 1)
	require.Nil(t, apiErr)
	assert.Equal(t, []float32{1, 2, 3}, []float32(values))
	assert.Equal(t, "red", payload["color"])
}

func TestEngineSearchFallsBackToExactBelowMinIndexedPoints(t *testing.T) {
	e := newTestEngine(t)
	_, apiErr := e.CreateCollection("widgets", 2, true)
	require.Nil(t, apiErr)

	for i := uint64(1); i <= 5; i++ {
		_, apiErr := e.UpsertPoint("widgets", i, []float32{float32(i), 0}, nil)
		require.Nil(t, apiErr)
	}

	results, mode, recallAtK, apiErr := e.Search("widgets", SearchRequest{
		Query:  []float32{1, 0},
		TopK:   3,
		Metric: vecmath.MetricL2,
	})
	require.Nil(t, apiErr)
	assert.Equal(t, ModeExact, mode)
	assert.Equal(t, 1.0, recallAtK)
	require.Len(t, results, 3)
	assert.Equal(t, collection.PointId(1), results[0].Id)
}

func TestEngineSearchHonorsExplicitExactMode(t *testing.T) {
	e := newTestEngine(t)
	_, apiErr := e.CreateCollection("widgets", 2, true)
	require.Nil(t, apiErr)

	for i := uint64(1); i <= 5; i++ {
		_, apiErr := e.UpsertPoint("widgets", i, []float32{float32(i), 0}, nil)
		require.Nil(t, apiErr)
	}

	results, mode, recallAtK, apiErr := e.Search("widgets", SearchRequest{
		Query:  []float32{1, 0},
		TopK:   3,
		Metric: vecmath.MetricL2,
		Mode:   ModeExact,
	})
	require.Nil(t, apiErr)
	assert.Equal(t, ModeExact, mode)
	assert.Equal(t, 1.0, recallAtK)
	require.Len(t, results, 3)
}

func TestEngineSearchAppliesFilter(t *testing.T) {
	e := newTestEngine(t)
	_, apiErr := e.CreateCollection("widgets", 1, true)
	require.Nil(t, apiErr)

	_, apiErr = e.UpsertPoint("widgets", 1, []float32{1}, collection.Payload{"color": "red"})
	require.Nil(t, apiErr)
	_, apiErr = e.UpsertPoint("widgets", 2, []float32{2}, collection.Payload{"color": "blue"})
	require.Nil(t, apiErr)

	filter := &collfilter.Filter{Must: []collfilter.Clause{{Kind: collfilter.KindMatch, Field: "color", Value: "blue"}}}
	results, _, _, apiErr := e.Search("widgets", SearchRequest{
		Query:  []float32{2},
		TopK:   5,
		Metric: vecmath.MetricL2,
		Filter: filter,
	})
	require.Nil(t, apiErr)
	require.Len(t, results, 1)
	assert.Equal(t, collection.PointId(2), results[0].Id)
}

func TestEngineDeletePointRemovesIt(t *testing.T) {
	e := newTestEngine(t)
	_, apiErr := e.CreateCollection("widgets", 1, true)
	require.Nil(t, apiErr)
	_, apiErr = e.UpsertPoint("widgets", 1, []float32{1}, nil)
	require.Nil(t, apiErr)

	removed, apiErr := e.DeletePoint("widgets", 1)
	require.Nil(t, apiErr)
	assert.True(t, removed)

	_, _, apiErr = e.GetPoint("widgets", 1)
	require.NotNil(t, apiErr)
	assert.Equal(t, "not_found", string(apiErr.Kind))
}

func TestEngineStatusReadyUntilDegraded(t *testing.T) {
	e := newTestEngine(t)
	status := e.Status()
	assert.True(t, status.Live)
	assert.True(t, status.Ready)

	e.DegradedGate().Trip("simulated checkpoint failure")
	status = e.Status()
	assert.True(t, status.Live)
	assert.False(t, status.Ready)
	assert.Equal(t, "simulated checkpoint failure", status.DegradedReason)
}

func TestEngineRecoversAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.MaxDimension = 8
	cfg.Persistence.SnapshotPath = filepath.Join(dir, "snapshot.json")
	cfg.Persistence.WalPath = filepath.Join(dir, "wal.jsonl")
	cfg.Persistence.WalSyncOnWrite = true

	e1, err := Open(cfg)
	require.NoError(t, err)
	_, apiErr := e1.CreateCollection("widgets", 2, true)
	require.Nil(t, apiErr)
	_, apiErr = e1.UpsertPoint("widgets", 1, []float32{1, 2}, nil)
	require.Nil(t, apiErr)
	require.NoError(t, e1.Close())

	e2, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e2.Close() })

	values, _, apiErr := e2.GetPoint("widgets", 1)
	require.Nil(t, apiErr)
	assert.Equal(t, []float32{1, 2}, []float32(values))
}
