package ivfindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/vecmath"
)

func newDemoCollection(t *testing.T) *collection.Collection {
	t.Helper()
	c := collection.New("demo", collection.Config{Dimension: 2, StrictFinite: true})
	for id := 0; id < MinIndexedPoints; id++ {
		_, err := c.UpsertPoint(uint64(id), []float32{float32(id), 0}, nil, 0)
		require.NoError(t, err)
	}
	return c
}

func TestIndexBecomesIncompatibleForSameLenUpdates(t *testing.T) {
	c := newDemoCollection(t)
	idx, err := Build(c)
	require.NoError(t, err)
	assert.True(t, idx.IsCompatible(c))

	_, err = c.UpsertPoint(1, []float32{1234, 0}, nil, 0)
	require.NoError(t, err)
	assert.False(t, idx.IsCompatible(c))
}

func TestIndexBecomesIncompatibleWhenLenChanges(t *testing.T) {
	c := newDemoCollection(t)
	idx, err := Build(c)
	require.NoError(t, err)

	_, err = c.UpsertPoint(MinIndexedPoints+1, []float32{0, 0}, nil, 0)
	require.NoError(t, err)
	assert.False(t, idx.IsCompatible(c))
}

func TestCandidateSlotsReduceSearchSpace(t *testing.T) {
	c := collection.New("demo", collection.Config{Dimension: 2, StrictFinite: true})
	for id := 0; id < MinIndexedPoints; id++ {
		shift := float32(0)
		if id >= MinIndexedPoints/2 {
			shift = 1000
		}
		_, err := c.UpsertPoint(uint64(id), []float32{shift + float32(id%10), 0}, nil, 0)
		require.NoError(t, err)
	}

	idx, err := Build(c)
	require.NoError(t, err)

	candidates, err := idx.CandidateSlots([]float32{1005, 0}, vecmath.MetricL2, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, candidates)
	assert.Less(t, len(candidates), c.Len())
}

func TestHigherRecallTargetExpandsCandidatePool(t *testing.T) {
	c := collection.New("demo", collection.Config{Dimension: 2, StrictFinite: true})
	for id := 0; id < MinIndexedPoints; id++ {
		_, err := c.UpsertPoint(uint64(id), []float32{float32(id % 32), float32(id % 7)}, nil, 0)
		require.NoError(t, err)
	}

	idx, err := Build(c)
	require.NoError(t, err)

	low := 0.2
	high := 1.0
	lowCandidates, err := idx.CandidateSlots([]float32{3, 1}, vecmath.MetricL2, &low)
	require.NoError(t, err)
	highCandidates, err := idx.CandidateSlots([]float32{3, 1}, vecmath.MetricL2, &high)
	require.NoError(t, err)

	assert.NotEmpty(t, lowCandidates)
	assert.GreaterOrEqual(t, len(highCandidates), len(lowCandidates))
	assert.Equal(t, c.Len(), len(highCandidates))
	assert.True(t, IsFullRecall(&high))
	assert.False(t, IsFullRecall(&low))
}

func TestBuildRejectsTooFewPoints(t *testing.T) {
	c := collection.New("demo", collection.Config{Dimension: 2, StrictFinite: true})
	_, err := c.UpsertPoint(1, []float32{1, 2}, nil, 0)
	require.NoError(t, err)

	_, err = Build(c)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestManagerCooldownSuppressesRebuild(t *testing.T) {
	c := newDemoCollection(t)
	m := NewManager()
	m.cooldown = time.Hour

	m.TriggerBuild(c)
	waitForIndex(t, m, c.Name())
	first, ok := m.Get(c.Name())
	require.True(t, ok)

	// A second trigger inside the cooldown window must not replace the index.
	m.TriggerBuild(c)
	time.Sleep(50 * time.Millisecond)

	second, ok := m.Get(c.Name())
	assert.True(t, ok)
	assert.Same(t, first, second)
}

func waitForIndex(t *testing.T, m *Manager, name string) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if _, ok := m.Get(name); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("index for %q never appeared", name)
}
