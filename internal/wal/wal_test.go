package wal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vecdb-go/internal/collection"
)

func walPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "nested", "wal.jsonl")
}

func TestAppendCreatesParentDirectory(t *testing.T) {
	path := walPath(t)
	_, err := Append(path, NewCreateCollection("widgets", 3, true), true)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestAppendBatchWritesOneJSONObjectPerLine(t *testing.T) {
	path := walPath(t)
	records := []Record{
		NewCreateCollection("widgets", 2, true),
		NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, nil),
	}
	_, err := AppendBatch(path, records, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(string(data))
	assert.Len(t, lines, 2)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}

func TestReplayAppliesRecordsInOrder(t *testing.T) {
	path := walPath(t)
	records := []Record{
		NewCreateCollection("widgets", 2, true),
		NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, collection.Payload{"tag": "a"}),
		NewUpsertPoint("widgets", 2, collection.Vector{3, 4}, nil),
		NewDeletePoint("widgets", 1),
	}
	_, err := AppendBatch(path, records, true)
	require.NoError(t, err)

	registry := collection.NewRegistry()
	require.NoError(t, Replay(path, registry, 0, 0))

	c, err := registry.Get("widgets")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	_, _, ok := c.GetPoint(2)
	assert.True(t, ok)
	_, _, ok = c.GetPoint(1)
	assert.False(t, ok)
}

func TestReplayMissingFileIsNotAnError(t *testing.T) {
	registry := collection.NewRegistry()
	err := Replay(filepath.Join(t.TempDir(), "absent.jsonl"), registry, 0, 0)
	assert.NoError(t, err)
}

func TestReplayTolerantOfTornLastRecord(t *testing.T) {
	path := walPath(t)
	records := []Record{
		NewCreateCollection("widgets", 2, true),
		NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, nil),
	}
	_, err := AppendBatch(path, records, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Append a record, then truncate it mid-way with no trailing newline,
	// simulating a crash during a partial write.
	tornRecord := NewUpsertPoint("widgets", 2, collection.Vector{5, 6}, nil)
	line, err := tornRecord.encodeLine()
	require.NoError(t, err)
	torn := append(data, line[:len(line)/2]...)
	require.NoError(t, os.WriteFile(path, torn, 0o644))

	registry := collection.NewRegistry()
	require.NoError(t, Replay(path, registry, 0, 0))

	c, err := registry.Get("widgets")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	_, _, ok := c.GetPoint(2)
	assert.False(t, ok, "torn record must not be applied")
}

func TestReplayRejectsCorruptionOutsideTheTail(t *testing.T) {
	path := walPath(t)
	good, err := NewCreateCollection("widgets", 2, true).encodeLine()
	require.NoError(t, err)
	garbage := []byte("not json at all\n")
	moreGood, err := NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, nil).encodeLine()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, append(append(good, garbage...), moreGood...), 0o644))

	registry := collection.NewRegistry()
	err = Replay(path, registry, 0, 0)
	require.Error(t, err)
	var replayErr *ReplayError
	assert.ErrorAs(t, err, &replayErr)
	assert.Equal(t, 2, replayErr.Line)
}

func TestTruncateEmptiesFile(t *testing.T) {
	path := walPath(t)
	_, err := Append(path, NewCreateCollection("widgets", 1, true), true)
	require.NoError(t, err)

	require.NoError(t, Truncate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestShouldSyncThisWrite(t *testing.T) {
	assert.True(t, ShouldSyncThisWrite(4, 4))
	assert.False(t, ShouldSyncThisWrite(3, 4))
	assert.False(t, ShouldSyncThisWrite(4, 0))
}

func TestShouldSyncBatchCrossesThreshold(t *testing.T) {
	assert.True(t, ShouldSyncBatch(3, 3, 4)) // covers writes 3,4,5 -> includes 4
	assert.False(t, ShouldSyncBatch(5, 2, 4))
	assert.False(t, ShouldSyncBatch(1, 3, 0))
}

func TestGroupQueueAssignsSingleLeaderUntilReleased(t *testing.T) {
	q := NewGroupQueue()

	isLeader1, _ := q.Enqueue(NewUpsertPoint("demo", 1, collection.Vector{1, 2}, nil))
	assert.True(t, isLeader1)

	isLeader2, _ := q.Enqueue(NewUpsertPoint("demo", 2, collection.Vector{1, 2}, nil))
	assert.False(t, isLeader2)

	firstBatch := q.TakeBatchOrReleaseLeader(8)
	assert.Len(t, firstBatch, 2)
	assert.Empty(t, q.TakeBatchOrReleaseLeader(8))

	isLeader3, _ := q.Enqueue(NewUpsertPoint("demo", 3, collection.Vector{1, 2}, nil))
	assert.True(t, isLeader3)
}

func TestGroupQueueRunLeaderSettlesAllWaiters(t *testing.T) {
	path := walPath(t)
	q := NewGroupQueue()

	_, result1 := q.Enqueue(NewCreateCollection("widgets", 2, true))
	_, result2 := q.Enqueue(NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, nil))

	q.RunLeader(path, 8, 0, true)

	r1 := <-result1
	r2 := <-result2
	assert.NoError(t, r1.Err)
	assert.NoError(t, r2.Err)
	assert.Equal(t, r1.State.WalSizeBytes, r2.State.WalSizeBytes)
}

func TestGroupQueueRunLeaderWithFlushDelayAccumulatesLateArrivals(t *testing.T) {
	path := walPath(t)
	q := NewGroupQueue()

	_, result1 := q.Enqueue(NewCreateCollection("widgets", 2, true))

	go func() {
		time.Sleep(5 * time.Millisecond)
		q.Enqueue(NewUpsertPoint("widgets", 1, collection.Vector{1, 2}, nil))
	}()

	q.RunLeader(path, 8, 20*time.Millisecond, true)

	r1 := <-result1
	assert.NoError(t, r1.Err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, splitLines(string(data)), 2)
}
