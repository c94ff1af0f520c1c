package wal

import "time"

// RunLeader drives the group-commit loop for whichever producer became
// leader on its Enqueue call. It drains the queue, optionally sleeps
// flushDelay to let concurrent producers pile onto the same batch, appends
// once, and fans the result out to every drained write. It keeps draining
// until the queue goes empty, matching "if records arrived during the
// flush, the next drain keeps leadership".
func (q *GroupQueue) RunLeader(path string, maxBatch int, flushDelay time.Duration, syncOnWrite bool) {
	for {
		batch := q.TakeBatchOrReleaseLeader(maxBatch)
		if len(batch) == 0 {
			return
		}

		if flushDelay > 0 && len(batch) < maxBatch {
			time.Sleep(flushDelay)
			more := q.TakeBatch(maxBatch - len(batch))
			batch = append(batch, more...)
		}

		records := make([]Record, len(batch))
		for i, w := range batch {
			records[i] = w.record
		}

		state, err := AppendBatch(path, records, syncOnWrite)
		settle(batch, state, err)
	}
}
