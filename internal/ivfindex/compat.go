package ivfindex

import (
	"github.com/cespare/xxhash/v2"

	"vecdb-go/internal/collection"
)

// IsCompatible reports whether idx still describes c's current content:
// both the point count and the content fingerprint (recomputed over the
// collection's current ascending (id, values) pairs) must match. Either an
// insertion/deletion (len changes) or a same-len update (fingerprint
// changes) makes an index incompatible.
func (idx *Index) IsCompatible(c *collection.Collection) bool {
	if idx.len != c.Len() {
		return false
	}
	return idx.fingerprint == contentFingerprint(c)
}

// contentFingerprint hashes every (id, values) pair in ascending PointId
// order, matching the hash Build folds while gathering points.
func contentFingerprint(c *collection.Collection) uint64 {
	hasher := xxhash.New()
	c.ForEachPoint(func(id collection.PointId, values collection.Vector, _ collection.Payload) {
		hashPoint(hasher, id, values)
	})
	return hasher.Sum64()
}
