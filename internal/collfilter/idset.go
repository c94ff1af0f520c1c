package collfilter

import (
	"github.com/RoaringBitmap/roaring"

	"vecdb-go/internal/collection"
)

// MatchingIds scans c's current points and returns a roaring bitmap of the
// point ids whose payload satisfies f, the same id-bitmap plumbing the
// teacher's filter package builds for attribute filtering, generalized here
// from int-only fields to the full MetadataValue union. A nil filter
// matches every point.
func MatchingIds(c *collection.Collection, f *Filter) *roaring.Bitmap {
	matches := roaring.New()
	c.ForEachPoint(func(id collection.PointId, _ collection.Vector, payload collection.Payload) {
		if Matches(payload, f) {
			matches.Add(uint32(id))
		}
	})
	return matches
}
