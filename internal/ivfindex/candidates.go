package ivfindex

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/vecmath"
)

// DefaultTargetRecall is used when a caller doesn't specify target_recall.
const DefaultTargetRecall = 0.1

// rankedCluster pairs a cluster with its distance from the query centroid,
// used only to sort clusters by proximity before accumulating candidates.
type rankedCluster struct {
	index    int
	distance float32
}

// ResolveTargetRecall clamps a caller-supplied target_recall into (0, 1],
// defaulting a nil or non-positive value to DefaultTargetRecall. Callers
// report this resolved value back as recall_at_k for an IVF search, since
// there's no ground truth to measure achieved recall against.
func ResolveTargetRecall(targetRecall *float64) float64 {
	recall := DefaultTargetRecall
	if targetRecall != nil {
		recall = *targetRecall
	}
	if recall <= 0 {
		recall = DefaultTargetRecall
	}
	if recall > 1 {
		recall = 1
	}
	return recall
}

// CandidateSlots ranks clusters by distance from query to centroid and
// returns the union of point ids from the smallest prefix of clusters whose
// cumulative point count reaches ceil(targetRecall * len).
// A nil targetRecall defaults to DefaultTargetRecall. targetRecall == 1.0
// returns every point id in the collection, signaling the caller to fall
// back to exact search.
func (idx *Index) CandidateSlots(query []float32, metric vecmath.Metric, targetRecall *float64) ([]collection.PointId, error) {
	recall := ResolveTargetRecall(targetRecall)

	ranked := make([]rankedCluster, len(idx.clusters))
	for i, cl := range idx.clusters {
		dist, err := vecmath.DistanceWithOptions(query, cl.centroid, metric, vecmath.Options{StrictFinite: false})
		if err != nil {
			return nil, err
		}
		ranked[i] = rankedCluster{index: i, distance: dist}
	}

	ascending := vecmath.Ascending(metric)
	sort.Slice(ranked, func(i, j int) bool {
		if ascending {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].distance > ranked[j].distance
	})

	threshold := int(math.Ceil(recall * float64(idx.len)))
	union := roaring.New()
	accumulated := 0
	for _, rc := range ranked {
		cl := idx.clusters[rc.index]
		union.Or(cl.members)
		accumulated += cl.count
		if accumulated >= threshold {
			break
		}
	}

	ids := make([]collection.PointId, 0, union.GetCardinality())
	iter := union.Iterator()
	for iter.HasNext() {
		ids = append(ids, collection.PointId(iter.Next()))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// IsFullRecall reports whether targetRecall requests the entire collection
// (target_recall == 1.0), in which case the caller must fall back to exact
// search and report mode="exact".
func IsFullRecall(targetRecall *float64) bool {
	return targetRecall != nil && *targetRecall >= 1.0
}
