package engine

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"vecdb-go/internal/apierr"
	"vecdb-go/internal/collection"
	"vecdb-go/internal/collfilter"
	"vecdb-go/internal/ivfindex"
	"vecdb-go/internal/vecmath"
)

// SearchMode reports which code path produced a search result: exact brute
// force, or ivf via the approximate index.
type SearchMode string

const (
	ModeExact SearchMode = "exact"
	ModeIVF   SearchMode = "ivf"
)

// ScoredPoint is one ranked search result.
type ScoredPoint struct {
	Id      collection.PointId
	Score   float32
	Payload collection.Payload
}

// SearchRequest bundles a top-k query's parameters. Mode set to ModeExact
// pins the search to brute force; ModeIVF and the zero value behave the
// same, using the index when candidateIds' fallback rules allow it and
// falling back to exact otherwise.
type SearchRequest struct {
	Query        []float32
	TopK         int
	Metric       vecmath.Metric
	Mode         SearchMode
	TargetRecall *float64
	Filter       *collfilter.Filter
}

// Search ranks a collection's points against req.Query, falling back to
// exact brute force whenever the collection is too small to index, no
// compatible index exists yet, the caller asked for full recall, or the
// caller pinned req.Mode to ModeExact. It also reports recall_at_k: 1.0
// for an exact search (brute force always finds the true top-k), or the
// resolved target_recall used to pick candidates for an ivf search.
func (e *Engine) Search(collName string, req SearchRequest) ([]ScoredPoint, SearchMode, float64, *apierr.Error) {
	c, err := e.registry.Get(collName)
	if err != nil {
		return nil, "", 0, apierr.NotFound("collection not found: " + collName)
	}
	if len(req.Query) != c.Dimension() {
		return nil, "", 0, apierr.InvalidArgument("query vector dimension does not match collection dimension")
	}
	if req.TopK <= 0 || req.TopK > e.cfg.Database.MaxTopKLimit {
		return nil, "", 0, apierr.InvalidArgument("top_k must be positive and within the configured limit")
	}
	if req.Filter != nil {
		if verr := collfilter.Validate(req.Filter); verr != nil {
			return nil, "", 0, apierr.InvalidArgument(verr.Error())
		}
	}

	var filterIds *roaring.Bitmap
	if req.Filter != nil {
		filterIds = collfilter.MatchingIds(c, req.Filter)
	}

	candidateIds, mode := e.candidateIds(c, req)
	if filterIds != nil {
		candidateIds = intersectSorted(candidateIds, filterIds)
	}

	scored := make([]ScoredPoint, 0, len(candidateIds))
	for _, id := range candidateIds {
		values, payload, ok := c.GetPoint(id)
		if !ok {
			continue
		}
		score, distErr := vecmath.DistanceWithOptions(req.Query, values, req.Metric, vecmath.Options{StrictFinite: false})
		if distErr != nil {
			continue
		}
		scored = append(scored, ScoredPoint{Id: id, Score: score, Payload: payload})
	}

	ascending := vecmath.Ascending(req.Metric)
	sort.Slice(scored, func(i, j int) bool {
		if ascending {
			return scored[i].Score < scored[j].Score
		}
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > req.TopK {
		scored = scored[:req.TopK]
	}

	recallAtK := 1.0
	if mode == ModeIVF {
		recallAtK = ivfindex.ResolveTargetRecall(req.TargetRecall)
	}
	return scored, mode, recallAtK, nil
}

// candidateIds picks the exact or approximate candidate set for a query,
// lazily discarding and rebuilding a stale index.
func (e *Engine) candidateIds(c *collection.Collection, req SearchRequest) ([]collection.PointId, SearchMode) {
	if req.Mode == ModeExact || c.Len() < ivfindex.MinIndexedPoints || ivfindex.IsFullRecall(req.TargetRecall) {
		return c.PointIds(), ModeExact
	}

	idx, ok := e.index.Get(c.Name())
	if !ok || !idx.IsCompatible(c) {
		e.index.Discard(c.Name())
		e.index.TriggerBuild(c)
		return c.PointIds(), ModeExact
	}

	ids, err := idx.CandidateSlots(req.Query, req.Metric, req.TargetRecall)
	if err != nil {
		return c.PointIds(), ModeExact
	}
	return ids, ModeIVF
}

// intersectSorted returns the ascending ids present in both ids and set.
func intersectSorted(ids []collection.PointId, set *roaring.Bitmap) []collection.PointId {
	out := make([]collection.PointId, 0, len(ids))
	for _, id := range ids {
		if set.Contains(uint32(id)) {
			out = append(out, id)
		}
	}
	return out
}
