package ivfindex

import (
	"errors"
	"math"

	"github.com/RoaringBitmap/roaring"
	"github.com/cespare/xxhash/v2"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/vecmath"
)

// ErrTooFewPoints is returned by Build when the collection has fewer than
// MinIndexedPoints points.
var ErrTooFewPoints = errors.New("ivfindex: collection has too few points to index")

const maxKMeansIterations = 16
const centroidConvergenceEpsilon = 1e-6

// cluster is one IVF partition: its centroid and the point ids assigned to
// it, held as a roaring bitmap the same way collfilter keeps id sets.
type cluster struct {
	centroid []float32
	members  *roaring.Bitmap
	count    int
}

// Index is a weak, versioned view over a collection: it never mutates the
// collection and is only trusted while IsCompatible reports true.
type Index struct {
	collectionName string
	dimension      int
	len            int
	fingerprint    uint64
	clusters       []cluster
}

// CollectionName reports which collection this index was built from.
func (idx *Index) CollectionName() string { return idx.collectionName }

// ClusterCount reports k, the number of IVF partitions.
func (idx *Index) ClusterCount() int { return len(idx.clusters) }

// Build runs a bounded k-means over a snapshot of c's current points and
// returns a new Index. The collection is only read, never locked for
// writes.
func Build(c *collection.Collection) (*Index, error) {
	n := c.Len()
	if n < MinIndexedPoints {
		return nil, ErrTooFewPoints
	}

	ids := make([]collection.PointId, 0, n)
	vectors := make([][]float32, 0, n)
	hasher := xxhash.New()
	c.ForEachPoint(func(id collection.PointId, values collection.Vector, _ collection.Payload) {
		ids = append(ids, id)
		vectors = append(vectors, append([]float32(nil), values...))
		hashPoint(hasher, id, values)
	})
	if len(ids) == 0 {
		return nil, ErrTooFewPoints
	}
	dimension := len(vectors[0])

	k := clusterCount(len(ids))
	centroids := make([][]float32, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float32(nil), vectors[i]...)
	}

	assignments := make([]int, len(ids))
	for iter := 0; iter < maxKMeansIterations; iter++ {
		for i, v := range vectors {
			assignments[i] = nearestCentroid(v, centroids)
		}

		moved := recomputeCentroids(centroids, vectors, assignments, dimension)
		if !moved {
			break
		}
	}

	clusters := make([]cluster, k)
	for i := range clusters {
		clusters[i] = cluster{centroid: centroids[i], members: roaring.New()}
	}
	for i, clusterIdx := range assignments {
		clusters[clusterIdx].members.Add(uint32(ids[i]))
		clusters[clusterIdx].count++
	}

	return &Index{
		collectionName: c.Name(),
		dimension:      dimension,
		len:            len(ids),
		fingerprint:    hasher.Sum64(),
		clusters:       clusters,
	}, nil
}

// clusterCount picks k = max(2, round(sqrt(n))).
func clusterCount(n int) int {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}
	return k
}

func nearestCentroid(v []float32, centroids [][]float32) int {
	best := 0
	bestDist, _ := vecmath.L2WithOptions(v, centroids[0], vecmath.Options{StrictFinite: false})
	for i := 1; i < len(centroids); i++ {
		dist, _ := vecmath.L2WithOptions(v, centroids[i], vecmath.Options{StrictFinite: false})
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// recomputeCentroids recomputes each centroid as the mean of its assigned
// vectors and reports whether any centroid moved by more than
// centroidConvergenceEpsilon in L2.
func recomputeCentroids(centroids [][]float32, vectors [][]float32, assignments []int, dimension int) bool {
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dimension)
	}
	for i, v := range vectors {
		c := assignments[i]
		counts[c]++
		for d := 0; d < dimension; d++ {
			sums[c][d] += float64(v[d])
		}
	}

	moved := false
	for i := range centroids {
		if counts[i] == 0 {
			continue
		}
		next := make([]float32, dimension)
		for d := 0; d < dimension; d++ {
			next[d] = float32(sums[i][d] / float64(counts[i]))
		}
		shift, _ := vecmath.L2WithOptions(next, centroids[i], vecmath.Options{StrictFinite: false})
		if float64(shift) > centroidConvergenceEpsilon {
			moved = true
		}
		centroids[i] = next
	}
	return moved
}

func hashPoint(hasher *xxhash.Digest, id collection.PointId, values collection.Vector) {
	var buf [8]byte
	putUint64(buf[:], id)
	hasher.Write(buf[:])
	for _, v := range values {
		putUint32(buf[:4], math.Float32bits(v))
		hasher.Write(buf[:4])
	}
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func putUint32(b []byte, v uint32) {
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
