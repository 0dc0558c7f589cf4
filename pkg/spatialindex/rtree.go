package spatialindex

import (
	"math"

	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/tidwall/rtree"
)

// Index is an r-tree over point items, keyed by [lon, lat] boxes.
type Index[T any] struct {
	tr *rtree.RTreeG[T]
}

func NewIndex[T any]() *Index[T] {
	var tr rtree.RTreeG[T]
	return &Index[T]{
		tr: &tr,
	}
}

func (idx *Index[T]) Insert(lat, lon float64, item T) {
	idx.tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, item)
}

func (idx *Index[T]) Len() int {
	return idx.tr.Len()
}

// SearchWithinRadius returns all items inside the bounding box that
// circumscribes the radius (km) circle around the query point. The corners
// sit radius*sqrt(2) out along the 225/45 diagonals so the box extends the
// full radius in every cardinal direction and never loses an in-radius
// point. The box is a prefilter: callers rank survivors by exact haversine
// distance.
func (idx *Index[T]) SearchWithinRadius(qLat, qLon, radius float64) []T {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius*math.Sqrt2)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius*math.Sqrt2)

	results := make([]T, 0, 10)
	idx.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, item T) bool {
			results = append(results, item)
			return true
		})
	return results
}
