// Package dbscan implements density-based spatial clustering of 2D points
// with deterministic traversal order, plus coordinate normalization and
// result summarization.
package dbscan

import (
	"math"

	"github.com/rotisserie/eris"
)

// Point is an immutable pair of coordinates (X = longitude, Y = latitude).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Label is the cluster assignment for a point. Cluster ids are contiguous
// non-negative integers in discovery order; Noise marks unclustered points.
type Label int

// Noise marks a point that is neither a core point nor reachable from one.
const Noise Label = -1

// unvisited is the internal pre-assignment sentinel. It never escapes Cluster.
const unvisited Label = -2

// Sentinel errors returned by Cluster.
var (
	ErrInvalidParameter = eris.New("dbscan: invalid parameter")
	ErrMalformedPoint   = eris.New("dbscan: malformed point")
)

// IsNoise reports whether the label marks a noise point.
func (l Label) IsNoise() bool { return l == Noise }

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func sqDist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
