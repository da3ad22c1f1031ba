package dbscan

import "github.com/rotisserie/eris"

// gridThreshold is the point count above which neighbor queries go through
// the cell grid instead of the naive scan. Both return identical results;
// below this size the scan is faster than building the grid.
const gridThreshold = 256

// neighborIndex answers ε-neighborhood queries. Implementations must return
// indices in increasing order and include the query point itself.
type neighborIndex interface {
	neighbors(i int) []int
}

// Cluster partitions points into density-based clusters and noise.
//
// The returned slice has one Label per input point: a contiguous cluster id
// starting at 0, assigned in order of core-point discovery, or Noise. The
// traversal order is part of the contract: the outer scan visits points in
// input order, and the expansion frontier is processed first-in-first-out
// with each neighborhood appended in increasing index order, so identical
// inputs always produce identical output. A border point reachable from two
// clusters keeps the first cluster that claimed it.
//
// eps must be positive and minPts at least 1, otherwise ErrInvalidParameter.
// Any non-finite coordinate rejects the whole input with ErrMalformedPoint:
// silently dropping points would invisibly change density counts for their
// neighbors. An empty input yields an empty result.
func Cluster(points []Point, eps float64, minPts int) ([]Label, error) {
	if eps <= 0 {
		return nil, eris.Wrapf(ErrInvalidParameter, "eps must be > 0, got %g", eps)
	}
	if minPts < 1 {
		return nil, eris.Wrapf(ErrInvalidParameter, "minPts must be >= 1, got %d", minPts)
	}
	for i, p := range points {
		if !finite(p) {
			return nil, eris.Wrapf(ErrMalformedPoint, "point %d has non-finite coordinate (%g, %g)", i, p.X, p.Y)
		}
	}

	var index neighborIndex
	if len(points) >= gridThreshold {
		index = newGridIndex(points, eps)
	} else {
		index = naiveIndex{points: points, eps: eps}
	}
	return expand(len(points), minPts, index), nil
}

// expand runs the scan-and-grow loop over an already-built neighbor index.
func expand(n, minPts int, index neighborIndex) []Label {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = unvisited
	}

	// queuedAt[j] == gen marks j as already on the frontier of the cluster
	// currently being expanded, without clearing the slice between clusters.
	queuedAt := make([]int, n)
	gen := 0
	var frontier []int

	next := Label(0)
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		nb := index.neighbors(i)
		if len(nb) < minPts {
			// Tentative: may be reclassified as a border point later.
			labels[i] = Noise
			continue
		}

		c := next
		next++
		labels[i] = c

		gen++
		frontier = frontier[:0]
		queuedAt[i] = gen
		for _, j := range nb {
			if j == i {
				continue
			}
			frontier = append(frontier, j)
			queuedAt[j] = gen
		}

		for head := 0; head < len(frontier); head++ {
			k := frontier[head]

			if labels[k] == Noise {
				// Former tentative noise becomes a border point. Its
				// neighborhood was already found too small, so no expansion.
				labels[k] = c
				continue
			}
			if labels[k] != unvisited {
				// Already claimed by an earlier cluster; first wins.
				continue
			}

			labels[k] = c
			knb := index.neighbors(k)
			if len(knb) < minPts {
				continue
			}
			for _, j := range knb {
				if queuedAt[j] == gen {
					continue
				}
				if labels[j] != unvisited && labels[j] != Noise {
					continue
				}
				frontier = append(frontier, j)
				queuedAt[j] = gen
			}
		}
	}

	return labels
}

// naiveIndex is the O(n²) baseline: a full distance scan per query. It is
// the correctness oracle the grid index is tested against.
type naiveIndex struct {
	points []Point
	eps    float64
}

func (x naiveIndex) neighbors(i int) []int {
	epsSq := x.eps * x.eps
	q := x.points[i]
	var out []int
	for j, p := range x.points {
		if sqDist(q, p) <= epsSq {
			out = append(out, j)
		}
	}
	return out
}
