package dbscan

import "sort"

// gridIndex buckets points into square cells of side eps so a neighborhood
// query only has to examine the 3×3 block of cells around the query point.
// Results are sorted so membership and order match naiveIndex exactly.
type gridIndex struct {
	points []Point
	eps    float64
	epsSq  float64
	minX   float64
	minY   float64
	cols   int
	rows   int
	cells  map[int][]int
}

func newGridIndex(points []Point, eps float64) *gridIndex {
	g := &gridIndex{
		points: points,
		eps:    eps,
		epsSq:  eps * eps,
		cells:  make(map[int][]int),
	}
	if len(points) == 0 {
		return g
	}

	g.minX, g.minY = points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < g.minX {
			g.minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < g.minY {
			g.minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	g.cols = int((maxX-g.minX)/eps) + 1
	g.rows = int((maxY-g.minY)/eps) + 1

	for i, p := range points {
		g.cells[g.cellOf(p)] = append(g.cells[g.cellOf(p)], i)
	}
	return g
}

func (g *gridIndex) cellOf(p Point) int {
	cx := int((p.X - g.minX) / g.eps)
	cy := int((p.Y - g.minY) / g.eps)
	return cy*g.cols + cx
}

func (g *gridIndex) neighbors(i int) []int {
	q := g.points[i]
	cx := int((q.X - g.minX) / g.eps)
	cy := int((q.Y - g.minY) / g.eps)

	var out []int
	for dy := -1; dy <= 1; dy++ {
		y := cy + dy
		if y < 0 || y >= g.rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			x := cx + dx
			if x < 0 || x >= g.cols {
				continue
			}
			for _, j := range g.cells[y*g.cols+x] {
				if sqDist(q, g.points[j]) <= g.epsSq {
					out = append(out, j)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}
