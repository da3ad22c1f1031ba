package dbscan

// Normalize rescales each dimension independently to [0,1] using min-max
// scaling, so that a single eps value means the same thing in both
// dimensions. If a dimension is degenerate (max == min) every point maps to
// 0 in that dimension. The input is not modified; the result has the same
// length and order. Normalizing an already-normalized set returns it
// unchanged up to floating error.
func Normalize(points []Point) []Point {
	out := make([]Point, len(points))
	if len(points) == 0 {
		return out
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	spanX := maxX - minX
	spanY := maxY - minY
	for i, p := range points {
		var q Point
		if spanX > 0 {
			q.X = (p.X - minX) / spanX
		}
		if spanY > 0 {
			q.Y = (p.Y - minY) / spanY
		}
		out[i] = q
	}
	return out
}
