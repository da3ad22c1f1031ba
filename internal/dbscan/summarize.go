package dbscan

// ClusterStat describes one cluster in a Summary.
type ClusterStat struct {
	ID       int   `json:"id"`
	Count    int   `json:"count"`
	Centroid Point `json:"centroid"`
}

// Summary is the mechanical derivation of a label assignment: cluster and
// noise counts plus per-cluster member count and centroid. Centroids are
// computed over the coordinates passed in, so callers wanting geographic
// centers should pass the original unnormalized points.
type Summary struct {
	ClusterCount int           `json:"cluster_count"`
	NoiseCount   int           `json:"noise_count"`
	Clusters     []ClusterStat `json:"clusters"`
}

// Summarize derives a Summary from points and their labels. The two slices
// must be the same length; labels are assumed to come from Cluster, so
// cluster ids are contiguous from 0. Empty input yields a zero Summary.
func Summarize(points []Point, labels []Label) Summary {
	var s Summary
	for _, l := range labels {
		if l == Noise {
			s.NoiseCount++
			continue
		}
		if int(l) >= s.ClusterCount {
			s.ClusterCount = int(l) + 1
		}
	}
	if s.ClusterCount == 0 {
		return s
	}

	s.Clusters = make([]ClusterStat, s.ClusterCount)
	for i := range s.Clusters {
		s.Clusters[i].ID = i
	}
	for i, l := range labels {
		if l == Noise {
			continue
		}
		c := &s.Clusters[l]
		c.Count++
		c.Centroid.X += points[i].X
		c.Centroid.Y += points[i].Y
	}
	for i := range s.Clusters {
		if n := s.Clusters[i].Count; n > 0 {
			s.Clusters[i].Centroid.X /= float64(n)
			s.Clusters[i].Centroid.Y /= float64(n)
		}
	}
	return s
}
