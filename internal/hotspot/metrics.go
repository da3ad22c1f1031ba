package hotspot

import (
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/hotspot-cli/internal/model"
)

// SizeStats describes the distribution of cluster sizes in a result.
type SizeStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// ClusterSizeStats computes size distribution statistics over the clusters
// of a run result. A result with no clusters yields the zero value.
func ClusterSizeStats(result model.RunResult) SizeStats {
	if len(result.Clusters) == 0 {
		return SizeStats{}
	}

	sizes := make([]float64, len(result.Clusters))
	min, max := result.Clusters[0].Count, result.Clusters[0].Count
	for i, c := range result.Clusters {
		sizes[i] = float64(c.Count)
		if c.Count < min {
			min = c.Count
		}
		if c.Count > max {
			max = c.Count
		}
	}

	mean, std := stat.MeanStdDev(sizes, nil)
	if len(sizes) == 1 {
		std = 0 // MeanStdDev returns NaN for a single sample
	}
	return SizeStats{Mean: mean, StdDev: std, Min: min, Max: max}
}
