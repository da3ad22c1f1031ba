// Package hotspot orchestrates hotspot analysis: sampling and filtering
// incidents, running the clustering engine, and deriving run metrics.
package hotspot

import (
	"math/rand"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hotspot-cli/internal/dbscan"
	"github.com/sells-group/hotspot-cli/internal/model"
)

// Outcome is the full product of one analysis: the per-point labels, the
// analyzed sample (original coordinates), and the derived run result.
type Outcome struct {
	Incidents []model.Incident `json:"-"`
	Points    []dbscan.Point   `json:"-"`
	Labels    []dbscan.Label   `json:"labels"`
	Result    model.RunResult  `json:"result"`
}

// Analyze runs the whole flow for one parameter set: filter by district and
// category, draw a seeded sample, min-max normalize, cluster, and summarize.
// Coordinates are normalized only for neighbor detection; centroids in the
// result are geographic (original) coordinates.
func Analyze(incidents []model.Incident, params model.Params) (*Outcome, error) {
	filtered := Filter(incidents, params.District, params.Category)
	sampled := Sample(filtered, params.SampleSize, params.Seed)

	points := make([]dbscan.Point, len(sampled))
	for i, inc := range sampled {
		points[i] = dbscan.Point{X: inc.X, Y: inc.Y}
	}

	start := time.Now()
	labels, err := dbscan.Cluster(dbscan.Normalize(points), params.Eps, params.MinPts)
	if err != nil {
		return nil, eris.Wrap(err, "hotspot: cluster")
	}
	elapsed := time.Since(start)

	sum := dbscan.Summarize(points, labels)
	result := buildResult(sampled, labels, sum)
	result.DurationMS = elapsed.Milliseconds()

	zap.L().Info("hotspot: analysis complete",
		zap.Int("points", len(points)),
		zap.Int("clusters", result.ClusterCount),
		zap.Int("noise", result.NoiseCount),
		zap.Duration("elapsed", elapsed),
	)

	return &Outcome{
		Incidents: sampled,
		Points:    points,
		Labels:    labels,
		Result:    result,
	}, nil
}

// Filter returns the incidents matching the given district and category.
// Empty strings match everything.
func Filter(incidents []model.Incident, district, category string) []model.Incident {
	if district == "" && category == "" {
		return incidents
	}
	var out []model.Incident
	for _, inc := range incidents {
		if district != "" && inc.PdDistrict != district {
			continue
		}
		if category != "" && inc.Category != category {
			continue
		}
		out = append(out, inc)
	}
	return out
}

// Sample draws up to n incidents using a seeded shuffle, so the same seed
// always selects the same subset. The selection is re-sorted into input
// order because clustering output depends on point order. n <= 0 means no
// sampling.
func Sample(incidents []model.Incident, n int, seed int64) []model.Incident {
	if n <= 0 || n >= len(incidents) {
		return incidents
	}

	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(incidents))[:n]
	sort.Ints(idx)

	out := make([]model.Incident, n)
	for i, j := range idx {
		out[i] = incidents[j]
	}
	return out
}

// buildResult derives the RunResult: counts, percentages, and per-cluster
// details with the dominant crime category.
func buildResult(incidents []model.Incident, labels []dbscan.Label, sum dbscan.Summary) model.RunResult {
	result := model.RunResult{
		TotalPoints:  len(incidents),
		ClusterCount: sum.ClusterCount,
		NoiseCount:   sum.NoiseCount,
	}
	if len(incidents) > 0 {
		result.NoisePct = float64(sum.NoiseCount) / float64(len(incidents)) * 100
		result.ClusteredPct = 100 - result.NoisePct
	}

	if sum.ClusterCount == 0 {
		return result
	}

	top := topCategories(incidents, labels, sum.ClusterCount)
	result.Clusters = make([]model.ClusterDetail, sum.ClusterCount)
	for i, c := range sum.Clusters {
		result.Clusters[i] = model.ClusterDetail{
			ID:          c.ID,
			Count:       c.Count,
			CenterLng:   c.Centroid.X,
			CenterLat:   c.Centroid.Y,
			TopCategory: top[c.ID],
		}
	}
	return result
}

// topCategories returns the most frequent category per cluster, breaking
// count ties toward the lexicographically smaller name for determinism.
func topCategories(incidents []model.Incident, labels []dbscan.Label, clusterCount int) []string {
	counts := make([]map[string]int, clusterCount)
	for i := range counts {
		counts[i] = make(map[string]int)
	}
	for i, l := range labels {
		if l == dbscan.Noise {
			continue
		}
		counts[l][incidents[i].Category]++
	}

	top := make([]string, clusterCount)
	for c, byCat := range counts {
		best, bestCount := "", 0
		for cat, n := range byCat {
			if n > bestCount || (n == bestCount && (best == "" || cat < best)) {
				best, bestCount = cat, n
			}
		}
		top[c] = best
	}
	return top
}
