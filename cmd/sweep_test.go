package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hotspot-cli/internal/model"
)

func sweepIncidents() []model.Incident {
	var out []model.Incident
	for i := 0; i < 10; i++ {
		out = append(out, model.Incident{
			Category: "ASSAULT",
			X:        -122.42 + float64(i)*0.0001, Y: 37.76,
		})
	}
	out = append(out, model.Incident{Category: "VANDALISM", X: -122.47, Y: 37.74})
	return out
}

func TestSweepParamGrid(t *testing.T) {
	sweepEpsValues = []float64{0.01, 0.02}
	sweepMinPtsValues = []int{100, 200, 300}
	sweepSeed = 7
	t.Cleanup(func() {
		sweepEpsValues, sweepMinPtsValues, sweepSeed = nil, nil, 42
	})

	grid := sweepParamGrid()
	require.Len(t, grid, 6)
	assert.Equal(t, model.Params{Eps: 0.01, MinPts: 100, Seed: 7}, grid[0])
	assert.Equal(t, model.Params{Eps: 0.02, MinPts: 300, Seed: 7}, grid[5])
}

func TestRunSweep(t *testing.T) {
	sweepConcurrency = 2
	grid := []model.Params{
		{Eps: 0.5, MinPts: 5},
		{Eps: 0.5, MinPts: 20},
		{Eps: 0.001, MinPts: 5},
	}

	results, err := runSweep(context.Background(), sweepIncidents(), grid)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Ordered by eps then min-pts regardless of completion order.
	assert.Equal(t, 0.001, results[0].Params.Eps)
	assert.Equal(t, 5, results[1].Params.MinPts)
	assert.Equal(t, 20, results[2].Params.MinPts)

	// Generous eps with low min-pts finds the dense group.
	assert.Equal(t, 1, results[1].Result.ClusterCount)
	// min-pts above the point count leaves everything as noise.
	assert.Equal(t, 0, results[2].Result.ClusterCount)
	assert.Equal(t, 11, results[2].Result.NoiseCount)
}

func TestRunSweep_InvalidParams(t *testing.T) {
	sweepConcurrency = 2
	grid := []model.Params{{Eps: -1, MinPts: 5}}

	_, err := runSweep(context.Background(), sweepIncidents(), grid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eps=-1")
}

func TestFormatSweepResults(t *testing.T) {
	results := []sweepResult{
		{
			Params: model.Params{Eps: 0.02, MinPts: 500},
			Result: model.RunResult{
				ClusterCount: 8,
				NoiseCount:   17000,
				NoisePct:     34.0,
				Clusters:     []model.ClusterDetail{{Count: 9000}, {Count: 4000}},
			},
		},
	}

	var buf bytes.Buffer
	formatSweepResults(&buf, results)

	output := buf.String()
	assert.Contains(t, output, "EPS")
	assert.Contains(t, output, "0.02")
	assert.Contains(t, output, "500")
	assert.Contains(t, output, "8")
	assert.Contains(t, output, "34.0")
	assert.Contains(t, output, "9000")
}
