package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hotspot-cli/internal/hotspot"
	"github.com/sells-group/hotspot-cli/internal/model"
)

var (
	sweepEpsValues    []float64
	sweepMinPtsValues []int
	sweepConcurrency  int
	sweepSampleSize   int
	sweepSeed         int64
	sweepDistrict     string
	sweepCategory     string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Explore a grid of clustering parameters",
	Long:  "Runs the analyzer for every eps and min-pts combination and prints a comparison table, so a good parameter pair can be picked before a full run.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if len(sweepEpsValues) == 0 || len(sweepMinPtsValues) == 0 {
			return eris.New("at least one --eps and one --min-pts value are required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		incidents, err := loadIncidents(ctx, st, sweepDistrict, sweepCategory)
		if err != nil {
			return err
		}

		zap.L().Info("starting parameter sweep",
			zap.Int("eps_values", len(sweepEpsValues)),
			zap.Int("min_pts_values", len(sweepMinPtsValues)),
			zap.Int("incidents", len(incidents)),
			zap.Int("concurrency", sweepConcurrency),
		)

		results, err := runSweep(ctx, incidents, sweepParamGrid())
		if err != nil {
			return err
		}

		formatSweepResults(os.Stdout, results)
		return nil
	},
}

// sweepResult pairs one parameter combination with its outcome.
type sweepResult struct {
	Params model.Params
	Result model.RunResult
}

func sweepParamGrid() []model.Params {
	grid := make([]model.Params, 0, len(sweepEpsValues)*len(sweepMinPtsValues))
	for _, eps := range sweepEpsValues {
		for _, minPts := range sweepMinPtsValues {
			grid = append(grid, model.Params{
				Eps:        eps,
				MinPts:     minPts,
				SampleSize: sweepSampleSize,
				Seed:       sweepSeed,
				District:   sweepDistrict,
				Category:   sweepCategory,
			})
		}
	}
	return grid
}

// runSweep analyzes every combination concurrently and returns the results
// ordered by eps then min-pts.
func runSweep(ctx context.Context, incidents []model.Incident, grid []model.Params) ([]sweepResult, error) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	var mu sync.Mutex
	results := make([]sweepResult, 0, len(grid))

	for _, params := range grid {
		params := params
		g.Go(func() error {
			out, err := hotspot.Analyze(incidents, params)
			if err != nil {
				return eris.Wrapf(err, "sweep eps=%g min_pts=%d", params.Eps, params.MinPts)
			}
			mu.Lock()
			results = append(results, sweepResult{Params: params, Result: out.Result})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Params.Eps != results[j].Params.Eps {
			return results[i].Params.Eps < results[j].Params.Eps
		}
		return results[i].Params.MinPts < results[j].Params.MinPts
	})
	return results, nil
}

// formatSweepResults writes the comparison table to w.
func formatSweepResults(out io.Writer, results []sweepResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "EPS\tMIN_PTS\tCLUSTERS\tNOISE\tNOISE_%\tLARGEST")
	_, _ = fmt.Fprintln(w, "---\t-------\t--------\t-----\t-------\t-------")

	for _, r := range results {
		largest := 0
		for _, c := range r.Result.Clusters {
			if c.Count > largest {
				largest = c.Count
			}
		}
		_, _ = fmt.Fprintf(w, "%g\t%d\t%d\t%d\t%.1f\t%d\n",
			r.Params.Eps,
			r.Params.MinPts,
			r.Result.ClusterCount,
			r.Result.NoiseCount,
			r.Result.NoisePct,
			largest,
		)
	}
	_ = w.Flush()
}

func init() {
	sweepCmd.Flags().Float64SliceVar(&sweepEpsValues, "eps", nil, "eps values to try (repeatable or comma-separated)")
	sweepCmd.Flags().IntSliceVar(&sweepMinPtsValues, "min-pts", nil, "min-pts values to try (repeatable or comma-separated)")
	sweepCmd.Flags().IntVar(&sweepConcurrency, "concurrency", 4, "parallel analyses")
	sweepCmd.Flags().IntVar(&sweepSampleSize, "sample-size", 0, "max incidents to sample, 0 for all")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 42, "sampling seed")
	sweepCmd.Flags().StringVar(&sweepDistrict, "district", "", "filter by police district")
	sweepCmd.Flags().StringVar(&sweepCategory, "category", "", "filter by crime category")
	rootCmd.AddCommand(sweepCmd)
}
