package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hotspot-cli/internal/export"
	"github.com/sells-group/hotspot-cli/internal/hotspot"
	"github.com/sells-group/hotspot-cli/internal/model"
)

var (
	clusterEps           float64
	clusterMinPts        int
	clusterSampleSize    int
	clusterSeed          int64
	clusterDistrict      string
	clusterCategory      string
	clusterFormat        string
	clusterOutput        string
	clusterIncludePoints bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Run hotspot analysis over stored incidents",
	Long:  "Filters and samples stored incidents, clusters them with DBSCAN, persists the run, and writes the result as JSON, GeoJSON, or an XLSX workbook.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		params := clusterParams()
		if clusterFormat != "json" && clusterFormat != "geojson" && clusterFormat != "xlsx" {
			return eris.Errorf("unsupported format: %s", clusterFormat)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		incidents, err := loadIncidents(ctx, st, params.District, params.Category)
		if err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, params)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		out, err := hotspot.Analyze(incidents, params)
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID); ferr != nil {
				zap.L().Error("mark run failed", zap.String("run", run.ID), zap.Error(ferr))
			}
			return eris.Wrap(err, "analyze")
		}

		if err := st.CompleteRun(ctx, run.ID, &out.Result); err != nil {
			return eris.Wrap(err, "complete run")
		}

		w, closeFn, err := openOutput(clusterOutput)
		if err != nil {
			return err
		}
		defer closeFn()

		switch clusterFormat {
		case "geojson":
			return export.WriteGeoJSON(w, out, export.GeoJSONOptions{IncludePoints: clusterIncludePoints})
		case "xlsx":
			return export.WriteXLSX(w, out)
		default:
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(map[string]any{"run_id": run.ID, "result": out.Result}), "encode result")
		}
	},
}

// clusterParams merges flag values over the configured defaults.
func clusterParams() model.Params {
	params := model.Params{
		Eps:        cfg.Cluster.Eps,
		MinPts:     cfg.Cluster.MinPts,
		SampleSize: cfg.Cluster.SampleSize,
		Seed:       cfg.Cluster.Seed,
		District:   clusterDistrict,
		Category:   clusterCategory,
	}
	if clusterEps > 0 {
		params.Eps = clusterEps
	}
	if clusterMinPts > 0 {
		params.MinPts = clusterMinPts
	}
	if clusterSampleSize >= 0 {
		params.SampleSize = clusterSampleSize
	}
	if clusterSeed != 0 {
		params.Seed = clusterSeed
	}
	return params
}

// openOutput returns a writer for path, with stdout for "" or "-".
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func init() {
	clusterCmd.Flags().Float64Var(&clusterEps, "eps", 0, "neighborhood radius in normalized space (default from config)")
	clusterCmd.Flags().IntVar(&clusterMinPts, "min-pts", 0, "minimum neighborhood size for a core point (default from config)")
	clusterCmd.Flags().IntVar(&clusterSampleSize, "sample-size", -1, "max incidents to sample, 0 for all (default from config)")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 0, "sampling seed (default from config)")
	clusterCmd.Flags().StringVar(&clusterDistrict, "district", "", "filter by police district")
	clusterCmd.Flags().StringVar(&clusterCategory, "category", "", "filter by crime category")
	clusterCmd.Flags().StringVar(&clusterFormat, "format", "json", "output format: json, geojson, xlsx")
	clusterCmd.Flags().StringVarP(&clusterOutput, "output", "o", "", "output file (default stdout)")
	clusterCmd.Flags().BoolVar(&clusterIncludePoints, "include-points", false, "include per-incident features in geojson output")
	rootCmd.AddCommand(clusterCmd)
}
