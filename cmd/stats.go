package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hotspot-cli/internal/hotspot"
	"github.com/sells-group/hotspot-cli/internal/model"
)

var (
	statsDistrict string
	statsCategory string
	statsTopN     int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dataset breakdowns",
	Long:  "Prints incident counts by category, district, day of week, and resolution for the stored (optionally filtered) dataset.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		incidents, err := loadIncidents(ctx, st, statsDistrict, statsCategory)
		if err != nil {
			return err
		}

		total, err := st.CountIncidents(ctx)
		if err != nil {
			return eris.Wrap(err, "count incidents")
		}

		formatStats(os.Stdout, total, incidents, statsTopN)
		return nil
	},
}

// formatStats writes the aggregation tables to w.
func formatStats(out io.Writer, total int64, incidents []model.Incident, topN int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total incidents:\t%d\n", total)
	_, _ = fmt.Fprintf(w, "Selected:\t%d\n", len(incidents))
	_ = w.Flush()

	sections := []struct {
		title string
		rows  []hotspot.CategoryCount
	}{
		{"By category", hotspot.CountByCategory(incidents, topN)},
		{"By district", hotspot.CountByDistrict(incidents)},
		{"By day of week", hotspot.CountByDay(incidents)},
		{"By resolution", hotspot.CountByResolution(incidents, topN)},
	}

	for _, sec := range sections {
		if len(sec.rows) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(out, "\n%s:\n", sec.title)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, row := range sec.rows {
			_, _ = fmt.Fprintf(w, "  %s\t%d\n", hotspot.DisplayName(row.Name), row.Count)
		}
		_ = w.Flush()
	}
}

func init() {
	statsCmd.Flags().StringVar(&statsDistrict, "district", "", "filter by police district")
	statsCmd.Flags().StringVar(&statsCategory, "category", "", "filter by crime category")
	statsCmd.Flags().IntVar(&statsTopN, "top", 10, "rows per table (0 for all)")
	rootCmd.AddCommand(statsCmd)
}
