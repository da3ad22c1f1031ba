package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hotspot-cli/internal/fetch"
	"github.com/sells-group/hotspot-cli/internal/ingest"
)

var (
	importPath string
	importURL  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import incidents into the store",
	Long:  "Loads incidents from a local CSV or XLSX file, or downloads a CSV export from a URL, and writes them to the configured store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if (importPath == "") == (importURL == "") {
			return eris.New("exactly one of --file or --url is required")
		}

		result, err := readIncidents(ctx, importPath, importURL)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportIncidents(ctx, result.Incidents)
		if err != nil {
			return eris.Wrap(err, "import incidents")
		}

		zap.L().Info("import complete",
			zap.Int64("imported", n),
			zap.Int("skipped", result.Skipped),
		)
		return nil
	},
}

// readIncidents loads the dataset from the local path or by downloading the
// URL. Files ending in .xlsx go through the workbook reader, everything else
// is parsed as CSV.
func readIncidents(ctx context.Context, path, url string) (*ingest.Result, error) {
	if url != "" {
		d := fetch.New(fetch.Options{})
		body, err := d.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		defer body.Close() //nolint:errcheck
		return ingest.Read(body)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ingest.ReadXLSXFile(path)
	}
	return ingest.ReadFile(path)
}

func init() {
	importCmd.Flags().StringVar(&importPath, "file", "", "path to CSV or XLSX file")
	importCmd.Flags().StringVar(&importURL, "url", "", "URL of a CSV export to download")
	rootCmd.AddCommand(importCmd)
}
