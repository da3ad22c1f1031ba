// Package ingest loads incident records from CSV exports of the SFPD
// incident dataset.
package ingest

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hotspot-cli/internal/model"
)

// Result reports what a CSV load produced. Rows with a missing or
// non-finite coordinate are dropped here, at the boundary, so downstream
// clustering only ever sees well-formed points.
type Result struct {
	Incidents []model.Incident
	Skipped   int
}

// ReadFile parses the CSV at path into incidents.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Read(f)
}

// Read parses incident CSV from r. The header row is required; columns are
// located by name so column order does not matter. Category, X and Y are
// mandatory columns, everything else is optional.
func Read(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read CSV header")
	}

	colIdx := mapColumns(header)
	for _, required := range []string{"category", "x", "y"} {
		if _, ok := colIdx[required]; !ok {
			return nil, eris.Errorf("ingest: missing required column %q", required)
		}
	}

	res := &Result{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			zap.L().Warn("ingest: skipping malformed row", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}

		x, xErr := strconv.ParseFloat(getCol(record, colIdx, "x"), 64)
		y, yErr := strconv.ParseFloat(getCol(record, colIdx, "y"), 64)
		if xErr != nil || yErr != nil || !isFinite(x) || !isFinite(y) {
			res.Skipped++
			continue
		}

		res.Incidents = append(res.Incidents, model.Incident{
			Category:   getCol(record, colIdx, "category"),
			Descript:   getCol(record, colIdx, "descript"),
			DayOfWeek:  getCol(record, colIdx, "dayofweek"),
			PdDistrict: getCol(record, colIdx, "pddistrict"),
			Resolution: getCol(record, colIdx, "resolution"),
			X:          x,
			Y:          y,
		})
	}

	return res, nil
}

// mapColumns builds a lowercase column name → index map from the header row.
func mapColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// getCol returns the trimmed value of the named column, or "" if absent.
func getCol(record []string, colIdx map[string]int, name string) string {
	i, ok := colIdx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
