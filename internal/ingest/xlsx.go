package ingest

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/hotspot-cli/internal/model"
)

// ReadXLSXFile parses the first sheet of a workbook into incidents. The
// first row must be a header; columns are located by name like the CSV
// reader, with the same coordinate checks.
func ReadXLSXFile(path string) (*Result, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("ingest: missing header row")
	}

	colIdx := mapColumns(rowStrings(sheet.Rows[0]))
	for _, required := range []string{"category", "x", "y"} {
		if _, ok := colIdx[required]; !ok {
			return nil, eris.Errorf("ingest: missing required column %q", required)
		}
	}

	res := &Result{}
	for i, row := range sheet.Rows[1:] {
		record := rowStrings(row)

		x, xErr := strconv.ParseFloat(getCol(record, colIdx, "x"), 64)
		y, yErr := strconv.ParseFloat(getCol(record, colIdx, "y"), 64)
		if xErr != nil || yErr != nil || !isFinite(x) || !isFinite(y) {
			zap.L().Debug("ingest: skipping row with bad coordinates", zap.Int("row", i+2))
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

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
