package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/hotspot-cli/internal/hotspot"
)

// WriteXLSX writes the outcome as a workbook with a per-cluster summary
// sheet and an aggregation sheet over the analyzed sample.
func WriteXLSX(w io.Writer, out *hotspot.Outcome) error {
	f := xlsx.NewFile()

	if err := addClusterSheet(f, out); err != nil {
		return err
	}
	if err := addBreakdownSheet(f, out); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func addClusterSheet(f *xlsx.File, out *hotspot.Outcome) error {
	sheet, err := f.AddSheet("Clusters")
	if err != nil {
		return eris.Wrap(err, "export: add cluster sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Cluster", "Incidents", "Center Lng", "Center Lat", "Top Category"} {
		header.AddCell().Value = h
	}

	for _, c := range out.Result.Clusters {
		row := sheet.AddRow()
		row.AddCell().SetInt(c.ID)
		row.AddCell().SetInt(c.Count)
		row.AddCell().SetFloatWithFormat(c.CenterLng, "0.000000")
		row.AddCell().SetFloatWithFormat(c.CenterLat, "0.000000")
		row.AddCell().Value = hotspot.DisplayName(c.TopCategory)
	}

	summary := sheet.AddRow()
	summary.AddCell().Value = "Noise"
	summary.AddCell().SetInt(out.Result.NoiseCount)

	return nil
}

func addBreakdownSheet(f *xlsx.File, out *hotspot.Outcome) error {
	sheet, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "export: add breakdown sheet")
	}

	sections := []struct {
		title string
		rows  []hotspot.CategoryCount
	}{
		{"By Category", hotspot.CountByCategory(out.Incidents, 0)},
		{"By District", hotspot.CountByDistrict(out.Incidents)},
		{"By Day", hotspot.CountByDay(out.Incidents)},
		{"By Resolution", hotspot.CountByResolution(out.Incidents, 0)},
	}

	for i, sec := range sections {
		if i > 0 {
			sheet.AddRow()
		}
		title := sheet.AddRow()
		title.AddCell().Value = sec.title
		for _, cc := range sec.rows {
			row := sheet.AddRow()
			row.AddCell().Value = hotspot.DisplayName(cc.Name)
			row.AddCell().SetInt(cc.Count)
		}
	}

	return nil
}
