package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

const sampleCSV = "Category,PdDistrict,X,Y\nASSAULT,MISSION,-122.42,37.76\nLARCENY/THEFT,SOUTHERN,-122.40,37.79\n"

func TestReadIncidents_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	res, err := readIncidents(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, res.Incidents, 2)
	assert.Equal(t, "ASSAULT", res.Incidents[0].Category)
}

func TestReadIncidents_XLSXFile(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("incidents")
	require.NoError(t, err)
	for _, rowData := range [][]string{
		{"Category", "X", "Y"},
		{"VANDALISM", "-122.47", "37.74"},
	} {
		row := sheet.AddRow()
		for _, v := range rowData {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "incidents.XLSX")
	require.NoError(t, f.Save(path))

	res, err := readIncidents(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, res.Incidents, 1)
	assert.Equal(t, "VANDALISM", res.Incidents[0].Category)
}

func TestReadIncidents_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	res, err := readIncidents(context.Background(), "", srv.URL)
	require.NoError(t, err)
	assert.Len(t, res.Incidents, 2)
}

func TestReadIncidents_MissingFile(t *testing.T) {
	_, err := readIncidents(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "")
	require.Error(t, err)
}
