package provider

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"youth_name", "medical_id_number", "housing", "case_notes"},
		{"Jane Doe", "42", "Section 8", ""},
		{"Jane Doe", "77", "", "Needs follow-up"},
		{"John Roe", "99", "Shelter", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "reentry.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelProviderFetchByName(t *testing.T) {
	p := NewExcelProvider(writeWorkbook(t), zerolog.Nop())

	records, err := p.FetchRecords(context.Background(), "jane doe", "")
	require.NoError(t, err)
	require.Len(t, records, 2, "name match is trimmed and case-insensitive")

	assert.Equal(t, "42", records[0]["medical_id_number"])
	assert.Equal(t, "Section 8", records[0]["housing"])
	assert.Equal(t, "77", records[1]["medical_id_number"])
}

func TestExcelProviderFetchByID(t *testing.T) {
	p := NewExcelProvider(writeWorkbook(t), zerolog.Nop())

	records, err := p.FetchRecords(context.Background(), "ignored", "99")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "John Roe", records[0]["youth_name"])
}

func TestExcelProviderBlankCellsOmitted(t *testing.T) {
	p := NewExcelProvider(writeWorkbook(t), zerolog.Nop())

	records, err := p.FetchRecords(context.Background(), "Jane Doe", "42")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0], "case_notes")
}

func TestExcelProviderNoMatch(t *testing.T) {
	p := NewExcelProvider(writeWorkbook(t), zerolog.Nop())

	records, err := p.FetchRecords(context.Background(), "Nobody Known", "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExcelProviderMissingFile(t *testing.T) {
	p := NewExcelProvider(filepath.Join(t.TempDir(), "missing.xlsx"), zerolog.Nop())

	_, err := p.FetchRecords(context.Background(), "Jane Doe", "")
	require.Error(t, err)
}
