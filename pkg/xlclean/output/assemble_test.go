package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/xuri/excelize/v2"
)

func invoiceRange() *models.Range {
	s := models.StringCell
	return models.NewRange("Invoices", [][]models.CellValue{
		{s("Q3 export")},
		{s("Supplier"), s("Item"), s("Amount")},
		{s("ACME"), s("bolts"), models.IntCell(12)},
		{s("Globex"), s("nuts"), models.FloatCell(2.5)},
	})
}

func scenarioMapping() models.ResolvedMapping {
	return models.ResolvedMapping{
		HeaderRow: 1,
		Fields: []models.FieldOffset{
			{Name: "vendor", Offset: models.Column(0)},
			{Name: "description", Offset: models.Column(1)},
			{Name: "mapping", Offset: models.Skip()},
			{Name: "label", Offset: models.Skip()},
		},
		Split: 2,
	}
}

// readGrid returns rows x cols values from the Data sheet.
func readGrid(t *testing.T, f *excelize.File, rows, cols int) [][]string {
	t.Helper()
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			grid[r][c], err = f.GetCellValue(SheetName, cell)
			require.NoError(t, err)
		}
	}
	return grid
}

func TestAssembleScenario(t *testing.T) {
	f, err := Assemble(invoiceRange(), scenarioMapping())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	assert.Equal(t, [][]string{
		{"vendor", "description", "mapping", "label", "Amount"},
		{"ACME", "bolts", "", "", "12"},
		{"Globex", "nuts", "", "", "2.5"},
	}, readGrid(t, f, 3, 5))

	cellType, err := f.GetCellType(SheetName, "E2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, cellType)
}

func TestAssembleDeterministic(t *testing.T) {
	var outputs [][]byte
	for i := 0; i < 3; i++ {
		f, err := Assemble(invoiceRange(), scenarioMapping())
		require.NoError(t, err)
		data, err := Bytes(f)
		require.NoError(t, err)
		require.NoError(t, f.Close())
		outputs = append(outputs, data)
	}

	assert.True(t, bytes.Equal(outputs[0], outputs[1]))
	assert.True(t, bytes.Equal(outputs[1], outputs[2]))
}

func TestAssembleRoundTrip(t *testing.T) {
	rng := invoiceRange()
	mapping := models.ResolvedMapping{
		HeaderRow: 1,
		Fields: []models.FieldOffset{
			{Name: "amount", Offset: models.Column(2)},
			{Name: "vendor", Offset: models.Column(0)},
		},
		Split: rng.ColCount(),
	}

	f, err := Assemble(rng, mapping)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, [][]string{
		{"amount", "vendor"},
		{"12", "ACME"},
		{"2.5", "Globex"},
	}, readGrid(t, f, 3, 2))

	// No pass-through columns past the mapped fields
	v, err := f.GetCellValue(SheetName, "C1")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestAssembleHeaderIsLastRow(t *testing.T) {
	rng := invoiceRange()
	mapping := scenarioMapping()
	mapping.HeaderRow = rng.RowCount() - 1

	f, err := Assemble(rng, mapping)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, [][]string{{"vendor", "description", "mapping", "label", "2.5"}}, readGrid(t, f, 1, 5))
}

func TestSave(t *testing.T) {
	f, err := Assemble(invoiceRange(), scenarioMapping())
	require.NoError(t, err)
	defer f.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "invoices.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, Save(f, path))

	saved, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer saved.Close()

	v, err := saved.GetCellValue(SheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "ACME", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
