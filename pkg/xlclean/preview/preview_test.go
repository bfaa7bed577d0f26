package preview

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

func grid(rows, cols int) *models.Range {
	cells := make([][]models.CellValue, rows)
	for r := range cells {
		cells[r] = make([]models.CellValue, cols)
		for c := range cells[r] {
			cells[r][c] = models.StringCell(fmt.Sprintf("r%dc%d", r, c))
		}
	}
	return models.NewRange("Sheet1", cells)
}

func TestRangeBounds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Range(&buf, grid(20, 12)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "0: | r0c0   | r0c1   | "))
	assert.Equal(t, 11, strings.Count(lines[0], " | "))
	assert.NotContains(t, buf.String(), "r10c0")
	assert.NotContains(t, buf.String(), "r0c10")
}

func TestRangePadding(t *testing.T) {
	rng := models.NewRange("Sheet1", [][]models.CellValue{
		{models.StringCell("a"), models.StringCell("bbbb")},
		{models.IntCell(7), models.EmptyCell()},
	})

	var buf bytes.Buffer
	require.NoError(t, Default().Range(&buf, rng))
	assert.Equal(t, "0: | a    | bbbb | \n1: | 7    |      | \n", buf.String())
}

func TestRangeWidthScansFifteenRows(t *testing.T) {
	cells := make([][]models.CellValue, 16)
	for r := range cells {
		cells[r] = []models.CellValue{models.StringCell("x")}
	}
	cells[15][0] = models.StringCell("this is very long")
	rng := models.NewRange("Sheet1", cells)

	var buf bytes.Buffer
	require.NoError(t, Default().Range(&buf, rng))
	assert.True(t, strings.HasPrefix(buf.String(), "0: | x | \n"))
}

func TestRangeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Range(&buf, models.NewRange("Sheet1", nil)))
	assert.Empty(t, buf.String())
}

func TestColumns(t *testing.T) {
	rng := models.NewRange("Sheet1", [][]models.CellValue{
		{models.StringCell("title")},
		{models.StringCell("Vendor"), models.StringCell("Amount")},
		{models.StringCell("ACME"), models.IntCell(10)},
		{models.StringCell("Globex"), models.FloatCell(2.5)},
		{models.StringCell("Initech"), models.IntCell(1)},
	})

	var buf bytes.Buffer
	n, err := Default().Columns(&buf, rng, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "0: Vendor ---- ACME ---- Globex\n1: Amount ---- 10 ---- 2.5\n", buf.String())
}

func TestColumnSampleAtLastRow(t *testing.T) {
	rng := grid(3, 2)

	assert.Equal(t, []string{"r2c0", "r2c1"}, ColumnSample(rng, 2, 3))
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, DisplayWidth("abc"))
	assert.Equal(t, 4, DisplayWidth("日本"))
	assert.Equal(t, 0, DisplayWidth(""))
}
