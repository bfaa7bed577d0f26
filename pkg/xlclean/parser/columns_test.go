package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

func sampleRange() *models.Range {
	return models.NewRange("Sheet1", [][]models.CellValue{
		{models.StringCell("report"), models.EmptyCell(), models.EmptyCell()},
		{models.StringCell("Vendor"), models.StringCell("Desc"), models.StringCell("Extra")},
		{models.StringCell("ACME"), models.StringCell("bolts"), models.IntCell(12)},
		{models.StringCell("Globex"), models.StringCell("nuts"), models.FloatCell(2.5)},
	})
}

func TestExtractColumn(t *testing.T) {
	rng := sampleRange()

	got := ExtractColumn(rng, 1, models.Column(2))
	assert.Equal(t, []string{"Extra", "12", "2.5"}, got)
}

func TestExtractColumnLengthAndFirstEntry(t *testing.T) {
	rng := sampleRange()

	for header := 0; header < rng.RowCount(); header++ {
		for col := 0; col < rng.ColCount(); col++ {
			got := ExtractColumn(rng, header, models.Column(col))
			require.Len(t, got, rng.RowCount()-header)
			assert.Equal(t, Render(rng.Cell(header, col)), got[0])
		}
	}
}

func TestExtractColumnSkip(t *testing.T) {
	rng := sampleRange()

	got := ExtractColumn(rng, 1, models.Skip())
	assert.Equal(t, []string{"", "", ""}, got)
}

func TestExtractColumnLastRowHeader(t *testing.T) {
	rng := sampleRange()

	got := ExtractColumn(rng, rng.RowCount()-1, models.Column(0))
	assert.Equal(t, []string{"Globex"}, got)
}

func TestExtractColumnPastEnd(t *testing.T) {
	rng := sampleRange()

	assert.Empty(t, ExtractColumn(rng, rng.RowCount(), models.Column(0)))
}
