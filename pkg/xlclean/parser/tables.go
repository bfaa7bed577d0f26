package parser

import (
	"fmt"

	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// Region is the bounding box of a table-like block, zero-based and inclusive.
type Region struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// String returns the region in spreadsheet notation, e.g. "A1:D10".
func (r Region) String() string {
	startCell, _ := excelize.CoordinatesToCellName(r.MinCol+1, r.MinRow+1)
	endCell, _ := excelize.CoordinatesToCellName(r.MaxCol+1, r.MaxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// DetectTable finds the table-like region of a range.
// It reports false when the range is empty or too sparse to look like a table.
func DetectTable(rng *models.Range, params TableDetectionParams) (Region, bool) {
	if rng.RowCount() == 0 {
		return Region{}, false
	}

	region, ok := findDataBounds(rng)
	if !ok {
		return Region{}, false
	}

	totalCells := (region.MaxRow - region.MinRow + 1) * (region.MaxCol - region.MinCol + 1)
	nonEmptyCells := countNonEmptyCells(rng, region)

	if nonEmptyCells < params.MinNonemptyCells {
		return Region{}, false
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return Region{}, false
	}

	return region, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rng *models.Range) (Region, bool) {
	region := Region{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}

	for rowIdx := 0; rowIdx < rng.RowCount(); rowIdx++ {
		for colIdx := 0; colIdx < rng.ColCount(); colIdx++ {
			if Render(rng.Cell(rowIdx, colIdx)) == "" {
				continue
			}
			if region.MinRow < 0 || rowIdx < region.MinRow {
				region.MinRow = rowIdx
			}
			if region.MaxRow < 0 || rowIdx > region.MaxRow {
				region.MaxRow = rowIdx
			}
			if region.MinCol < 0 || colIdx < region.MinCol {
				region.MinCol = colIdx
			}
			if region.MaxCol < 0 || colIdx > region.MaxCol {
				region.MaxCol = colIdx
			}
		}
	}

	return region, region.MinRow >= 0
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rng *models.Range, region Region) int {
	count := 0
	for rowIdx := region.MinRow; rowIdx <= region.MaxRow; rowIdx++ {
		for colIdx := region.MinCol; colIdx <= region.MaxCol; colIdx++ {
			if Render(rng.Cell(rowIdx, colIdx)) != "" {
				count++
			}
		}
	}
	return count
}
