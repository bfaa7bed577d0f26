package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/xuri/excelize/v2"
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	f *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &Workbook{f: f}, nil
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Range reads the named sheet. Each call re-reads the sheet.
func (w *Workbook) Range(sheetName string) (*models.Range, error) {
	return ReadRange(w.f, sheetName)
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// ReadRange extracts typed cell values from a sheet.
// Trailing empty rows are dropped; interior empty rows are kept.
func ReadRange(f *excelize.File, sheetName string) (*models.Range, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	cells := make([][]models.CellValue, len(rows))
	for rowIdx, row := range rows {
		cells[rowIdx] = make([]models.CellValue, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			cells[rowIdx][colIdx] = cellValue(cellType, raw)
		}
	}

	return models.NewRange(sheetName, cells), nil
}

// cellValue converts a raw stored value to a typed cell.
func cellValue(cellType excelize.CellType, raw string) models.CellValue {
	if raw == "" {
		return models.EmptyCell()
	}
	switch cellType {
	case excelize.CellTypeBool:
		return models.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeError:
		return models.ErrorCell(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return models.StringCell(raw)
	default:
		return parseValue(raw)
	}
}

// parseValue attempts to parse a stored number.
// Returns an int cell for integers, a float cell for decimals, or a string
// cell when the value is not numeric.
func parseValue(s string) models.CellValue {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.IntCell(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.FloatCell(f)
	}
	return models.StringCell(s)
}
