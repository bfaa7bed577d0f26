// Package output builds normalized workbooks and run reports.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/parser"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of every output workbook.
const SheetName = "Data"

// Assemble builds the normalized workbook: one column per mapped field in
// mapping order, headed by the field name, followed by every raw column
// from mapping.Split on with its original header. All values are text.
func Assemble(rng *models.Range, mapping models.ResolvedMapping) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	col := 0
	for _, field := range mapping.Fields {
		data := parser.ExtractColumn(rng, mapping.HeaderRow, field.Offset)
		if len(data) > 0 {
			data[0] = string(field.Name)
		}
		if err := writeColumn(f, col, data); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		col++
	}

	for raw := mapping.Split; raw < rng.ColCount(); raw++ {
		data := parser.ExtractColumn(rng, mapping.HeaderRow, models.Column(raw))
		if err := writeColumn(f, col, data); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("column %d: %w", raw, err)
		}
		col++
	}

	return f, nil
}

// writeColumn writes data top-down into the zero-based output column.
func writeColumn(f *excelize.File, col int, data []string) error {
	for row, value := range data {
		cell, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(SheetName, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// Bytes serializes the workbook.
func Bytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the workbook to path, replacing any existing file. The data
// goes to a temporary file in the same directory first so a failed write
// never leaves a truncated workbook behind.
func Save(f *excelize.File, path string) error {
	data, err := Bytes(f)
	if err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".xlclean-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
