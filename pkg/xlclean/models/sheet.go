package models

// Range is a rectangular view of a sheet addressed by zero-based row and
// column. Rows shorter than the widest row read as empty cells.
type Range struct {
	// Name is the sheet name the range was read from.
	Name  string
	cells [][]CellValue
	cols  int
}

// NewRange builds a range over the given rows. The column count is the
// length of the widest row.
func NewRange(name string, rows [][]CellValue) *Range {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return &Range{Name: name, cells: rows, cols: cols}
}

// RowCount returns the number of rows.
func (r *Range) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.cells)
}

// ColCount returns the number of columns.
func (r *Range) ColCount() int {
	if r == nil {
		return 0
	}
	return r.cols
}

// Cell returns the value at (row, col), or an empty cell outside the grid.
func (r *Range) Cell(row, col int) CellValue {
	if r == nil || row < 0 || col < 0 || row >= len(r.cells) {
		return EmptyCell()
	}
	cells := r.cells[row]
	if col >= len(cells) {
		return EmptyCell()
	}
	return cells[col]
}
