// Package preview renders sheet samples for the operator.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/parser"
	"golang.org/x/text/width"
)

// ColumnSeparator joins the sampled cells of one column.
const ColumnSeparator = " ---- "

// Previewer bounds what is shown of a sheet.
type Previewer struct {
	// MaxRows is the number of rows shown.
	MaxRows int
	// MaxCols is the number of cells shown per row.
	MaxCols int
	// WidthRows is the number of rows scanned to size the cell width.
	WidthRows int
}

// Default returns the standard preview bounds.
func Default() Previewer {
	return Previewer{MaxRows: 10, MaxCols: 10, WidthRows: 15}
}

// Range writes a grid of the first rows and cells of rng, each cell padded
// to the widest rendered cell among the first WidthRows rows.
func (p Previewer) Range(w io.Writer, rng *models.Range) error {
	cellWidth := p.cellWidth(rng)

	for row := 0; row < rng.RowCount() && row < p.MaxRows; row++ {
		var b strings.Builder
		fmt.Fprintf(&b, "%d: | ", row)
		for col := 0; col < rng.ColCount() && col < p.MaxCols; col++ {
			b.WriteString(pad(parser.Render(rng.Cell(row, col)), cellWidth))
			b.WriteString(" | ")
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (p Previewer) cellWidth(rng *models.Range) int {
	maxWidth := 0
	for row := 0; row < rng.RowCount() && row < p.WidthRows; row++ {
		for col := 0; col < rng.ColCount(); col++ {
			if n := DisplayWidth(parser.Render(rng.Cell(row, col))); n > maxWidth {
				maxWidth = n
			}
		}
	}
	return maxWidth
}

// Columns writes a transposed sample: one numbered line per column holding
// up to depth cells from startRow down. It returns the number of lines.
func (p Previewer) Columns(w io.Writer, rng *models.Range, startRow, depth int) (int, error) {
	lines := ColumnSample(rng, startRow, depth)
	return len(lines), List(w, lines)
}

// ColumnSample builds the transposed sample lines used by Columns.
func ColumnSample(rng *models.Range, startRow, depth int) []string {
	endRow := startRow + depth
	if endRow > rng.RowCount() {
		endRow = rng.RowCount()
	}

	lines := make([]string, rng.ColCount())
	for col := range lines {
		parts := make([]string, 0, depth)
		for row := startRow; row < endRow; row++ {
			parts = append(parts, parser.Render(rng.Cell(row, col)))
		}
		lines[col] = strings.Join(parts, ColumnSeparator)
	}
	return lines
}

// List writes items as "i: item" lines.
func List(w io.Writer, items []string) error {
	for i, item := range items {
		if _, err := fmt.Fprintf(w, "%d: %s\n", i, item); err != nil {
			return err
		}
	}
	return nil
}

// DisplayWidth returns the terminal width of s. East Asian wide and
// fullwidth runes take two columns.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func pad(s string, w int) string {
	if gap := w - DisplayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
