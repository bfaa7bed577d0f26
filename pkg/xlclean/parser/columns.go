package parser

import "github.com/ukaji3/xlclean-go/pkg/xlclean/models"

// ExtractColumn walks one column from headerRow to the last row and returns
// the rendered text of each cell. A Skip offset yields empty strings of the
// same length.
func ExtractColumn(rng *models.Range, headerRow int, offset models.Offset) []string {
	n := rng.RowCount() - headerRow
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	if offset.IsSkip() {
		return out
	}
	for i := range out {
		out[i] = Render(rng.Cell(headerRow+i, offset.Index()))
	}
	return out
}
