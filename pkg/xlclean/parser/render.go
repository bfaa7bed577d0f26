package parser

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

// errorText is what every error cell renders as, regardless of its code.
const errorText = "Error"

// Render formats a cell as text. The same text is shown in previews and
// written to output workbooks.
func Render(c models.CellValue) string {
	switch c.Kind() {
	case models.CellString:
		return c.Text()
	case models.CellFloat:
		return formatFloat(c.Float())
	case models.CellInt:
		return strconv.FormatInt(c.Int(), 10)
	case models.CellBool:
		return strconv.FormatBool(c.Bool())
	case models.CellError:
		return errorText
	default:
		return ""
	}
}

// formatFloat renders f in plain decimal notation, never with an exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0 && math.Signbit(f):
		return "-0"
	}
	return decimal.NewFromFloat(f).String()
}
