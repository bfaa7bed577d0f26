// Package models defines data structures for spreadsheet normalization.
package models

// CellKind identifies which variant a CellValue holds.
type CellKind int

const (
	// CellEmpty is a cell with no content.
	CellEmpty CellKind = iota
	// CellString holds text.
	CellString
	// CellFloat holds a fractional number.
	CellFloat
	// CellInt holds an integral number.
	CellInt
	// CellBool holds a boolean.
	CellBool
	// CellError is an error marker such as #DIV/0!.
	CellError
)

// CellValue is the typed content of one sheet position.
// Values are immutable once constructed.
type CellValue struct {
	kind CellKind
	text string
	num  float64
	i    int64
	b    bool
}

// EmptyCell returns the empty cell value.
func EmptyCell() CellValue { return CellValue{} }

// StringCell returns a text cell value.
func StringCell(s string) CellValue { return CellValue{kind: CellString, text: s} }

// FloatCell returns a fractional number cell value.
func FloatCell(f float64) CellValue { return CellValue{kind: CellFloat, num: f} }

// IntCell returns an integral number cell value.
func IntCell(i int64) CellValue { return CellValue{kind: CellInt, i: i} }

// BoolCell returns a boolean cell value.
func BoolCell(b bool) CellValue { return CellValue{kind: CellBool, b: b} }

// ErrorCell returns an error marker cell value. The original error code is
// kept for diagnostics only.
func ErrorCell(code string) CellValue { return CellValue{kind: CellError, text: code} }

// Kind reports the variant held by the cell.
func (c CellValue) Kind() CellKind { return c.kind }

// Text returns the text payload of a string cell, or the error code of an
// error cell.
func (c CellValue) Text() string { return c.text }

// Float returns the payload of a float cell.
func (c CellValue) Float() float64 { return c.num }

// Int returns the payload of an int cell.
func (c CellValue) Int() int64 { return c.i }

// Bool returns the payload of a bool cell.
func (c CellValue) Bool() bool { return c.b }

// IsEmpty reports whether the cell holds nothing.
func (c CellValue) IsEmpty() bool { return c.kind == CellEmpty }
