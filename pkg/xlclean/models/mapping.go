package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SkipToken is the operator and ledger spelling of a skipped field.
const SkipToken = "Skip"

// ErrInvalidMapping indicates a mapping that does not fit the sheet.
var ErrInvalidMapping = errors.New("invalid mapping")

// FieldName is a canonical semantic column name.
type FieldName string

// DefaultFields is the default output schema, in write order.
var DefaultFields = []FieldName{"vendor", "description", "mapping", "label"}

// Offset is a column index or the Skip sentinel.
type Offset struct {
	index int
	skip  bool
}

// Column returns a concrete column offset.
func Column(index int) Offset { return Offset{index: index} }

// Skip returns the offset meaning "field not present in this sheet".
func Skip() Offset { return Offset{skip: true} }

// IsSkip reports whether the offset is the Skip sentinel.
func (o Offset) IsSkip() bool { return o.skip }

// Index returns the column index. It is meaningless for Skip.
func (o Offset) Index() int { return o.index }

// String renders the offset as a decimal index or "Skip".
func (o Offset) String() string {
	if o.skip {
		return SkipToken
	}
	return strconv.Itoa(o.index)
}

// ParseOffset parses a ledger offset: a non-negative integer or "Skip"
// (case-insensitive).
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, SkipToken) {
		return Skip(), nil
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return Offset{}, fmt.Errorf("offset %q: %w", s, err)
	}
	return Column(int(n)), nil
}

// FieldOffset binds one semantic field to its raw column.
type FieldOffset struct {
	Name   FieldName
	Offset Offset
}

// ResolvedMapping is the operator's answer for one sheet.
type ResolvedMapping struct {
	// HeaderRow is the zero-based row treated as the header.
	HeaderRow int
	// Fields lists every semantic field in output order.
	Fields []FieldOffset
	// Split is the first raw column passed through unchanged.
	Split int
}

// Offset returns the offset chosen for name.
func (m ResolvedMapping) Offset(name FieldName) (Offset, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return Offset{}, false
}

// Overlaps returns the fields whose concrete offset is at or beyond Split
// and therefore also appear among the pass-through columns.
func (m ResolvedMapping) Overlaps() []FieldName {
	var out []FieldName
	for _, f := range m.Fields {
		if !f.Offset.IsSkip() && f.Offset.Index() >= m.Split {
			out = append(out, f.Name)
		}
	}
	return out
}

// Validate checks the mapping against the sheet dimensions.
func (m ResolvedMapping) Validate(rowCount, colCount int) error {
	if m.HeaderRow < 0 || m.HeaderRow >= rowCount {
		return fmt.Errorf("%w: header row %d outside 0..%d", ErrInvalidMapping, m.HeaderRow, rowCount-1)
	}
	for _, f := range m.Fields {
		if f.Offset.IsSkip() {
			continue
		}
		if f.Offset.Index() < 0 || f.Offset.Index() >= colCount {
			return fmt.Errorf("%w: field %s column %d outside 0..%d", ErrInvalidMapping, f.Name, f.Offset.Index(), colCount-1)
		}
	}
	if m.Split < 0 || m.Split >= colCount {
		return fmt.Errorf("%w: split %d outside 0..%d", ErrInvalidMapping, m.Split, colCount-1)
	}
	return nil
}
