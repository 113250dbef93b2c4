package tabular

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	KindNull CellKind = iota
	KindNumber
	KindText
)

// Cell is a single scalar value in a dataset: null, number, or text.
// Number cells keep the original lexeme so identifiers like "007" survive
// a load/save round trip unchanged.
type Cell struct {
	kind CellKind
	num  float64
	text string
}

// Null returns the null cell.
func Null() Cell {
	return Cell{kind: KindNull}
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v, text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Parse infers a cell from its string form: empty is null, a parsable
// float is a number, anything else is text.
func Parse(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Cell{kind: KindNull}
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{kind: KindNumber, num: v, text: trimmed}
	}
	return Cell{kind: KindText, text: s}
}

// Kind returns the cell's kind.
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell is null.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Float returns the numeric value. ok is false for null and text cells,
// including text that merely looks numeric after trimming separators.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// String returns the display form: "" for null, the original lexeme for
// numbers, the text itself otherwise.
func (c Cell) String() string {
	return c.text
}

// Value returns the cell as a JSON-friendly scalar (nil, float64, or string).
func (c Cell) Value() interface{} {
	switch c.kind {
	case KindNull:
		return nil
	case KindNumber:
		return c.num
	default:
		return c.text
	}
}

// MarshalJSON encodes the cell as its scalar value.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}
