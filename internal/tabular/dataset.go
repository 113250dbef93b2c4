package tabular

import "errors"

// Errors shared across the tabular store and query layers. Handlers map
// these onto 404/400 responses.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Dataset is a named rectangular table: ordered columns and rows of cells.
// Every row holds one cell (possibly null) per declared column.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// New creates an empty dataset with the given column order.
func New(name string, columns ...string) *Dataset {
	return &Dataset{Name: name, Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, c := range d.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// AppendRow adds a row, padding with nulls or truncating so it matches the
// declared column count.
func (d *Dataset) AppendRow(cells ...Cell) {
	row := make([]Cell, len(d.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = Null()
		}
	}
	d.Rows = append(d.Rows, row)
}

// AppendRecord adds a row from a column-name keyed map; missing columns
// become null, unknown keys are dropped.
func (d *Dataset) AppendRecord(rec map[string]Cell) {
	row := make([]Cell, len(d.Columns))
	for i, col := range d.Columns {
		if c, ok := rec[col]; ok {
			row[i] = c
		} else {
			row[i] = Null()
		}
	}
	d.Rows = append(d.Rows, row)
}

// Cell returns the cell at (row, column name); null when the column does
// not exist.
func (d *Dataset) Cell(row int, column string) Cell {
	idx, ok := d.ColumnIndex(column)
	if !ok || row < 0 || row >= len(d.Rows) {
		return Null()
	}
	return d.Rows[row][idx]
}

// Record returns a row as a column-keyed map of scalars for JSON responses.
func (d *Dataset) Record(row int) map[string]interface{} {
	rec := make(map[string]interface{}, len(d.Columns))
	for i, col := range d.Columns {
		rec[col] = d.Rows[row][i].Value()
	}
	return rec
}

// Records returns all rows as column-keyed maps.
func (d *Dataset) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, len(d.Rows))
	for i := range d.Rows {
		out[i] = d.Record(i)
	}
	return out
}

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.Rows) }
