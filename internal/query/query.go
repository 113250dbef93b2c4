package query

import (
	"fmt"
	"sort"
	"strings"

	"fleetops-backend/internal/tabular"
)

// MaxPageSize bounds a single page so no request can pull an unbounded
// response; larger requests are clamped, not rejected.
const MaxPageSize = 1000

// DefaultPageSize is used when the caller does not specify page_size.
const DefaultPageSize = 50

// Range is an inclusive numeric filter on one column. Nil bounds are open.
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Request describes one page query. All filters combine conjunctively.
type Request struct {
	Search        string              `json:"search"`
	ColumnFilters map[string][]string `json:"column_filters"`
	ValueFilters  map[string]Range    `json:"value_filters"`
	SortColumn    string              `json:"sort_column"`
	SortDirection string              `json:"sort_direction"`
	Page          int                 `json:"page"`
	PageSize      int                 `json:"page_size"`
}

// Pagination carries page metadata alongside the rows.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalRows   int  `json:"total_rows"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	StartRow    int  `json:"start_row"`
	EndRow      int  `json:"end_row"`
}

// Result is one page of a dataset after filtering and sorting.
type Result struct {
	Rows                  []map[string]interface{} `json:"data"`
	Columns               []string                 `json:"columns"`
	Pagination            Pagination               `json:"pagination"`
	TotalRowsBeforeFilter int                      `json:"total_rows_before_filter"`
	TotalRowsAfterFilter  int                      `json:"total_rows_after_filter"`
}

// Page filters, sorts, and paginates a dataset. It is a pure function of the
// dataset and request: running the same query twice yields identical results.
func Page(ds *tabular.Dataset, req Request) (*Result, error) {
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", tabular.ErrInvalidArgument)
	}
	if req.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page_size must be > 0", tabular.ErrInvalidArgument)
	}
	pageSize := req.PageSize
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	matched := filterRows(ds, req)
	sortRows(ds, matched, req.SortColumn, req.SortDirection)

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize

	start := (req.Page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start, end = total, total
	} else if end > total {
		end = total
	}

	rows := make([]map[string]interface{}, 0, end-start)
	for _, idx := range matched[start:end] {
		rows = append(rows, ds.Record(idx))
	}

	startRow := 0
	if total > 0 && start < total {
		startRow = start + 1
	}
	return &Result{
		Rows:    rows,
		Columns: ds.Columns,
		Pagination: Pagination{
			CurrentPage: req.Page,
			PageSize:    pageSize,
			TotalRows:   total,
			TotalPages:  totalPages,
			HasNext:     req.Page < totalPages,
			HasPrevious: req.Page > 1 && total > 0,
			StartRow:    startRow,
			EndRow:      end,
		},
		TotalRowsBeforeFilter: ds.Len(),
		TotalRowsAfterFilter:  total,
	}, nil
}

// filterRows returns the indexes of rows matching search AND every column
// filter AND every value filter, in insertion order.
func filterRows(ds *tabular.Dataset, req Request) []int {
	search := strings.ToLower(strings.TrimSpace(req.Search))
	matched := make([]int, 0, ds.Len())

rows:
	for i, row := range ds.Rows {
		if search != "" && !rowContains(row, search) {
			continue
		}
		for col, wanted := range req.ColumnFilters {
			idx, ok := ds.ColumnIndex(col)
			if !ok {
				continue
			}
			if !cellEqualsAny(row[idx], wanted) {
				continue rows
			}
		}
		for col, rng := range req.ValueFilters {
			idx, ok := ds.ColumnIndex(col)
			if !ok {
				continue
			}
			v, numeric := row[idx].Float()
			if !numeric {
				continue rows
			}
			if rng.Min != nil && v < *rng.Min {
				continue rows
			}
			if rng.Max != nil && v > *rng.Max {
				continue rows
			}
		}
		matched = append(matched, i)
	}
	return matched
}

func rowContains(row []tabular.Cell, lowered string) bool {
	for _, c := range row {
		if c.IsNull() {
			continue
		}
		if strings.Contains(strings.ToLower(c.String()), lowered) {
			return true
		}
	}
	return false
}

// cellEqualsAny matches exact string form; a null cell matches only an
// explicit blank filter value.
func cellEqualsAny(c tabular.Cell, wanted []string) bool {
	s := c.String()
	for _, w := range wanted {
		if c.IsNull() {
			if w == "" {
				return true
			}
			continue
		}
		if s == w {
			return true
		}
	}
	return false
}

// sortRows stably sorts row indexes by the named column. Numeric columns
// (every non-null cell a number) compare numerically, everything else
// compares on string form; nulls always sort last; ties keep insertion
// order. An empty or unknown column leaves natural order.
func sortRows(ds *tabular.Dataset, idxs []int, column, direction string) {
	if column == "" {
		return
	}
	col, ok := ds.ColumnIndex(column)
	if !ok {
		return
	}
	numeric := true
	for _, i := range idxs {
		c := ds.Rows[i][col]
		if c.IsNull() {
			continue
		}
		if _, isNum := c.Float(); !isNum {
			numeric = false
			break
		}
	}
	desc := strings.EqualFold(direction, "desc")

	sort.SliceStable(idxs, func(a, b int) bool {
		ca, cb := ds.Rows[idxs[a]][col], ds.Rows[idxs[b]][col]
		if ca.IsNull() || cb.IsNull() {
			// Nulls last regardless of direction.
			return !ca.IsNull() && cb.IsNull()
		}
		var less bool
		if numeric {
			va, _ := ca.Float()
			vb, _ := cb.Float()
			if va == vb {
				return false
			}
			less = va < vb
		} else {
			sa, sb := ca.String(), cb.String()
			if sa == sb {
				return false
			}
			less = sa < sb
		}
		if desc {
			return !less
		}
		return less
	})
}
