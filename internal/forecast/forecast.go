package forecast

import (
	"errors"
	"fmt"
	"sort"

	"fleetops-backend/internal/tabular"

	"github.com/rs/zerolog/log"
)

// Fleet and lifecycle-reference column names. They mirror the uploaded
// spreadsheets, quirky spellings included.
const (
	ColEquipment       = "Equipment"
	ColObjectType      = "ObjectType"
	ColCategory        = "Equipment descriptn"
	ColClass           = "L.H.P"
	ColLOB             = "LOB from Location"
	ColInServiceYear   = "In Service Year"
	ColOutOfLifeYear   = "Out of Life Year"
	ColAcquisitionCost = "Acquisition Cost"
	ColLifeCycle       = "Life Cycle"
)

// ErrReconciliation indicates the post-aggregation consistency check failed;
// handlers surface it as an internal error.
var ErrReconciliation = errors.New("pivot reconciliation failed")

// Bucket accumulates one {count, cost} pair for a single year.
type Bucket struct {
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// Row is one pivot row: a category sub-total, a LOB roll-up, or the grand
// total. Buckets are indexed by year offset from the range start.
type Row struct {
	Label   string   `json:"label"`
	LOB     string   `json:"lob,omitempty"`
	Class   Class    `json:"class,omitempty"`
	Buckets []Bucket `json:"buckets"`
}

func newRow(label, lob string, class Class, years YearRange) *Row {
	return &Row{Label: label, LOB: lob, Class: class, Buckets: make([]Bucket, years.Len())}
}

// Diagnostics accounts for every input record: each one is bucketed,
// unmapped (no lifecycle reference for its category), skipped (required
// field missing or unparsable), or out of the projection range.
type Diagnostics struct {
	TotalRecords int `json:"total_records"`
	Bucketed     int `json:"bucketed"`
	Unmapped     int `json:"unmapped"`
	Skipped      int `json:"skipped"`
	OutOfRange   int `json:"out_of_range"`
}

// PivotTable is the forecast output: category rows rolled up into LOB rows
// and one grand total, with a {count, cost} pair per projection year.
type PivotTable struct {
	Years       YearRange   `json:"years"`
	Categories  []*Row      `json:"categories"`
	LOBTotals   []*Row      `json:"lob_totals"`
	GrandTotal  *Row        `json:"grand_total"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// lifecycleEntry is the resolved reference data for one category.
type lifecycleEntry struct {
	years int
	class Class
}

// lifecycleIndex builds category -> lifecycle duration/class from the
// reference dataset. Entries with an unparsable duration are dropped.
func lifecycleIndex(ref *tabular.Dataset) map[string]lifecycleEntry {
	idx := make(map[string]lifecycleEntry)
	if ref == nil {
		return idx
	}
	for i := range ref.Rows {
		category := ref.Cell(i, ColCategory).String()
		if category == "" {
			continue
		}
		years, ok := ref.Cell(i, ColLifeCycle).Float()
		if !ok || years <= 0 {
			continue
		}
		idx[category] = lifecycleEntry{
			years: int(years),
			class: ParseClass(ref.Cell(i, ColClass).String()),
		}
	}
	return idx
}

// retirementYear resolves a record's projected retirement year: an explicit
// out-of-life year wins, otherwise in-service year plus lifecycle duration.
// ok is false when neither can be derived.
func retirementYear(fleet *tabular.Dataset, row int, life lifecycleEntry) (int, bool) {
	if y, ok := fleet.Cell(row, ColOutOfLifeYear).Float(); ok {
		return int(y), true
	}
	inService, ok := fleet.Cell(row, ColInServiceYear).Float()
	if !ok {
		return 0, false
	}
	return int(inService) + life.years, true
}

// Forecast buckets every fleet record by category, business unit, and
// projected retirement year, so a category fielded by more than one LOB
// yields one row per LOB. Each bucket is priced at the ICE unit cost for
// the record's class, and rows roll up into LOB totals and one grand
// total. It is a pure
// function of its inputs. Empty or missing datasets yield an empty pivot,
// not an error.
func Forecast(fleet, lifecycle *tabular.Dataset, years YearRange, params CostParams) (*PivotTable, error) {
	if err := years.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	pivot := &PivotTable{
		Years:      years,
		GrandTotal: newRow("Grand Total", "", "", years),
	}
	if fleet == nil || fleet.Len() == 0 {
		return pivot, nil
	}

	ref := lifecycleIndex(lifecycle)
	type categoryKey struct{ category, lob string }
	byCategory := make(map[categoryKey]*Row)
	pivot.Diagnostics.TotalRecords = fleet.Len()

	for i := range fleet.Rows {
		category := fleet.Cell(i, ColCategory).String()
		if category == "" {
			pivot.Diagnostics.Skipped++
			continue
		}
		life, mapped := ref[category]
		if !mapped {
			pivot.Diagnostics.Unmapped++
			continue
		}
		year, ok := retirementYear(fleet, i, life)
		if !ok {
			pivot.Diagnostics.Skipped++
			continue
		}
		if !years.Contains(year) {
			pivot.Diagnostics.OutOfRange++
			continue
		}

		class := life.class
		if s := fleet.Cell(i, ColClass).String(); s != "" {
			class = ParseClass(s)
		}
		key := categoryKey{category, fleet.Cell(i, ColLOB).String()}
		row, ok := byCategory[key]
		if !ok {
			row = newRow(category, key.lob, class, years)
			byCategory[key] = row
		}
		row.Buckets[year-years.Start].Count++
		pivot.Diagnostics.Bucketed++
	}

	categories := make([]*Row, 0, len(byCategory))
	for _, r := range byCategory {
		categories = append(categories, r)
	}
	pivot.Categories = sortRows(categories)
	for _, row := range pivot.Categories {
		unit := params.cost(row.Class).ICEUnitCost
		for y := range row.Buckets {
			row.Buckets[y].Cost = float64(row.Buckets[y].Count) * unit
		}
	}
	pivot.LOBTotals = rollupByLOB(pivot.Categories, years)
	sumInto(pivot.GrandTotal, pivot.Categories)

	if err := pivot.Reconcile(); err != nil {
		log.Error().Err(err).Msg("forecast reconciliation failed")
		return nil, err
	}
	return pivot, nil
}

// sortRows orders rows by LOB then label so output is stable across runs.
func sortRows(rows []*Row) []*Row {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LOB != rows[j].LOB {
			return rows[i].LOB < rows[j].LOB
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

func rollupByLOB(categories []*Row, years YearRange) []*Row {
	byLOB := make(map[string]*Row)
	for _, cat := range categories {
		lob := cat.LOB
		row, ok := byLOB[lob]
		if !ok {
			label := lob + " Total"
			if lob == "" {
				label = "Unassigned Total"
			}
			row = newRow(label, lob, "", years)
			byLOB[lob] = row
		}
		for y := range cat.Buckets {
			row.Buckets[y].Count += cat.Buckets[y].Count
			row.Buckets[y].Cost += cat.Buckets[y].Cost
		}
	}
	rows := make([]*Row, 0, len(byLOB))
	for _, r := range byLOB {
		rows = append(rows, r)
	}
	return sortRows(rows)
}

func sumInto(total *Row, rows []*Row) {
	for _, r := range rows {
		for y := range r.Buckets {
			total.Buckets[y].Count += r.Buckets[y].Count
			total.Buckets[y].Cost += r.Buckets[y].Cost
		}
	}
}

// Reconcile re-sums the category rows and checks them against the grand
// total and the record accounting, catching rounding or bucketing bugs
// instead of trusting the construction.
func (p *PivotTable) Reconcile() error {
	check := newRow("", "", "", p.Years)
	sumInto(check, p.Categories)
	for y := range check.Buckets {
		if check.Buckets[y].Count != p.GrandTotal.Buckets[y].Count {
			return fmt.Errorf("%w: year %d count %d != %d",
				ErrReconciliation, p.Years.Start+y, p.GrandTotal.Buckets[y].Count, check.Buckets[y].Count)
		}
		if check.Buckets[y].Cost != p.GrandTotal.Buckets[y].Cost {
			return fmt.Errorf("%w: year %d cost %.2f != %.2f",
				ErrReconciliation, p.Years.Start+y, p.GrandTotal.Buckets[y].Cost, check.Buckets[y].Cost)
		}
	}
	d := p.Diagnostics
	if d.Bucketed+d.Unmapped+d.Skipped+d.OutOfRange != d.TotalRecords {
		return fmt.Errorf("%w: %d records accounted, %d input",
			ErrReconciliation, d.Bucketed+d.Unmapped+d.Skipped+d.OutOfRange, d.TotalRecords)
	}
	return nil
}

// CategoryDataset flattens category rows plus the grand total into a
// dataset with one {count, cost} column pair per year.
func (p *PivotTable) CategoryDataset(name string) *tabular.Dataset {
	cols := []string{"Category", "LOB"}
	for _, y := range p.Years.Years() {
		cols = append(cols, fmt.Sprintf("%d Vehicle Count", y), fmt.Sprintf("%d Replacement Cost (Est.)", y))
	}
	ds := tabular.New(name, cols...)
	for _, row := range p.Categories {
		ds.AppendRow(pivotCells(row.Label, row.LOB, row.Buckets)...)
	}
	ds.AppendRow(pivotCells(p.GrandTotal.Label, "", p.GrandTotal.Buckets)...)
	return ds
}

// LOBDataset flattens the LOB roll-up plus the grand total.
func (p *PivotTable) LOBDataset(name string) *tabular.Dataset {
	cols := []string{"LOB"}
	for _, y := range p.Years.Years() {
		cols = append(cols, fmt.Sprintf("%d Vehicle Count", y), fmt.Sprintf("%d Replacement Cost (Est.)", y))
	}
	ds := tabular.New(name, cols...)
	for _, row := range p.LOBTotals {
		ds.AppendRow(append([]tabular.Cell{tabular.Text(row.Label)}, pivotBucketCells(row.Buckets)...)...)
	}
	ds.AppendRow(append([]tabular.Cell{tabular.Text(p.GrandTotal.Label)}, pivotBucketCells(p.GrandTotal.Buckets)...)...)
	return ds
}

func pivotCells(label, lob string, buckets []Bucket) []tabular.Cell {
	cells := []tabular.Cell{tabular.Text(label), tabular.Text(lob)}
	return append(cells, pivotBucketCells(buckets)...)
}

func pivotBucketCells(buckets []Bucket) []tabular.Cell {
	cells := make([]tabular.Cell, 0, 2*len(buckets))
	for _, b := range buckets {
		cells = append(cells, tabular.Number(float64(b.Count)), tabular.Number(b.Cost))
	}
	return cells
}
