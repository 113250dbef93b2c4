package forecast

import (
	"fmt"
	"sort"

	"fleetops-backend/internal/tabular"
)

// Radio equipment dataset columns.
const (
	ColRadioLOB         = "LOB"
	ColRadioInstallYear = "Install Year"
	ColRadioInstallCost = "Installation Cost"
	ColRadioMaintCost   = "Maintenance Cost"
)

// RadioBucket tracks one year's radio installations and spend for a LOB.
// Installation and maintenance are kept apart since they come from
// different budget lines.
type RadioBucket struct {
	Installs        int     `json:"installs"`
	InstallCost     float64 `json:"install_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
}

// RadioRow is one LOB's yearly radio spend.
type RadioRow struct {
	LOB     string        `json:"lob"`
	Buckets []RadioBucket `json:"buckets"`
}

// RadioAnalysis pivots radio equipment records into per-LOB yearly spend
// plus a grand total, with record accounting.
type RadioAnalysis struct {
	Years       YearRange   `json:"years"`
	Rows        []*RadioRow `json:"rows"`
	GrandTotal  *RadioRow   `json:"grand_total"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// RadioCosts aggregates the radio equipment dataset by LOB and install
// year. Records without a parsable install year are skipped; years outside
// the range counted under OutOfRange. A missing cost cell counts as zero
// spend, not a skip, because installs without priced costs still happened.
func RadioCosts(radio *tabular.Dataset, years YearRange) (*RadioAnalysis, error) {
	if err := years.Validate(); err != nil {
		return nil, err
	}
	out := &RadioAnalysis{
		Years:      years,
		GrandTotal: &RadioRow{LOB: "Grand Total", Buckets: make([]RadioBucket, years.Len())},
	}
	if radio == nil || radio.Len() == 0 {
		return out, nil
	}
	out.Diagnostics.TotalRecords = radio.Len()

	byLOB := make(map[string]*RadioRow)
	for i := range radio.Rows {
		yearF, ok := radio.Cell(i, ColRadioInstallYear).Float()
		if !ok {
			out.Diagnostics.Skipped++
			continue
		}
		year := int(yearF)
		if !years.Contains(year) {
			out.Diagnostics.OutOfRange++
			continue
		}
		lob := radio.Cell(i, ColRadioLOB).String()
		if lob == "" {
			lob = "Unassigned"
		}
		row, ok := byLOB[lob]
		if !ok {
			row = &RadioRow{LOB: lob, Buckets: make([]RadioBucket, years.Len())}
			byLOB[lob] = row
		}
		y := year - years.Start
		row.Buckets[y].Installs++
		if c, ok := radio.Cell(i, ColRadioInstallCost).Float(); ok {
			row.Buckets[y].InstallCost += c
		}
		if c, ok := radio.Cell(i, ColRadioMaintCost).Float(); ok {
			row.Buckets[y].MaintenanceCost += c
		}
		out.Diagnostics.Bucketed++
	}

	out.Rows = make([]*RadioRow, 0, len(byLOB))
	for _, row := range byLOB {
		out.Rows = append(out.Rows, row)
	}
	sort.Slice(out.Rows, func(i, j int) bool { return out.Rows[i].LOB < out.Rows[j].LOB })
	for _, row := range out.Rows {
		for y := range row.Buckets {
			out.GrandTotal.Buckets[y].Installs += row.Buckets[y].Installs
			out.GrandTotal.Buckets[y].InstallCost += row.Buckets[y].InstallCost
			out.GrandTotal.Buckets[y].MaintenanceCost += row.Buckets[y].MaintenanceCost
		}
	}

	d := out.Diagnostics
	if d.Bucketed+d.Skipped+d.OutOfRange != d.TotalRecords {
		return nil, fmt.Errorf("%w: %d radio records accounted, %d input",
			ErrReconciliation, d.Bucketed+d.Skipped+d.OutOfRange, d.TotalRecords)
	}
	return out, nil
}

// Dataset flattens the analysis into one row per LOB plus the grand total.
func (r *RadioAnalysis) Dataset(name string) *tabular.Dataset {
	cols := []string{"LOB"}
	for _, y := range r.Years.Years() {
		cols = append(cols,
			fmt.Sprintf("%d Radio Installs", y),
			fmt.Sprintf("%d Installation Cost", y),
			fmt.Sprintf("%d Maintenance Cost", y),
		)
	}
	ds := tabular.New(name, cols...)
	appendRow := func(row *RadioRow) {
		cells := []tabular.Cell{tabular.Text(row.LOB)}
		for _, b := range row.Buckets {
			cells = append(cells,
				tabular.Number(float64(b.Installs)),
				tabular.Number(b.InstallCost),
				tabular.Number(b.MaintenanceCost),
			)
		}
		ds.AppendRow(cells...)
	}
	for _, row := range r.Rows {
		appendRow(row)
	}
	appendRow(r.GrandTotal)
	return ds
}
