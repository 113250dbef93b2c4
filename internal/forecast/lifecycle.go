package forecast

import (
	"sort"

	"fleetops-backend/internal/tabular"
)

// LifecycleNotFound marks fleet categories with no lifecycle reference
// entry in the joined output, keeping the gap visible instead of dropping
// the row.
const LifecycleNotFound = "Not Found"

// LOBLifecycleRow joins one business unit and equipment category with its
// lifecycle duration and how many fleet units carry it.
type LOBLifecycleRow struct {
	LOB            string `json:"lob"`
	Category       string `json:"category"`
	LifecycleYears string `json:"lifecycle_years"`
	UnitCount      int    `json:"unit_count"`
}

// LOBLifecycle joins the fleet against the lifecycle reference per
// (LOB, category) pair. Pairs without a reference entry get the sentinel
// duration so data-quality gaps surface in the report.
func LOBLifecycle(fleet, lifecycle *tabular.Dataset) []LOBLifecycleRow {
	ref := lifecycleIndex(lifecycle)

	type key struct{ lob, category string }
	counts := make(map[key]int)
	if fleet != nil {
		for i := range fleet.Rows {
			category := fleet.Cell(i, ColCategory).String()
			if category == "" {
				continue
			}
			counts[key{fleet.Cell(i, ColLOB).String(), category}]++
		}
	}

	rows := make([]LOBLifecycleRow, 0, len(counts))
	for k, n := range counts {
		duration := LifecycleNotFound
		if entry, ok := ref[k.category]; ok {
			duration = tabular.Number(float64(entry.years)).String()
		}
		rows = append(rows, LOBLifecycleRow{
			LOB:            k.lob,
			Category:       k.category,
			LifecycleYears: duration,
			UnitCount:      n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LOB != rows[j].LOB {
			return rows[i].LOB < rows[j].LOB
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// LifecycleDistribution counts fleet units per lifecycle duration, with
// unmapped categories grouped under the sentinel.
func LifecycleDistribution(fleet, lifecycle *tabular.Dataset) map[string]int {
	dist := make(map[string]int)
	for _, row := range LOBLifecycle(fleet, lifecycle) {
		dist[row.LifecycleYears] += row.UnitCount
	}
	return dist
}

// LOBLifecycleDataset renders the join as a stored report.
func LOBLifecycleDataset(name string, rows []LOBLifecycleRow) *tabular.Dataset {
	ds := tabular.New(name, "LOB", "Equipment descriptn", "Life Cycle", "Unit Count")
	for _, row := range rows {
		ds.AppendRow(
			tabular.Text(row.LOB),
			tabular.Text(row.Category),
			tabular.Parse(row.LifecycleYears),
			tabular.Number(float64(row.UnitCount)),
		)
	}
	return ds
}
