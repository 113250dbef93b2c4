package query

import (
	"fmt"
	"math"
	"sort"

	"fleetops-backend/internal/tabular"
)

// TopValuesLimit is how many most-frequent values ColumnStats reports.
const TopValuesLimit = 10

// ValueCount is one entry of the top-values list.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnStatsResult holds descriptive statistics for one column. Numeric
// fields are nil (omitted from JSON) when the column is not numeric or has
// no non-null values.
type ColumnStatsResult struct {
	ColumnName    string       `json:"column_name"`
	TotalValues   int          `json:"total_values"`
	NonNullValues int          `json:"non_null_values"`
	NullValues    int          `json:"null_values"`
	UniqueValues  int          `json:"unique_values"`
	InferredType  string       `json:"inferred_type"`
	Min           *float64     `json:"min_value,omitempty"`
	Max           *float64     `json:"max_value,omitempty"`
	Mean          *float64     `json:"mean_value,omitempty"`
	Median        *float64     `json:"median_value,omitempty"`
	StdDev        *float64     `json:"std_deviation,omitempty"`
	TopValues     []ValueCount `json:"top_values"`
}

// ColumnStats computes descriptive statistics over the full column. The
// column is numeric only if every non-null value is a number; the standard
// deviation is the sample deviation (n-1 denominator).
func ColumnStats(ds *tabular.Dataset, column string) (*ColumnStatsResult, error) {
	idx, ok := ds.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tabular.ErrColumnNotFound, column)
	}

	res := &ColumnStatsResult{
		ColumnName:  column,
		TotalValues: ds.Len(),
	}

	var nums []float64
	numeric := true
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for _, row := range ds.Rows {
		c := row[idx]
		if c.IsNull() {
			res.NullValues++
			continue
		}
		res.NonNullValues++
		s := c.String()
		if _, seen := counts[s]; !seen {
			firstSeen[s] = res.NonNullValues
		}
		counts[s]++
		if v, isNum := c.Float(); isNum {
			nums = append(nums, v)
		} else {
			numeric = false
		}
	}
	res.UniqueValues = len(counts)

	if numeric && len(nums) > 0 {
		res.InferredType = "numeric"
		res.Min = ptr(minOf(nums))
		res.Max = ptr(maxOf(nums))
		res.Mean = ptr(mean(nums))
		res.Median = ptr(median(nums))
		res.StdDev = ptr(stddev(nums))
	} else {
		res.InferredType = "text"
	}

	res.TopValues = topValues(counts, firstSeen, TopValuesLimit)
	return res, nil
}

// topValues sorts by descending count, ties broken by first-seen order.
func topValues(counts, firstSeen map[string]int, limit int) []ValueCount {
	all := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		all = append(all, ValueCount{Value: v, Count: n})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return firstSeen[all[i].Value] < firstSeen[all[j].Value]
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func ptr(v float64) *float64 { return &v }

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func median(vs []float64) float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev is the sample standard deviation; zero for a single value.
func stddev(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	m := mean(vs)
	var sum float64
	for _, v := range vs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)-1))
}
