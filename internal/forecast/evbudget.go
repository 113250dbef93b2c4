package forecast

import (
	"fmt"

	"fleetops-backend/internal/tabular"
)

// EVBucket is one year's split of a replacement bucket into combustion and
// electric units with their respective spend.
type EVBucket struct {
	ICECount int     `json:"ice_count"`
	EVCount  int     `json:"ev_count"`
	ICECost  float64 `json:"ice_cost"`
	EVCost   float64 `json:"ev_cost"`
}

func (b EVBucket) total() int    { return b.ICECount + b.EVCount }
func (b EVBucket) cost() float64 { return b.ICECost + b.EVCost }

// ClassBudget aggregates the EV transition scenario for one vehicle class:
// the ratio-split spend per year next to the all-combustion baseline, and
// the premium the transition adds.
type ClassBudget struct {
	Class        Class      `json:"class"`
	Buckets      []EVBucket `json:"buckets"`
	BaselineCost []float64  `json:"baseline_cost"`
}

// EVBudget is the fleet-wide electrification budget: per-class scenario
// rows plus totals across classes.
type EVBudget struct {
	Years   YearRange      `json:"years"`
	Classes []*ClassBudget `json:"classes"`
	Total   *ClassBudget   `json:"total"`
}

// splitEV divides a replacement count into combustion and electric units.
// One part in ratioTotal goes electric, rounded down, so small buckets stay
// all-combustion. A ratioTotal of zero disables the transition.
func splitEV(count, ratioTotal int) (ice, ev int) {
	if ratioTotal <= 0 {
		return count, 0
	}
	ev = count / ratioTotal
	return count - ev, ev
}

// BuildEVBudget reprices the replacement pivot under the electrification
// ratios in params. Each category bucket is split independently, then
// summed per class, so the split never loses or invents a unit.
func BuildEVBudget(pivot *PivotTable, params CostParams) (*EVBudget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	budget := &EVBudget{Years: pivot.Years}
	byClass := make(map[Class]*ClassBudget)
	for _, class := range []Class{ClassHeavy, ClassLight, ClassCar, ClassPickup, ClassVan} {
		cb := &ClassBudget{
			Class:        class,
			Buckets:      make([]EVBucket, pivot.Years.Len()),
			BaselineCost: make([]float64, pivot.Years.Len()),
		}
		byClass[class] = cb
		budget.Classes = append(budget.Classes, cb)
	}
	budget.Total = &ClassBudget{
		Class:        "all",
		Buckets:      make([]EVBucket, pivot.Years.Len()),
		BaselineCost: make([]float64, pivot.Years.Len()),
	}

	for _, row := range pivot.Categories {
		class := row.Class
		cb, ok := byClass[class]
		if !ok {
			cb = byClass[ClassLight]
			class = ClassLight
		}
		cc := params.cost(class)
		for y, b := range row.Buckets {
			ice, ev := splitEV(b.Count, cc.EVRatioTotal)
			cb.Buckets[y].ICECount += ice
			cb.Buckets[y].EVCount += ev
			cb.Buckets[y].ICECost += float64(ice) * cc.ICEUnitCost
			cb.Buckets[y].EVCost += float64(ev) * cc.EVUnitCost
			cb.BaselineCost[y] += float64(b.Count) * cc.ICEUnitCost
		}
	}

	for _, cb := range budget.Classes {
		for y := range cb.Buckets {
			budget.Total.Buckets[y].ICECount += cb.Buckets[y].ICECount
			budget.Total.Buckets[y].EVCount += cb.Buckets[y].EVCount
			budget.Total.Buckets[y].ICECost += cb.Buckets[y].ICECost
			budget.Total.Buckets[y].EVCost += cb.Buckets[y].EVCost
			budget.Total.BaselineCost[y] += cb.BaselineCost[y]
		}
	}

	if err := budget.reconcile(pivot); err != nil {
		return nil, err
	}
	return budget, nil
}

// PremiumImpact is the extra spend the transition scenario costs over an
// all-combustion fleet, per year.
func (cb *ClassBudget) PremiumImpact() []float64 {
	out := make([]float64, len(cb.Buckets))
	for y, b := range cb.Buckets {
		out[y] = b.cost() - cb.BaselineCost[y]
	}
	return out
}

// reconcile checks that the split preserved unit counts against the source
// pivot, year by year.
func (b *EVBudget) reconcile(pivot *PivotTable) error {
	for y := range b.Total.Buckets {
		if got, want := b.Total.Buckets[y].total(), pivot.GrandTotal.Buckets[y].Count; got != want {
			return fmt.Errorf("%w: year %d split units %d != pivot %d",
				ErrReconciliation, b.Years.Start+y, got, want)
		}
	}
	return nil
}

// Dataset flattens the budget into rows per class plus a fleet total, with
// count, spend, baseline, and premium columns per year.
func (b *EVBudget) Dataset(name string) *tabular.Dataset {
	cols := []string{"Vehicle Class"}
	for _, y := range b.Years.Years() {
		cols = append(cols,
			fmt.Sprintf("%d ICE Count", y),
			fmt.Sprintf("%d EV Count", y),
			fmt.Sprintf("%d Total Budget", y),
			fmt.Sprintf("%d ICE-Only Budget", y),
			fmt.Sprintf("%d EV Premium Impact", y),
		)
	}
	ds := tabular.New(name, cols...)
	appendClass := func(label string, cb *ClassBudget) {
		cells := []tabular.Cell{tabular.Text(label)}
		premium := cb.PremiumImpact()
		for y, bucket := range cb.Buckets {
			cells = append(cells,
				tabular.Number(float64(bucket.ICECount)),
				tabular.Number(float64(bucket.EVCount)),
				tabular.Number(bucket.cost()),
				tabular.Number(cb.BaselineCost[y]),
				tabular.Number(premium[y]),
			)
		}
		ds.AppendRow(cells...)
	}
	for _, cb := range b.Classes {
		appendClass(string(cb.Class), cb)
	}
	appendClass("Fleet Total", b.Total)
	return ds
}
