package reports

import (
	"context"
	"errors"
	"fmt"

	"fleetops-backend/internal/forecast"
	"fleetops-backend/internal/store"
	"fleetops-backend/internal/tabular"
)

// Script names addressable via POST /scripts/:script/run.
const (
	ScriptReplacementForecast = "vehicle-replacement-forecast"
	ScriptEVBudget            = "ev-budget"
	ScriptRadioCost           = "radio-cost"
	ScriptLOBLifecycle        = "lob-lifecycle"
)

// ScriptInfo describes one runnable analysis script.
type ScriptInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Writes      []string `json:"writes"`
}

type scriptFunc func(ctx context.Context, s *Service, p RunParams) (map[string]interface{}, string, error)

type script struct {
	info ScriptInfo
	run  scriptFunc
}

var registry = map[string]script{
	ScriptReplacementForecast: {
		info: ScriptInfo{
			Name:        ScriptReplacementForecast,
			Description: "Project vehicle replacement counts and costs per category and business unit",
			Writes:      []string{store.DatasetReplacementByCategory, store.DatasetReplacementForecast},
		},
		run: runReplacementForecast,
	},
	ScriptEVBudget: {
		info: ScriptInfo{
			Name:        ScriptEVBudget,
			Description: "Reprice the replacement forecast under the electric vehicle transition ratios",
			Writes:      []string{store.DatasetEVBudgetAnalysis},
		},
		run: runEVBudget,
	},
	ScriptRadioCost: {
		info: ScriptInfo{
			Name:        ScriptRadioCost,
			Description: "Aggregate radio equipment installation and maintenance spend per business unit",
			Writes:      []string{store.DatasetRadioCostAnalysis},
		},
		run: runRadioCost,
	},
	ScriptLOBLifecycle: {
		info: ScriptInfo{
			Name:        ScriptLOBLifecycle,
			Description: "Join fleet categories against the lifecycle reference per business unit",
			Writes:      []string{store.DatasetLifecycleByLOB},
		},
		run: runLOBLifecycle,
	},
}

// Scripts lists the available scripts in a stable order.
func Scripts() []ScriptInfo {
	return []ScriptInfo{
		registry[ScriptReplacementForecast].info,
		registry[ScriptEVBudget].info,
		registry[ScriptRadioCost].info,
		registry[ScriptLOBLifecycle].info,
	}
}

// loadOptional loads a dataset, treating a not-yet-uploaded one as nil.
// The engines accept nil inputs and produce an empty result, so scripts
// still run (and write all-zero reports) before any data has arrived.
func (s *Service) loadOptional(ctx context.Context, name string) (*tabular.Dataset, error) {
	ds, err := s.Store.Load(ctx, name)
	if errors.Is(err, tabular.ErrDatasetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *Service) loadForecastInputs(ctx context.Context) (fleet, lifecycle *tabular.Dataset, err error) {
	fleet, err = s.loadOptional(ctx, store.DatasetVehicleFleet)
	if err != nil {
		return nil, nil, err
	}
	lifecycle, err = s.loadOptional(ctx, store.DatasetLifecycleReference)
	if err != nil {
		return nil, nil, err
	}
	return fleet, lifecycle, nil
}

func runReplacementForecast(ctx context.Context, s *Service, p RunParams) (map[string]interface{}, string, error) {
	fleet, lifecycle, err := s.loadForecastInputs(ctx)
	if err != nil {
		return nil, "", err
	}
	pivot, err := forecast.Forecast(fleet, lifecycle, p.years(), p.costParams())
	if err != nil {
		return nil, "", err
	}
	byCategory := pivot.CategoryDataset(store.DatasetReplacementByCategory)
	if err := s.Store.Save(ctx, store.DatasetReplacementByCategory, byCategory); err != nil {
		return nil, "", err
	}
	detail := forecastDetailDataset(pivot)
	if err := s.Store.Save(ctx, store.DatasetReplacementForecast, detail); err != nil {
		return nil, "", err
	}
	msg := fmt.Sprintf("Forecast complete: %d of %d records bucketed across %d categories",
		pivot.Diagnostics.Bucketed, pivot.Diagnostics.TotalRecords, len(pivot.Categories))
	return map[string]interface{}{
		"diagnostics": pivot.Diagnostics,
		"categories":  len(pivot.Categories),
		"lob_totals":  len(pivot.LOBTotals),
		"years":       pivot.Years,
	}, msg, nil
}

func runEVBudget(ctx context.Context, s *Service, p RunParams) (map[string]interface{}, string, error) {
	fleet, lifecycle, err := s.loadForecastInputs(ctx)
	if err != nil {
		return nil, "", err
	}
	params := p.costParams()
	pivot, err := forecast.Forecast(fleet, lifecycle, p.years(), params)
	if err != nil {
		return nil, "", err
	}
	budget, err := forecast.BuildEVBudget(pivot, params)
	if err != nil {
		return nil, "", err
	}
	ds := budget.Dataset(store.DatasetEVBudgetAnalysis)
	if err := s.Store.Save(ctx, store.DatasetEVBudgetAnalysis, ds); err != nil {
		return nil, "", err
	}

	var totalPremium float64
	for _, v := range budget.Total.PremiumImpact() {
		totalPremium += v
	}
	msg := fmt.Sprintf("EV budget complete: total premium impact %.2f over %d years",
		totalPremium, budget.Years.Len())
	return map[string]interface{}{
		"diagnostics":   pivot.Diagnostics,
		"years":         budget.Years,
		"total_premium": totalPremium,
	}, msg, nil
}

func runRadioCost(ctx context.Context, s *Service, p RunParams) (map[string]interface{}, string, error) {
	radio, err := s.loadOptional(ctx, store.DatasetRadioEquipment)
	if err != nil {
		return nil, "", err
	}
	analysis, err := forecast.RadioCosts(radio, p.years())
	if err != nil {
		return nil, "", err
	}
	ds := analysis.Dataset(store.DatasetRadioCostAnalysis)
	if err := s.Store.Save(ctx, store.DatasetRadioCostAnalysis, ds); err != nil {
		return nil, "", err
	}
	msg := fmt.Sprintf("Radio cost analysis complete: %d of %d records bucketed across %d business units",
		analysis.Diagnostics.Bucketed, analysis.Diagnostics.TotalRecords, len(analysis.Rows))
	return map[string]interface{}{
		"diagnostics": analysis.Diagnostics,
		"lobs":        len(analysis.Rows),
		"years":       analysis.Years,
	}, msg, nil
}

func runLOBLifecycle(ctx context.Context, s *Service, p RunParams) (map[string]interface{}, string, error) {
	fleet, lifecycle, err := s.loadForecastInputs(ctx)
	if err != nil {
		return nil, "", err
	}
	rows := forecast.LOBLifecycle(fleet, lifecycle)
	ds := forecast.LOBLifecycleDataset(store.DatasetLifecycleByLOB, rows)
	if err := s.Store.Save(ctx, store.DatasetLifecycleByLOB, ds); err != nil {
		return nil, "", err
	}
	notFound := 0
	for _, r := range rows {
		if r.LifecycleYears == forecast.LifecycleNotFound {
			notFound++
		}
	}
	msg := fmt.Sprintf("Lifecycle join complete: %d pairs, %d without a reference entry", len(rows), notFound)
	return map[string]interface{}{
		"pairs":     len(rows),
		"not_found": notFound,
	}, msg, nil
}

// forecastDetailDataset flattens the full pivot: category rows, then LOB
// totals, then the grand total.
func forecastDetailDataset(p *forecast.PivotTable) *tabular.Dataset {
	cols := []string{"Row", "LOB"}
	for _, y := range p.Years.Years() {
		cols = append(cols, fmt.Sprintf("%d Vehicle Count", y), fmt.Sprintf("%d Replacement Cost (Est.)", y))
	}
	ds := tabular.New(store.DatasetReplacementForecast, cols...)
	appendRow := func(label, lob string, buckets []forecast.Bucket) {
		cells := []tabular.Cell{tabular.Text(label), tabular.Text(lob)}
		for _, b := range buckets {
			cells = append(cells, tabular.Number(float64(b.Count)), tabular.Number(b.Cost))
		}
		ds.AppendRow(cells...)
	}
	for _, row := range p.Categories {
		appendRow(row.Label, row.LOB, row.Buckets)
	}
	for _, row := range p.LOBTotals {
		appendRow(row.Label, row.LOB, row.Buckets)
	}
	appendRow(p.GrandTotal.Label, "", p.GrandTotal.Buckets)
	return ds
}
