package analytics

import (
	"context"
	"sort"

	"fleetops-backend/internal/forecast"
	"fleetops-backend/internal/store"
	"fleetops-backend/internal/tabular"
)

type Service struct {
	Store store.Store
}

// Fleet master data columns the summary aggregates over.
const (
	colStatus     = "Status"
	colLocation   = "Location"
	colDepartment = "Department"
	colFuelType   = "Fuel Type"
)

// Summary is the fleet overview: unit count and value distributions over
// the master dataset, plus the lifecycle distribution from the reference.
type Summary struct {
	TotalUnits            int            `json:"total_units"`
	TotalAcquisitionCost  float64        `json:"total_acquisition_cost"`
	ByLOB                 map[string]int `json:"by_lob"`
	ByClass               map[string]int `json:"by_class"`
	ByObjectType          map[string]int `json:"by_object_type"`
	ByInServiceYear       map[string]int `json:"by_in_service_year"`
	ByStatus              map[string]int `json:"by_status"`
	ByLocation            map[string]int `json:"by_location"`
	ByDepartment          map[string]int `json:"by_department"`
	ByFuelType            map[string]int `json:"by_fuel_type"`
	LifecycleDistribution map[string]int `json:"lifecycle_distribution"`
}

// FilterOptions lists the distinct values of the commonly filtered fleet
// columns, for populating dropdowns.
type FilterOptions struct {
	LOBs        []string `json:"lobs"`
	Classes     []string `json:"classes"`
	ObjectTypes []string `json:"object_types"`
	Categories  []string `json:"categories"`
	Statuses    []string `json:"statuses"`
}

// FleetSummary aggregates the fleet master dataset. Null cells count under
// the empty key so gaps remain visible.
func (s *Service) FleetSummary(ctx context.Context) (*Summary, error) {
	fleet, err := s.Store.Load(ctx, store.DatasetVehicleFleet)
	if err != nil {
		return nil, err
	}
	lifecycle, _ := s.Store.Load(ctx, store.DatasetLifecycleReference)

	out := &Summary{
		TotalUnits:      fleet.Len(),
		ByLOB:           make(map[string]int),
		ByClass:         make(map[string]int),
		ByObjectType:    make(map[string]int),
		ByInServiceYear: make(map[string]int),
		ByStatus:        make(map[string]int),
		ByLocation:      make(map[string]int),
		ByDepartment:    make(map[string]int),
		ByFuelType:      make(map[string]int),
	}
	for i := range fleet.Rows {
		out.ByLOB[fleet.Cell(i, forecast.ColLOB).String()]++
		out.ByClass[fleet.Cell(i, forecast.ColClass).String()]++
		out.ByObjectType[fleet.Cell(i, forecast.ColObjectType).String()]++
		out.ByInServiceYear[fleet.Cell(i, forecast.ColInServiceYear).String()]++
		out.ByStatus[fleet.Cell(i, colStatus).String()]++
		out.ByLocation[fleet.Cell(i, colLocation).String()]++
		out.ByDepartment[fleet.Cell(i, colDepartment).String()]++
		out.ByFuelType[fleet.Cell(i, colFuelType).String()]++
		if cost, ok := fleet.Cell(i, forecast.ColAcquisitionCost).Float(); ok {
			out.TotalAcquisitionCost += cost
		}
	}
	out.LifecycleDistribution = forecast.LifecycleDistribution(fleet, lifecycle)
	return out, nil
}

// Filters returns distinct values for the filterable fleet columns.
func (s *Service) Filters(ctx context.Context) (*FilterOptions, error) {
	fleet, err := s.Store.Load(ctx, store.DatasetVehicleFleet)
	if err != nil {
		return nil, err
	}
	return &FilterOptions{
		LOBs:        distinct(fleet, forecast.ColLOB),
		Classes:     distinct(fleet, forecast.ColClass),
		ObjectTypes: distinct(fleet, forecast.ColObjectType),
		Categories:  distinct(fleet, forecast.ColCategory),
		Statuses:    distinct(fleet, colStatus),
	}, nil
}

func distinct(ds *tabular.Dataset, column string) []string {
	seen := make(map[string]struct{})
	for i := range ds.Rows {
		cell := ds.Cell(i, column)
		if cell.IsNull() {
			continue
		}
		seen[cell.String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
