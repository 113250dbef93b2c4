package store

import (
	"context"

	"fleetops-backend/internal/tabular"
)

// Store persists named datasets as whole tables. Save replaces the prior
// version wholesale; there is no row-level versioning.
type Store interface {
	Load(ctx context.Context, name string) (*tabular.Dataset, error)
	Save(ctx context.Context, name string, ds *tabular.Dataset) error
	Exists(ctx context.Context, name string) bool
	List(ctx context.Context) ([]Info, error)
}

// Info describes a stored dataset for listings.
type Info struct {
	Name    string   `json:"name"`
	Rows    int      `json:"total_rows"`
	Columns []string `json:"columns"`
}

// Logical dataset names used across the application. Uploads may add
// further names; these are the ones the scripts read and write.
const (
	DatasetVehicleFleet          = "vehicle_fleet_master_data"
	DatasetLifecycleReference    = "equipment_lifecycle_reference"
	DatasetLifecycleByLOB        = "equipment_lifecycle_by_business_unit"
	DatasetReplacementByCategory = "vehicle_replacement_by_category"
	DatasetReplacementForecast   = "vehicle_replacement_detailed_forecast"
	DatasetRadioEquipment        = "radio_equipment_master_data"
	DatasetRadioCostAnalysis     = "radio_equipment_cost_analysis"
	DatasetEVBudgetAnalysis      = "electric_vehicle_budget_analysis"
)
