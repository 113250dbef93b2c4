package forecast

import (
	"fmt"
	"strings"

	"fleetops-backend/internal/tabular"
)

// Class is a vehicle weight/body class used for unit-cost lookup.
type Class string

const (
	ClassHeavy  Class = "heavy"
	ClassLight  Class = "light"
	ClassPickup Class = "pickup"
	ClassVan    Class = "van"
	ClassCar    Class = "car"
)

// ParseClass normalizes the class cell of a fleet or lifecycle row. The
// source data uses single-letter codes (the "L.H.P" column).
func ParseClass(s string) Class {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "H", "HEAVY":
		return ClassHeavy
	case "P", "PICKUP":
		return ClassPickup
	case "V", "VAN":
		return ClassVan
	case "C", "CAR", "SUV", "CAR/SUV":
		return ClassCar
	default:
		return ClassLight
	}
}

// ClassCost parameterizes one vehicle class: ICE and EV unit replacement
// costs, and the EV adoption ratio expressed as total parts of which exactly
// one part is EV (7 means 6 ICE : 1 EV). Zero means no EV transition.
type ClassCost struct {
	ICEUnitCost  float64 `json:"ice_unit_cost"`
	EVUnitCost   float64 `json:"ev_unit_cost"`
	EVRatioTotal int     `json:"ev_ratio_total"`
}

// CostParams is the immutable configuration for one forecast run. Callers
// supply it explicitly; the engine holds no global state.
type CostParams struct {
	Classes map[Class]ClassCost `json:"classes"`
}

// DefaultCostParams returns the budget assumptions used by the planning
// spreadsheets: heavy chassis $125k ICE / $300k EV at a 6:1 ratio, light
// classes at a 3:1 ratio with their own unit costs.
func DefaultCostParams() CostParams {
	return CostParams{Classes: map[Class]ClassCost{
		ClassHeavy:  {ICEUnitCost: 125000, EVUnitCost: 300000, EVRatioTotal: 7},
		ClassLight:  {ICEUnitCost: 43000, EVUnitCost: 46000, EVRatioTotal: 4},
		ClassCar:    {ICEUnitCost: 43000, EVUnitCost: 46000, EVRatioTotal: 4},
		ClassPickup: {ICEUnitCost: 44000, EVUnitCost: 54000, EVRatioTotal: 4},
		ClassVan:    {ICEUnitCost: 62000, EVUnitCost: 55000, EVRatioTotal: 4},
	}}
}

// Validate checks cost invariants: non-negative costs, non-negative ratios.
func (p CostParams) Validate() error {
	for class, cc := range p.Classes {
		if cc.ICEUnitCost < 0 || cc.EVUnitCost < 0 {
			return fmt.Errorf("%w: negative unit cost for class %s", tabular.ErrInvalidArgument, class)
		}
		if cc.EVRatioTotal < 0 {
			return fmt.Errorf("%w: negative EV ratio for class %s", tabular.ErrInvalidArgument, class)
		}
	}
	return nil
}

// cost returns the class parameters, falling back to the light class when a
// class is absent from the run configuration.
func (p CostParams) cost(class Class) ClassCost {
	if cc, ok := p.Classes[class]; ok {
		return cc
	}
	return p.Classes[ClassLight]
}

// YearRange is a fixed, contiguous, ascending projection window, inclusive
// on both ends.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultYearRange is the ten-year planning window used by every report.
var DefaultYearRange = YearRange{Start: 2026, End: 2035}

// Validate rejects empty or reversed ranges.
func (r YearRange) Validate() error {
	if r.Start <= 0 || r.End < r.Start {
		return fmt.Errorf("%w: bad year range %d..%d", tabular.ErrInvalidArgument, r.Start, r.End)
	}
	return nil
}

// Len returns the number of years in the range.
func (r YearRange) Len() int { return r.End - r.Start + 1 }

// Years returns the years in ascending order.
func (r YearRange) Years() []int {
	out := make([]int, 0, r.Len())
	for y := r.Start; y <= r.End; y++ {
		out = append(out, y)
	}
	return out
}

// Contains reports whether y falls inside the range.
func (r YearRange) Contains(y int) bool { return y >= r.Start && y <= r.End }
