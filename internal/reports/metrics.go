package reports

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

var (
	// HeavyUnitFuelLimit is the consumption, in liters per 100 km, above
	// which a heavy unit's trip is flagged.
	HeavyUnitFuelLimit = decimal.NewFromInt(40)

	// AbsorptionThreshold is the budget absorption percentage that triggers
	// a warning.
	AbsorptionThreshold = decimal.NewFromInt(85)
)

// FuelEfficiency is the fuel use of one trip.
type FuelEfficiency struct {
	TripID         string          `json:"trip_id"`
	Liters         decimal.Decimal `json:"liters"`
	Distance       decimal.Decimal `json:"distance"`
	LitersPer100Km decimal.Decimal `json:"liters_per_100km"`

	// Applicable is false when the trip has no positive distance yet.
	Applicable bool `json:"applicable"`
	Excessive  bool `json:"excessive"`
}

// TripFuelEfficiency sums the fuel logged against trip and divides by the
// distance driven.
func TripFuelEfficiency(trip models.TripLog, fuel []models.FuelLog) FuelEfficiency {
	eff := FuelEfficiency{
		TripID:         trip.ID,
		Liters:         decimal.Zero,
		Distance:       trip.Distance(),
		LitersPer100Km: decimal.Zero,
	}
	for _, f := range fuel {
		if f.TripID == trip.ID {
			eff.Liters = eff.Liters.Add(f.Liters)
		}
	}
	if !eff.Distance.IsPositive() {
		return eff
	}
	eff.Applicable = true
	eff.LitersPer100Km = eff.Liters.Div(eff.Distance).Mul(hundred).Round(2)
	eff.Excessive = eff.LitersPer100Km.GreaterThan(HeavyUnitFuelLimit)
	return eff
}

// BudgetAbsorption compares a project's realized figures with its plan.
type BudgetAbsorption struct {
	ProjectID string          `json:"project_id"`
	Percent   decimal.Decimal `json:"percent"`

	// DisplayPercent is Percent capped at 100 for progress bars.
	DisplayPercent     decimal.Decimal `json:"display_percent"`
	OverThreshold      bool            `json:"over_threshold"`
	RevenueRealization decimal.Decimal `json:"revenue_realization"`
}

// ProjectAbsorption reports cost absorption against the cap and revenue
// realization against the target. A zero cap or target reads as 0%.
func ProjectAbsorption(p models.ProjectBudget) BudgetAbsorption {
	pct := percent(p.RealizedCost, p.Cap)
	display := pct
	if display.GreaterThan(hundred) {
		display = hundred
	}
	return BudgetAbsorption{
		ProjectID:          p.ID,
		Percent:            pct,
		DisplayPercent:     display,
		OverThreshold:      pct.GreaterThan(AbsorptionThreshold),
		RevenueRealization: percent(p.RealizedRevenue, p.TargetRevenue),
	}
}
