package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a hauling project.
type ProjectStatus string

const (
	ProjectPlanning ProjectStatus = "PLANNING"
	ProjectActive   ProjectStatus = "ACTIVE"
	ProjectClosed   ProjectStatus = "CLOSED"
)

// ProjectBudget is read by reporting only; it never touches the ledger.
type ProjectBudget struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Cap             decimal.Decimal `json:"cap"`
	TargetRevenue   decimal.Decimal `json:"target_revenue"`
	RealizedCost    decimal.Decimal `json:"realized_cost"`
	RealizedRevenue decimal.Decimal `json:"realized_revenue"`
	StartDate       civil.Date      `json:"start_date"`
	Status          ProjectStatus   `json:"status"`
}

// TripLog is a manifest for one haul. KmEnd is nil while the trip is running.
type TripLog struct {
	ID        string           `json:"id"`
	VehicleID string           `json:"vehicle_id"`
	DriverID  string           `json:"driver_id"`
	Route     string           `json:"route"`
	Tonnage   decimal.Decimal  `json:"tonnage"`
	KmStart   decimal.Decimal  `json:"km_start"`
	KmEnd     *decimal.Decimal `json:"km_end,omitempty"`
}

// Distance is the odometer difference. It is zero while the trip has no end
// reading or when the end reading is below the start.
func (t TripLog) Distance() decimal.Decimal {
	if t.KmEnd == nil {
		return decimal.Zero
	}
	d := t.KmEnd.Sub(t.KmStart)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FuelLog is one refuelling charged to a trip.
type FuelLog struct {
	ID     string          `json:"id"`
	TripID string          `json:"trip_id"`
	Liters decimal.Decimal `json:"liters"`
	Cost   decimal.Decimal `json:"cost"`
	Date   civil.Date      `json:"date"`
}
