package models

import "time"

// Fuel type identifiers. The price registry is the single source of truth
// for fuel types; readings and stocks store only the identifier.
const (
	FuelPetrol = "petrol"
	FuelDiesel = "diesel"
	FuelCNG    = "cng"
)

// ValidFuelType reports whether s is a recognized fuel type identifier.
func ValidFuelType(s string) bool {
	switch s {
	case FuelPetrol, FuelDiesel, FuelCNG:
		return true
	}
	return false
}

// Fuel is one price registry entry: at most one per (station, fuel type).
type Fuel struct {
	ID           int       `json:"id"`
	StationID    int       `json:"station_id"`
	FuelType     string    `json:"fuel_type"`
	CurrentPrice float64   `json:"current_price"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PricePoint is one append-only price history row.
type PricePoint struct {
	ID            int       `json:"id"`
	FuelID        int       `json:"fuel_id"`
	Price         float64   `json:"price"`
	EffectiveDate time.Time `json:"effective_date"`
	UpdatedBy     int       `json:"updated_by"`
}

type CreateFuelRequest struct {
	StationID int     `json:"station_id"`
	FuelType  string  `json:"fuel_type"`
	Price     float64 `json:"price"`
}

type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}
