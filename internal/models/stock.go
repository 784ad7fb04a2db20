package models

import "time"

// Sold-stock writers. A manual stock submission and the reconciler both
// write soldStock, last writer wins; the tag records which side wrote last
// so operators can tell. Whether one side should take precedence is an
// open product question, deliberately not decided here.
const (
	SoldStockManual     = "manual"
	SoldStockReconciled = "reconciled"
)

// DefaultTankCapacity is the assumed tank size in liters when a station
// has not configured one.
const DefaultTankCapacity = 10000

// Stock is one stock ledger entry: exactly one per
// (fuel type, station, stock date). All volumes are liters.
type Stock struct {
	ID              int             `json:"id"`
	StationID       int             `json:"station_id"`
	FuelType        string          `json:"fuel_type"`
	StockDate       time.Time       `json:"stock_date"`
	OpeningStock    float64         `json:"opening_stock"`
	PurchasedStock  float64         `json:"purchased_stock"`
	SoldStock       float64         `json:"sold_stock"`
	SoldStockSource string          `json:"sold_stock_source"`
	TankCapacity    float64         `json:"tank_capacity"`
	TotalAvailable  float64         `json:"total_available"`
	ClosingStock    float64         `json:"closing_stock"`
	Variance        float64         `json:"variance"` // Placeholder, mirrors closing stock until dip readings exist
	Purchases       []StockPurchase `json:"purchases,omitempty"`
	EnteredBy       int             `json:"entered_by"`
	Locked          bool            `json:"locked"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Recompute refreshes the derived volume fields.
func (s *Stock) Recompute() {
	s.TotalAvailable = s.OpeningStock + s.PurchasedStock
	s.ClosingStock = s.TotalAvailable - s.SoldStock
	s.Variance = s.ClosingStock
}

// StockPurchase is one append-only purchase invoice row under a stock entry.
type StockPurchase struct {
	ID            int       `json:"id"`
	StockID       int       `json:"stock_id"`
	Quantity      float64   `json:"quantity"`
	PricePerLiter float64   `json:"price_per_liter"`
	TotalCost     float64   `json:"total_cost"`
	Supplier      string    `json:"supplier"`
	InvoiceNumber string    `json:"invoice_number"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

type SubmitStockRequest struct {
	StationID      int     `json:"station_id"`
	FuelType       string  `json:"fuel_type"`
	StockDate      string  `json:"stock_date"` // YYYY-MM-DD
	OpeningStock   float64 `json:"opening_stock"`
	PurchasedStock float64 `json:"purchased_stock"`
	TankCapacity   float64 `json:"tank_capacity,omitempty"`
	// SoldStock, when set, is a manual override recorded as such;
	// otherwise sold stock is derived from the day's readings.
	SoldStock *float64 `json:"sold_stock,omitempty"`
	// PurchaseDetails are appended to the entry's purchase invoices on
	// submit, each bumping purchased stock like a standalone purchase call.
	PurchaseDetails []AddPurchaseRequest `json:"purchase_details,omitempty"`
}

type AddPurchaseRequest struct {
	Quantity      float64 `json:"quantity"`
	PricePerLiter float64 `json:"price_per_liter"`
	Supplier      string  `json:"supplier"`
	InvoiceNumber string  `json:"invoice_number"`
}

// StockRangeSummary aggregates one fuel's stock entries over a date range.
type StockRangeSummary struct {
	StationID      int       `json:"station_id"`
	FuelType       string    `json:"fuel_type"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalPurchased float64   `json:"total_purchased"`
	TotalSold      float64   `json:"total_sold"`
	TotalVariance  float64   `json:"total_variance"`
	Entries        []Stock   `json:"entries"`
}

// Alert severities for the low-stock scan.
const (
	AlertLow      = "low"
	AlertCritical = "critical"
)

// StockAlert is computed fresh on each scan, never stored.
type StockAlert struct {
	StockID          int       `json:"stock_id"`
	StationID        int       `json:"station_id"`
	FuelType         string    `json:"fuel_type"`
	StockDate        time.Time `json:"stock_date"`
	ClosingStock     float64   `json:"closing_stock"`
	TankCapacity     float64   `json:"tank_capacity"`
	PercentRemaining float64   `json:"percent_remaining"`
	Status           string    `json:"status"`
}
