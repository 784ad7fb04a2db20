package models

import "time"

// DailyReading is one reading ledger entry: exactly one per
// (nozzle, reading date, station). Meter values are cumulative, so liters
// sold is the closing/opening delta.
type DailyReading struct {
	ID             int       `json:"id"`
	StationID      int       `json:"station_id"`
	NozzleID       int       `json:"nozzle_id"`
	NozzleNumber   string    `json:"nozzle_number,omitempty"` // Joined from nozzles table
	FuelType       string    `json:"fuel_type"`
	ReadingDate    time.Time `json:"reading_date"`
	OpeningReading float64   `json:"opening_reading"`
	ClosingReading float64   `json:"closing_reading"`
	PricePerLiter  float64   `json:"price_per_liter"` // Snapshotted at write time
	LitersSold     float64   `json:"liters_sold"`
	TotalAmount    float64   `json:"total_amount"`
	CashAmount     float64   `json:"cash_amount"`
	UpiAmount      float64   `json:"upi_amount"`
	CardAmount     float64   `json:"card_amount"`
	EnteredBy      int       `json:"entered_by"`
	Locked         bool      `json:"locked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Recompute refreshes the derived fields from the meter values and price
// snapshot. When closing < opening (meter rollover or a data-entry error,
// kept lenient on purpose) the derived fields keep their prior values and
// the write is still accepted.
func (r *DailyReading) Recompute() {
	if r.ClosingReading >= r.OpeningReading {
		r.LitersSold = r.ClosingReading - r.OpeningReading
		r.TotalAmount = r.LitersSold * r.PricePerLiter
	}
}

type SubmitReadingRequest struct {
	StationID      int     `json:"station_id"`
	NozzleID       int     `json:"nozzle_id"`
	ReadingDate    string  `json:"reading_date"` // YYYY-MM-DD
	OpeningReading float64 `json:"opening_reading"`
	ClosingReading float64 `json:"closing_reading"`
	CashAmount     float64 `json:"cash_amount"`
	UpiAmount      float64 `json:"upi_amount"`
	CardAmount     float64 `json:"card_amount"`
}

// FuelTotal is one per-fuel line in a day summary.
type FuelTotal struct {
	Liters float64 `json:"liters"`
	Amount float64 `json:"amount"`
}

// DaySummary is the aggregate of one station-day's readings.
type DaySummary struct {
	StationID  int                  `json:"station_id"`
	Date       time.Time            `json:"date"`
	TotalSales float64              `json:"total_sales"`
	CashAmount float64              `json:"cash_amount"`
	UpiAmount  float64              `json:"upi_amount"`
	CardAmount float64              `json:"card_amount"`
	FuelWise   map[string]FuelTotal `json:"fuel_wise"`
	Entries    int                  `json:"entries"`
}

// RangeReport is a date-range listing with running totals.
type RangeReport struct {
	StationID   int            `json:"station_id"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Readings    []DailyReading `json:"readings"`
	TotalLiters float64        `json:"total_liters"`
	TotalAmount float64        `json:"total_amount"`
}
