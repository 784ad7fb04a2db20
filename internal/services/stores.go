package services

import (
	"context"
	"time"

	"pump-backend/internal/models"
)

// Narrow persistence interfaces consumed by the services. The repositories
// package satisfies all of them; tests use in-memory fakes.

type ReadingStore interface {
	Create(ctx context.Context, reading *models.DailyReading) error
	Update(ctx context.Context, reading *models.DailyReading) error
	GetByID(ctx context.Context, id int) (*models.DailyReading, error)
	GetByKey(ctx context.Context, nozzleID int, day time.Time, stationID int) (*models.DailyReading, error)
	ListByStationDate(ctx context.Context, stationID int, day time.Time) ([]*models.DailyReading, error)
	ListByStationFuelDate(ctx context.Context, stationID int, fuelType string, day time.Time) ([]*models.DailyReading, error)
	ListByStationRange(ctx context.Context, stationID int, start, end time.Time) ([]*models.DailyReading, error)
	Lock(ctx context.Context, id int) error
}

type StockStore interface {
	Create(ctx context.Context, stock *models.Stock) error
	Update(ctx context.Context, stock *models.Stock) error
	GetByID(ctx context.Context, id int) (*models.Stock, error)
	GetByKey(ctx context.Context, stationID int, fuelType string, day time.Time) (*models.Stock, error)
	ListByStationDate(ctx context.Context, stationID int, day time.Time) ([]*models.Stock, error)
	ListByStationFuelRange(ctx context.Context, stationID int, fuelType string, start, end time.Time) ([]*models.Stock, error)
	AddPurchase(ctx context.Context, stockID int, purchase *models.StockPurchase) (*models.Stock, error)
	ListPurchases(ctx context.Context, stockID int) ([]*models.StockPurchase, error)
	Lock(ctx context.Context, id int) error
}

type NozzleStore interface {
	GetByID(ctx context.Context, id int) (*models.Nozzle, error)
}

type FuelStore interface {
	Create(ctx context.Context, fuel *models.Fuel, updatedBy int) error
	GetByID(ctx context.Context, id int) (*models.Fuel, error)
	GetActive(ctx context.Context, stationID int, fuelType string) (*models.Fuel, error)
	ListByStation(ctx context.Context, stationID int) ([]*models.Fuel, error)
	UpdatePrice(ctx context.Context, fuelID int, price float64, updatedBy int) error
	Deactivate(ctx context.Context, id int) error
	PriceHistory(ctx context.Context, fuelID int) ([]*models.PricePoint, error)
}

// PriceSource resolves the current price for a station's fuel. FuelService
// implements it over the Redis cache; reading submission snapshots prices
// through it.
type PriceSource interface {
	GetCurrentPrice(ctx context.Context, stationID int, fuelType string) (float64, error)
}

type StationStore interface {
	GetByID(ctx context.Context, id int) (*models.Station, error)
	List(ctx context.Context) ([]*models.Station, error)
}
