package services

import (
	"context"
	"strings"

	"pump-backend/internal/cache"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
)

// FuelService is the price registry: one entry per (station, fuel type),
// current price plus an append-only history.
type FuelService struct {
	fuels FuelStore
	guard *StationGuard
}

func NewFuelService(fuels FuelStore, guard *StationGuard) *FuelService {
	return &FuelService{fuels: fuels, guard: guard}
}

func (s *FuelService) CreateFuel(ctx context.Context, req *models.CreateFuelRequest, actorID int) (*models.Fuel, error) {
	if err := s.guard.Authorize(ctx, req.StationID, actorID); err != nil {
		return nil, err
	}

	fuelType := strings.ToLower(strings.TrimSpace(req.FuelType))
	if !models.ValidFuelType(fuelType) {
		return nil, errs.Validation("fuel_type", "must be petrol, diesel or cng")
	}
	if req.Price < 0 {
		return nil, errs.Validation("price", "must not be negative")
	}

	fuel := &models.Fuel{
		StationID:    req.StationID,
		FuelType:     fuelType,
		CurrentPrice: req.Price,
	}
	if err := s.fuels.Create(ctx, fuel, actorID); err != nil {
		return nil, err
	}

	return fuel, nil
}

func (s *FuelService) ListByStation(ctx context.Context, stationID, actorID int) ([]*models.Fuel, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}
	return s.fuels.ListByStation(ctx, stationID)
}

// SetPrice appends the history row and sets the current price. Readings
// already persisted keep their snapshotted price; only future submissions
// see the new one.
func (s *FuelService) SetPrice(ctx context.Context, fuelID int, price float64, actorID int) (*models.Fuel, error) {
	if price < 0 {
		return nil, errs.Validation("price", "must not be negative")
	}

	fuel, err := s.fuels.GetByID(ctx, fuelID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, fuel.StationID, actorID); err != nil {
		return nil, err
	}

	if err := s.fuels.UpdatePrice(ctx, fuelID, price, actorID); err != nil {
		return nil, err
	}

	cache.InvalidatePrice(ctx, fuel.StationID, fuel.FuelType)

	fuel.CurrentPrice = price
	return fuel, nil
}

func (s *FuelService) Deactivate(ctx context.Context, fuelID, actorID int) error {
	fuel, err := s.fuels.GetByID(ctx, fuelID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, fuel.StationID, actorID); err != nil {
		return err
	}

	if err := s.fuels.Deactivate(ctx, fuelID); err != nil {
		return err
	}

	cache.InvalidatePrice(ctx, fuel.StationID, fuel.FuelType)
	return nil
}

// GetCurrentPrice resolves the active price for (station, fuelType),
// serving from Redis when possible. Deactivated or missing entries fail
// with NotFound.
func (s *FuelService) GetCurrentPrice(ctx context.Context, stationID int, fuelType string) (float64, error) {
	if price, ok := cache.GetCachedPrice(ctx, stationID, fuelType); ok {
		return price, nil
	}

	fuel, err := s.fuels.GetActive(ctx, stationID, fuelType)
	if err != nil {
		return 0, err
	}

	cache.CachePrice(ctx, stationID, fuelType, fuel.CurrentPrice)
	return fuel.CurrentPrice, nil
}

func (s *FuelService) PriceHistory(ctx context.Context, fuelID, actorID int) ([]*models.PricePoint, error) {
	fuel, err := s.fuels.GetByID(ctx, fuelID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, fuel.StationID, actorID); err != nil {
		return nil, err
	}
	return s.fuels.PriceHistory(ctx, fuelID)
}
