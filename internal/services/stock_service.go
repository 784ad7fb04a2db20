package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pump-backend/internal/errs"
	"pump-backend/internal/models"
	"pump-backend/internal/timeutil"
)

// StockService owns the stock ledger: one entry per
// (fuel type, station, day).
type StockService struct {
	stocks   StockStore
	readings ReadingStore
	guard    *StationGuard
}

func NewStockService(stocks StockStore, readings ReadingStore, guard *StationGuard) *StockService {
	return &StockService{stocks: stocks, readings: readings, guard: guard}
}

// SubmitStock creates or updates the day's entry. Sold stock is recomputed
// from the same-day readings on every submit, overwriting whatever a prior
// reconciliation wrote; an explicit sold_stock in the request wins instead
// and is tagged manual.
func (s *StockService) SubmitStock(ctx context.Context, req *models.SubmitStockRequest, actorID int) (*models.Stock, error) {
	if err := s.guard.Authorize(ctx, req.StationID, actorID); err != nil {
		return nil, err
	}

	fuelType := strings.ToLower(strings.TrimSpace(req.FuelType))
	if !models.ValidFuelType(fuelType) {
		return nil, errs.Validation("fuel_type", "must be petrol, diesel or cng")
	}
	if req.OpeningStock < 0 || req.PurchasedStock < 0 {
		return nil, errs.Validation("stock", "volumes must not be negative")
	}
	if req.SoldStock != nil && *req.SoldStock < 0 {
		return nil, errs.Validation("sold_stock", "must not be negative")
	}
	for i := range req.PurchaseDetails {
		if err := validatePurchase(&req.PurchaseDetails[i]); err != nil {
			return nil, err
		}
	}

	day, err := timeutil.ParseInIST(timeutil.DateLayout, req.StockDate)
	if err != nil {
		return nil, errs.Validation("stock_date", "expected YYYY-MM-DD")
	}
	day = timeutil.StartOfDay(day)

	soldStock, soldSource, err := s.resolveSoldStock(ctx, req, fuelType, day)
	if err != nil {
		return nil, err
	}

	tankCapacity := req.TankCapacity
	if tankCapacity <= 0 {
		tankCapacity = models.DefaultTankCapacity
	}

	stock, err := s.stocks.GetByKey(ctx, req.StationID, fuelType, day)
	switch {
	case err == nil:
		if stock.Locked {
			return nil, errs.Locked("stock", int64(stock.ID))
		}
		stock.OpeningStock = req.OpeningStock
		stock.PurchasedStock = req.PurchasedStock
		stock.SoldStock = soldStock
		stock.SoldStockSource = soldSource
		stock.TankCapacity = tankCapacity
		stock.EnteredBy = actorID
		stock.Recompute()
		if err := s.stocks.Update(ctx, stock); err != nil {
			return nil, err
		}

	case errors.Is(err, errs.ErrNotFound):
		stock = &models.Stock{
			StationID:       req.StationID,
			FuelType:        fuelType,
			StockDate:       day,
			OpeningStock:    req.OpeningStock,
			PurchasedStock:  req.PurchasedStock,
			SoldStock:       soldStock,
			SoldStockSource: soldSource,
			TankCapacity:    tankCapacity,
			EnteredBy:       actorID,
		}
		stock.Recompute()
		if err := s.stocks.Create(ctx, stock); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	// Purchase details ride along on submit; each is appended like a
	// standalone purchase call and bumps purchased stock the same way.
	for i := range req.PurchaseDetails {
		stock, err = s.appendPurchase(ctx, stock.ID, &req.PurchaseDetails[i], day)
		if err != nil {
			return nil, err
		}
	}

	return stock, nil
}

func (s *StockService) resolveSoldStock(ctx context.Context, req *models.SubmitStockRequest, fuelType string, day time.Time) (float64, string, error) {
	if req.SoldStock != nil {
		return *req.SoldStock, models.SoldStockManual, nil
	}

	readings, err := s.readings.ListByStationFuelDate(ctx, req.StationID, fuelType, day)
	if err != nil {
		return 0, "", err
	}

	var total float64
	for _, r := range readings {
		total += r.LitersSold
	}
	return total, models.SoldStockReconciled, nil
}

func (s *StockService) GetDayStocks(ctx context.Context, stationID int, day time.Time, actorID int) ([]*models.Stock, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}

	stocks, err := s.stocks.ListByStationDate(ctx, stationID, timeutil.StartOfDay(day))
	if err != nil {
		return nil, err
	}

	for _, stock := range stocks {
		purchases, err := s.stocks.ListPurchases(ctx, stock.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range purchases {
			stock.Purchases = append(stock.Purchases, *p)
		}
	}

	return stocks, nil
}

// GetFuelRangeSummary aggregates one fuel's entries over a date range.
func (s *StockService) GetFuelRangeSummary(ctx context.Context, stationID int, fuelType string, start, end time.Time, actorID int) (*models.StockRangeSummary, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}

	fuelType = strings.ToLower(strings.TrimSpace(fuelType))
	if !models.ValidFuelType(fuelType) {
		return nil, errs.Validation("fuel_type", "must be petrol, diesel or cng")
	}

	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	if end.Before(start) {
		return nil, errs.Validation("range", "end date before start date")
	}

	stocks, err := s.stocks.ListByStationFuelRange(ctx, stationID, fuelType, start, end)
	if err != nil {
		return nil, err
	}

	summary := &models.StockRangeSummary{
		StationID: stationID,
		FuelType:  fuelType,
		StartDate: start,
		EndDate:   end,
	}
	for _, stock := range stocks {
		summary.TotalPurchased += stock.PurchasedStock
		summary.TotalSold += stock.SoldStock
		summary.TotalVariance += stock.Variance
		summary.Entries = append(summary.Entries, *stock)
	}

	return summary, nil
}

// AddPurchase appends one purchase invoice and bumps purchased stock.
func (s *StockService) AddPurchase(ctx context.Context, stockID int, req *models.AddPurchaseRequest, actorID int) (*models.Stock, error) {
	if err := validatePurchase(req); err != nil {
		return nil, err
	}

	stock, err := s.stocks.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, stock.StationID, actorID); err != nil {
		return nil, err
	}

	return s.appendPurchase(ctx, stockID, req, timeutil.Now())
}

func validatePurchase(req *models.AddPurchaseRequest) error {
	if req.Quantity <= 0 {
		return errs.Validation("quantity", "must be positive")
	}
	if req.PricePerLiter < 0 {
		return errs.Validation("price_per_liter", "must not be negative")
	}
	return nil
}

func (s *StockService) appendPurchase(ctx context.Context, stockID int, req *models.AddPurchaseRequest, when time.Time) (*models.Stock, error) {
	purchase := &models.StockPurchase{
		Quantity:      req.Quantity,
		PricePerLiter: req.PricePerLiter,
		TotalCost:     req.Quantity * req.PricePerLiter,
		Supplier:      req.Supplier,
		InvoiceNumber: req.InvoiceNumber,
		PurchaseDate:  when,
	}

	return s.stocks.AddPurchase(ctx, stockID, purchase)
}

// Lock finalizes a stock entry. Idempotent and irreversible; afterwards
// manual edits, purchases and reconciliation are all rejected.
func (s *StockService) Lock(ctx context.Context, stockID, actorID int) (*models.Stock, error) {
	stock, err := s.stocks.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, stock.StationID, actorID); err != nil {
		return nil, err
	}

	if err := s.stocks.Lock(ctx, stockID); err != nil {
		return nil, err
	}

	return s.stocks.GetByID(ctx, stockID)
}

// ScanAlerts computes low-stock alerts for the day's entries. Nothing is
// persisted; each call recomputes from current data.
func (s *StockService) ScanAlerts(ctx context.Context, stationID int, day time.Time, actorID int) ([]*models.StockAlert, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}

	stocks, err := s.stocks.ListByStationDate(ctx, stationID, timeutil.StartOfDay(day))
	if err != nil {
		return nil, err
	}

	var alerts []*models.StockAlert
	for _, stock := range stocks {
		if stock.TankCapacity <= 0 {
			continue
		}
		percent := stock.ClosingStock / stock.TankCapacity * 100
		if percent > 25 {
			continue
		}

		status := models.AlertLow
		if percent <= 10 {
			status = models.AlertCritical
		}

		alerts = append(alerts, &models.StockAlert{
			StockID:          stock.ID,
			StationID:        stock.StationID,
			FuelType:         stock.FuelType,
			StockDate:        stock.StockDate,
			ClosingStock:     stock.ClosingStock,
			TankCapacity:     stock.TankCapacity,
			PercentRemaining: percent,
			Status:           status,
		})
	}

	return alerts, nil
}
