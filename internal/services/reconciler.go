package services

import (
	"context"
	"errors"
	"time"

	"pump-backend/internal/errs"
	"pump-backend/internal/metrics"
	"pump-backend/internal/models"
	"pump-backend/internal/timeutil"
)

// Reconciler derives a stock entry's sold volume from that day's readings.
// Both the post-reading hook and the manual sync endpoint run through it,
// so the two paths cannot drift apart.
type Reconciler struct {
	readings ReadingStore
	stocks   StockStore
	guard    *StationGuard
}

func NewReconciler(readings ReadingStore, stocks StockStore, guard *StationGuard) *Reconciler {
	return &Reconciler{readings: readings, stocks: stocks, guard: guard}
}

// Reconcile sums liters sold over the readings for (station, day, fuelType)
// and overwrites the matching stock entry's sold stock. No stock entry or a
// locked one is a no-op: stock entries are created explicitly, and locked
// entries are immutable even to reconciliation. Idempotent for a fixed
// reading set.
func (r *Reconciler) Reconcile(ctx context.Context, stationID int, day time.Time, fuelType string) error {
	day = timeutil.StartOfDay(day)

	total, err := r.sumLiters(ctx, stationID, fuelType, day)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return err
	}

	stock, err := r.stocks.GetByKey(ctx, stationID, fuelType, day)
	if errors.Is(err, errs.ErrNotFound) {
		metrics.ReconcileRuns.WithLabelValues("skipped_absent").Inc()
		return nil
	}
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return err
	}

	if stock.Locked {
		metrics.ReconcileRuns.WithLabelValues("skipped_locked").Inc()
		return nil
	}

	stock.SoldStock = total
	stock.SoldStockSource = models.SoldStockReconciled
	stock.Recompute()

	if err := r.stocks.Update(ctx, stock); err != nil {
		// A concurrent lock between our read and write is still a no-op.
		if errors.Is(err, errs.ErrLocked) {
			metrics.ReconcileRuns.WithLabelValues("skipped_locked").Inc()
			return nil
		}
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return err
	}

	metrics.ReconcileRuns.WithLabelValues("applied").Inc()
	return nil
}

// Sync is the foreground variant driven by the stock's own ID. Unlike the
// background run it checks station association and surfaces Locked to the
// caller.
func (r *Reconciler) Sync(ctx context.Context, stockID, actorID int) (*models.Stock, error) {
	stock, err := r.stocks.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	if err := r.guard.Authorize(ctx, stock.StationID, actorID); err != nil {
		return nil, err
	}

	if stock.Locked {
		return nil, errs.Locked("stock", int64(stock.ID))
	}

	total, err := r.sumLiters(ctx, stock.StationID, stock.FuelType, timeutil.StartOfDay(stock.StockDate))
	if err != nil {
		return nil, err
	}

	stock.SoldStock = total
	stock.SoldStockSource = models.SoldStockReconciled
	stock.Recompute()

	if err := r.stocks.Update(ctx, stock); err != nil {
		return nil, err
	}

	metrics.ReconcileRuns.WithLabelValues("applied").Inc()
	return stock, nil
}

func (r *Reconciler) sumLiters(ctx context.Context, stationID int, fuelType string, day time.Time) (float64, error) {
	readings, err := r.readings.ListByStationFuelDate(ctx, stationID, fuelType, day)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, reading := range readings {
		total += reading.LitersSold
	}
	return total, nil
}
