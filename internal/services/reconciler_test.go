package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
	"pump-backend/internal/services"
)

func seedStock(t *testing.T, stocks *fakeStockStore, stock *models.Stock) *models.Stock {
	t.Helper()
	stock.Recompute()
	require.NoError(t, stocks.Create(context.Background(), stock))
	return stock
}

func seedReading(t *testing.T, readings *fakeReadingStore, reading *models.DailyReading) {
	t.Helper()
	reading.Recompute()
	require.NoError(t, readings.Create(context.Background(), reading))
}

func TestReconciler_Reconcile_OverwritesSoldStock(t *testing.T) {
	// GIVEN: a stock entry and two readings for the same station/fuel/day
	// WHEN: reconciling
	// THEN: sold stock is the sum of liters sold, tagged reconciled

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelPetrol, StockDate: day,
		OpeningStock: 5000, SoldStock: 999, SoldStockSource: models.SoldStockManual,
		TankCapacity: 10000,
	})
	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 1, FuelType: models.FuelPetrol, ReadingDate: day,
		OpeningReading: 1000, ClosingReading: 1300, PricePerLiter: 100,
	})
	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 2, FuelType: models.FuelPetrol, ReadingDate: day,
		OpeningReading: 2000, ClosingReading: 2200, PricePerLiter: 100,
	})

	err := reconciler.Reconcile(ctx, 1, day, models.FuelPetrol)
	require.NoError(t, err)

	stock, err := stocks.GetByKey(ctx, 1, models.FuelPetrol, day)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stock.SoldStock)
	assert.Equal(t, models.SoldStockReconciled, stock.SoldStockSource)
	assert.Equal(t, 4500.0, stock.ClosingStock)
}

func TestReconciler_Reconcile_Idempotent(t *testing.T) {
	// GIVEN: a reconciled stock entry
	// WHEN: reconciling again with an unchanged reading set
	// THEN: the result is identical

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelDiesel, StockDate: day,
		OpeningStock: 3000, TankCapacity: 10000,
	})
	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 1, FuelType: models.FuelDiesel, ReadingDate: day,
		OpeningReading: 0, ClosingReading: 250, PricePerLiter: 90,
	})

	require.NoError(t, reconciler.Reconcile(ctx, 1, day, models.FuelDiesel))
	first, err := stocks.GetByKey(ctx, 1, models.FuelDiesel, day)
	require.NoError(t, err)

	require.NoError(t, reconciler.Reconcile(ctx, 1, day, models.FuelDiesel))
	second, err := stocks.GetByKey(ctx, 1, models.FuelDiesel, day)
	require.NoError(t, err)

	assert.Equal(t, first.SoldStock, second.SoldStock)
	assert.Equal(t, first.ClosingStock, second.ClosingStock)
	assert.Equal(t, first.SoldStockSource, second.SoldStockSource)
}

func TestReconciler_Reconcile_AbsentStock_NoOp(t *testing.T) {
	// GIVEN: readings exist but no stock entry for the day
	// WHEN: reconciling
	// THEN: nothing is created and no error is returned

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 1, FuelType: models.FuelPetrol, ReadingDate: day,
		OpeningReading: 0, ClosingReading: 100, PricePerLiter: 100,
	})

	err := reconciler.Reconcile(ctx, 1, day, models.FuelPetrol)
	assert.NoError(t, err)
	assert.Empty(t, stocks.stocks)
}

func TestReconciler_Reconcile_LockedStock_NoOp(t *testing.T) {
	// GIVEN: a locked stock entry
	// WHEN: reconciling
	// THEN: the entry is untouched and no error is returned

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	stock := seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelPetrol, StockDate: day,
		OpeningStock: 5000, SoldStock: 120, SoldStockSource: models.SoldStockManual,
		TankCapacity: 10000,
	})
	require.NoError(t, stocks.Lock(ctx, stock.ID))

	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 1, FuelType: models.FuelPetrol, ReadingDate: day,
		OpeningReading: 0, ClosingReading: 400, PricePerLiter: 100,
	})

	err := reconciler.Reconcile(ctx, 1, day, models.FuelPetrol)
	assert.NoError(t, err)

	after, err := stocks.GetByID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, after.SoldStock)
	assert.Equal(t, models.SoldStockManual, after.SoldStockSource)
}

func TestReconciler_Sync_SurfacesLocked(t *testing.T) {
	// GIVEN: a locked stock entry
	// WHEN: syncing it directly by ID
	// THEN: the caller gets a Locked error

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	stock := seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelPetrol, StockDate: day,
		OpeningStock: 5000, TankCapacity: 10000,
	})
	require.NoError(t, stocks.Lock(ctx, stock.ID))

	_, err := reconciler.Sync(ctx, stock.ID, 7)
	assert.ErrorIs(t, err, errs.ErrLocked)
}

func TestReconciler_Sync_OtherOwnersStation_Forbidden(t *testing.T) {
	// GIVEN: a stock entry on station 1 (owned by user 7)
	// WHEN: user 9 syncs it by ID
	// THEN: Forbidden, and the entry is untouched

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	stock := seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelPetrol, StockDate: day,
		OpeningStock: 5000, SoldStock: 120, SoldStockSource: models.SoldStockManual,
		TankCapacity: 10000,
	})

	_, err := reconciler.Sync(ctx, stock.ID, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	after, err := stocks.GetByID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, after.SoldStock)
	assert.Equal(t, models.SoldStockManual, after.SoldStockSource)
}

func TestReconciler_Sync_RecomputesFromReadings(t *testing.T) {
	// GIVEN: a stock entry with a stale manual sold figure
	// WHEN: syncing by ID
	// THEN: sold stock is re-derived from the readings

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	reconciler := services.NewReconciler(readings, stocks, newTestGuard())
	ctx := context.Background()
	day := mustDay("2025-06-10")

	stock := seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelCNG, StockDate: day,
		OpeningStock: 2000, SoldStock: 777, SoldStockSource: models.SoldStockManual,
		TankCapacity: 10000,
	})
	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 1, FuelType: models.FuelCNG, ReadingDate: day,
		OpeningReading: 100, ClosingReading: 150, PricePerLiter: 80,
	})

	synced, err := reconciler.Sync(ctx, stock.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 50.0, synced.SoldStock)
	assert.Equal(t, models.SoldStockReconciled, synced.SoldStockSource)
	assert.Equal(t, 1950.0, synced.ClosingStock)
}
