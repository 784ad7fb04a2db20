package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
	"pump-backend/internal/services"
)

func newTestReadingService() (*services.ReadingService, *fakeReadingStore, *fakeStockStore) {
	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	nozzles := newFakeNozzleStore(
		&models.Nozzle{ID: 1, NozzleNumber: "N1", StationID: 1, FuelID: 1, FuelType: models.FuelPetrol, IsActive: true},
		&models.Nozzle{ID: 2, NozzleNumber: "N2", StationID: 1, FuelID: 2, FuelType: models.FuelDiesel, IsActive: true},
		&models.Nozzle{ID: 3, NozzleNumber: "N3", StationID: 2, FuelID: 3, FuelType: models.FuelPetrol, IsActive: true},
	)
	fuels := newFakeFuelStore(
		&models.Fuel{ID: 1, StationID: 1, FuelType: models.FuelPetrol, CurrentPrice: 105.50, IsActive: true},
	)
	guard := newTestGuard()
	reconciler := services.NewReconciler(readings, stocks, guard)
	prices := services.NewFuelService(fuels, guard)
	return services.NewReadingService(readings, nozzles, prices, guard, reconciler), readings, stocks
}

func TestReadingService_Submit_CreatesWithDerivedFields(t *testing.T) {
	// GIVEN: an active petrol nozzle with a configured price of 105.50
	// WHEN: submitting opening 1000 / closing 1500
	// THEN: 500 liters and 52750.00 total are derived, price snapshotted

	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	reading, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID:      1,
		NozzleID:       1,
		ReadingDate:    "2025-06-10",
		OpeningReading: 1000,
		ClosingReading: 1500,
		CashAmount:     30000,
		UpiAmount:      22750,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 500.0, reading.LitersSold)
	assert.Equal(t, 52750.0, reading.TotalAmount)
	assert.Equal(t, 105.50, reading.PricePerLiter)
	assert.Equal(t, models.FuelPetrol, reading.FuelType)
	assert.Equal(t, 7, reading.EnteredBy)
	assert.False(t, reading.Locked)
}

func TestReadingService_Submit_SameKeyUpdates(t *testing.T) {
	// GIVEN: an entry already exists for (nozzle 1, day, station 1)
	// WHEN: submitting again for the same key
	// THEN: the entry is overwritten in place, no second entry appears

	svc, readings, _ := newTestReadingService()
	ctx := context.Background()

	first, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1200,
	}, 7)
	require.NoError(t, err)

	second, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 500.0, second.LitersSold)
	assert.Len(t, readings.readings, 1)
}

func TestReadingService_Submit_LockedEntry_Rejected(t *testing.T) {
	// GIVEN: a locked entry for the key
	// WHEN: submitting for the same key
	// THEN: the write is rejected with Locked and the entry is unchanged

	svc, readings, _ := newTestReadingService()
	ctx := context.Background()

	reading, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)
	require.NoError(t, readings.Lock(ctx, reading.ID))

	_, err = svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 9999,
	}, 7)
	assert.ErrorIs(t, err, errs.ErrLocked)

	after, err := readings.GetByID(ctx, reading.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, after.ClosingReading)
}

func TestReadingService_Submit_NegativeDelta_KeepsPriorDerived(t *testing.T) {
	// GIVEN: an entry with derived fields from a valid submission
	// WHEN: resubmitting with closing < opening
	// THEN: the write succeeds but the derived fields keep their prior values

	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)

	updated, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1500, ClosingReading: 1200,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, updated.ClosingReading)
	assert.Equal(t, 500.0, updated.LitersSold)
	assert.Equal(t, 52750.0, updated.TotalAmount)
}

func TestReadingService_Submit_MissingPrice_Conflict(t *testing.T) {
	// GIVEN: a diesel nozzle but no diesel price configured for the station
	// WHEN: submitting a reading on it
	// THEN: the request fails with Conflict, not NotFound

	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 2, ReadingDate: "2025-06-10",
		OpeningReading: 0, ClosingReading: 100,
	}, 7)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestReadingService_Submit_WrongStationNozzle_NotFound(t *testing.T) {
	// GIVEN: nozzle 3 belongs to station 2
	// WHEN: submitting it against station 1
	// THEN: the nozzle lookup fails

	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 3, ReadingDate: "2025-06-10",
		OpeningReading: 0, ClosingReading: 100,
	}, 7)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReadingService_Submit_NegativeValues_Rejected(t *testing.T) {
	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: -1, ClosingReading: 100,
	}, 7)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 0, ClosingReading: 100, CashAmount: -5,
	}, 7)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestReadingService_Submit_TriggersReconcile(t *testing.T) {
	// GIVEN: a stock entry exists for the same station/fuel/day
	// WHEN: a reading is submitted
	// THEN: the stock entry's sold stock reflects the reading

	svc, _, stocks := newTestReadingService()
	ctx := context.Background()
	day := mustDay("2025-06-10")

	seedStock(t, stocks, &models.Stock{
		StationID: 1, FuelType: models.FuelPetrol, StockDate: day,
		OpeningStock: 5000, TankCapacity: 10000,
	})

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)

	stock, err := stocks.GetByKey(ctx, 1, models.FuelPetrol, day)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stock.SoldStock)
	assert.Equal(t, models.SoldStockReconciled, stock.SoldStockSource)
}

func TestReadingService_Lock_Irreversible(t *testing.T) {
	// GIVEN: a submitted reading
	// WHEN: locking it, then locking again
	// THEN: both calls succeed and the entry stays locked

	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	reading, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)

	locked, err := svc.Lock(ctx, reading.ID, 7)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	again, err := svc.Lock(ctx, reading.ID, 7)
	require.NoError(t, err)
	assert.True(t, again.Locked)
}

func TestReadingService_Submit_OtherOwnersStation_Forbidden(t *testing.T) {
	// GIVEN: station 1 belongs to user 7
	// WHEN: user 9 submits a reading against it
	// THEN: the request is rejected with Forbidden and nothing is written

	svc, readings, _ := newTestReadingService()
	ctx := context.Background()

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Empty(t, readings.readings)
}

func TestReadingService_Queries_OtherOwnersStation_Forbidden(t *testing.T) {
	svc, _, _ := newTestReadingService()
	ctx := context.Background()
	day := mustDay("2025-06-10")

	_, err := svc.GetDayReadings(ctx, 1, day, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = svc.GetDaySummary(ctx, 1, day, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = svc.GetRangeReport(ctx, 1, day, day, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestReadingService_Lock_OtherOwnersStation_Forbidden(t *testing.T) {
	// GIVEN: a reading on station 1 (owned by user 7)
	// WHEN: user 9 tries to lock it
	// THEN: Forbidden, and the entry stays unlocked

	svc, readings, _ := newTestReadingService()
	ctx := context.Background()

	reading, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)

	_, err = svc.Lock(ctx, reading.ID, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	after, err := readings.GetByID(ctx, reading.ID)
	require.NoError(t, err)
	assert.False(t, after.Locked)
}

func TestReadingService_Submit_SnapshotsThroughPriceRegistry(t *testing.T) {
	// GIVEN: a price registry answering 99.25 for petrol
	// WHEN: a reading is submitted
	// THEN: the snapshot comes from the registry lookup, not a direct read

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	nozzles := newFakeNozzleStore(
		&models.Nozzle{ID: 1, NozzleNumber: "N1", StationID: 1, FuelID: 1, FuelType: models.FuelPetrol, IsActive: true},
	)
	guard := newTestGuard()
	prices := &countingPriceSource{price: 99.25}
	svc := services.NewReadingService(readings, nozzles, prices, guard, services.NewReconciler(readings, stocks, guard))

	reading, err := svc.SubmitReading(context.Background(), &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, prices.lookups)
	assert.Equal(t, 99.25, reading.PricePerLiter)
	assert.Equal(t, 49625.0, reading.TotalAmount)
}

func TestReadingService_Submit_NozzleStoreFailure_Propagates(t *testing.T) {
	// GIVEN: the nozzle store fails with an infrastructure error
	// WHEN: submitting a reading
	// THEN: the failure surfaces as-is instead of turning into NotFound

	readings := newFakeReadingStore()
	stocks := newFakeStockStore()
	nozzles := newFakeNozzleStore()
	nozzles.failWith = errors.New("connection reset")
	guard := newTestGuard()
	svc := services.NewReadingService(readings, nozzles, &countingPriceSource{price: 100}, guard, services.NewReconciler(readings, stocks, guard))

	_, err := svc.SubmitReading(context.Background(), &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
	assert.EqualError(t, err, "connection reset")
}

func TestSummarizeReadings_OrderIndependent(t *testing.T) {
	// GIVEN: the same readings in two different orders
	// WHEN: folding each into a summary
	// THEN: the totals are identical

	day := mustDay("2025-06-10")
	a := &models.DailyReading{FuelType: models.FuelPetrol, ReadingDate: day, LitersSold: 500, TotalAmount: 52750, CashAmount: 30000, UpiAmount: 22750}
	b := &models.DailyReading{FuelType: models.FuelDiesel, ReadingDate: day, LitersSold: 200, TotalAmount: 18000, CardAmount: 18000}
	c := &models.DailyReading{FuelType: models.FuelPetrol, ReadingDate: day, LitersSold: 100, TotalAmount: 10550, CashAmount: 10550}

	forward := services.SummarizeReadings([]*models.DailyReading{a, b, c})
	reversed := services.SummarizeReadings([]*models.DailyReading{c, b, a})

	assert.Equal(t, forward.TotalSales, reversed.TotalSales)
	assert.Equal(t, forward.CashAmount, reversed.CashAmount)
	assert.Equal(t, forward.FuelWise, reversed.FuelWise)
	assert.Equal(t, 81300.0, forward.TotalSales)
	assert.Equal(t, 600.0, forward.FuelWise[models.FuelPetrol].Liters)
	assert.Equal(t, 3, forward.Entries)
}

func TestReadingService_RangeReport_EndBeforeStart_Rejected(t *testing.T) {
	svc, _, _ := newTestReadingService()

	_, err := svc.GetRangeReport(context.Background(), 1, mustDay("2025-06-10"), mustDay("2025-06-01"), 7)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestReadingService_RangeReport_RunningTotals(t *testing.T) {
	// GIVEN: readings across two days
	// WHEN: requesting the covering range
	// THEN: totals sum over both days

	svc, _, _ := newTestReadingService()
	ctx := context.Background()

	_, err := svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-10",
		OpeningReading: 1000, ClosingReading: 1500,
	}, 7)
	require.NoError(t, err)
	_, err = svc.SubmitReading(ctx, &models.SubmitReadingRequest{
		StationID: 1, NozzleID: 1, ReadingDate: "2025-06-11",
		OpeningReading: 1500, ClosingReading: 1600,
	}, 7)
	require.NoError(t, err)

	report, err := svc.GetRangeReport(ctx, 1, mustDay("2025-06-10"), mustDay("2025-06-11"), 7)
	require.NoError(t, err)
	assert.Equal(t, 600.0, report.TotalLiters)
	assert.Equal(t, 63300.0, report.TotalAmount)
	assert.Len(t, report.Readings, 2)
}
