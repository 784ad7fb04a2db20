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

func newTestStockService() (*services.StockService, *fakeStockStore, *fakeReadingStore) {
	stocks := newFakeStockStore()
	readings := newFakeReadingStore()
	return services.NewStockService(stocks, readings, newTestGuard()), stocks, readings
}

func TestStockService_Submit_DerivesVolumes(t *testing.T) {
	// GIVEN: no readings for the day
	// WHEN: submitting opening 5000 / purchased 2000 with an explicit sold 800
	// THEN: total available 7000, closing 6200, variance 6200

	svc, _, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID:      1,
		FuelType:       "petrol",
		StockDate:      "2025-06-10",
		OpeningStock:   5000,
		PurchasedStock: 2000,
		SoldStock:      floatPtr(800),
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 7000.0, stock.TotalAvailable)
	assert.Equal(t, 6200.0, stock.ClosingStock)
	assert.Equal(t, 6200.0, stock.Variance)
	assert.Equal(t, models.SoldStockManual, stock.SoldStockSource)
	assert.Equal(t, 10000.0, stock.TankCapacity)
}

func TestStockService_Submit_DerivesSoldFromReadings(t *testing.T) {
	// GIVEN: readings totaling 300 liters for petrol on the day
	// WHEN: submitting a stock entry without an explicit sold figure
	// THEN: sold stock is 300, tagged reconciled

	svc, _, readings := newTestStockService()
	ctx := context.Background()
	day := mustDay("2025-06-10")

	seedReading(t, readings, &models.DailyReading{
		StationID: 1, NozzleID: 1, FuelType: models.FuelPetrol, ReadingDate: day,
		OpeningReading: 0, ClosingReading: 300, PricePerLiter: 100,
	})

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 300.0, stock.SoldStock)
	assert.Equal(t, models.SoldStockReconciled, stock.SoldStockSource)
	assert.Equal(t, 4700.0, stock.ClosingStock)
}

func TestStockService_Submit_SameKeyUpdates(t *testing.T) {
	// GIVEN: an entry already exists for (petrol, station 1, day)
	// WHEN: submitting again for the same key
	// THEN: the entry is overwritten, no second entry appears

	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	first, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)

	second, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5500, PurchasedStock: 1000,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 6500.0, second.TotalAvailable)
	assert.Len(t, stocks.stocks, 1)
}

func TestStockService_Submit_LockedEntry_Rejected(t *testing.T) {
	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)
	require.NoError(t, stocks.Lock(ctx, stock.ID))

	_, err = svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 1,
	}, 7)
	assert.ErrorIs(t, err, errs.ErrLocked)
}

func TestStockService_Submit_UnknownFuelType_Rejected(t *testing.T) {
	svc, _, _ := newTestStockService()

	_, err := svc.SubmitStock(context.Background(), &models.SubmitStockRequest{
		StationID: 1, FuelType: "kerosene", StockDate: "2025-06-10",
	}, 7)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestStockService_AddPurchase_BumpsDerivedFields(t *testing.T) {
	// GIVEN: a stock entry with opening 5000
	// WHEN: recording a 1000 liter purchase at 92.50
	// THEN: purchased and derived volumes move, total cost is computed

	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "diesel", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)

	updated, err := svc.AddPurchase(ctx, stock.ID, &models.AddPurchaseRequest{
		Quantity:      1000,
		PricePerLiter: 92.50,
		Supplier:      "IOC depot",
		InvoiceNumber: "INV-81",
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, updated.PurchasedStock)
	assert.Equal(t, 6000.0, updated.TotalAvailable)

	purchases, err := stocks.ListPurchases(ctx, stock.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, 92500.0, purchases[0].TotalCost)
}

func TestStockService_AddPurchase_Validation(t *testing.T) {
	svc, _, _ := newTestStockService()
	ctx := context.Background()

	_, err := svc.AddPurchase(ctx, 1, &models.AddPurchaseRequest{Quantity: 0}, 7)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.AddPurchase(ctx, 1, &models.AddPurchaseRequest{Quantity: 100, PricePerLiter: -1}, 7)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestStockService_Submit_WithPurchaseDetails_AppendsInvoices(t *testing.T) {
	// GIVEN: a submit request carrying a 1000 liter purchase at 92.50
	// WHEN: the entry is created
	// THEN: purchased stock and totals reflect the invoice, dated to the stock day

	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "diesel", StockDate: "2025-06-10",
		OpeningStock: 5000, SoldStock: floatPtr(0),
		PurchaseDetails: []models.AddPurchaseRequest{
			{Quantity: 1000, PricePerLiter: 92.50, Supplier: "IOC depot", InvoiceNumber: "INV-81"},
		},
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, stock.PurchasedStock)
	assert.Equal(t, 6000.0, stock.TotalAvailable)

	purchases, err := stocks.ListPurchases(ctx, stock.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, 92500.0, purchases[0].TotalCost)
	assert.Equal(t, "INV-81", purchases[0].InvoiceNumber)
	assert.True(t, purchases[0].PurchaseDate.Equal(mustDay("2025-06-10")))
}

func TestStockService_Submit_InvalidPurchaseDetail_NothingWritten(t *testing.T) {
	// GIVEN: a submit request whose purchase detail has zero quantity
	// WHEN: submitting
	// THEN: Validation, and no stock entry is created

	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	_, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "diesel", StockDate: "2025-06-10",
		OpeningStock: 5000,
		PurchaseDetails: []models.AddPurchaseRequest{
			{Quantity: 0, PricePerLiter: 92.50},
		},
	}, 7)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, stocks.stocks)
}

func TestStockService_Submit_OtherOwnersStation_Forbidden(t *testing.T) {
	// GIVEN: station 1 belongs to user 7
	// WHEN: user 9 submits a stock entry against it
	// THEN: Forbidden, and nothing is written

	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	_, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Empty(t, stocks.stocks)
}

func TestStockService_AddPurchase_OtherOwnersStation_Forbidden(t *testing.T) {
	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "diesel", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)

	_, err = svc.AddPurchase(ctx, stock.ID, &models.AddPurchaseRequest{
		Quantity: 100, PricePerLiter: 90,
	}, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	purchases, err := stocks.ListPurchases(ctx, stock.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestStockService_Lock_OtherOwnersStation_Forbidden(t *testing.T) {
	svc, stocks, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)

	_, err = svc.Lock(ctx, stock.ID, 9)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	after, err := stocks.GetByID(ctx, stock.ID)
	require.NoError(t, err)
	assert.False(t, after.Locked)
}

func TestStockService_Lock_Irreversible(t *testing.T) {
	svc, _, _ := newTestStockService()
	ctx := context.Background()

	stock, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000,
	}, 7)
	require.NoError(t, err)

	locked, err := svc.Lock(ctx, stock.ID, 7)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	again, err := svc.Lock(ctx, stock.ID, 7)
	require.NoError(t, err)
	assert.True(t, again.Locked)
}

func TestStockService_ScanAlerts_Thresholds(t *testing.T) {
	// GIVEN: closing stocks at 24%, 9% and 60% of capacity
	// WHEN: scanning for alerts
	// THEN: 24% is low, 9% is critical, 60% produces no alert

	svc, _, _ := newTestStockService()
	ctx := context.Background()

	_, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 2400, SoldStock: floatPtr(0), TankCapacity: 10000,
	}, 7)
	require.NoError(t, err)
	_, err = svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "diesel", StockDate: "2025-06-10",
		OpeningStock: 900, SoldStock: floatPtr(0), TankCapacity: 10000,
	}, 7)
	require.NoError(t, err)
	_, err = svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "cng", StockDate: "2025-06-10",
		OpeningStock: 6000, SoldStock: floatPtr(0), TankCapacity: 10000,
	}, 7)
	require.NoError(t, err)

	alerts, err := svc.ScanAlerts(ctx, 1, mustDay("2025-06-10"), 7)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byFuel := map[string]*models.StockAlert{}
	for _, alert := range alerts {
		byFuel[alert.FuelType] = alert
	}

	require.Contains(t, byFuel, models.FuelPetrol)
	assert.Equal(t, models.AlertLow, byFuel[models.FuelPetrol].Status)
	assert.InDelta(t, 24.0, byFuel[models.FuelPetrol].PercentRemaining, 0.001)

	require.Contains(t, byFuel, models.FuelDiesel)
	assert.Equal(t, models.AlertCritical, byFuel[models.FuelDiesel].Status)
	assert.InDelta(t, 9.0, byFuel[models.FuelDiesel].PercentRemaining, 0.001)
}

func TestStockService_FuelRangeSummary_Totals(t *testing.T) {
	// GIVEN: two petrol entries across consecutive days
	// WHEN: summarizing the range
	// THEN: purchased and sold totals sum over both entries

	svc, _, _ := newTestStockService()
	ctx := context.Background()

	_, err := svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-10",
		OpeningStock: 5000, PurchasedStock: 2000, SoldStock: floatPtr(800),
	}, 7)
	require.NoError(t, err)
	_, err = svc.SubmitStock(ctx, &models.SubmitStockRequest{
		StationID: 1, FuelType: "petrol", StockDate: "2025-06-11",
		OpeningStock: 6200, PurchasedStock: 0, SoldStock: floatPtr(500),
	}, 7)
	require.NoError(t, err)

	summary, err := svc.GetFuelRangeSummary(ctx, 1, "petrol", mustDay("2025-06-10"), mustDay("2025-06-11"), 7)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, summary.TotalPurchased)
	assert.Equal(t, 1300.0, summary.TotalSold)
	assert.Len(t, summary.Entries, 2)
}
