package services_test

import (
	"context"
	"fmt"
	"time"

	"pump-backend/internal/errs"
	"pump-backend/internal/models"
	"pump-backend/internal/services"
	"pump-backend/internal/timeutil"
)

// =============================================================================
// IN-MEMORY STORE FAKES
// =============================================================================

type fakeReadingStore struct {
	nextID   int
	readings map[int]*models.DailyReading
	failWith error
}

func newFakeReadingStore() *fakeReadingStore {
	return &fakeReadingStore{nextID: 1, readings: make(map[int]*models.DailyReading)}
}

func (f *fakeReadingStore) Create(ctx context.Context, reading *models.DailyReading) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.readings {
		if existing.NozzleID == reading.NozzleID &&
			existing.StationID == reading.StationID &&
			existing.ReadingDate.Equal(reading.ReadingDate) {
			return errs.Conflict("reading", fmt.Sprintf("nozzle %d", reading.NozzleID))
		}
	}
	reading.ID = f.nextID
	f.nextID++
	copied := *reading
	f.readings[reading.ID] = &copied
	return nil
}

func (f *fakeReadingStore) Update(ctx context.Context, reading *models.DailyReading) error {
	if f.failWith != nil {
		return f.failWith
	}
	existing, ok := f.readings[reading.ID]
	if !ok {
		return errs.NotFound("reading", "id")
	}
	if existing.Locked {
		return errs.Locked("reading", int64(reading.ID))
	}
	copied := *reading
	f.readings[reading.ID] = &copied
	return nil
}

func (f *fakeReadingStore) GetByID(ctx context.Context, id int) (*models.DailyReading, error) {
	reading, ok := f.readings[id]
	if !ok {
		return nil, errs.NotFound("reading", "id")
	}
	copied := *reading
	return &copied, nil
}

func (f *fakeReadingStore) GetByKey(ctx context.Context, nozzleID int, day time.Time, stationID int) (*models.DailyReading, error) {
	for _, reading := range f.readings {
		if reading.NozzleID == nozzleID && reading.StationID == stationID && reading.ReadingDate.Equal(day) {
			copied := *reading
			return &copied, nil
		}
	}
	return nil, errs.NotFound("reading", "key")
}

func (f *fakeReadingStore) ListByStationDate(ctx context.Context, stationID int, day time.Time) ([]*models.DailyReading, error) {
	var out []*models.DailyReading
	for _, reading := range f.readings {
		if reading.StationID == stationID && reading.ReadingDate.Equal(day) {
			copied := *reading
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReadingStore) ListByStationFuelDate(ctx context.Context, stationID int, fuelType string, day time.Time) ([]*models.DailyReading, error) {
	var out []*models.DailyReading
	for _, reading := range f.readings {
		if reading.StationID == stationID && reading.FuelType == fuelType && reading.ReadingDate.Equal(day) {
			copied := *reading
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReadingStore) ListByStationRange(ctx context.Context, stationID int, start, end time.Time) ([]*models.DailyReading, error) {
	var out []*models.DailyReading
	for _, reading := range f.readings {
		if reading.StationID == stationID &&
			!reading.ReadingDate.Before(start) && !reading.ReadingDate.After(end) {
			copied := *reading
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReadingStore) Lock(ctx context.Context, id int) error {
	reading, ok := f.readings[id]
	if !ok {
		return errs.NotFound("reading", "id")
	}
	reading.Locked = true
	return nil
}

type fakeStockStore struct {
	nextID    int
	stocks    map[int]*models.Stock
	purchases map[int][]*models.StockPurchase
	updates   int
}

func newFakeStockStore() *fakeStockStore {
	return &fakeStockStore{
		nextID:    1,
		stocks:    make(map[int]*models.Stock),
		purchases: make(map[int][]*models.StockPurchase),
	}
}

func (f *fakeStockStore) Create(ctx context.Context, stock *models.Stock) error {
	for _, existing := range f.stocks {
		if existing.StationID == stock.StationID &&
			existing.FuelType == stock.FuelType &&
			existing.StockDate.Equal(stock.StockDate) {
			return errs.Conflict("stock", stock.FuelType)
		}
	}
	stock.ID = f.nextID
	f.nextID++
	copied := *stock
	f.stocks[stock.ID] = &copied
	return nil
}

func (f *fakeStockStore) Update(ctx context.Context, stock *models.Stock) error {
	existing, ok := f.stocks[stock.ID]
	if !ok {
		return errs.NotFound("stock", "id")
	}
	if existing.Locked {
		return errs.Locked("stock", int64(stock.ID))
	}
	f.updates++
	copied := *stock
	f.stocks[stock.ID] = &copied
	return nil
}

func (f *fakeStockStore) GetByID(ctx context.Context, id int) (*models.Stock, error) {
	stock, ok := f.stocks[id]
	if !ok {
		return nil, errs.NotFound("stock", "id")
	}
	copied := *stock
	return &copied, nil
}

func (f *fakeStockStore) GetByKey(ctx context.Context, stationID int, fuelType string, day time.Time) (*models.Stock, error) {
	for _, stock := range f.stocks {
		if stock.StationID == stationID && stock.FuelType == fuelType && stock.StockDate.Equal(day) {
			copied := *stock
			return &copied, nil
		}
	}
	return nil, errs.NotFound("stock", "key")
}

func (f *fakeStockStore) ListByStationDate(ctx context.Context, stationID int, day time.Time) ([]*models.Stock, error) {
	var out []*models.Stock
	for _, stock := range f.stocks {
		if stock.StationID == stationID && stock.StockDate.Equal(day) {
			copied := *stock
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStockStore) ListByStationFuelRange(ctx context.Context, stationID int, fuelType string, start, end time.Time) ([]*models.Stock, error) {
	var out []*models.Stock
	for _, stock := range f.stocks {
		if stock.StationID == stationID && stock.FuelType == fuelType &&
			!stock.StockDate.Before(start) && !stock.StockDate.After(end) {
			copied := *stock
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStockStore) AddPurchase(ctx context.Context, stockID int, purchase *models.StockPurchase) (*models.Stock, error) {
	stock, ok := f.stocks[stockID]
	if !ok {
		return nil, errs.NotFound("stock", "id")
	}
	if stock.Locked {
		return nil, errs.Locked("stock", int64(stockID))
	}
	purchase.ID = len(f.purchases[stockID]) + 1
	purchase.StockID = stockID
	f.purchases[stockID] = append(f.purchases[stockID], purchase)
	stock.PurchasedStock += purchase.Quantity
	stock.Recompute()
	copied := *stock
	return &copied, nil
}

func (f *fakeStockStore) ListPurchases(ctx context.Context, stockID int) ([]*models.StockPurchase, error) {
	return f.purchases[stockID], nil
}

func (f *fakeStockStore) Lock(ctx context.Context, id int) error {
	stock, ok := f.stocks[id]
	if !ok {
		return errs.NotFound("stock", "id")
	}
	stock.Locked = true
	return nil
}

type fakeNozzleStore struct {
	nozzles  map[int]*models.Nozzle
	failWith error
}

func newFakeNozzleStore(nozzles ...*models.Nozzle) *fakeNozzleStore {
	f := &fakeNozzleStore{nozzles: make(map[int]*models.Nozzle)}
	for _, n := range nozzles {
		f.nozzles[n.ID] = n
	}
	return f
}

func (f *fakeNozzleStore) GetByID(ctx context.Context, id int) (*models.Nozzle, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	nozzle, ok := f.nozzles[id]
	if !ok {
		return nil, errs.NotFound("nozzle", "id")
	}
	return nozzle, nil
}

type fakeFuelStore struct {
	nextID int
	fuels  map[int]*models.Fuel
}

func newFakeFuelStore(fuels ...*models.Fuel) *fakeFuelStore {
	f := &fakeFuelStore{nextID: 1, fuels: make(map[int]*models.Fuel)}
	for _, fuel := range fuels {
		f.fuels[fuel.ID] = fuel
		if fuel.ID >= f.nextID {
			f.nextID = fuel.ID + 1
		}
	}
	return f
}

func (f *fakeFuelStore) Create(ctx context.Context, fuel *models.Fuel, updatedBy int) error {
	for _, existing := range f.fuels {
		if existing.StationID == fuel.StationID && existing.FuelType == fuel.FuelType {
			return errs.Conflict("fuel", fuel.FuelType)
		}
	}
	fuel.ID = f.nextID
	f.nextID++
	fuel.IsActive = true
	f.fuels[fuel.ID] = fuel
	return nil
}

func (f *fakeFuelStore) GetByID(ctx context.Context, id int) (*models.Fuel, error) {
	fuel, ok := f.fuels[id]
	if !ok {
		return nil, errs.NotFound("fuel", "id")
	}
	return fuel, nil
}

func (f *fakeFuelStore) GetActive(ctx context.Context, stationID int, fuelType string) (*models.Fuel, error) {
	for _, fuel := range f.fuels {
		if fuel.StationID == stationID && fuel.FuelType == fuelType && fuel.IsActive {
			return fuel, nil
		}
	}
	return nil, errs.NotFound("fuel", fuelType)
}

func (f *fakeFuelStore) ListByStation(ctx context.Context, stationID int) ([]*models.Fuel, error) {
	var out []*models.Fuel
	for _, fuel := range f.fuels {
		if fuel.StationID == stationID && fuel.IsActive {
			out = append(out, fuel)
		}
	}
	return out, nil
}

func (f *fakeFuelStore) UpdatePrice(ctx context.Context, fuelID int, price float64, updatedBy int) error {
	fuel, ok := f.fuels[fuelID]
	if !ok {
		return errs.NotFound("fuel", "id")
	}
	fuel.CurrentPrice = price
	return nil
}

func (f *fakeFuelStore) Deactivate(ctx context.Context, id int) error {
	fuel, ok := f.fuels[id]
	if !ok {
		return errs.NotFound("fuel", "id")
	}
	fuel.IsActive = false
	return nil
}

func (f *fakeFuelStore) PriceHistory(ctx context.Context, fuelID int) ([]*models.PricePoint, error) {
	return nil, nil
}

type fakeStationStore struct {
	stations map[int]*models.Station
}

func newFakeStationStore(stations ...*models.Station) *fakeStationStore {
	f := &fakeStationStore{stations: make(map[int]*models.Station)}
	for _, s := range stations {
		f.stations[s.ID] = s
	}
	return f
}

func (f *fakeStationStore) GetByID(ctx context.Context, id int) (*models.Station, error) {
	station, ok := f.stations[id]
	if !ok {
		return nil, errs.NotFound("station", "id")
	}
	return station, nil
}

func (f *fakeStationStore) List(ctx context.Context) ([]*models.Station, error) {
	var out []*models.Station
	for _, s := range f.stations {
		out = append(out, s)
	}
	return out, nil
}

// recordingMailer captures outgoing mail for assertions.
type recordingMailer struct {
	sent []sentMail
}

type sentMail struct {
	to       string
	subject  string
	filename string
	pdf      []byte
}

func (m *recordingMailer) SendReport(to, subject, htmlBody, filename string, pdf []byte) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, filename: filename, pdf: pdf})
	return nil
}

func (m *recordingMailer) SendTest(to string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: "test"})
	return nil
}

// countingPriceSource records lookups so tests can assert the snapshot
// path runs through the price registry.
type countingPriceSource struct {
	price   float64
	err     error
	lookups int
}

func (p *countingPriceSource) GetCurrentPrice(ctx context.Context, stationID int, fuelType string) (float64, error) {
	p.lookups++
	if p.err != nil {
		return 0, p.err
	}
	return p.price, nil
}

// =============================================================================
// TEST HELPERS
// =============================================================================

// Station 1 belongs to user 7, station 2 to user 9.
func newTestGuard() *services.StationGuard {
	return services.NewStationGuard(newFakeStationStore(
		&models.Station{ID: 1, Name: "Highway Fuels", OwnerID: 7},
		&models.Station{ID: 2, Name: "City Pump", OwnerID: 9},
	))
}

func mustDay(value string) time.Time {
	day, err := timeutil.ParseInIST(timeutil.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return timeutil.StartOfDay(day)
}

func floatPtr(v float64) *float64 {
	return &v
}
