package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
)

type StockRepository struct {
	DB *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{DB: db}
}

const stockColumns = `
	id, station_id, fuel_type, stock_date, opening_stock, purchased_stock,
	sold_stock, sold_stock_source, tank_capacity, total_available, closing_stock,
	variance, COALESCE(entered_by, 0), locked, created_at, updated_at
`

func scanStock(row pgx.Row) (*models.Stock, error) {
	stock := &models.Stock{}
	err := row.Scan(
		&stock.ID,
		&stock.StationID,
		&stock.FuelType,
		&stock.StockDate,
		&stock.OpeningStock,
		&stock.PurchasedStock,
		&stock.SoldStock,
		&stock.SoldStockSource,
		&stock.TankCapacity,
		&stock.TotalAvailable,
		&stock.ClosingStock,
		&stock.Variance,
		&stock.EnteredBy,
		&stock.Locked,
		&stock.CreatedAt,
		&stock.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *StockRepository) Create(ctx context.Context, stock *models.Stock) error {
	query := `
		INSERT INTO stocks
			(station_id, fuel_type, stock_date, opening_stock, purchased_stock, sold_stock,
			 sold_stock_source, tank_capacity, total_available, closing_stock, variance,
			 entered_by, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		stock.StationID,
		stock.FuelType,
		stock.StockDate,
		stock.OpeningStock,
		stock.PurchasedStock,
		stock.SoldStock,
		stock.SoldStockSource,
		stock.TankCapacity,
		stock.TotalAvailable,
		stock.ClosingStock,
		stock.Variance,
		stock.EnteredBy,
	).Scan(&stock.ID, &stock.CreatedAt, &stock.UpdatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("stock", fmt.Sprintf("%s / station %d / %s", stock.FuelType, stock.StationID, stock.StockDate.Format("2006-01-02")))
	}
	return err
}

// Update overwrites the volume fields. The WHERE locked = FALSE guard makes
// the lock effective even against a racing writer that read the row before
// it was locked.
func (r *StockRepository) Update(ctx context.Context, stock *models.Stock) error {
	query := `
		UPDATE stocks
		SET opening_stock = $1, purchased_stock = $2, sold_stock = $3,
		    sold_stock_source = $4, tank_capacity = $5, total_available = $6,
		    closing_stock = $7, variance = $8, entered_by = $9, updated_at = NOW()
		WHERE id = $10 AND locked = FALSE
	`

	tag, err := r.DB.Exec(ctx, query,
		stock.OpeningStock,
		stock.PurchasedStock,
		stock.SoldStock,
		stock.SoldStockSource,
		stock.TankCapacity,
		stock.TotalAvailable,
		stock.ClosingStock,
		stock.Variance,
		stock.EnteredBy,
		stock.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.Locked("stock", int64(stock.ID))
	}

	return nil
}

func (r *StockRepository) GetByID(ctx context.Context, id int) (*models.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`

	stock, err := scanStock(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("stock", "id")
	}
	if err != nil {
		return nil, err
	}

	return stock, nil
}

// GetByKey looks up the one entry for (fuelType, station, day).
func (r *StockRepository) GetByKey(ctx context.Context, stationID int, fuelType string, day time.Time) (*models.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE station_id = $1 AND fuel_type = $2 AND stock_date = $3
	`

	stock, err := scanStock(r.DB.QueryRow(ctx, query, stationID, fuelType, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("stock", fmt.Sprintf("%s / station %d / %s", fuelType, stationID, day.Format("2006-01-02")))
	}
	if err != nil {
		return nil, err
	}

	return stock, nil
}

func (r *StockRepository) ListByStationDate(ctx context.Context, stationID int, day time.Time) ([]*models.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE station_id = $1 AND stock_date = $2
		ORDER BY fuel_type
	`

	return r.queryStocks(ctx, query, stationID, day)
}

func (r *StockRepository) ListByStationFuelRange(ctx context.Context, stationID int, fuelType string, start, end time.Time) ([]*models.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE station_id = $1 AND fuel_type = $2 AND stock_date BETWEEN $3 AND $4
		ORDER BY stock_date
	`

	return r.queryStocks(ctx, query, stationID, fuelType, start, end)
}

// AddPurchase appends the invoice row and bumps purchased stock plus the
// derived fields in one transaction, skipping locked entries.
func (r *StockRepository) AddPurchase(ctx context.Context, stockID int, purchase *models.StockPurchase) (*models.Stock, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE stocks
		SET purchased_stock = purchased_stock + $1,
		    total_available = opening_stock + purchased_stock + $1,
		    closing_stock = opening_stock + purchased_stock + $1 - sold_stock,
		    variance = opening_stock + purchased_stock + $1 - sold_stock,
		    updated_at = NOW()
		WHERE id = $2 AND locked = FALSE
	`

	tag, err := tx.Exec(ctx, query, purchase.Quantity, stockID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, errs.Locked("stock", int64(stockID))
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO stock_purchases (stock_id, quantity, price_per_liter, total_cost, supplier, invoice_number, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		stockID,
		purchase.Quantity,
		purchase.PricePerLiter,
		purchase.TotalCost,
		purchase.Supplier,
		purchase.InvoiceNumber,
		purchase.PurchaseDate,
	).Scan(&purchase.ID)
	if err != nil {
		return nil, err
	}
	purchase.StockID = stockID

	stock, err := scanStock(tx.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, stockID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return stock, nil
}

func (r *StockRepository) ListPurchases(ctx context.Context, stockID int) ([]*models.StockPurchase, error) {
	query := `
		SELECT id, stock_id, quantity, price_per_liter, total_cost,
		       COALESCE(supplier, ''), COALESCE(invoice_number, ''), purchase_date
		FROM stock_purchases
		WHERE stock_id = $1
		ORDER BY purchase_date
	`

	rows, err := r.DB.Query(ctx, query, stockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*models.StockPurchase
	for rows.Next() {
		p := &models.StockPurchase{}
		err := rows.Scan(&p.ID, &p.StockID, &p.Quantity, &p.PricePerLiter, &p.TotalCost, &p.Supplier, &p.InvoiceNumber, &p.PurchaseDate)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}

// Lock finalizes the entry. Idempotent, no unlock exists.
func (r *StockRepository) Lock(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "UPDATE stocks SET locked = TRUE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("stock", "id")
	}

	return nil
}

func (r *StockRepository) queryStocks(ctx context.Context, query string, args ...interface{}) ([]*models.Stock, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []*models.Stock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	return stocks, rows.Err()
}
