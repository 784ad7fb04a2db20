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

type ReadingRepository struct {
	DB *pgxpool.Pool
}

func NewReadingRepository(db *pgxpool.Pool) *ReadingRepository {
	return &ReadingRepository{DB: db}
}

const readingColumns = `
	r.id, r.station_id, r.nozzle_id, COALESCE(n.nozzle_number, ''), r.fuel_type,
	r.reading_date, r.opening_reading, r.closing_reading, r.price_per_liter,
	r.liters_sold, r.total_amount, r.cash_amount, r.upi_amount, r.card_amount,
	COALESCE(r.entered_by, 0), r.locked, r.created_at, r.updated_at
`

func scanReading(row pgx.Row) (*models.DailyReading, error) {
	reading := &models.DailyReading{}
	err := row.Scan(
		&reading.ID,
		&reading.StationID,
		&reading.NozzleID,
		&reading.NozzleNumber,
		&reading.FuelType,
		&reading.ReadingDate,
		&reading.OpeningReading,
		&reading.ClosingReading,
		&reading.PricePerLiter,
		&reading.LitersSold,
		&reading.TotalAmount,
		&reading.CashAmount,
		&reading.UpiAmount,
		&reading.CardAmount,
		&reading.EnteredBy,
		&reading.Locked,
		&reading.CreatedAt,
		&reading.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reading, nil
}

func (r *ReadingRepository) Create(ctx context.Context, reading *models.DailyReading) error {
	query := `
		INSERT INTO daily_readings
			(station_id, nozzle_id, fuel_type, reading_date, opening_reading, closing_reading,
			 price_per_liter, liters_sold, total_amount, cash_amount, upi_amount, card_amount,
			 entered_by, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, FALSE)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		reading.StationID,
		reading.NozzleID,
		reading.FuelType,
		reading.ReadingDate,
		reading.OpeningReading,
		reading.ClosingReading,
		reading.PricePerLiter,
		reading.LitersSold,
		reading.TotalAmount,
		reading.CashAmount,
		reading.UpiAmount,
		reading.CardAmount,
		reading.EnteredBy,
	).Scan(&reading.ID, &reading.CreatedAt, &reading.UpdatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("reading", fmt.Sprintf("nozzle %d / %s", reading.NozzleID, reading.ReadingDate.Format("2006-01-02")))
	}
	return err
}

// Update overwrites the mutable fields. The lock check belongs to the
// service; a locked row is never handed to Update.
func (r *ReadingRepository) Update(ctx context.Context, reading *models.DailyReading) error {
	query := `
		UPDATE daily_readings
		SET opening_reading = $1, closing_reading = $2, price_per_liter = $3,
		    liters_sold = $4, total_amount = $5, cash_amount = $6, upi_amount = $7,
		    card_amount = $8, entered_by = $9, updated_at = NOW()
		WHERE id = $10 AND locked = FALSE
	`

	tag, err := r.DB.Exec(ctx, query,
		reading.OpeningReading,
		reading.ClosingReading,
		reading.PricePerLiter,
		reading.LitersSold,
		reading.TotalAmount,
		reading.CashAmount,
		reading.UpiAmount,
		reading.CardAmount,
		reading.EnteredBy,
		reading.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.Locked("reading", int64(reading.ID))
	}

	return nil
}

func (r *ReadingRepository) GetByID(ctx context.Context, id int) (*models.DailyReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM daily_readings r
		LEFT JOIN nozzles n ON r.nozzle_id = n.id
		WHERE r.id = $1
	`

	reading, err := scanReading(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("reading", "id")
	}
	if err != nil {
		return nil, err
	}

	return reading, nil
}

// GetByKey looks up the one entry for (nozzle, day, station).
func (r *ReadingRepository) GetByKey(ctx context.Context, nozzleID int, day time.Time, stationID int) (*models.DailyReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM daily_readings r
		LEFT JOIN nozzles n ON r.nozzle_id = n.id
		WHERE r.nozzle_id = $1 AND r.reading_date = $2 AND r.station_id = $3
	`

	reading, err := scanReading(r.DB.QueryRow(ctx, query, nozzleID, day, stationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("reading", fmt.Sprintf("nozzle %d / %s", nozzleID, day.Format("2006-01-02")))
	}
	if err != nil {
		return nil, err
	}

	return reading, nil
}

func (r *ReadingRepository) ListByStationDate(ctx context.Context, stationID int, day time.Time) ([]*models.DailyReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM daily_readings r
		LEFT JOIN nozzles n ON r.nozzle_id = n.id
		WHERE r.station_id = $1 AND r.reading_date = $2
		ORDER BY n.nozzle_number
	`

	return r.queryReadings(ctx, query, stationID, day)
}

// ListByStationFuelDate returns the reading set the reconciler sums over.
func (r *ReadingRepository) ListByStationFuelDate(ctx context.Context, stationID int, fuelType string, day time.Time) ([]*models.DailyReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM daily_readings r
		LEFT JOIN nozzles n ON r.nozzle_id = n.id
		WHERE r.station_id = $1 AND r.fuel_type = $2 AND r.reading_date = $3
	`

	return r.queryReadings(ctx, query, stationID, fuelType, day)
}

func (r *ReadingRepository) ListByStationRange(ctx context.Context, stationID int, start, end time.Time) ([]*models.DailyReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM daily_readings r
		LEFT JOIN nozzles n ON r.nozzle_id = n.id
		WHERE r.station_id = $1 AND r.reading_date BETWEEN $2 AND $3
		ORDER BY r.reading_date, n.nozzle_number
	`

	return r.queryReadings(ctx, query, stationID, start, end)
}

// Lock finalizes the entry. Idempotent, no unlock exists.
func (r *ReadingRepository) Lock(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "UPDATE daily_readings SET locked = TRUE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("reading", "id")
	}

	return nil
}

func (r *ReadingRepository) queryReadings(ctx context.Context, query string, args ...interface{}) ([]*models.DailyReading, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*models.DailyReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}
