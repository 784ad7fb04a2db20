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

type FuelRepository struct {
	DB *pgxpool.Pool
}

func NewFuelRepository(db *pgxpool.Pool) *FuelRepository {
	return &FuelRepository{DB: db}
}

// Create inserts the registry entry and seeds its price history in one
// transaction. At most one entry per (station, fuel type).
func (r *FuelRepository) Create(ctx context.Context, fuel *models.Fuel, updatedBy int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO fuels (station_id, fuel_type, current_price, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		fuel.StationID,
		fuel.FuelType,
		fuel.CurrentPrice,
	).Scan(&fuel.ID, &fuel.CreatedAt, &fuel.UpdatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("fuel", fmt.Sprintf("station %d / %s", fuel.StationID, fuel.FuelType))
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO fuel_price_history (fuel_id, price, effective_date, updated_by)
		VALUES ($1, $2, NOW(), $3)
	`, fuel.ID, fuel.CurrentPrice, updatedBy)
	if err != nil {
		return err
	}

	fuel.IsActive = true
	return tx.Commit(ctx)
}

func (r *FuelRepository) GetByID(ctx context.Context, id int) (*models.Fuel, error) {
	query := `
		SELECT id, station_id, fuel_type, current_price, is_active, created_at, updated_at
		FROM fuels
		WHERE id = $1
	`

	fuel := &models.Fuel{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&fuel.ID,
		&fuel.StationID,
		&fuel.FuelType,
		&fuel.CurrentPrice,
		&fuel.IsActive,
		&fuel.CreatedAt,
		&fuel.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("fuel", "id")
	}
	if err != nil {
		return nil, err
	}

	return fuel, nil
}

// GetActive returns the active registry entry for (station, fuelType).
// Deactivated entries are treated as missing.
func (r *FuelRepository) GetActive(ctx context.Context, stationID int, fuelType string) (*models.Fuel, error) {
	query := `
		SELECT id, station_id, fuel_type, current_price, is_active, created_at, updated_at
		FROM fuels
		WHERE station_id = $1 AND fuel_type = $2 AND is_active = TRUE
	`

	fuel := &models.Fuel{}
	err := r.DB.QueryRow(ctx, query, stationID, fuelType).Scan(
		&fuel.ID,
		&fuel.StationID,
		&fuel.FuelType,
		&fuel.CurrentPrice,
		&fuel.IsActive,
		&fuel.CreatedAt,
		&fuel.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("fuel", fmt.Sprintf("station %d / %s", stationID, fuelType))
	}
	if err != nil {
		return nil, err
	}

	return fuel, nil
}

func (r *FuelRepository) ListByStation(ctx context.Context, stationID int) ([]*models.Fuel, error) {
	query := `
		SELECT id, station_id, fuel_type, current_price, is_active, created_at, updated_at
		FROM fuels
		WHERE station_id = $1 AND is_active = TRUE
		ORDER BY fuel_type
	`

	rows, err := r.DB.Query(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fuels []*models.Fuel
	for rows.Next() {
		fuel := &models.Fuel{}
		err := rows.Scan(
			&fuel.ID,
			&fuel.StationID,
			&fuel.FuelType,
			&fuel.CurrentPrice,
			&fuel.IsActive,
			&fuel.CreatedAt,
			&fuel.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		fuels = append(fuels, fuel)
	}

	return fuels, rows.Err()
}

// UpdatePrice sets the current price and appends the history row in one
// transaction. History is append-only, never rewritten.
func (r *FuelRepository) UpdatePrice(ctx context.Context, fuelID int, price float64, updatedBy int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE fuels SET current_price = $1, updated_at = NOW()
		WHERE id = $2 AND is_active = TRUE
	`, price, fuelID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("fuel", "id")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO fuel_price_history (fuel_id, price, effective_date, updated_by)
		VALUES ($1, $2, NOW(), $3)
	`, fuelID, price, updatedBy)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *FuelRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "UPDATE fuels SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("fuel", "id")
	}

	return nil
}

func (r *FuelRepository) PriceHistory(ctx context.Context, fuelID int) ([]*models.PricePoint, error) {
	query := `
		SELECT id, fuel_id, price, effective_date, COALESCE(updated_by, 0)
		FROM fuel_price_history
		WHERE fuel_id = $1
		ORDER BY effective_date DESC
	`

	rows, err := r.DB.Query(ctx, query, fuelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*models.PricePoint
	for rows.Next() {
		p := &models.PricePoint{}
		var effective time.Time
		err := rows.Scan(&p.ID, &p.FuelID, &p.Price, &effective, &p.UpdatedBy)
		if err != nil {
			return nil, err
		}
		p.EffectiveDate = effective
		history = append(history, p)
	}

	return history, rows.Err()
}
