package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
)

type NozzleRepository struct {
	DB *pgxpool.Pool
}

func NewNozzleRepository(db *pgxpool.Pool) *NozzleRepository {
	return &NozzleRepository{DB: db}
}

func (r *NozzleRepository) Create(ctx context.Context, nozzle *models.Nozzle) error {
	query := `
		INSERT INTO nozzles (nozzle_number, machine_number, station_id, fuel_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		nozzle.NozzleNumber,
		nozzle.MachineNumber,
		nozzle.StationID,
		nozzle.FuelID,
	).Scan(&nozzle.ID, &nozzle.CreatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("nozzle", fmt.Sprintf("station %d / %s", nozzle.StationID, nozzle.NozzleNumber))
	}
	if err != nil {
		return err
	}

	nozzle.IsActive = true
	return nil
}

// GetByID resolves a nozzle together with its fuel type. Reading
// submission uses this single lookup for both ownership and fuel checks.
func (r *NozzleRepository) GetByID(ctx context.Context, id int) (*models.Nozzle, error) {
	query := `
		SELECT n.id, n.nozzle_number, COALESCE(n.machine_number, ''), n.station_id,
		       n.fuel_id, f.fuel_type, n.assigned_employee_id, n.is_active, n.created_at
		FROM nozzles n
		JOIN fuels f ON n.fuel_id = f.id
		WHERE n.id = $1
	`

	nozzle := &models.Nozzle{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&nozzle.ID,
		&nozzle.NozzleNumber,
		&nozzle.MachineNumber,
		&nozzle.StationID,
		&nozzle.FuelID,
		&nozzle.FuelType,
		&nozzle.AssignedEmployeeID,
		&nozzle.IsActive,
		&nozzle.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("nozzle", "id")
	}
	if err != nil {
		return nil, err
	}

	return nozzle, nil
}

func (r *NozzleRepository) ListByStation(ctx context.Context, stationID int) ([]*models.Nozzle, error) {
	query := `
		SELECT n.id, n.nozzle_number, COALESCE(n.machine_number, ''), n.station_id,
		       n.fuel_id, f.fuel_type, n.assigned_employee_id, n.is_active, n.created_at
		FROM nozzles n
		JOIN fuels f ON n.fuel_id = f.id
		WHERE n.station_id = $1 AND n.is_active = TRUE
		ORDER BY n.nozzle_number
	`

	rows, err := r.DB.Query(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nozzles []*models.Nozzle
	for rows.Next() {
		nozzle := &models.Nozzle{}
		err := rows.Scan(
			&nozzle.ID,
			&nozzle.NozzleNumber,
			&nozzle.MachineNumber,
			&nozzle.StationID,
			&nozzle.FuelID,
			&nozzle.FuelType,
			&nozzle.AssignedEmployeeID,
			&nozzle.IsActive,
			&nozzle.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		nozzles = append(nozzles, nozzle)
	}

	return nozzles, rows.Err()
}

func (r *NozzleRepository) Update(ctx context.Context, nozzle *models.Nozzle) error {
	query := `
		UPDATE nozzles
		SET nozzle_number = $1, machine_number = $2, fuel_id = $3
		WHERE id = $4
	`

	tag, err := r.DB.Exec(ctx, query,
		nozzle.NozzleNumber,
		nozzle.MachineNumber,
		nozzle.FuelID,
		nozzle.ID,
	)
	if isUniqueViolation(err) {
		return errs.Conflict("nozzle", fmt.Sprintf("station %d / %s", nozzle.StationID, nozzle.NozzleNumber))
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("nozzle", "id")
	}

	return nil
}

func (r *NozzleRepository) AssignEmployee(ctx context.Context, nozzleID, employeeID int) error {
	tag, err := r.DB.Exec(ctx, "UPDATE nozzles SET assigned_employee_id = $1 WHERE id = $2", employeeID, nozzleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("nozzle", "id")
	}

	return nil
}

func (r *NozzleRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "UPDATE nozzles SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("nozzle", "id")
	}

	return nil
}
