package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
)

type StationRepository struct {
	DB *pgxpool.Pool
}

func NewStationRepository(db *pgxpool.Pool) *StationRepository {
	return &StationRepository{DB: db}
}

func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	query := `
		INSERT INTO stations (name, address, contact_number, registration_number, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		station.Name,
		station.Address,
		station.ContactNumber,
		station.RegistrationNumber,
		station.OwnerID,
	).Scan(&station.ID, &station.CreatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("station", station.RegistrationNumber)
	}
	return err
}

func (r *StationRepository) GetByID(ctx context.Context, id int) (*models.Station, error) {
	// JOIN with users so report mailing can resolve the owner address
	query := `
		SELECT s.id, s.name, COALESCE(s.address, ''), COALESCE(s.contact_number, ''),
		       COALESCE(s.registration_number, ''), s.owner_id,
		       COALESCE(u.name, ''), COALESCE(u.email, ''), s.created_at
		FROM stations s
		LEFT JOIN users u ON s.owner_id = u.id
		WHERE s.id = $1
	`

	station := &models.Station{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.Address,
		&station.ContactNumber,
		&station.RegistrationNumber,
		&station.OwnerID,
		&station.OwnerName,
		&station.OwnerEmail,
		&station.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("station", "id")
	}
	if err != nil {
		return nil, err
	}

	return station, nil
}

func (r *StationRepository) ListByOwner(ctx context.Context, ownerID int) ([]*models.Station, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), COALESCE(contact_number, ''),
		       COALESCE(registration_number, ''), owner_id, created_at
		FROM stations
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.DB.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []*models.Station
	for rows.Next() {
		station := &models.Station{}
		err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Address,
			&station.ContactNumber,
			&station.RegistrationNumber,
			&station.OwnerID,
			&station.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}

func (r *StationRepository) List(ctx context.Context) ([]*models.Station, error) {
	query := `
		SELECT s.id, s.name, COALESCE(s.address, ''), COALESCE(s.contact_number, ''),
		       COALESCE(s.registration_number, ''), s.owner_id,
		       COALESCE(u.name, ''), COALESCE(u.email, ''), s.created_at
		FROM stations s
		LEFT JOIN users u ON s.owner_id = u.id
		ORDER BY s.id
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []*models.Station
	for rows.Next() {
		station := &models.Station{}
		err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Address,
			&station.ContactNumber,
			&station.RegistrationNumber,
			&station.OwnerID,
			&station.OwnerName,
			&station.OwnerEmail,
			&station.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}
