package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pump-backend/internal/errs"
	"pump-backend/internal/models"
)

type EmployeeRepository struct {
	DB *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	query := `
		INSERT INTO employees (name, phone, role, salary, station_id, is_active, joining_date)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		emp.Name,
		emp.Phone,
		emp.Role,
		emp.Salary,
		emp.StationID,
		emp.JoiningDate,
	).Scan(&emp.ID, &emp.CreatedAt)
	if err != nil {
		return err
	}

	emp.IsActive = true
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int) (*models.Employee, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), role, salary, station_id, is_active, joining_date, created_at
		FROM employees
		WHERE id = $1
	`

	emp := &models.Employee{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.Name,
		&emp.Phone,
		&emp.Role,
		&emp.Salary,
		&emp.StationID,
		&emp.IsActive,
		&emp.JoiningDate,
		&emp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("employee", "id")
	}
	if err != nil {
		return nil, err
	}

	return emp, nil
}

func (r *EmployeeRepository) ListByStation(ctx context.Context, stationID int) ([]*models.Employee, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), role, salary, station_id, is_active, joining_date, created_at
		FROM employees
		WHERE station_id = $1 AND is_active = TRUE
		ORDER BY name
	`

	rows, err := r.DB.Query(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		emp := &models.Employee{}
		err := rows.Scan(
			&emp.ID,
			&emp.Name,
			&emp.Phone,
			&emp.Role,
			&emp.Salary,
			&emp.StationID,
			&emp.IsActive,
			&emp.JoiningDate,
			&emp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, phone = $2, role = $3, salary = $4
		WHERE id = $5
	`

	tag, err := r.DB.Exec(ctx, query, emp.Name, emp.Phone, emp.Role, emp.Salary, emp.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("employee", "id")
	}

	return nil
}

func (r *EmployeeRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "UPDATE employees SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("employee", "id")
	}

	return nil
}
