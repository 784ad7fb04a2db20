package models

import "time"

type Nozzle struct {
	ID                 int       `json:"id"`
	NozzleNumber       string    `json:"nozzle_number"`
	MachineNumber      string    `json:"machine_number"`
	StationID          int       `json:"station_id"`
	FuelID             int       `json:"fuel_id"`
	FuelType           string    `json:"fuel_type,omitempty"` // Joined from fuels table
	AssignedEmployeeID *int      `json:"assigned_employee_id,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type CreateNozzleRequest struct {
	NozzleNumber  string `json:"nozzle_number"`
	MachineNumber string `json:"machine_number"`
	StationID     int    `json:"station_id"`
	FuelID        int    `json:"fuel_id"`
}

type UpdateNozzleRequest struct {
	NozzleNumber  string `json:"nozzle_number"`
	MachineNumber string `json:"machine_number"`
	FuelID        int    `json:"fuel_id"`
}

type AssignEmployeeRequest struct {
	EmployeeID int `json:"employee_id"`
}
