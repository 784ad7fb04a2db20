package models

import "time"

type Employee struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"` // manager or operator
	Salary      float64   `json:"salary"`
	StationID   int       `json:"station_id"`
	IsActive    bool      `json:"is_active"`
	JoiningDate time.Time `json:"joining_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateEmployeeRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Role        string  `json:"role"`
	Salary      float64 `json:"salary"`
	StationID   int     `json:"station_id"`
	JoiningDate string  `json:"joining_date,omitempty"` // YYYY-MM-DD, defaults to today
}

type UpdateEmployeeRequest struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Role   string  `json:"role"`
	Salary float64 `json:"salary"`
}
