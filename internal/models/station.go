package models

import "time"

type Station struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	ContactNumber      string    `json:"contact_number"`
	RegistrationNumber string    `json:"registration_number"`
	OwnerID            int       `json:"owner_id"`
	OwnerName          string    `json:"owner_name,omitempty"` // Joined from users table
	OwnerEmail         string    `json:"owner_email,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type CreateStationRequest struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	ContactNumber      string `json:"contact_number"`
	RegistrationNumber string `json:"registration_number"`
}
