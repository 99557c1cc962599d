package dto

import "time"

// LogistProfileRequest creates or updates a logist profile.
type LogistProfileRequest struct {
	ServiceLocation string `json:"service_location"`
	Address         string `json:"address"`
	SupportsLockers bool   `json:"supports_lockers"`
	SupportsOffices bool   `json:"supports_offices"`
	Active          bool   `json:"active"`
}

// LogistProfileResponse is the public projection of a logist profile.
type LogistProfileResponse struct {
	UserID          string    `json:"user_id"`
	ServiceLocation string    `json:"service_location"`
	Address         string    `json:"address"`
	SupportsLockers bool      `json:"supports_lockers"`
	SupportsOffices bool      `json:"supports_offices"`
	Active          bool      `json:"active"`
	UpdatedAt       time.Time `json:"updated_at"`
}
