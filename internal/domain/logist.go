package domain

import "time"

// LogistProfile is the 1:1 extension of a logist-role user describing the
// fulfillment point they operate.
type LogistProfile struct {
	UserID          string
	ServiceLocation string
	Address         string
	SupportsLockers bool
	SupportsOffices bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
