package domain

import "time"

// DeliveryType distinguishes the fulfillment method for a package.
type DeliveryType string

const (
	DeliveryTypeLocker  DeliveryType = "LOCKER"
	DeliveryTypeAddress DeliveryType = "ADDRESS"
)

// Package is the aggregate root of the tracking workflow. Its lifecycle is
// held as three sub-statuses, one per role vocabulary, kept consistent by the
// cross-role projection table. LogistStatus stays empty until the manager
// relays the package to the logist.
type Package struct {
	ID           string
	TrackingCode string
	ClientID     string
	LogistID     string

	ClientStatus  ClientStatus
	LogistStatus  LogistStatus
	ManagerStatus ManagerStatus

	RecipientName     string
	DeliveryType      DeliveryType
	LockerAddress     *string
	LockerCode        *string
	CourierName       *string
	TrackingNumber    *string
	EstimatedDelivery *time.Time
	ItemName          string
	ShopName          string
	Comment           string
	ManagerComment    string

	// PaymentAmount is stored in minor currency units.
	PaymentAmount  *int64
	PaymentDetails *string

	// Version increments on every status write and backs the
	// compare-and-swap check on transitions.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
