package dto

import (
	"time"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// CreatePackageRequest describes the package creation payload.
type CreatePackageRequest struct {
	LogistID          string     `json:"logist_id"`
	RecipientName     string     `json:"recipient_name"`
	DeliveryType      string     `json:"delivery_type"`
	LockerAddress     *string    `json:"locker_address,omitempty"`
	LockerCode        *string    `json:"locker_code,omitempty"`
	ItemName          string     `json:"item_name"`
	ShopName          string     `json:"shop_name,omitempty"`
	Comment           string     `json:"comment,omitempty"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// ApplyActionRequest triggers a workflow transition.
type ApplyActionRequest struct {
	Action  string `json:"action"`
	Version int64  `json:"version,omitempty"`
}

// UpdateDetailsRequest amends staff-editable package fields.
type UpdateDetailsRequest struct {
	CourierName       *string    `json:"courier_name,omitempty"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ManagerComment    *string    `json:"manager_comment,omitempty"`
}

// SetPaymentInfoRequest records billing details.
type SetPaymentInfoRequest struct {
	Amount  int64  `json:"amount"`
	Details string `json:"details"`
}

// AttachFileRequest records uploaded file metadata.
type AttachFileRequest struct {
	Kind       string `json:"kind"`
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// CreateMessageRequest appends a note to the package thread.
type CreateMessageRequest struct {
	Body string `json:"body"`
}

// PackageSummary is the list-view projection of a package.
type PackageSummary struct {
	ID               string    `json:"id"`
	TrackingCode     string    `json:"tracking_code"`
	ItemName         string    `json:"item_name"`
	RecipientName    string    `json:"recipient_name"`
	DeliveryType     string    `json:"delivery_type"`
	Status           string    `json:"status"`
	StatusLabel      string    `json:"status_label"`
	AvailableActions []string  `json:"available_actions"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PackageDetailResponse is the full package view for the calling role.
type PackageDetailResponse struct {
	ID                string                  `json:"id"`
	TrackingCode      string                  `json:"tracking_code"`
	ClientID          string                  `json:"client_id"`
	LogistID          string                  `json:"logist_id"`
	Status            string                  `json:"status"`
	StatusLabel       string                  `json:"status_label"`
	StatusDescription string                  `json:"status_description"`
	AvailableActions  []string                `json:"available_actions"`
	RecipientName     string                  `json:"recipient_name"`
	DeliveryType      string                  `json:"delivery_type"`
	LockerAddress     *string                 `json:"locker_address,omitempty"`
	LockerCode        *string                 `json:"locker_code,omitempty"`
	CourierName       *string                 `json:"courier_name,omitempty"`
	TrackingNumber    *string                 `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	ItemName          string                  `json:"item_name"`
	ShopName          string                  `json:"shop_name,omitempty"`
	Comment           string                  `json:"comment,omitempty"`
	ManagerComment    string                  `json:"manager_comment,omitempty"`
	PaymentAmount     *int64                  `json:"payment_amount,omitempty"`
	PaymentDetails    *string                 `json:"payment_details,omitempty"`
	Version           int64                   `json:"version"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Messages          []MessageResponse       `json:"messages"`
	Files             []PackageFileResponse   `json:"files"`
	History           []StatusHistoryResponse `json:"history,omitempty"`
}

// MessageResponse is one entry of the package thread.
type MessageResponse struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"author_id"`
	AuthorRole domain.Role `json:"author_role"`
	Body       string      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}

// PackageFileResponse is one uploaded file record.
type PackageFileResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusHistoryResponse is one audit trail entry.
type StatusHistoryResponse struct {
	ID        string                `json:"id"`
	ActorID   string                `json:"actor_id"`
	ActorRole domain.Role           `json:"actor_role"`
	Action    string                `json:"action"`
	Before    domain.StatusSnapshot `json:"before"`
	After     domain.StatusSnapshot `json:"after"`
	CreatedAt time.Time             `json:"created_at"`
}

// TrackingResponse is the public tracking projection.
type TrackingResponse struct {
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	UpdatedAt    time.Time `json:"updated_at"`
}
