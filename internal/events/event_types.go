package events

import (
	"time"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPackageCreated         EventType = "package_created"
	EventPackageStatusChanged   EventType = "package_status_changed"
	EventPaymentInfoSet         EventType = "payment_info_set"
	EventFileAttached           EventType = "file_attached"
	EventMessageAdded           EventType = "message_added"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PackageID string      `json:"package_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PackageCreatedPayload payload.
type PackageCreatedPayload struct {
	TrackingCode string `json:"tracking_code"`
	ClientID     string `json:"client_id"`
	LogistID     string `json:"logist_id"`
	ItemName     string `json:"item_name"`
}

// StatusChangedPayload carries both tri-state snapshots so handlers can
// notify every role whose sub-status moved.
type StatusChangedPayload struct {
	Action   domain.Action         `json:"action"`
	Before   domain.StatusSnapshot `json:"before"`
	After    domain.StatusSnapshot `json:"after"`
	ClientID string                `json:"client_id"`
	LogistID string                `json:"logist_id"`
}

// PaymentInfoSetPayload payload.
type PaymentInfoSetPayload struct {
	Amount   int64  `json:"amount"`
	ClientID string `json:"client_id"`
}

// FileAttachedPayload payload.
type FileAttachedPayload struct {
	FileID   string          `json:"file_id"`
	Kind     domain.FileKind `json:"kind"`
	FileName string          `json:"file_name"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID   string      `json:"message_id"`
	AuthorRole  domain.Role `json:"author_role"`
	BodyPreview string      `json:"body_preview"`
	ClientID    string      `json:"client_id"`
	LogistID    string      `json:"logist_id"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
