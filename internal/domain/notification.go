package domain

import "time"

// NotificationKind classifies system-generated notifications.
type NotificationKind string

const (
	NotificationStatusChange  NotificationKind = "STATUS_CHANGE"
	NotificationSystem        NotificationKind = "SYSTEM"
	NotificationPasswordReset NotificationKind = "PASSWORD_RESET"
)

// Notification targets a single user and carries read/unread state. Created
// as a side effect of status transitions and administrative actions; only the
// read flag is ever mutated.
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	PackageID *string
	Body      string
	Read      bool
	CreatedAt time.Time
}
