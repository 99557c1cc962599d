package domain

import "time"

// Message is a free-text note on a package, visible to every party with
// access. Append-only, ordered by creation time.
type Message struct {
	ID         string
	PackageID  string
	AuthorID   string
	AuthorRole Role
	Body       string
	CreatedAt  time.Time
}
