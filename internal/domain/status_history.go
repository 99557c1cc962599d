package domain

import "time"

// StatusSnapshot captures the tri-state of a package at a point in time.
type StatusSnapshot struct {
	Client  ClientStatus  `json:"client"`
	Logist  LogistStatus  `json:"logist"`
	Manager ManagerStatus `json:"manager"`
}

// StatusHistory is an immutable audit trail entry written alongside each
// status transition, recording the acting user and both tri-state snapshots.
type StatusHistory struct {
	ID        string
	PackageID string
	ActorID   string
	ActorRole Role
	Action    Action
	Before    StatusSnapshot
	After     StatusSnapshot
	CreatedAt time.Time
}
