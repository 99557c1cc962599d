package workflow

import "github.com/spec-kit/package-tracking/internal/domain"

// CanInteract reports whether the role may act on the given status key. True
// only when the status belongs to the role's own vocabulary and is flagged
// interactive there; waiting states and other roles' statuses are rejected.
// Admin is treated as manager.
func CanInteract(status string, role domain.Role) bool {
	info, ok := lookup(role, status)
	return ok && info.interactive
}

// canAct reports whether the role may act given the package's full
// tri-state, consulting only that role's own sub-status.
func canAct(state domain.StatusSnapshot, role domain.Role) bool {
	return CanInteract(ownStatus(state, role), role)
}

// ownStatus selects the sub-status the role reads and acts on.
func ownStatus(state domain.StatusSnapshot, role domain.Role) string {
	switch role {
	case domain.RoleClient:
		return string(state.Client)
	case domain.RoleLogist:
		return string(state.Logist)
	case domain.RoleManager, domain.RoleAdmin:
		return string(state.Manager)
	}
	return ""
}
