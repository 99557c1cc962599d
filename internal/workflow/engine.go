package workflow

import (
	"fmt"

	"github.com/spec-kit/package-tracking/internal/domain"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// Advance validates and applies one action for a role against the package's
// tri-state: interaction policy gate, then transition lookup, then cross-role
// projection. The returned snapshot is the complete post-transition state;
// the caller persists it atomically. Admin acts through the manager
// vocabulary.
func Advance(state domain.StatusSnapshot, role domain.Role, action domain.Action) (domain.StatusSnapshot, error) {
	if !canAct(state, role) {
		// Replaying the action that produced the current status is a stale
		// retry, not a permission problem: the caller should refetch.
		if isReplay(state, role, action) {
			return state, apperrors.NewInvalidTransition(
				fmt.Sprintf("action %s was already applied", action),
				map[string]any{"role": role, "status": ownStatus(state, role), "action": action})
		}
		return state, apperrors.NewForbidden(
			fmt.Sprintf("role %s cannot act on status %s", role, ownStatus(state, role)))
	}

	next := state
	var projection Projection

	switch role {
	case domain.RoleClient:
		after, ok := NextClientStatus(state.Client, action)
		if !ok {
			return state, invalidTransition(role, string(state.Client), action)
		}
		next.Client = after
		projection = ProjectClient(after)
	case domain.RoleLogist:
		after, ok := NextLogistStatus(state.Logist, action)
		if !ok {
			return state, invalidTransition(role, string(state.Logist), action)
		}
		next.Logist = after
		projection = ProjectLogist(after)
	case domain.RoleManager, domain.RoleAdmin:
		after, ok := NextManagerStatus(state.Manager, action)
		if !ok {
			return state, invalidTransition(role, string(state.Manager), action)
		}
		next.Manager = after
		projection = ProjectManager(after)
	default:
		return state, apperrors.NewForbidden(fmt.Sprintf("unknown role %s", role))
	}

	if projection.Client != nil {
		next.Client = *projection.Client
	}
	if projection.Logist != nil {
		next.Logist = *projection.Logist
	}
	if projection.Manager != nil {
		next.Manager = *projection.Manager
	}
	return next, nil
}

// InitialState is the tri-state of a freshly created package: client and
// manager start at their created statuses, the logist side stays unset until
// the manager's first relay.
func InitialState() domain.StatusSnapshot {
	return domain.StatusSnapshot{
		Client:  domain.ClientStatusCreated,
		Logist:  domain.LogistStatusNone,
		Manager: domain.ManagerStatusCreated,
	}
}

// isReplay reports whether the action's transition is the one that landed the
// role's sub-status where it is now.
func isReplay(state domain.StatusSnapshot, role domain.Role, action domain.Action) bool {
	switch role {
	case domain.RoleClient:
		for _, tr := range clientTransitions {
			if tr.action == action && tr.next == state.Client {
				return true
			}
		}
	case domain.RoleLogist:
		for _, tr := range logistTransitions {
			if tr.action == action && tr.next == state.Logist {
				return true
			}
		}
	case domain.RoleManager, domain.RoleAdmin:
		for _, tr := range managerTransitions {
			if tr.action == action && tr.next == state.Manager {
				return true
			}
		}
	}
	return false
}

func invalidTransition(role domain.Role, status string, action domain.Action) error {
	return apperrors.NewInvalidTransition(
		fmt.Sprintf("action %s is not defined for status %s", action, status),
		map[string]any{"role": role, "status": status, "action": action})
}
