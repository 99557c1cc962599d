package workflow

import "github.com/spec-kit/package-tracking/internal/domain"

// Each interactive status has exactly one legal action. The workflow is
// strictly forward: no backward or cancellation transitions exist, and
// terminal statuses have no outgoing edges.

type clientTransition struct {
	action domain.Action
	next   domain.ClientStatus
}

type logistTransition struct {
	action domain.Action
	next   domain.LogistStatus
}

type managerTransition struct {
	action domain.Action
	next   domain.ManagerStatus
}

var clientTransitions = map[domain.ClientStatus]clientTransition{
	domain.ClientStatusReceivedByLogist: {domain.ActionConfirmReceipt, domain.ClientStatusAwaitingProcess},
	domain.ClientStatusAwaitingPayment:  {domain.ActionPay, domain.ClientStatusAwaitingShipping},
}

var logistTransitions = map[domain.LogistStatus]logistTransition{
	domain.LogistStatusReceivedInfo:     {domain.ActionConfirmReceived, domain.LogistStatusPackageReceived},
	domain.LogistStatusAwaitingShipping: {domain.ActionShip, domain.LogistStatusShipped},
}

var managerTransitions = map[domain.ManagerStatus]managerTransition{
	domain.ManagerStatusCreated:           {domain.ActionSendToLogist, domain.ManagerStatusSentToLogist},
	domain.ManagerStatusLogistConfirmed:   {domain.ActionSendInfoToClient, domain.ManagerStatusInfoSentToClient},
	domain.ManagerStatusConfirmedByClient: {domain.ActionRequestPayment, domain.ManagerStatusAwaitingPayment},
	domain.ManagerStatusAwaitingProcess:   {domain.ActionSendToShipping, domain.ManagerStatusAwaitingShipping},
	domain.ManagerStatusShippedByLogist:   {domain.ActionConfirmShipped, domain.ManagerStatusPaid},
}

// NextClientStatus resolves the successor for a client action. The boolean
// is false when the action is undefined for the current status.
func NextClientStatus(current domain.ClientStatus, action domain.Action) (domain.ClientStatus, bool) {
	tr, ok := clientTransitions[current]
	if !ok || tr.action != action {
		return "", false
	}
	return tr.next, true
}

// NextLogistStatus resolves the successor for a logist action.
func NextLogistStatus(current domain.LogistStatus, action domain.Action) (domain.LogistStatus, bool) {
	tr, ok := logistTransitions[current]
	if !ok || tr.action != action {
		return "", false
	}
	return tr.next, true
}

// NextManagerStatus resolves the successor for a manager action.
func NextManagerStatus(current domain.ManagerStatus, action domain.Action) (domain.ManagerStatus, bool) {
	tr, ok := managerTransitions[current]
	if !ok || tr.action != action {
		return "", false
	}
	return tr.next, true
}

// AvailableActions lists the actions the role can take on the package right
// now, derived from the interaction policy and the transition tables. Empty
// at waiting and terminal states.
func AvailableActions(state domain.StatusSnapshot, role domain.Role) []domain.Action {
	if !canAct(state, role) {
		return nil
	}
	switch role {
	case domain.RoleClient:
		if tr, ok := clientTransitions[state.Client]; ok {
			return []domain.Action{tr.action}
		}
	case domain.RoleLogist:
		if tr, ok := logistTransitions[state.Logist]; ok {
			return []domain.Action{tr.action}
		}
	case domain.RoleManager, domain.RoleAdmin:
		if tr, ok := managerTransitions[state.Manager]; ok {
			return []domain.Action{tr.action}
		}
	}
	return nil
}

// VisibleStatus projects the tri-state into the single status key the role's
// view should display. Admin sees the manager vocabulary.
func VisibleStatus(state domain.StatusSnapshot, role domain.Role) string {
	return ownStatus(state, role)
}
