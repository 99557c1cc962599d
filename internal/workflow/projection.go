package workflow

import "github.com/spec-kit/package-tracking/internal/domain"

// Projection names the sub-statuses that must be written into the other
// roles' vocabularies after a transition. Nil fields are left untouched.
type Projection struct {
	Client  *domain.ClientStatus
	Logist  *domain.LogistStatus
	Manager *domain.ManagerStatus
}

// IsZero reports whether the projection writes nothing.
func (p Projection) IsZero() bool {
	return p.Client == nil && p.Logist == nil && p.Manager == nil
}

// The projection tables are keyed by the status a transition lands on.
// Every landing status is reached by exactly one transition in these
// forward-only chains, so the post-status identifies the trigger. A
// projection applies exactly once per transition: a projected status never
// cascades into a further projection within the same call. Relaying further
// is always a separate, explicit action by the receiving role.

var clientProjections = map[domain.ClientStatus]Projection{
	domain.ClientStatusAwaitingProcess:  {Manager: managerPtr(domain.ManagerStatusConfirmedByClient)},
	domain.ClientStatusAwaitingShipping: {Manager: managerPtr(domain.ManagerStatusAwaitingProcess)},
}

var logistProjections = map[domain.LogistStatus]Projection{
	domain.LogistStatusPackageReceived: {Manager: managerPtr(domain.ManagerStatusLogistConfirmed)},
	domain.LogistStatusShipped:         {Manager: managerPtr(domain.ManagerStatusShippedByLogist)},
}

var managerProjections = map[domain.ManagerStatus]Projection{
	domain.ManagerStatusSentToLogist:     {Logist: logistPtr(domain.LogistStatusReceivedInfo)},
	domain.ManagerStatusInfoSentToClient: {Client: clientPtr(domain.ClientStatusReceivedByLogist)},
	domain.ManagerStatusAwaitingPayment:  {Client: clientPtr(domain.ClientStatusAwaitingPayment)},
	domain.ManagerStatusAwaitingShipping: {Logist: logistPtr(domain.LogistStatusAwaitingShipping)},
	domain.ManagerStatusPaid: {
		Client: clientPtr(domain.ClientStatusShipped),
		Logist: logistPtr(domain.LogistStatusPaid),
	},
}

// ProjectClient returns the cross-role writes triggered when a client
// transition lands on the given status. A zero projection is a no-op, not
// an error.
func ProjectClient(after domain.ClientStatus) Projection {
	return clientProjections[after]
}

// ProjectLogist returns the cross-role writes for a logist transition.
func ProjectLogist(after domain.LogistStatus) Projection {
	return logistProjections[after]
}

// ProjectManager returns the cross-role writes for a manager transition.
func ProjectManager(after domain.ManagerStatus) Projection {
	return managerProjections[after]
}

func clientPtr(s domain.ClientStatus) *domain.ClientStatus { return &s }

func logistPtr(s domain.LogistStatus) *domain.LogistStatus { return &s }

func managerPtr(s domain.ManagerStatus) *domain.ManagerStatus { return &s }
