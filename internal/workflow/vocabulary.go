package workflow

import "github.com/spec-kit/package-tracking/internal/domain"

// statusInfo describes one status inside a role's vocabulary. A status is
// interactive when the owning role is expected to act on it; every other
// status is a waiting or terminal state for that role.
type statusInfo struct {
	label       string
	description string
	interactive bool
}

var clientVocabulary = map[domain.ClientStatus]statusInfo{
	domain.ClientStatusCreated: {
		label:       "Created",
		description: "Package registered, waiting for the manager to hand it to a logist.",
	},
	domain.ClientStatusReceivedByLogist: {
		label:       "Received by logist",
		description: "The logist has your package. Confirm the details to continue.",
		interactive: true,
	},
	domain.ClientStatusAwaitingProcess: {
		label:       "Awaiting processing",
		description: "Details confirmed, the manager is preparing the invoice.",
	},
	domain.ClientStatusAwaitingPayment: {
		label:       "Awaiting payment",
		description: "Payment details are ready. Pay to release the package for shipping.",
		interactive: true,
	},
	domain.ClientStatusAwaitingShipping: {
		label:       "Awaiting shipping",
		description: "Payment received, the package is queued for shipping.",
	},
	domain.ClientStatusShipped: {
		label:       "Shipped",
		description: "The package is on its way.",
	},
}

var clientOrder = []domain.ClientStatus{
	domain.ClientStatusCreated,
	domain.ClientStatusReceivedByLogist,
	domain.ClientStatusAwaitingProcess,
	domain.ClientStatusAwaitingPayment,
	domain.ClientStatusAwaitingShipping,
	domain.ClientStatusShipped,
}

var logistVocabulary = map[domain.LogistStatus]statusInfo{
	domain.LogistStatusReceivedInfo: {
		label:       "Info received",
		description: "Package details arrived from the manager. Confirm physical receipt.",
		interactive: true,
	},
	domain.LogistStatusPackageReceived: {
		label:       "Package received",
		description: "Receipt confirmed, waiting for the manager to relay to the client.",
	},
	domain.LogistStatusAwaitingShipping: {
		label:       "Awaiting shipping",
		description: "Cleared for shipping. Ship and record the courier details.",
		interactive: true,
	},
	domain.LogistStatusShipped: {
		label:       "Shipped",
		description: "Package handed to the courier, waiting for the manager's settlement.",
	},
	domain.LogistStatusPaid: {
		label:       "Paid",
		description: "Settlement complete.",
	},
}

var logistOrder = []domain.LogistStatus{
	domain.LogistStatusReceivedInfo,
	domain.LogistStatusPackageReceived,
	domain.LogistStatusAwaitingShipping,
	domain.LogistStatusShipped,
	domain.LogistStatusPaid,
}

var managerVocabulary = map[domain.ManagerStatus]statusInfo{
	domain.ManagerStatusCreated: {
		label:       "Created",
		description: "New package from a client. Send the details to the logist.",
		interactive: true,
	},
	domain.ManagerStatusSentToLogist: {
		label:       "Sent to logist",
		description: "Waiting for the logist to confirm physical receipt.",
	},
	domain.ManagerStatusLogistConfirmed: {
		label:       "Logist confirmed",
		description: "Logist has the package. Relay the details to the client.",
		interactive: true,
	},
	domain.ManagerStatusInfoSentToClient: {
		label:       "Info sent to client",
		description: "Waiting for the client to confirm the package details.",
	},
	domain.ManagerStatusConfirmedByClient: {
		label:       "Confirmed by client",
		description: "Client confirmed. Prepare payment details and request payment.",
		interactive: true,
	},
	domain.ManagerStatusAwaitingPayment: {
		label:       "Awaiting payment",
		description: "Waiting for the client to pay.",
	},
	domain.ManagerStatusAwaitingProcess: {
		label:       "Awaiting processing",
		description: "Payment received. Clear the package for shipping.",
		interactive: true,
	},
	domain.ManagerStatusAwaitingShipping: {
		label:       "Awaiting shipping",
		description: "Waiting for the logist to ship.",
	},
	domain.ManagerStatusShippedByLogist: {
		label:       "Shipped by logist",
		description: "Logist shipped the package. Confirm to close out and settle.",
		interactive: true,
	},
	domain.ManagerStatusPaid: {
		label:       "Paid",
		description: "Workflow complete.",
	},
}

var managerOrder = []domain.ManagerStatus{
	domain.ManagerStatusCreated,
	domain.ManagerStatusSentToLogist,
	domain.ManagerStatusLogistConfirmed,
	domain.ManagerStatusInfoSentToClient,
	domain.ManagerStatusConfirmedByClient,
	domain.ManagerStatusAwaitingPayment,
	domain.ManagerStatusAwaitingProcess,
	domain.ManagerStatusAwaitingShipping,
	domain.ManagerStatusShippedByLogist,
	domain.ManagerStatusPaid,
}

// Label returns the display label for a status key within the role's
// vocabulary. Unknown keys are returned unchanged.
func Label(role domain.Role, status string) string {
	if info, ok := lookup(role, status); ok {
		return info.label
	}
	return status
}

// Describe returns the human-readable description for a status key within
// the role's vocabulary. Unknown keys are returned unchanged.
func Describe(role domain.Role, status string) string {
	if info, ok := lookup(role, status); ok {
		return info.description
	}
	return status
}

func lookup(role domain.Role, status string) (statusInfo, bool) {
	switch role {
	case domain.RoleClient:
		info, ok := clientVocabulary[domain.ClientStatus(status)]
		return info, ok
	case domain.RoleLogist:
		info, ok := logistVocabulary[domain.LogistStatus(status)]
		return info, ok
	case domain.RoleManager, domain.RoleAdmin:
		info, ok := managerVocabulary[domain.ManagerStatus(status)]
		return info, ok
	}
	return statusInfo{}, false
}

// ClientStatuses returns the client vocabulary in lifecycle order.
func ClientStatuses() []domain.ClientStatus {
	return append([]domain.ClientStatus(nil), clientOrder...)
}

// LogistStatuses returns the logist vocabulary in lifecycle order.
func LogistStatuses() []domain.LogistStatus {
	return append([]domain.LogistStatus(nil), logistOrder...)
}

// ManagerStatuses returns the manager vocabulary in lifecycle order.
func ManagerStatuses() []domain.ManagerStatus {
	return append([]domain.ManagerStatus(nil), managerOrder...)
}
