package domain

// ClientStatus enumerates the client-facing package lifecycle.
type ClientStatus string

const (
	ClientStatusCreated          ClientStatus = "CREATED"
	ClientStatusReceivedByLogist ClientStatus = "RECEIVED_BY_LOGIST"
	ClientStatusAwaitingProcess  ClientStatus = "AWAITING_PROCESSING"
	ClientStatusAwaitingPayment  ClientStatus = "AWAITING_PAYMENT"
	ClientStatusAwaitingShipping ClientStatus = "AWAITING_SHIPPING"
	ClientStatusShipped          ClientStatus = "SHIPPED"
)

// LogistStatus enumerates the logist-facing package lifecycle. The empty
// value means the package has not yet been relayed to the logist.
type LogistStatus string

const (
	LogistStatusNone             LogistStatus = ""
	LogistStatusReceivedInfo     LogistStatus = "RECEIVED_INFO"
	LogistStatusPackageReceived  LogistStatus = "PACKAGE_RECEIVED"
	LogistStatusAwaitingShipping LogistStatus = "AWAITING_SHIPPING"
	LogistStatusShipped          LogistStatus = "SHIPPED"
	LogistStatusPaid             LogistStatus = "PAID"
)

// ManagerStatus enumerates the manager-facing package lifecycle.
type ManagerStatus string

const (
	ManagerStatusCreated           ManagerStatus = "CREATED"
	ManagerStatusSentToLogist      ManagerStatus = "SENT_TO_LOGIST"
	ManagerStatusLogistConfirmed   ManagerStatus = "LOGIST_CONFIRMED"
	ManagerStatusInfoSentToClient  ManagerStatus = "INFO_SENT_TO_CLIENT"
	ManagerStatusConfirmedByClient ManagerStatus = "CONFIRMED_BY_CLIENT"
	ManagerStatusAwaitingPayment   ManagerStatus = "AWAITING_PAYMENT"
	ManagerStatusAwaitingProcess   ManagerStatus = "AWAITING_PROCESSING"
	ManagerStatusAwaitingShipping  ManagerStatus = "AWAITING_SHIPPING"
	ManagerStatusShippedByLogist   ManagerStatus = "SHIPPED_BY_LOGIST"
	ManagerStatusPaid              ManagerStatus = "PAID"
)

// Action names a workflow step a role can request on a package.
type Action string

const (
	ActionConfirmReceipt   Action = "confirm_receipt"
	ActionPay              Action = "pay"
	ActionConfirmReceived  Action = "confirm_received"
	ActionShip             Action = "ship"
	ActionSendToLogist     Action = "send_to_logist"
	ActionSendInfoToClient Action = "send_info_to_client"
	ActionRequestPayment   Action = "request_payment"
	ActionSendToShipping   Action = "send_to_shipping"
	ActionConfirmShipped   Action = "confirm_shipped"
)
