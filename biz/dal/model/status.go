package model

// SystemStatus identifies a reserved stage. Custom stages carry the empty
// value. The set is closed: every pipeline owns exactly one stage per
// non-empty status, created with the pipeline and never deleted.
type SystemStatus string

const (
	SystemStatusNone      SystemStatus = ""
	SystemStatusPending   SystemStatus = "pending"
	SystemStatusConfirmed SystemStatus = "confirmed"
	SystemStatusCompleted SystemStatus = "completed"
	SystemStatusCancelled SystemStatus = "cancelled"
)

// ReservedStatuses lists the reserved statuses in their fixed board order.
var ReservedStatuses = []SystemStatus{
	SystemStatusPending,
	SystemStatusConfirmed,
	SystemStatusCompleted,
	SystemStatusCancelled,
}

// DefaultStageName returns the display label a reserved stage is created
// with. Providers may rename reserved stages later.
func DefaultStageName(status SystemStatus) string {
	switch status {
	case SystemStatusPending:
		return "Incoming"
	case SystemStatusConfirmed:
		return "Confirmed"
	case SystemStatusCompleted:
		return "Completed"
	case SystemStatusCancelled:
		return "Cancelled"
	default:
		return ""
	}
}

// ClientStatus is the simplified status shown to the party who placed the
// order. Provider-internal triage nomenclature never leaks to clients.
type ClientStatus string

const (
	ClientStatusInProgress ClientStatus = "in_progress"
	ClientStatusConfirmed  ClientStatus = "confirmed"
	ClientStatusCompleted  ClientStatus = "completed"
	ClientStatusCancelled  ClientStatus = "cancelled"
)

// ToClientStatus projects a stage onto the client-visible status set.
// The mapping is pure and total: custom stages and the pending stage both
// read as in_progress, the remaining reserved stages map one to one.
func ToClientStatus(stage *Stage) ClientStatus {
	if stage == nil {
		return ClientStatusInProgress
	}
	switch stage.SystemStatus {
	case SystemStatusConfirmed:
		return ClientStatusConfirmed
	case SystemStatusCompleted:
		return ClientStatusCompleted
	case SystemStatusCancelled:
		return ClientStatusCancelled
	default:
		return ClientStatusInProgress
	}
}
