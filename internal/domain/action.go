package domain

// ActionKind names a single-record mutation.
type ActionKind string

// Action kinds understood by the resource clients.
const (
	ActionApprove    ActionKind = "approve"
	ActionReject     ActionKind = "reject"
	ActionHide       ActionKind = "hide"
	ActionUpdate     ActionKind = "update"
	ActionReview     ActionKind = "markReviewed"
	ActionSuspend    ActionKind = "suspend"
	ActionDeactivate ActionKind = "deactivate"
	ActionReactivate ActionKind = "reactivate"
	ActionDelete     ActionKind = "delete"
	ActionRefund     ActionKind = "refund"
	ActionBulk       ActionKind = "bulk"

	ActionApproveCashout ActionKind = "approveCashout"
	ActionRejectCashout  ActionKind = "rejectCashout"

	ActionUpdateDispute  ActionKind = "updateDispute"
	ActionCloseDispute   ActionKind = "closeDispute"
	ActionComment        ActionKind = "comment"
	ActionUploadEvidence ActionKind = "uploadEvidence"

	ActionToggleStatus     ActionKind = "toggleStatus"
	ActionUpdateCommission ActionKind = "updateCommission"

	ActionApprovePayout ActionKind = "approvePayout"
	ActionRejectPayout  ActionKind = "rejectPayout"

	ActionCreate ActionKind = "create"
	ActionSend   ActionKind = "send"
	ActionToggle ActionKind = "toggle"

	ActionUpdateHero ActionKind = "updateHero"
)

// ActionIntent is a user request to mutate one record. An empty RecordID
// targets the collection itself (create).
type ActionIntent struct {
	RecordID string     `json:"recordId"`
	Kind     ActionKind `json:"actionKind"`
	Payload  any        `json:"payload,omitempty"`
}

// ActionResult is the server's verdict on a mutation.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
