package client

import (
	"net/url"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// ActivityLog is one audited admin action.
type ActivityLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	AdminName string    `json:"adminName"`
	Target    string    `json:"target"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordID implements domain.Record.
func (l ActivityLog) RecordID() string { return l.ID }

func normalizeActivityLog(f fields) ActivityLog {
	return ActivityLog{
		ID:        f.str("_id", "id"),
		Action:    f.str("action", "type"),
		AdminName: f.str("adminName", "admin.name", "performedBy"),
		Target:    f.str("target", "targetId", "resource"),
		Details:   f.str("details", "description", "message"),
		IPAddress: f.str("ipAddress", "ip_address"),
		Timestamp: f.time("timestamp", "createdAt", "created_at"),
	}
}

// ActivityLogs returns the read-only audit log collection. Filter.Action,
// Filter.From and Filter.To narrow it.
func (a *API) ActivityLogs() *Resource[ActivityLog] {
	return &Resource[ActivityLog]{
		api:      a,
		name:     "activity",
		listPath: "/api/admin/activity-logs/",
		itemsKey: "logs",
		params: func(f domain.Filter, q url.Values) {
			if f.Action != "" {
				q.Set("action", f.Action)
			}
			if f.From != "" {
				q.Set("fromDate", f.From)
			}
			if f.To != "" {
				q.Set("toDate", f.To)
			}
		},
		normalize: normalizeActivityLog,
	}
}
