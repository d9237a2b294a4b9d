package client

import (
	"cmp"
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Notification is an admin-authored broadcast.
type Notification struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	TargetAudience string    `json:"targetAudience"`
	Active         bool      `json:"active"`
	Template       string    `json:"template,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RecordID implements domain.Record.
func (n Notification) RecordID() string { return n.ID }

// Template is a predefined notification body with ${var} placeholders.
type Template struct {
	Key            string `json:"key"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	TargetAudience string `json:"targetAudience"`
}

// NotificationPayload creates or updates a notification. Nil pointers are
// not sent on update.
type NotificationPayload struct {
	Type           string `json:"type,omitempty" validate:"omitempty,oneof=system_alert buyer_message seller_message affiliate_message"`
	Title          string `json:"title" validate:"required,max=200"`
	Message        string `json:"message" validate:"required,max=2000"`
	TargetAudience string `json:"targetAudience,omitempty" validate:"omitempty,oneof=all buyers sellers affiliates"`
	Active         *bool  `json:"active,omitempty"`
	Template       string `json:"template,omitempty"`
}

// SendPayload dispatches a notification. Immediate defaults to true.
type SendPayload struct {
	Immediate *bool `json:"immediate"`
}

// TogglePayload activates or deactivates a notification.
type TogglePayload struct {
	Active bool `json:"active"`
}

func normalizeNotification(f fields) Notification {
	return Notification{
		ID:             f.str("id", "_id"),
		Type:           f.str("type"),
		Title:          f.str("title"),
		Message:        f.str("message"),
		TargetAudience: f.str("targetAudience", "target_audience"),
		Active:         f.flag("active", "isActive"),
		Template:       f.str("template"),
		CreatedAt:      f.time("createdAt", "created_at"),
	}
}

// Notifications returns the notifications collection. Filter.Type and
// Filter.Audience map to the type and targetAudience query parameters.
func (a *API) Notifications() *Resource[Notification] {
	return &Resource[Notification]{
		api:      a,
		name:     "notifications",
		listPath: "/api/notifications/admin/list/",
		itemsKey: "notifications",
		params: func(f domain.Filter, q url.Values) {
			if f.Type != "" {
				q.Set("type", f.Type)
			}
			if f.Audience != "" {
				q.Set("targetAudience", f.Audience)
			}
		},
		normalize: normalizeNotification,
		routes: map[domain.ActionKind]route{
			domain.ActionCreate: {
				method: http.MethodPost,
				path:   "/api/notifications/admin/create/",
				build: jsonBody(func(p *NotificationPayload) {
					if p.Type == "" {
						p.Type = "system_alert"
					}
					if p.TargetAudience == "" {
						p.TargetAudience = "all"
					}
					if p.Active == nil {
						active := true
						p.Active = &active
					}
				}),
			},
			domain.ActionUpdate: {method: http.MethodPut, path: "/api/notifications/admin/{id}/update/", build: jsonBody[NotificationPayload](nil)},
			domain.ActionDelete: {method: http.MethodDelete, path: "/api/notifications/admin/{id}/delete/"},
			domain.ActionSend: {
				method: http.MethodPost,
				path:   "/api/notifications/admin/{id}/send/",
				build: jsonBody(func(p *SendPayload) {
					if p.Immediate == nil {
						now := true
						p.Immediate = &now
					}
				}),
			},
			domain.ActionToggle: {method: http.MethodPut, path: "/api/admin/notifications/{id}/toggle/", build: jsonBody[TogglePayload](nil)},
		},
	}
}

// NotificationTemplates fetches the predefined templates sorted by key.
func (a *API) NotificationTemplates(ctx context.Context) ([]Template, error) {
	body, err := a.get(ctx, "notifications", "/api/admin/notifications/templates/", nil)
	if err != nil {
		return nil, err
	}
	raw := body.obj("templates")
	out := make([]Template, 0, len(raw))
	for key := range raw {
		t := raw.obj(key)
		out = append(out, Template{
			Key:            key,
			Type:           t.str("type"),
			Title:          t.str("title"),
			Message:        t.str("message"),
			TargetAudience: t.str("targetAudience"),
		})
	}
	slices.SortFunc(out, func(x, y Template) int { return cmp.Compare(x.Key, y.Key) })
	return out, nil
}
