package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// User is a marketplace account as the admin console sees it.
type User struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Type           string        `json:"type"`
	Status         string        `json:"status"`
	JoinDate       time.Time     `json:"joinDate"`
	TotalPurchases int           `json:"totalPurchases"`
	TotalSpent     float64       `json:"totalSpent"`
	History        []UserHistory `json:"history,omitempty"`
}

// UserHistory is one line of a user's account history.
type UserHistory struct {
	Date   string  `json:"date"`
	Action string  `json:"action"`
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

// RecordID implements domain.Record.
func (u User) RecordID() string { return u.ID }

// ReasonPayload carries an optional free-text reason.
type ReasonPayload struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// BulkUserPayload applies one action to many users.
type BulkUserPayload struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
	Action  string   `json:"action" validate:"required,oneof=suspend deactivate reactivate delete"`
}

func normalizeUser(f fields) User {
	u := User{
		ID:             f.str("_id", "id"),
		Name:           f.str("name", "username", "fullName", "full_name"),
		Email:          f.str("email"),
		Type:           f.str("type", "role", "userType"),
		Status:         f.str("status", "Status"),
		JoinDate:       f.time("joinDate", "join_date", "createdAt", "created_at"),
		TotalPurchases: f.integer("Activity.totalPurchases", "activity.totalPurchases"),
		TotalSpent:     f.num("Activity.totalSpent", "activity.totalSpent"),
	}
	for _, h := range f.list("accountHistory") {
		u.History = append(u.History, UserHistory{
			Date:   h.str("date"),
			Action: h.str("action"),
			Item:   h.str("item"),
			Amount: h.num("amount"),
		})
	}
	return u
}

// Users returns the users collection.
func (a *API) Users() *Resource[User] {
	return &Resource[User]{
		api:        a,
		name:       "users",
		listPath:   "/api/admin/users/",
		searchPath: "/api/admin/users/search/",
		detailPath: "/api/admin/users/{id}/",
		itemsKey:   "users",
		detailKeys: []string{"user"},
		params:     statusParam,
		normalize:  normalizeUser,
		routes: map[domain.ActionKind]route{
			domain.ActionSuspend:    {method: http.MethodPut, path: "/api/admin/users/{id}/suspend/"},
			domain.ActionDeactivate: {method: http.MethodPut, path: "/api/admin/users/{id}/deactivate/"},
			domain.ActionReactivate: {method: http.MethodPut, path: "/api/admin/users/{id}/reactivate/", build: jsonBody[ReasonPayload](nil)},
			domain.ActionDelete:     {method: http.MethodDelete, path: "/api/admin/users/{id}/delete/"},
			domain.ActionBulk:       {method: http.MethodPost, path: "/api/admin/users/bulk-action/", build: jsonBody[BulkUserPayload](nil)},
		},
	}
}

func statusParam(f domain.Filter, q url.Values) {
	if f.Status != "" {
		q.Set("status", f.Status)
	}
}
