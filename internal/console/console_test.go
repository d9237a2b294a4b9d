package console

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/transport"
	"github.com/dolabb/dolabbctl/internal/view"
)

type request struct {
	Route string
	Body  map[string]any
}

// backend answers "METHOD /path" routes with fixed bodies and records
// what it received.
type backend struct {
	mu       sync.Mutex
	routes   map[string]string
	requests []request
}

func newRegistry(t *testing.T, routes map[string]string) (*Registry, *backend) {
	t.Helper()
	b := &backend{routes: routes}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		b.mu.Lock()
		b.requests = append(b.requests, request{Route: route, Body: body})
		reply, ok := b.routes[route]
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
			return
		}
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	tc, err := transport.New(server.URL)
	require.NoError(t, err)
	return NewRegistry(client.New(tc), nil), b
}

func (b *backend) sent(route string) []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []request
	for _, r := range b.requests {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

func mustPanel(t *testing.T, r *Registry, name string) Panel {
	t.Helper()
	p, ok := r.Get(name)
	require.True(t, ok, "panel %q not registered", name)
	return p
}

const usersPage = `{"success":true,"users":[
	{"_id":"u1","name":"Amal","email":"amal@example.com","type":"buyer","status":"active"},
	{"_id":"u2","name":"Badr","email":"badr@example.com","type":"seller","status":"deleted"}
],"pagination":{"currentPage":1,"totalPages":1,"totalItems":2}}`

func TestRegistry_Names(t *testing.T) {
	r, _ := newRegistry(t, nil)
	assert.Equal(t, []string{
		"activity", "affiliates", "cashouts", "disputes", "hero",
		"listings", "notifications", "payouts", "transactions", "users",
	}, r.Names())

	all := r.All()
	require.Len(t, all, 10)
	assert.Equal(t, "activity", all[0].Resource())

	_, ok := r.Get("stacks")
	assert.False(t, ok)
}

func TestPanel_LoadAndProject(t *testing.T) {
	r, b := newRegistry(t, map[string]string{"GET /api/admin/users/": usersPage})
	p := mustPanel(t, r, "users")

	require.NoError(t, p.Load(context.Background(), domain.Filter{Status: "active"}, 1))

	tbl := p.Table()
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "u1", tbl.Rows[0].ID)
	assert.Equal(t, []domain.ActionKind{domain.ActionDeactivate, domain.ActionDelete, domain.ActionSuspend}, tbl.Rows[0].Actions)
	assert.Empty(t, tbl.Rows[1].Actions)
	assert.Equal(t, "active", tbl.Filter.Status)

	reqs := b.sent("GET /api/admin/users/")
	require.Len(t, reqs, 1)
}

func TestPanel_ActRefreshesAndReportsSuccess(t *testing.T) {
	r, b := newRegistry(t, map[string]string{
		"GET /api/admin/users/":            usersPage,
		"PUT /api/admin/users/u1/suspend/": `{"success":true}`,
	})
	p := mustPanel(t, r, "users")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	notice, err := p.Act(ctx, "u1", domain.ActionSuspend, Input{Reason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, view.Notice{Level: view.LevelSuccess, Message: "User suspended successfully"}, notice)
	assert.Len(t, b.sent("PUT /api/admin/users/u1/suspend/"), 1)
	assert.Len(t, b.sent("GET /api/admin/users/"), 2, "exactly one refresh after the action")
}

func TestPanel_ActRejectedByPolicy(t *testing.T) {
	r, b := newRegistry(t, map[string]string{"GET /api/admin/users/": usersPage})
	p := mustPanel(t, r, "users")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	notice, err := p.Act(ctx, "u2", domain.ActionSuspend, Input{})
	require.ErrorIs(t, err, domain.ErrActionNotAllowed)
	assert.Equal(t, view.LevelWarning, notice.Level)
	assert.Equal(t, "Cannot suspend this user in its current state", notice.Message)
	assert.Empty(t, b.sent("PUT /api/admin/users/u2/suspend/"))
}

func TestPanel_ActServerFailure(t *testing.T) {
	r, _ := newRegistry(t, map[string]string{
		"GET /api/admin/users/":              usersPage,
		"DELETE /api/admin/users/u1/delete/": `{"success":false,"error":"User has open orders"}`,
	})
	p := mustPanel(t, r, "users")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	notice, err := p.Act(ctx, "u1", domain.ActionDelete, Input{})
	require.Error(t, err)
	assert.Equal(t, view.Notice{Level: view.LevelError, Message: "User has open orders"}, notice)
	assert.Equal(t, "User has open orders", p.Table().Error)

	p.DismissError()
	assert.Empty(t, p.Table().Error)
}

func TestPanel_ShowAndConfirmation(t *testing.T) {
	r, _ := newRegistry(t, map[string]string{"GET /api/admin/users/": usersPage})
	p := mustPanel(t, r, "users")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	d, err := p.Show(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", d.ID)
	assert.Contains(t, d.Lines, view.DetailLine{Label: "Email", Value: "amal@example.com"})
	assert.Contains(t, d.Actions, domain.ActionSuspend)

	req, ok, err := p.Confirmation(ctx, "u1", domain.ActionDelete)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, req.Destructive)
	assert.Equal(t, "Delete this user?", req.Message)

	_, _, err = p.Confirmation(ctx, "u2", domain.ActionDelete)
	assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
}

func TestPanel_DisputeCommentCarriesOrderID(t *testing.T) {
	r, b := newRegistry(t, map[string]string{
		"GET /api/admin/disputes/":              `{"success":true,"disputes":[{"_id":"d1","status":"open","order":{"_id":"o9"}}]}`,
		"POST /api/admin/disputes/d1/comments/": `{"success":true}`,
	})
	p := mustPanel(t, r, "disputes")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	_, err := p.Act(ctx, "d1", domain.ActionComment, Input{Values: map[string]string{"message": "Please upload the receipt"}})
	require.NoError(t, err)

	sent := b.sent("POST /api/admin/disputes/d1/comments/")
	require.Len(t, sent, 1)
	assert.Equal(t, "o9", sent[0].Body["order_id"])
	assert.Equal(t, "Please upload the receipt", sent[0].Body["message"])
}

func TestPanel_AffiliateToggleFlipsStatus(t *testing.T) {
	r, b := newRegistry(t, map[string]string{
		"GET /api/affiliate/all/":                     `{"success":true,"affiliates":[{"id":"a1","Affiliatestatus":"active"},{"id":"a2","Affiliatestatus":"deactivated"}]}`,
		"PUT /api/admin/affiliates/a1/toggle-status/": `{"success":true}`,
		"PUT /api/admin/affiliates/a2/toggle-status/": `{"success":true}`,
	})
	p := mustPanel(t, r, "affiliates")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	_, err := p.Act(ctx, "a1", domain.ActionToggleStatus, Input{})
	require.NoError(t, err)
	_, err = p.Act(ctx, "a2", domain.ActionToggleStatus, Input{})
	require.NoError(t, err)

	assert.Equal(t, "deactivated", b.sent("PUT /api/admin/affiliates/a1/toggle-status/")[0].Body["status"])
	assert.Equal(t, "active", b.sent("PUT /api/admin/affiliates/a2/toggle-status/")[0].Body["status"])
}

func TestPanel_CommissionRequiresNumber(t *testing.T) {
	r, b := newRegistry(t, map[string]string{
		"GET /api/affiliate/all/": `{"success":true,"affiliates":[{"id":"a1","Affiliatestatus":"active"}]}`,
	})
	p := mustPanel(t, r, "affiliates")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx, domain.Filter{}, 1))

	notice, err := p.Act(ctx, "a1", domain.ActionUpdateCommission, Input{Values: map[string]string{"commission": "ten"}})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "commission", ve.Field)
	assert.Equal(t, view.LevelError, notice.Level)
	assert.Empty(t, b.sent("PUT /api/affiliate/a1/update-commission/"))
}

func TestPanel_CreateNotification(t *testing.T) {
	r, b := newRegistry(t, map[string]string{
		"GET /api/notifications/admin/list/":    `{"success":true,"notifications":[]}`,
		"POST /api/notifications/admin/create/": `{"success":true}`,
	})
	p := mustPanel(t, r, "notifications")

	notice, err := p.ActOnCollection(context.Background(), domain.ActionCreate, Input{Values: map[string]string{
		"title":   "Welcome",
		"message": "Hello Amal",
	}})
	require.NoError(t, err)
	assert.Equal(t, "Notification created successfully!", notice.Message)

	sent := b.sent("POST /api/notifications/admin/create/")
	require.Len(t, sent, 1)
	assert.Equal(t, "system_alert", sent[0].Body["type"])
	assert.Equal(t, "all", sent[0].Body["targetAudience"])
}

func TestPanel_CollectionActionNotOffered(t *testing.T) {
	r, _ := newRegistry(t, nil)
	p := mustPanel(t, r, "disputes")

	_, err := p.ActOnCollection(context.Background(), domain.ActionCreate, Input{})
	assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
}

func TestInput(t *testing.T) {
	in := Input{Values: map[string]string{
		"price":  " 12.5 ",
		"bad":    "x",
		"flag":   "true",
		"ids":    "u1, ,u2,",
		"title":  "",
		"reason": "from values",
	}}

	price, err := in.Float("price")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, *price, 1e-9)

	_, err = in.Float("bad")
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))

	missing, err := in.Float("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	flag, err := in.Bool("flag")
	require.NoError(t, err)
	assert.True(t, *flag)

	assert.Equal(t, []string{"u1", "u2"}, in.List("ids"))
	assert.Nil(t, in.Text("absent"))
	require.NotNil(t, in.Text("title"))
	assert.Empty(t, *in.Text("title"))

	assert.Equal(t, "from values", in.ReasonOr("reason"))
	in.Reason = "explicit"
	assert.Equal(t, "explicit", in.ReasonOr("reason"))
}
