package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/metrics"
	"github.com/dolabb/dolabbctl/internal/session"
	"github.com/dolabb/dolabbctl/internal/transport"
)

// fakeSessions is an in-memory session guard.
type fakeSessions struct {
	mu      sync.Mutex
	cred    *session.Credential
	logins  []string
	logouts int
}

func (f *fakeSessions) Require() (*session.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cred == nil {
		return nil, domain.ErrUnauthenticated
	}
	return f.cred, nil
}

func (f *fakeSessions) RequireAnonymous() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cred != nil {
		return domain.ErrAlreadyAuthenticated
	}
	return nil
}

func (f *fakeSessions) Login(_ context.Context, email, password string) (*session.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, email)
	if password != "secret" {
		return nil, &session.RefusedError{Message: "Invalid email or password"}
	}
	f.cred = &session.Credential{Token: "t", Admin: client.Admin{Name: "Noura", Email: email}}
	return f.cred, nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.cred = nil
	return nil
}

// fakeBackend answers "METHOD /path" routes with fixed bodies.
type fakeBackend struct {
	mu       sync.Mutex
	routes   map[string]string
	received []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.received = append(b.received, route)
	body, ok := b.routes[route]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"not found"}`)
		return
	}
	io.WriteString(w, body)
}

func (b *fakeBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.received {
		if r == route {
			n++
		}
	}
	return n
}

const usersPage = `{"success":true,"users":[
	{"_id":"u1","name":"Amal","email":"amal@example.com","type":"buyer","status":"active"},
	{"_id":"u2","name":"Badr","email":"badr@example.com","type":"seller","status":"deleted"}
],"pagination":{"currentPage":1,"totalPages":3,"totalItems":41}}`

var statsRoutes = map[string]string{
	"GET /api/admin/dashboard/stats/":             `{"success":true,"stats":{"totalUsers":1200,"activeUsers":900,"totalListings":310,"totalSales":75,"totalRevenue":15320.5,"pendingCashouts":4,"openDisputes":2}}`,
	"GET /api/admin/dashboard/listings-status/":   `{"success":true,"data":{"active":30,"sold":10,"removed":0,"pendingReview":0}}`,
	"GET /api/admin/dashboard/transaction-types/": `{"success":true,"data":{"purchase":3,"offer":1,"acceptedOffer":0}}`,
}

type harness struct {
	server   *Server
	sessions *fakeSessions
	backend  *fakeBackend
	registry *prometheus.Registry
}

func newHarness(t *testing.T, loggedIn bool, routes map[string]string) *harness {
	t.Helper()
	fb := &fakeBackend{routes: make(map[string]string)}
	for k, v := range statsRoutes {
		fb.routes[k] = v
	}
	for k, v := range routes {
		fb.routes[k] = v
	}
	backend := httptest.NewServer(fb)
	t.Cleanup(backend.Close)

	reg := prometheus.NewRegistry()
	tc, err := transport.New(backend.URL, transport.WithMetrics(metrics.New(reg)))
	require.NoError(t, err)
	api := client.New(tc)

	sessions := &fakeSessions{}
	if loggedIn {
		sessions.cred = &session.Credential{Token: "t", Admin: client.Admin{Name: "Noura", Email: "noura@dolabb.com"}}
	}
	srv, err := New("127.0.0.1:0", sessions, console.NewRegistry(api, nil), api, WithGatherer(reg))
	require.NoError(t, err)
	return &harness{server: srv, sessions: sessions, backend: fb, registry: reg}
}

func (h *harness) do(method, target string, form url.Values, header ...string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGuard_RedirectsAnonymousToLogin(t *testing.T) {
	h := newHarness(t, false, nil)

	for _, target := range []string{"/", "/r/users", "/r/users/u1/confirm/suspend"} {
		rec := h.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "/login", rec.Header().Get("Location"), target)
	}
	assert.Zero(t, h.backend.count("GET /api/admin/users/"))
}

func TestGuard_RedirectsAuthenticatedAwayFromLogin(t *testing.T) {
	h := newHarness(t, true, nil)

	rec := h.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	h := newHarness(t, false, nil)

	rec := h.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)

	rec = h.do(http.MethodPost, "/login", url.Values{"email": {"noura@dolabb.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Contains(t, rec.Body.String(), `value="noura@dolabb.com"`)

	rec = h.do(http.MethodPost, "/login", url.Values{"email": {"noura@dolabb.com"}, "password": {"secret"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"noura@dolabb.com", "noura@dolabb.com"}, h.sessions.logins)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, true, nil)

	rec := h.do(http.MethodPost, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, 1, h.sessions.logouts)

	rec = h.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	h := newHarness(t, false, nil)

	rec := h.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestDashboard(t *testing.T) {
	h := newHarness(t, true, nil)

	rec := h.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Total users")
	assert.Contains(t, body, "1,200")
	assert.Contains(t, body, "SAR 15,320.50")
	assert.Contains(t, body, "Listings by status")
	assert.Contains(t, body, "75.0%")
	assert.Contains(t, body, "Some statistics are unavailable")
	assert.Contains(t, body, "Noura")
}

func TestList(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})

	rec := h.do(http.MethodGet, "/r/users?status=active&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "User Management")
	assert.Contains(t, body, "Amal")
	assert.Contains(t, body, `href="/r/users/u1/confirm/suspend"`)
	assert.NotContains(t, body, `href="/r/users/u2/confirm/suspend"`)
	assert.Contains(t, body, "Page 1 of 3 (41 total)")
	assert.Contains(t, body, `rel="next"`)
	assert.Contains(t, body, `<option value="active" selected>`)
}

func TestList_UnknownResource(t *testing.T) {
	h := newHarness(t, true, nil)

	rec := h.do(http.MethodGet, "/r/stacks", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown resource stacks")
}

func TestList_LoadFailureShowsBanner(t *testing.T) {
	h := newHarness(t, true, nil)

	rec := h.do(http.MethodGet, "/r/cashouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), "No cashouts found")
}

func TestDetail(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})
	h.do(http.MethodGet, "/r/users", nil)

	rec := h.do(http.MethodGet, "/r/users/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "amal@example.com")

	rec = h.do(http.MethodGet, "/r/users/zz", nil)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestConfirm(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})
	h.do(http.MethodGet, "/r/users", nil)

	rec := h.do(http.MethodGet, "/r/users/u1/confirm/delete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Delete this user?")
	assert.Contains(t, body, "This cannot be undone.")
	assert.Contains(t, body, `action="/r/users/u1/delete"`)

	rec = h.do(http.MethodGet, "/r/users/u1/confirm/suspend", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="reason"`)

	rec = h.do(http.MethodGet, "/r/users/u2/confirm/suspend", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAct(t *testing.T) {
	h := newHarness(t, true, map[string]string{
		"GET /api/admin/users/":            usersPage,
		"PUT /api/admin/users/u1/suspend/": `{"success":true}`,
	})
	h.do(http.MethodGet, "/r/users", nil)

	rec := h.do(http.MethodPost, "/r/users/u1/suspend", url.Values{"reason": {"spam"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User suspended successfully")
	assert.Contains(t, rec.Body.String(), `class="notice success"`)
	assert.Equal(t, 1, h.backend.count("PUT /api/admin/users/u1/suspend/"))
	assert.Equal(t, 2, h.backend.count("GET /api/admin/users/"))
}

func TestAct_ColdServerLoadsFirst(t *testing.T) {
	h := newHarness(t, true, map[string]string{
		"GET /api/admin/users/":            usersPage,
		"PUT /api/admin/users/u1/suspend/": `{"success":true}`,
	})

	rec := h.do(http.MethodPost, "/r/users/u1/suspend", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User suspended successfully")
}

func TestAct_RefusedByPolicy(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})
	h.do(http.MethodGet, "/r/users", nil)

	rec := h.do(http.MethodPost, "/r/users/u2/suspend", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot suspend this user in its current state")
	assert.Zero(t, h.backend.count("PUT /api/admin/users/u2/suspend/"))
}

func TestAct_CrossOriginRefused(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})

	rec := h.do(http.MethodPost, "/r/users/u1/suspend", url.Values{}, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, h.backend.count("PUT /api/admin/users/u1/suspend/"))
}

func TestCollectionAction(t *testing.T) {
	h := newHarness(t, true, map[string]string{
		"GET /api/notifications/admin/list/":    `{"success":true,"notifications":[]}`,
		"POST /api/notifications/admin/create/": `{"success":true}`,
	})

	rec := h.do(http.MethodGet, "/r/notifications/new/create", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/r/notifications/new/create"`)
	assert.Contains(t, rec.Body.String(), `name="title"`)

	rec = h.do(http.MethodPost, "/r/notifications/new/create", url.Values{"title": {"Eid sale"}, "message": {"Up to 50% off"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Notification created successfully!")
	assert.Equal(t, 1, h.backend.count("POST /api/notifications/admin/create/"))

	rec = h.do(http.MethodGet, "/r/disputes/new/create", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPDF(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})

	rec := h.do(http.MethodGet, "/r/users/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "users.pdf")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, true, map[string]string{"GET /api/admin/users/": usersPage})
	h.do(http.MethodGet, "/r/users", nil)

	rec := h.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dolabbctl_api_requests_total")
}

func TestSameOrigin(t *testing.T) {
	h := newHarness(t, false, nil)

	rec := h.do(http.MethodPost, "/login", url.Values{"email": {"a@b.co"}, "password": {"secret"}}, "Origin", "http://example.com")
	assert.Equal(t, http.StatusSeeOther, rec.Code, "httptest requests are addressed to example.com")

	rec = h.do(http.MethodPost, "/login", url.Values{}, "Origin", "http://attacker.test")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFormInput_DropsBlankFields(t *testing.T) {
	h := newHarness(t, true, map[string]string{
		"GET /api/admin/listings/":           `{"success":true,"listings":[{"_id":"l1","title":"Oud","status":"active"}]}`,
		"PUT /api/admin/listings/l1/update/": `{"success":true}`,
	})
	h.do(http.MethodGet, "/r/listings", nil)

	rec := h.do(http.MethodPost, "/r/listings/l1/update", url.Values{"title": {"Oud perfume"}, "status": {""}, "price": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="notice success"`)
	assert.Equal(t, 1, h.backend.count("PUT /api/admin/listings/l1/update/"))
}
