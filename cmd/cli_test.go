package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/session"
)

// request is one call the fake backend received.
type request struct {
	Route string
	Auth  string
	Query string
	Body  string
}

// fakeBackend answers "METHOD /path" routes with fixed JSON bodies.
type fakeBackend struct {
	mu       sync.Mutex
	routes   map[string]string
	received []request
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.received = append(b.received, request{Route: route, Auth: r.Header.Get("Authorization"), Query: r.URL.RawQuery, Body: string(body)})
	resp, ok := b.routes[route]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"not found"}`)
		return
	}
	io.WriteString(w, resp)
}

func (b *fakeBackend) requests(route string) []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []request
	for _, r := range b.received {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// cli runs the root command against a fake backend with an isolated
// config directory and session file.
type cli struct {
	backend     *fakeBackend
	sessionFile string
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
}

func newCLI(t *testing.T, routes map[string]string) *cli {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	if fb.routes == nil {
		fb.routes = make(map[string]string)
	}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	t.Setenv("DOLABBCTL_API_BASE_URL", srv.URL)
	t.Setenv("DOLABBCTL_API_RATE_LIMIT", "0")
	sessionFile := filepath.Join(dir, "session.json")
	t.Setenv("DOLABBCTL_SESSION_FILE", sessionFile)

	return &cli{backend: fb, sessionFile: sessionFile, stdout: new(bytes.Buffer), stderr: new(bytes.Buffer)}
}

// run executes args with stdin and returns the command's error.
func (c *cli) run(t *testing.T, stdin string, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	c.stdout.Reset()
	c.stderr.Reset()
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(c.stdout)
	rootCmd.SetErr(c.stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	return rootCmd.Execute()
}

// signIn stores a credential the way a successful login would.
func (c *cli) signIn(t *testing.T) {
	t.Helper()
	store := session.NewFileStore(c.sessionFile, nil)
	require.NoError(t, store.Save(&session.Credential{
		Token: "tok-123",
		Admin: client.Admin{ID: "a1", Name: "Noura", Email: "admin@dolabb.com", Role: "admin"},
	}))
}

func decodeJSON(t *testing.T, data []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), "output: %s", data)
}

// resetFlags returns every flag in the tree to its default so state does
// not leak between Execute calls on the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
