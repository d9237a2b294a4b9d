package client

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/transport"
)

// call is one request the fake backend received.
type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
	Raw    string
	Form   map[string]string
	Files  map[string]string
}

type reply struct {
	status int
	body   string
}

// fakeBackend serves canned bodies keyed by "METHOD /path" and records
// every call.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]reply
}

func newFakeBackend(t *testing.T) (*API, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{replies: make(map[string]reply)}
	server := httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(server.Close)

	tc, err := transport.New(server.URL)
	require.NoError(t, err)
	return New(tc), fb
}

func (fb *fakeBackend) on(method, path, body string) {
	fb.onStatus(method, path, http.StatusOK, body)
}

func (fb *fakeBackend) onStatus(method, path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.replies[method+" "+path] = reply{status: status, body: body}
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	c := call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		raw, _ := io.ReadAll(r.Body)
		c.Raw = string(raw)
		_ = json.Unmarshal(raw, &c.Body)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			c.Form = make(map[string]string)
			for k, v := range r.MultipartForm.Value {
				c.Form[k] = v[0]
			}
			c.Files = make(map[string]string)
			for k, fh := range r.MultipartForm.File {
				f, _ := fh[0].Open()
				content, _ := io.ReadAll(f)
				f.Close()
				c.Files[k] = fh[0].Filename + ":" + string(content)
			}
		}
	}

	fb.mu.Lock()
	fb.calls = append(fb.calls, c)
	rep, ok := fb.replies[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no route for ` + strings.TrimSpace(r.Method+" "+r.URL.Path) + `"}`))
		return
	}
	w.WriteHeader(rep.status)
	w.Write([]byte(rep.body))
}

func (fb *fakeBackend) Calls() []call {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]call(nil), fb.calls...)
}

func (fb *fakeBackend) last(t *testing.T) call {
	t.Helper()
	calls := fb.Calls()
	require.NotEmpty(t, calls, "no request reached the backend")
	return calls[len(calls)-1]
}
