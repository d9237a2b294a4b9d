// Package client implements the typed Remote Collection Clients for every
// Dolabb admin resource on top of the shared transport.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/transport"
)

// Doer performs one backend call. *transport.Client implements it.
type Doer interface {
	Do(ctx context.Context, req transport.Request, out any) error
}

// API is the entry point to every resource client.
type API struct {
	doer Doer
}

// New creates an API over d.
func New(d Doer) *API {
	return &API{doer: d}
}

func (a *API) get(ctx context.Context, resource, path string, q url.Values) (fields, error) {
	var out fields
	if err := a.doer.Do(ctx, transport.Request{Resource: resource, Method: http.MethodGet, Path: path, Query: q}, &out); err != nil {
		return nil, err
	}
	if err := checkSuccess(out, "failed to load "+resource); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) send(ctx context.Context, resource, method, path string, body any) (fields, error) {
	var out fields
	if err := a.doer.Do(ctx, transport.Request{Resource: resource, Method: method, Path: path, Body: body}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// buildFunc turns an intent's payload into a request body. It validates
// before anything is sent.
type buildFunc func(domain.ActionIntent) (any, *transport.Multipart, error)

// route maps one action kind to one endpoint. "{id}" in path is replaced by
// the escaped record id.
type route struct {
	method string
	path   string
	build  buildFunc
}

// Resource is the Remote Collection Client for one resource type.
type Resource[T domain.Record] struct {
	api        *API
	name       string
	listPath   string
	searchPath string
	detailPath string
	itemsKey   string
	// singleKey marks a one-record resource whose list body carries an
	// object under this key instead of an array.
	singleKey  string
	detailKeys []string
	params     func(domain.Filter, url.Values)
	normalize  func(fields) T
	// match filters a fetched page locally when Filter.Query is set and
	// the backend has no search endpoint.
	match  func(T, string) bool
	routes map[domain.ActionKind]route
}

// Name returns the resource label used in logs, metrics and URLs.
func (r *Resource[T]) Name() string { return r.name }

// Actions lists the action kinds this resource accepts, sorted.
func (r *Resource[T]) Actions() []domain.ActionKind {
	kinds := make([]domain.ActionKind, 0, len(r.routes))
	for k := range r.routes {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// List fetches one page. A set Filter.Query switches to the search endpoint
// when the resource has one and otherwise narrows the page locally.
func (r *Resource[T]) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[T], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = domain.DefaultPageSize
	}
	f := req.Filter.Normalize()

	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("limit", strconv.Itoa(req.PageSize))
	path := r.listPath
	if f.Query != "" && r.searchPath != "" {
		path = r.searchPath
		q.Set("q", f.Query)
	}
	if r.params != nil {
		r.params(f, q)
	}

	body, err := r.api.get(ctx, r.name, path, q)
	if err != nil {
		return nil, err
	}
	if r.singleKey != "" {
		return decodeSingle(body, r.singleKey, r.normalize)
	}
	page, err := decodePage(body, r.itemsKey, req, r.normalize)
	if err != nil {
		return nil, err
	}
	if f.Query != "" && r.searchPath == "" && r.match != nil {
		query := strings.ToLower(f.Query)
		page.Items = slices.DeleteFunc(page.Items, func(item T) bool {
			return !r.match(item, query)
		})
		page.TotalItems = len(page.Items)
		page.PageLocal = true
	}
	return page, nil
}

// Get fetches one record by id.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if r.detailPath == "" {
		return zero, fmt.Errorf("%s detail: %w", r.name, errors.ErrUnsupported)
	}
	body, err := r.api.get(ctx, r.name, expand(r.detailPath, id), nil)
	if err != nil {
		return zero, err
	}
	for _, k := range r.detailKeys {
		if obj, ok := body[k].(map[string]any); ok {
			return r.normalize(fields(obj)), nil
		}
	}
	return r.normalize(body), nil
}

// Mutate performs one action. Unknown kinds and invalid payloads fail
// before any network call.
func (r *Resource[T]) Mutate(ctx context.Context, intent domain.ActionIntent) (*domain.ActionResult, error) {
	rt, ok := r.routes[intent.Kind]
	if !ok {
		return nil, fmt.Errorf("%w %q for %s", domain.ErrUnknownAction, intent.Kind, r.name)
	}
	if strings.Contains(rt.path, "{id}") && intent.RecordID == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}

	var (
		body any
		form *transport.Multipart
		err  error
	)
	if rt.build != nil {
		if body, form, err = rt.build(intent); err != nil {
			return nil, err
		}
	}

	var out fields
	err = r.api.doer.Do(ctx, transport.Request{
		Resource: r.name,
		Method:   rt.method,
		Path:     expand(rt.path, intent.RecordID),
		Body:     body,
		Form:     form,
	}, &out)
	if err != nil {
		return nil, err
	}
	return actionResult(out), nil
}

func expand(path, id string) string {
	return strings.ReplaceAll(path, "{id}", url.PathEscape(id))
}

// checkSuccess turns a 2xx body reporting success=false into a ServerError.
func checkSuccess(body fields, fallback string) error {
	v, present := body["success"]
	if !present {
		return nil
	}
	ok, isBool := v.(bool)
	if !isBool {
		return &domain.DecodeError{Err: fmt.Errorf("success is %T, want bool", v)}
	}
	if ok {
		return nil
	}
	msg := body.str("error", "message")
	if msg == "" {
		msg = fallback
	}
	return &domain.ServerError{Status: http.StatusOK, Message: msg}
}

func decodePage[T domain.Record](body fields, key string, req domain.PageRequest, normalize func(fields) T) (*domain.PageResult[T], error) {
	if v, ok := body[key]; ok && v != nil {
		if _, isList := v.([]any); !isList {
			return nil, &domain.DecodeError{Err: fmt.Errorf("%s is %T, want array", key, v)}
		}
	}

	objs := body.list(key)
	result := &domain.PageResult[T]{Items: make([]T, 0, len(objs))}
	for _, obj := range objs {
		result.Items = append(result.Items, normalize(obj))
	}

	if p, ok := body["pagination"].(map[string]any); ok {
		pg := fields(p)
		result.CurrentPage = pg.integer("currentPage", "current_page", "page")
		result.TotalPages = pg.integer("totalPages", "total_pages", "pages")
		result.TotalItems = pg.integer("totalItems", "total_items", "total")
	} else {
		result.CurrentPage = req.Page
		result.TotalPages = 1
		result.TotalItems = len(result.Items)
	}
	if result.CurrentPage < 1 {
		result.CurrentPage = req.Page
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return result, nil
}

func decodeSingle[T domain.Record](body fields, key string, normalize func(fields) T) (*domain.PageResult[T], error) {
	result := &domain.PageResult[T]{Pagination: domain.Pagination{CurrentPage: 1, TotalPages: 1}}
	switch v := body[key].(type) {
	case nil:
	case map[string]any:
		result.Items = []T{normalize(fields(v))}
		result.TotalItems = 1
	default:
		return nil, &domain.DecodeError{Err: fmt.Errorf("%s is %T, want object", key, v)}
	}
	return result, nil
}

func actionResult(body fields) *domain.ActionResult {
	res := &domain.ActionResult{
		Success: true,
		Error:   body.str("error"),
		Message: body.str("message"),
	}
	if v, ok := body["success"].(bool); ok {
		res.Success = v
	}
	return res
}

// payloadOf extracts an intent payload of type P. A nil payload yields the
// zero value so optional-only payloads may be omitted.
func payloadOf[P any](intent domain.ActionIntent) (P, error) {
	var zero P
	switch p := intent.Payload.(type) {
	case nil:
		return zero, nil
	case P:
		return p, nil
	case *P:
		if p == nil {
			return zero, nil
		}
		return *p, nil
	}
	return zero, &domain.ValidationError{
		Field:   "payload",
		Message: fmt.Sprintf("unexpected %T for %s", intent.Payload, intent.Kind),
	}
}

// jsonBody validates a P payload and sends it as JSON. prepare may fill
// defaults or derived fields before validation.
func jsonBody[P any](prepare func(*P)) buildFunc {
	return func(intent domain.ActionIntent) (any, *transport.Multipart, error) {
		p, err := payloadOf[P](intent)
		if err != nil {
			return nil, nil, err
		}
		if prepare != nil {
			prepare(&p)
		}
		if err := Validate(p); err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	}
}

// formBody validates a P payload and sends it as multipart form data.
func formBody[P any](encode func(P) (*transport.Multipart, error)) buildFunc {
	return func(intent domain.ActionIntent) (any, *transport.Multipart, error) {
		p, err := payloadOf[P](intent)
		if err != nil {
			return nil, nil, err
		}
		if err := Validate(p); err != nil {
			return nil, nil, err
		}
		form, err := encode(p)
		if err != nil {
			return nil, nil, err
		}
		return nil, form, nil
	}
}
