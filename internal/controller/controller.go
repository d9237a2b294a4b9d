// Package controller implements the list-resource controller: it owns the
// pagination cursor, filter and load state of one mounted list view and
// sequences fetches and mutations against a remote collection.
package controller

//go:generate mockgen -source=controller.go -destination=mocks/mock_collection.go -package=mocks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/logging"
	"github.com/dolabb/dolabbctl/internal/metrics"
)

// DefaultListTimeout bounds a single list call.
const DefaultListTimeout = 15 * time.Second

// Collection is the remote side of one resource type.
type Collection[T domain.Record] interface {
	List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[T], error)
	Get(ctx context.Context, id string) (T, error)
	Mutate(ctx context.Context, intent domain.ActionIntent) (*domain.ActionResult, error)
}

// LoadStatus is the controller's position in its load state machine.
type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusLoaded  LoadStatus = "loaded"
	StatusFailed  LoadStatus = "failed"
)

// State is a snapshot of the controller. Views read it; only the
// controller writes it.
type State[T domain.Record] struct {
	Request domain.PageRequest
	// Result is the last applied page. It survives a failed reload so the
	// view can keep showing it under the error.
	Result *domain.PageResult[T]
	Status LoadStatus
	// InFlight lists the record ids with a mutation outstanding, sorted.
	InFlight  []string
	LastError string
}

// Busy reports whether id has a mutation outstanding.
func (s State[T]) Busy(id string) bool {
	_, found := slices.BinarySearch(s.InFlight, id)
	return found
}

type options struct {
	resource      string
	pageSize      int
	listTimeout   time.Duration
	defaultFilter domain.Filter
	logger        *slog.Logger
	metrics       *metrics.Recorder
}

// Option configures a Controller.
type Option func(*options)

// WithPageSize sets the page size. Non-positive values keep the default.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithListTimeout bounds each list call. Non-positive values keep the
// default.
func WithListTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.listTimeout = d
		}
	}
}

// WithDefaultFilter sets the filter Mount starts with.
func WithDefaultFilter(f domain.Filter) Option {
	return func(o *options) { o.defaultFilter = f.Normalize() }
}

// WithResource names the resource in logs and metrics. Collections with a
// Name method are named automatically.
func WithResource(name string) Option {
	return func(o *options) { o.resource = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// Controller owns the State of one list view. All methods are safe for
// concurrent use; each blocks until its own round trip completes.
type Controller[T domain.Record] struct {
	coll Collection[T]
	opts options

	mu        sync.Mutex
	request   domain.PageRequest
	result    *domain.PageResult[T]
	status    LoadStatus
	lastError string
	inFlight  map[string]domain.ActionKind
	// generation identifies the most recently issued list call; only its
	// response is applied.
	generation uint64
	subs       map[int]chan State[T]
	nextSub    int
}

// New creates an idle Controller over coll.
func New[T domain.Record](coll Collection[T], opts ...Option) *Controller[T] {
	o := options{
		pageSize:    domain.DefaultPageSize,
		listTimeout: DefaultListTimeout,
		logger:      logging.Discard(),
	}
	if named, ok := coll.(interface{ Name() string }); ok {
		o.resource = named.Name()
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		coll:     coll,
		opts:     o,
		request:  domain.NewPageRequest(o.defaultFilter, o.pageSize),
		status:   StatusIdle,
		inFlight: make(map[string]domain.ActionKind),
		subs:     make(map[int]chan State[T]),
	}
}

// Resource returns the resource name used in logs and metrics.
func (c *Controller[T]) Resource() string { return c.opts.resource }

// Mount fetches page 1 under the default filter.
func (c *Controller[T]) Mount(ctx context.Context) error {
	return c.load(ctx, func(domain.PageRequest) domain.PageRequest {
		return domain.NewPageRequest(c.opts.defaultFilter, c.opts.pageSize)
	})
}

// MountAt fetches the given page under f. It is Mount for views that are
// restored from a URL or command line.
func (c *Controller[T]) MountAt(ctx context.Context, f domain.Filter, page int) error {
	return c.load(ctx, func(domain.PageRequest) domain.PageRequest {
		req := domain.NewPageRequest(f, c.opts.pageSize)
		req.Page = max(page, 1)
		return req
	})
}

// SetFilter applies f and always returns to page 1.
func (c *Controller[T]) SetFilter(ctx context.Context, f domain.Filter) error {
	return c.load(ctx, func(cur domain.PageRequest) domain.PageRequest {
		cur.Filter = f.Normalize()
		cur.Page = 1
		return cur
	})
}

// SetPage moves to page n, clamped to the last known page count.
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	return c.load(ctx, func(cur domain.PageRequest) domain.PageRequest {
		cur.Page = n
		if c.result != nil {
			return cur.Clamp(c.result.TotalPages)
		}
		cur.Page = max(cur.Page, 1)
		return cur
	})
}

// NextPage moves one page forward.
func (c *Controller[T]) NextPage(ctx context.Context) error {
	return c.SetPage(ctx, c.State().Request.Page+1)
}

// PrevPage moves one page back.
func (c *Controller[T]) PrevPage(ctx context.Context) error {
	return c.SetPage(ctx, c.State().Request.Page-1)
}

// Refresh re-issues the current request.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.load(ctx, func(cur domain.PageRequest) domain.PageRequest { return cur })
}

// refreshInPlace re-issues the current request without leaving Loaded, so
// actions on other records stay accepted while it runs.
func (c *Controller[T]) refreshInPlace(ctx context.Context) error {
	return c.fetch(ctx, func(cur domain.PageRequest) domain.PageRequest { return cur }, true)
}

type listOutcome[T domain.Record] struct {
	page *domain.PageResult[T]
	err  error
}

// load issues one list call for the request next derives from the current
// one. A call superseded by a later one returns ErrSuperseded and leaves
// the state alone.
func (c *Controller[T]) load(ctx context.Context, next func(domain.PageRequest) domain.PageRequest) error {
	return c.fetch(ctx, next, false)
}

func (c *Controller[T]) fetch(ctx context.Context, next func(domain.PageRequest) domain.PageRequest, keepLoaded bool) error {
	c.mu.Lock()
	req := next(c.request)
	c.generation++
	gen := c.generation
	c.request = req
	if !keepLoaded || c.status != StatusLoaded {
		c.status = StatusLoading
	}
	c.publishLocked()
	c.mu.Unlock()

	page, err := c.list(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.opts.metrics.RecordStaleDiscard(c.opts.resource)
		c.opts.logger.DebugContext(ctx, "discarding superseded list response",
			"resource", c.opts.resource, "page", req.Page, "generation", gen, "current", c.generation)
		return domain.ErrSuperseded
	}
	if err != nil {
		c.status = StatusFailed
		c.lastError = failureMessage(err, "Failed to load "+c.noun())
		c.publishLocked()
		return err
	}

	c.request = req.Clamp(page.TotalPages)
	c.result = page
	c.status = StatusLoaded
	c.lastError = ""
	c.publishLocked()
	return nil
}

// list runs one List call under the list timeout. The call keeps running in
// the background if it ignores its context; its result is then dropped.
func (c *Controller[T]) list(ctx context.Context, req domain.PageRequest) (*domain.PageResult[T], error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.listTimeout)
	defer cancel()

	done := make(chan listOutcome[T], 1)
	go func() {
		page, err := c.coll.List(ctx, req)
		done <- listOutcome[T]{page: page, err: err}
	}()

	select {
	case out := <-done:
		if out.err == nil && out.page == nil {
			return nil, &domain.DecodeError{Err: errors.New("empty page")}
		}
		if out.err != nil && ctx.Err() != nil && isBare(out.err) {
			return nil, &domain.TransportError{Op: "list " + c.opts.resource, Err: ctx.Err()}
		}
		return out.page, out.err
	case <-ctx.Done():
		return nil, &domain.TransportError{Op: "list " + c.opts.resource, Err: ctx.Err()}
	}
}

// Act performs one mutation. It requires a loaded list, rejects a second
// intent for a record that already has one outstanding, and on success
// re-fetches the request current at that moment before releasing the
// record.
func (c *Controller[T]) Act(ctx context.Context, intent domain.ActionIntent) (*domain.ActionResult, error) {
	c.mu.Lock()
	if c.status != StatusLoaded {
		c.mu.Unlock()
		return nil, domain.ErrNotLoaded
	}
	if _, busy := c.inFlight[intent.RecordID]; busy {
		c.mu.Unlock()
		c.opts.metrics.RecordConflict(c.opts.resource)
		c.opts.logger.DebugContext(ctx, "rejecting concurrent action",
			"resource", c.opts.resource, "record", intent.RecordID, "action", intent.Kind)
		return nil, &domain.ConflictError{RecordID: intent.RecordID, Action: intent.Kind}
	}
	c.inFlight[intent.RecordID] = intent.Kind
	c.publishLocked()
	c.mu.Unlock()

	fallback := fmt.Sprintf("Failed to %s %s", intent.Kind, c.noun())
	res, err := c.coll.Mutate(ctx, intent)
	if err == nil && res == nil {
		err = &domain.DecodeError{Err: errors.New("empty action result")}
	}
	if err == nil && !res.Success {
		err = &domain.ServerError{Status: http.StatusOK, Message: cmp.Or(res.Error, res.Message, fallback)}
	}
	if err != nil {
		c.opts.metrics.RecordAction(c.opts.resource, string(intent.Kind), "failed")
		c.mu.Lock()
		delete(c.inFlight, intent.RecordID)
		c.lastError = failureMessage(err, fallback)
		c.publishLocked()
		c.mu.Unlock()
		return res, err
	}
	c.opts.metrics.RecordAction(c.opts.resource, string(intent.Kind), "ok")

	// The refresh's own failure lands in the state; the mutation itself
	// succeeded.
	if rerr := c.refreshInPlace(ctx); rerr != nil && !errors.Is(rerr, domain.ErrSuperseded) {
		c.opts.logger.WarnContext(ctx, "refresh after action failed",
			"resource", c.opts.resource, "action", intent.Kind, "error", rerr)
	}

	c.mu.Lock()
	delete(c.inFlight, intent.RecordID)
	c.publishLocked()
	c.mu.Unlock()
	return res, nil
}

// Detail returns one record, from the loaded page when it is there.
func (c *Controller[T]) Detail(ctx context.Context, id string) (T, error) {
	c.mu.Lock()
	item, ok := c.result.Find(id)
	c.mu.Unlock()
	if ok {
		return item, nil
	}

	item, err := c.coll.Get(ctx, id)
	if errors.Is(err, errors.ErrUnsupported) {
		return item, fmt.Errorf("%s %q: %w", c.noun(), id, domain.ErrNotFound)
	}
	return item, err
}

// State returns a snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// DismissError clears the visible error without changing anything else.
func (c *Controller[T]) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastError == "" {
		return
	}
	c.lastError = ""
	c.publishLocked()
}

// Subscribe delivers a snapshot after every state change. Slow readers
// only see the latest snapshot. cancel closes the channel.
func (c *Controller[T]) Subscribe() (<-chan State[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan State[T], 1)
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

func (c *Controller[T]) snapshotLocked() State[T] {
	inFlight := make([]string, 0, len(c.inFlight))
	for id := range c.inFlight {
		inFlight = append(inFlight, id)
	}
	slices.Sort(inFlight)
	return State[T]{
		Request:   c.request,
		Result:    c.result,
		Status:    c.status,
		InFlight:  inFlight,
		LastError: c.lastError,
	}
}

func (c *Controller[T]) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	s := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (c *Controller[T]) noun() string {
	if c.opts.resource == "" {
		return "records"
	}
	return c.opts.resource
}

// failureMessage prefers the server's reason over the generic text.
func failureMessage(err error, fallback string) string {
	var (
		se *domain.ServerError
		te *domain.TransportError
	)
	switch {
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case errors.As(err, &te) && errors.Is(err, context.DeadlineExceeded):
		return fallback + ": request timed out"
	case errors.As(err, &te):
		return fallback + ": " + te.Err.Error()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return fallback
}

// isBare reports whether err is not yet one of the classified error types.
func isBare(err error) bool {
	var (
		te *domain.TransportError
		se *domain.ServerError
		de *domain.DecodeError
	)
	return !errors.As(err, &te) && !errors.As(err, &se) && !errors.As(err, &de)
}
