// Package console binds each resource's controller to its view so the CLI
// and the web console can drive any list view by name.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dolabb/dolabbctl/internal/controller"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/view"
)

// Detail is one record's rendered detail layout.
type Detail struct {
	ID      string              `json:"id"`
	Title   string              `json:"title"`
	Lines   []view.DetailLine   `json:"fields"`
	Actions []domain.ActionKind `json:"actions"`
}

// Panel is one mounted list view with its type erased.
type Panel interface {
	Resource() string
	Title() string
	// Noun names one record, e.g. "user".
	Noun() string
	Filters() []view.FilterOption
	// Actions lists every per-record action the view can offer.
	Actions() []domain.ActionKind
	// CollectionActions lists actions that target the whole collection.
	CollectionActions() []domain.ActionKind
	Text(kind domain.ActionKind) view.ActionText

	Load(ctx context.Context, f domain.Filter, page int) error
	Refresh(ctx context.Context) error
	Table() view.Table
	Show(ctx context.Context, id string) (*Detail, error)
	// Confirmation returns the question for kind on id. ok is false when
	// the action runs unconfirmed.
	Confirmation(ctx context.Context, id string, kind domain.ActionKind) (req view.ConfirmationRequest, ok bool, err error)
	Act(ctx context.Context, id string, kind domain.ActionKind, in Input) (view.Notice, error)
	ActOnCollection(ctx context.Context, kind domain.ActionKind, in Input) (view.Notice, error)
	DismissError()
	WritePDF(w io.Writer, generated time.Time) error
}

// PayloadFunc builds the request payload for kind on rec.
type PayloadFunc[T domain.Record] func(rec T, kind domain.ActionKind, in Input) (any, error)

// CollectionPayloadFunc builds the payload for a collection action.
type CollectionPayloadFunc func(kind domain.ActionKind, in Input) (any, error)

type panel[T domain.Record] struct {
	ctrl       *controller.Controller[T]
	binding    *view.Binding[T]
	payload    PayloadFunc[T]
	collection CollectionPayloadFunc
}

// NewPanel wraps ctrl and b. Either payload builder may be nil when the
// resource's actions carry no body.
func NewPanel[T domain.Record](ctrl *controller.Controller[T], b *view.Binding[T], payload PayloadFunc[T], collection CollectionPayloadFunc) Panel {
	return &panel[T]{ctrl: ctrl, binding: b, payload: payload, collection: collection}
}

func (p *panel[T]) Resource() string                       { return p.binding.Resource }
func (p *panel[T]) Title() string                          { return p.binding.Title }
func (p *panel[T]) Noun() string                           { return p.binding.Noun }
func (p *panel[T]) Filters() []view.FilterOption           { return p.binding.Filters }
func (p *panel[T]) Actions() []domain.ActionKind           { return p.binding.Policy.Kinds() }
func (p *panel[T]) CollectionActions() []domain.ActionKind { return p.binding.CollectionActions }
func (p *panel[T]) DismissError()                          { p.ctrl.DismissError() }

func (p *panel[T]) Text(kind domain.ActionKind) view.ActionText {
	return p.binding.Text(kind)
}

func (p *panel[T]) Load(ctx context.Context, f domain.Filter, page int) error {
	return p.ctrl.MountAt(ctx, f, page)
}

// Refresh reloads the current page, mounting first when nothing is loaded.
func (p *panel[T]) Refresh(ctx context.Context) error {
	if p.ctrl.State().Status == controller.StatusIdle {
		return p.ctrl.Mount(ctx)
	}
	return p.ctrl.Refresh(ctx)
}

func (p *panel[T]) Table() view.Table {
	return p.binding.Project(p.ctrl.State())
}

func (p *panel[T]) Show(ctx context.Context, id string) (*Detail, error) {
	rec, err := p.ctrl.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{
		ID:    rec.RecordID(),
		Title: fmt.Sprintf("%s %s", p.binding.Title, rec.RecordID()),
		Lines: p.binding.Describe(rec),
	}
	if !p.ctrl.State().Busy(rec.RecordID()) {
		d.Actions = p.binding.Policy.Allowed(rec)
	}
	return d, nil
}

func (p *panel[T]) Confirmation(ctx context.Context, id string, kind domain.ActionKind) (view.ConfirmationRequest, bool, error) {
	rec, err := p.ctrl.Detail(ctx, id)
	if err != nil {
		return view.ConfirmationRequest{}, false, err
	}
	if err := p.binding.Policy.Check(rec, kind); err != nil {
		return view.ConfirmationRequest{}, false, err
	}
	req, ok := p.binding.Confirmation(rec, kind)
	return req, ok, nil
}

// Act checks kind against rec's current state, builds the payload and
// runs it through the controller. The notice is always usable, even when
// err is non-nil.
func (p *panel[T]) Act(ctx context.Context, id string, kind domain.ActionKind, in Input) (view.Notice, error) {
	rec, err := p.ctrl.Detail(ctx, id)
	if err != nil {
		return p.binding.Outcome(kind, nil, err), err
	}
	var payload any
	if p.payload != nil {
		if payload, err = p.payload(rec, kind, in); err != nil {
			return p.binding.Outcome(kind, nil, err), err
		}
	}
	intent, err := p.binding.Intent(rec, kind, payload)
	if err != nil {
		return p.binding.Outcome(kind, nil, err), err
	}
	return p.run(ctx, kind, intent)
}

func (p *panel[T]) ActOnCollection(ctx context.Context, kind domain.ActionKind, in Input) (view.Notice, error) {
	var (
		payload any
		err     error
	)
	if p.collection != nil {
		if payload, err = p.collection(kind, in); err != nil {
			return p.binding.Outcome(kind, nil, err), err
		}
	}
	intent, err := p.binding.CollectionIntent(kind, payload)
	if err != nil {
		return p.binding.Outcome(kind, nil, err), err
	}
	if p.ctrl.State().Status == controller.StatusIdle {
		if err := p.ctrl.Mount(ctx); err != nil && !errors.Is(err, domain.ErrSuperseded) {
			return p.binding.Outcome(kind, nil, err), err
		}
	}
	return p.run(ctx, kind, intent)
}

func (p *panel[T]) run(ctx context.Context, kind domain.ActionKind, intent domain.ActionIntent) (view.Notice, error) {
	res, err := p.ctrl.Act(ctx, intent)
	return p.binding.Outcome(kind, res, err), err
}

func (p *panel[T]) WritePDF(w io.Writer, generated time.Time) error {
	return view.WritePDF(w, p.Table(), generated)
}
