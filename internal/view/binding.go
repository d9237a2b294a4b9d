// Package view projects controller state into renderable tables and maps
// user gestures back to action intents. It holds no business rules beyond
// the per-resource action policy tables.
package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dolabb/dolabbctl/internal/controller"
	"github.com/dolabb/dolabbctl/internal/domain"
)

// Column is one table column.
type Column[T domain.Record] struct {
	Header string
	Cell   func(T) string
	// Badge marks a status cell that terminals may colour.
	Badge bool
}

// Field is one line of a record's detail layout.
type Field[T domain.Record] struct {
	Label string
	Value func(T) string
}

// ActionText is the user-facing wording of one action.
type ActionText struct {
	// Verb is used in failure notices: "Failed to <Verb> <noun>".
	Verb string
	// Success is the notice after the action succeeds.
	Success string
	// Confirm is the question put to the user. Empty means the action runs
	// without confirmation.
	Confirm string
	// Reason asks the confirmer for a free-text reason.
	Reason bool
	// Destructive marks actions that cannot be undone.
	Destructive bool
}

// Binding is the static description of one resource's list view.
type Binding[T domain.Record] struct {
	Resource string
	Title    string
	// Noun is the singular record name used in notices.
	Noun    string
	Columns []Column[T]
	Policy  Policy[T]
	// CollectionActions target the collection rather than one record.
	CollectionActions []domain.ActionKind
	Detail            []Field[T]
	Messages          map[domain.ActionKind]ActionText
	// Filters lists the filter dimensions the list accepts.
	Filters []FilterOption
}

// FilterOption is one selectable filter dimension with its values.
type FilterOption struct {
	Name   string
	Values []string
}

// Text returns the wording for kind, deriving defaults when none is set.
func (b *Binding[T]) Text(kind domain.ActionKind) ActionText {
	t := b.Messages[kind]
	if t.Verb == "" {
		t.Verb = verbOf(kind)
	}
	if t.Success == "" {
		t.Success = fmt.Sprintf("%s %s successfully", capitalize(b.Noun), pastTense(t.Verb))
	}
	return t
}

// Project renders a controller state as a table.
func (b *Binding[T]) Project(s controller.State[T]) Table {
	t := Table{
		Resource: b.Resource,
		Title:    b.Title,
		Columns:  make([]string, len(b.Columns)),
		Status:   string(s.Status),
		Error:    s.LastError,
		Filter:   s.Request.Filter,
		Page: PageInfo{
			Current: s.Request.Page,
			Total:   1,
		},
	}
	for i, c := range b.Columns {
		t.Columns[i] = c.Header
		if c.Badge {
			t.Badges = append(t.Badges, i)
		}
	}
	if s.Result == nil {
		return t
	}

	t.Page = PageInfo{
		Current: s.Result.CurrentPage,
		Total:   s.Result.TotalPages,
		Items:   s.Result.TotalItems,
		HasPrev: s.Result.HasPrev(),
		HasNext: s.Result.HasNext(),
		Local:   s.Result.PageLocal,
	}
	t.Rows = make([]Row, 0, len(s.Result.Items))
	for _, rec := range s.Result.Items {
		row := Row{
			ID:    rec.RecordID(),
			Cells: make([]string, len(b.Columns)),
			Busy:  s.Busy(rec.RecordID()),
		}
		for i, c := range b.Columns {
			row.Cells[i] = c.Cell(rec)
		}
		// A busy row offers nothing until its action resolves.
		if !row.Busy {
			row.Actions = b.Policy.Allowed(rec)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Describe renders rec's detail layout as label/value pairs.
func (b *Binding[T]) Describe(rec T) []DetailLine {
	lines := make([]DetailLine, 0, len(b.Detail))
	for _, f := range b.Detail {
		lines = append(lines, DetailLine{Label: f.Label, Value: f.Value(rec)})
	}
	return lines
}

// Intent checks kind against the policy and builds the action intent.
func (b *Binding[T]) Intent(rec T, kind domain.ActionKind, payload any) (domain.ActionIntent, error) {
	if err := b.Policy.Check(rec, kind); err != nil {
		return domain.ActionIntent{}, err
	}
	return domain.ActionIntent{RecordID: rec.RecordID(), Kind: kind, Payload: payload}, nil
}

// CollectionIntent builds an intent that targets the collection itself,
// such as create or a bulk action.
func (b *Binding[T]) CollectionIntent(kind domain.ActionKind, payload any) (domain.ActionIntent, error) {
	if !slices.Contains(b.CollectionActions, kind) {
		return domain.ActionIntent{}, fmt.Errorf("%w: %s on %s", domain.ErrActionNotAllowed, kind, b.Resource)
	}
	return domain.ActionIntent{Kind: kind, Payload: payload}, nil
}

// Confirmation builds the question to put to the user before kind runs
// on rec. ok is false when the action needs no confirmation.
func (b *Binding[T]) Confirmation(rec T, kind domain.ActionKind) (req ConfirmationRequest, ok bool) {
	t := b.Text(kind)
	if t.Confirm == "" {
		return ConfirmationRequest{}, false
	}
	return ConfirmationRequest{
		Resource:    b.Resource,
		RecordID:    rec.RecordID(),
		Action:      kind,
		Message:     t.Confirm,
		AskReason:   t.Reason,
		Destructive: t.Destructive,
	}, true
}

// Outcome turns the result of an action into a notice.
func (b *Binding[T]) Outcome(kind domain.ActionKind, res *domain.ActionResult, err error) Notice {
	t := b.Text(kind)
	if err == nil {
		msg := t.Success
		if res != nil && res.Message != "" {
			msg = res.Message
		}
		return Notice{Level: LevelSuccess, Message: msg}
	}

	generic := fmt.Sprintf("Failed to %s %s", t.Verb, b.Noun)
	var (
		se *domain.ServerError
		ve *domain.ValidationError
		ce *domain.ConflictError
	)
	switch {
	case errors.As(err, &se) && se.Message != "":
		return Notice{Level: LevelError, Message: se.Message}
	case errors.As(err, &ve):
		return Notice{Level: LevelError, Message: generic + ": " + ve.Error()}
	case errors.As(err, &ce):
		return Notice{Level: LevelWarning, Message: ce.Error()}
	case errors.Is(err, domain.ErrActionNotAllowed):
		return Notice{Level: LevelWarning, Message: fmt.Sprintf("Cannot %s this %s in its current state", t.Verb, b.Noun)}
	case errors.Is(err, domain.ErrNotLoaded), errors.As(err, &se):
		return Notice{Level: LevelError, Message: generic}
	default:
		return Notice{Level: LevelError, Message: generic + ": " + err.Error()}
	}
}

func verbOf(kind domain.ActionKind) string {
	switch kind {
	case domain.ActionApproveCashout, domain.ActionApprovePayout:
		return "approve"
	case domain.ActionRejectCashout, domain.ActionRejectPayout:
		return "reject"
	case domain.ActionUpdateDispute, domain.ActionUpdateHero, domain.ActionUpdateCommission:
		return "update"
	case domain.ActionCloseDispute:
		return "close"
	case domain.ActionReview:
		return "mark reviewed"
	case domain.ActionToggleStatus, domain.ActionToggle:
		return "toggle"
	case domain.ActionUploadEvidence:
		return "upload evidence for"
	case domain.ActionComment:
		return "comment on"
	}
	return string(kind)
}

func pastTense(verb string) string {
	first, rest, _ := strings.Cut(verb, " ")
	switch {
	case first == "send":
		first = "sent"
	case strings.HasSuffix(first, "e"):
		first += "d"
	default:
		first += "ed"
	}
	if rest != "" {
		return first + " " + rest
	}
	return first
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
