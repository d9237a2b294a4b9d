package view

import (
	"fmt"
	"slices"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Axis maps one record-derived key to the actions that key permits.
type Axis[T domain.Record] struct {
	Name  string
	Key   func(T) string
	Allow map[string][]domain.ActionKind
}

// Policy is the static table of which actions a record's current state
// permits. Allowed is the union over all axes plus Always.
type Policy[T domain.Record] struct {
	Axes   []Axis[T]
	Always []domain.ActionKind
}

// Allowed returns the permitted actions for rec, sorted.
func (p Policy[T]) Allowed(rec T) []domain.ActionKind {
	out := slices.Clone(p.Always)
	for _, ax := range p.Axes {
		out = append(out, ax.Allow[ax.Key(rec)]...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Permits reports whether kind is allowed for rec.
func (p Policy[T]) Permits(rec T, kind domain.ActionKind) bool {
	return slices.Contains(p.Allowed(rec), kind)
}

// Check returns ErrActionNotAllowed when kind is not allowed for rec.
func (p Policy[T]) Check(rec T, kind domain.ActionKind) error {
	if p.Permits(rec, kind) {
		return nil
	}
	return fmt.Errorf("%w: %s on %s", domain.ErrActionNotAllowed, kind, rec.RecordID())
}

// Kinds returns every action the policy can ever permit, sorted.
func (p Policy[T]) Kinds() []domain.ActionKind {
	out := slices.Clone(p.Always)
	for _, ax := range p.Axes {
		for _, allowed := range ax.Allow {
			out = append(out, allowed...)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func kinds(k ...domain.ActionKind) []domain.ActionKind { return k }
