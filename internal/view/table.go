package view

import (
	"slices"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Table is the renderable projection of one list view.
type Table struct {
	Resource string   `json:"resource"`
	Title    string   `json:"title"`
	Columns  []string `json:"columns"`
	// Badges holds the indexes of status columns.
	Badges []int         `json:"-"`
	Rows   []Row         `json:"rows"`
	Page   PageInfo      `json:"page"`
	Filter domain.Filter `json:"filter"`
	Status string        `json:"status"`
	// Error is the dismissible banner text. Empty means no banner.
	Error string `json:"error,omitempty"`
}

// Row is one record's cells and affordances.
type Row struct {
	ID      string              `json:"id"`
	Cells   []string            `json:"cells"`
	Actions []domain.ActionKind `json:"actions"`
	// Busy marks a record with an action outstanding.
	Busy bool `json:"busy,omitempty"`
}

// PageInfo is the pager state.
type PageInfo struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	Items   int  `json:"items"`
	HasPrev bool `json:"hasPrev"`
	HasNext bool `json:"hasNext"`
	// Local means Items counts matches on this page only.
	Local bool `json:"local,omitempty"`
}

// DetailLine is one label/value pair of a detail layout.
type DetailLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// IsBadge reports whether column i holds a status badge.
func (t Table) IsBadge(i int) bool { return slices.Contains(t.Badges, i) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }
