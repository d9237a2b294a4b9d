// Package domain holds the resource-agnostic types shared by the client,
// controller and view layers.
package domain

// DefaultPageSize is the page size every list view starts with.
const DefaultPageSize = 20

// Record is anything a list view can key rows and mutations by.
type Record interface {
	RecordID() string
}

// Filter narrows a list request. The zero value lists everything.
// Filter is comparable so a change of identity can be detected with ==.
type Filter struct {
	Status   string `json:"status,omitempty"`
	Type     string `json:"type,omitempty"`
	Audience string `json:"targetAudience,omitempty"`
	Action   string `json:"action,omitempty"`
	From     string `json:"fromDate,omitempty"`
	To       string `json:"toDate,omitempty"`
	Query    string `json:"query,omitempty"`
}

// Normalize maps the UI's "all" sentinel to the empty value.
func (f Filter) Normalize() Filter {
	f.Status = dropAll(f.Status)
	f.Type = dropAll(f.Type)
	f.Audience = dropAll(f.Audience)
	f.Action = dropAll(f.Action)
	return f
}

func dropAll(s string) string {
	if s == "all" {
		return ""
	}
	return s
}

// IsZero reports whether the filter lists everything.
func (f Filter) IsZero() bool {
	return f.Normalize() == Filter{}
}

// PageRequest identifies one page of one filtered list.
type PageRequest struct {
	Filter   Filter `json:"filter"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// NewPageRequest returns the first page under filter f.
func NewPageRequest(f Filter, pageSize int) PageRequest {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return PageRequest{Filter: f.Normalize(), Page: 1, PageSize: pageSize}
}

// Clamp bounds Page to [1, totalPages]. totalPages below 1 is treated as 1.
func (r PageRequest) Clamp(totalPages int) PageRequest {
	if totalPages < 1 {
		totalPages = 1
	}
	if r.Page > totalPages {
		r.Page = totalPages
	}
	if r.Page < 1 {
		r.Page = 1
	}
	return r
}

// Pagination is the server-reported position of a page.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	// PageLocal marks a TotalItems that counts only the current page's
	// matches, after a query the server could not apply.
	PageLocal bool `json:"pageLocal,omitempty"`
}

// PageResult is one decoded page. Values are treated as immutable once
// decoded; only a new list call replaces them.
type PageResult[T Record] struct {
	Items []T `json:"items"`
	Pagination
}

// HasNext reports whether a later page exists.
func (p *PageResult[T]) HasNext() bool {
	return p != nil && p.CurrentPage < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p *PageResult[T]) HasPrev() bool {
	return p != nil && p.CurrentPage > 1
}

// Find returns the item with the given identifier on this page.
func (p *PageResult[T]) Find(id string) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	for _, item := range p.Items {
		if item.RecordID() == id {
			return item, true
		}
	}
	return zero, false
}
