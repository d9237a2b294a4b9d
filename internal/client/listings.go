package client

import (
	"net/http"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Listing is an item offered for sale.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Approved    bool      `json:"approved"`
	Reviewed    bool      `json:"reviewed"`
	Category    string    `json:"category"`
	SellerName  string    `json:"sellerName"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordID implements domain.Record.
func (l Listing) RecordID() string { return l.ID }

// ListingUpdate edits a listing. Nil fields are not sent.
type ListingUpdate struct {
	Title    *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status   *string  `json:"status,omitempty" validate:"omitempty,oneof=active sold removed"`
	Approved *bool    `json:"approved,omitempty"`
	Reviewed *bool    `json:"reviewed,omitempty"`
}

// ReviewPayload marks a listing reviewed with optional notes.
type ReviewPayload struct {
	Notes string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BulkListingPayload applies one action to many listings.
type BulkListingPayload struct {
	ListingIDs []string `json:"listing_ids" validate:"required,min=1,dive,required"`
	Action     string   `json:"action" validate:"required,oneof=approve reject hide"`
}

func normalizeListing(f fields) Listing {
	currency := f.str("currency")
	if currency == "" {
		currency = "SAR"
	}
	return Listing{
		ID:          f.str("_id", "id"),
		Title:       f.str("title", "name"),
		Description: f.str("description"),
		Price:       f.num("price"),
		Currency:    currency,
		Status:      f.str("status", "Status"),
		Approved:    f.flag("approved"),
		Reviewed:    f.flag("reviewed"),
		Category:    f.str("category"),
		SellerName:  f.str("SellerName", "sellerName", "seller.name"),
		Images:      f.strings("images"),
		CreatedAt:   f.time("createdAt", "created_at"),
	}
}

// Listings returns the listings collection.
func (a *API) Listings() *Resource[Listing] {
	return &Resource[Listing]{
		api:        a,
		name:       "listings",
		listPath:   "/api/admin/listings/",
		searchPath: "/api/admin/listings/search/",
		detailPath: "/api/admin/listings/{id}/",
		itemsKey:   "listings",
		detailKeys: []string{"listing"},
		params:     statusParam,
		normalize:  normalizeListing,
		routes: map[domain.ActionKind]route{
			domain.ActionApprove: {method: http.MethodPut, path: "/api/admin/listings/{id}/approve/"},
			domain.ActionReject:  {method: http.MethodPut, path: "/api/admin/listings/{id}/reject/"},
			domain.ActionHide:    {method: http.MethodPut, path: "/api/admin/listings/{id}/hide/"},
			domain.ActionUpdate:  {method: http.MethodPut, path: "/api/admin/listings/{id}/update/", build: jsonBody[ListingUpdate](nil)},
			domain.ActionReview:  {method: http.MethodPut, path: "/api/admin/listings/{id}/mark-reviewed/", build: jsonBody[ReviewPayload](nil)},
			domain.ActionBulk:    {method: http.MethodPost, path: "/api/admin/listings/bulk-action/", build: jsonBody[BulkListingPayload](nil)},
		},
	}
}
