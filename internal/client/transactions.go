package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Transaction is a purchase or offer settlement.
type Transaction struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ItemTitle     string    `json:"itemTitle"`
	BuyerName     string    `json:"buyerName"`
	SellerName    string    `json:"sellerName"`
	OfferAmount   float64   `json:"offerAmount"`
	OriginalPrice float64   `json:"originalPrice"`
	DolabbFee     float64   `json:"dolabbFee"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
}

// RecordID implements domain.Record.
func (t Transaction) RecordID() string { return t.ID }

// RefundPayload refunds a transaction. Amount defaults to the full amount
// server-side when nil.
type RefundPayload struct {
	Amount   *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason   string   `json:"reason,omitempty" validate:"omitempty,max=500"`
	RefundTo string   `json:"refund_to" validate:"required,oneof=buyer seller"`
}

func normalizeTransaction(f fields) Transaction {
	return Transaction{
		ID:            f.str("_id", "id"),
		Type:          f.str("type", "transactionType"),
		ItemTitle:     f.str("itemTitle", "item_title", "productTitle"),
		BuyerName:     f.str("buyerName", "BuyerName", "buyer.name"),
		SellerName:    f.str("SellerName", "sellerName", "seller.name"),
		OfferAmount:   f.num("offerAmount", "amount"),
		OriginalPrice: f.num("originalPrice", "price"),
		DolabbFee:     f.num("dolabbFee", "fee"),
		Status:        f.str("status", "Status"),
		Date:          f.time("date", "createdAt", "created_at"),
	}
}

// Transactions returns the transactions collection. Filter.Type selects
// purchase or offer transactions.
func (a *API) Transactions() *Resource[Transaction] {
	return &Resource[Transaction]{
		api:        a,
		name:       "transactions",
		listPath:   "/api/admin/transactions/",
		searchPath: "/api/admin/transactions/search/",
		detailPath: "/api/admin/transactions/{id}/",
		itemsKey:   "transactions",
		detailKeys: []string{"transaction"},
		params: func(f domain.Filter, q url.Values) {
			if f.Type != "" {
				q.Set("type", f.Type)
			}
		},
		normalize: normalizeTransaction,
		routes: map[domain.ActionKind]route{
			domain.ActionRefund: {
				method: http.MethodPost,
				path:   "/api/admin/transactions/{id}/refund/",
				build: jsonBody(func(p *RefundPayload) {
					if p.RefundTo == "" {
						p.RefundTo = "buyer"
					}
				}),
			},
		},
	}
}
