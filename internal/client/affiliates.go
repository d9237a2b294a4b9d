package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Earnings splits an affiliate's commission by payout state.
type Earnings struct {
	Total   float64 `json:"total"`
	Pending float64 `json:"pending"`
	Paid    float64 `json:"paid"`
}

// Affiliate is a referral partner.
type Affiliate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Code           string    `json:"code"`
	Status         string    `json:"status"`
	CommissionRate float64   `json:"commissionRate"`
	Referrals      int       `json:"referrals"`
	Earnings       Earnings  `json:"earnings"`
	LastActivity   time.Time `json:"lastActivity"`
}

// RecordID implements domain.Record.
func (a Affiliate) RecordID() string { return a.ID }

// NextStatus is the status a toggle moves the affiliate to.
func (a Affiliate) NextStatus() string {
	if a.Status == "active" {
		return "deactivated"
	}
	return "active"
}

// AffiliateTransaction is one commission-bearing sale made through an
// affiliate code.
type AffiliateTransaction struct {
	ID         string    `json:"id"`
	ItemTitle  string    `json:"itemTitle"`
	Amount     float64   `json:"amount"`
	Commission float64   `json:"commission"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

// RecordID implements domain.Record.
func (t AffiliateTransaction) RecordID() string { return t.ID }

// ToggleStatusPayload sets an affiliate's status.
type ToggleStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=active deactivated"`
}

// CommissionPayload sets an affiliate's commission percentage.
type CommissionPayload struct {
	CommissionRate float64 `json:"commissionRate" validate:"gte=0,lte=100"`
}

func normalizeAffiliate(f fields) Affiliate {
	return Affiliate{
		ID:             f.str("id", "_id"),
		Name:           f.str("Affiliatename", "name", "affiliateName"),
		Email:          f.str("Affiliateemail", "email"),
		Code:           f.str("affiliateCode", "referralCode", "code"),
		Status:         f.str("Affiliatestatus", "status"),
		CommissionRate: f.num("commissionRate", "commission"),
		Referrals:      f.integer("stats.totalReferrals", "totalReferrals", "referrals"),
		Earnings: Earnings{
			Total:   f.num("Earnings.Total", "stats.totalEarnings", "totalEarnings", "earnings"),
			Pending: f.num("Earnings.Pending", "pendingEarnings", "pending"),
			Paid:    f.num("Earnings.Paid", "paidEarnings", "paid"),
		},
		LastActivity: f.time("Last Activity", "lastActivity"),
	}
}

func normalizeAffiliateTransaction(f fields) AffiliateTransaction {
	return AffiliateTransaction{
		ID:         f.str("_id", "id"),
		ItemTitle:  f.str("itemTitle", "item.title", "productTitle"),
		Amount:     f.num("amount", "saleAmount", "offerAmount"),
		Commission: f.num("commission", "commissionAmount", "affiliateCommission"),
		Status:     f.str("status", "Status"),
		Date:       f.time("date", "createdAt", "created_at"),
	}
}

// Affiliates returns the affiliates collection.
func (a *API) Affiliates() *Resource[Affiliate] {
	return &Resource[Affiliate]{
		api:        a,
		name:       "affiliates",
		listPath:   "/api/affiliate/all/",
		detailPath: "/api/admin/affiliates/{id}/",
		itemsKey:   "affiliates",
		detailKeys: []string{"affiliate"},
		params:     statusParam,
		normalize:  normalizeAffiliate,
		routes: map[domain.ActionKind]route{
			domain.ActionToggleStatus:     {method: http.MethodPut, path: "/api/admin/affiliates/{id}/toggle-status/", build: jsonBody[ToggleStatusPayload](nil)},
			domain.ActionUpdateCommission: {method: http.MethodPut, path: "/api/affiliate/{id}/update-commission/", build: jsonBody[CommissionPayload](nil)},
			domain.ActionSuspend:          {method: http.MethodPut, path: "/api/affiliate/{id}/suspend/"},
		},
	}
}

// AffiliateTransactions fetches one page of an affiliate's commission
// history.
func (a *API) AffiliateTransactions(ctx context.Context, affiliateID string, page, limit int) (*domain.PageResult[AffiliateTransaction], error) {
	if affiliateID == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}
	req := domain.PageRequest{Page: max(page, 1), PageSize: limit}
	if req.PageSize <= 0 {
		req.PageSize = domain.DefaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("limit", strconv.Itoa(req.PageSize))
	body, err := a.get(ctx, "affiliates", expand("/api/affiliate/{id}/transactions/", affiliateID), q)
	if err != nil {
		return nil, err
	}
	return decodePage(body, "transactions", req, normalizeAffiliateTransaction)
}
