package client

import (
	"net/http"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Payout is an affiliate's request to withdraw earned commission.
type Payout struct {
	ID              string         `json:"id"`
	AffiliateID     string         `json:"affiliateId"`
	AffiliateName   string         `json:"affiliateName"`
	Amount          float64        `json:"amount"`
	PaymentMethod   string         `json:"paymentMethod"`
	AccountDetails  AccountDetails `json:"accountDetails"`
	Status          string         `json:"status"`
	RequestedAt     time.Time      `json:"requestedAt"`
	ApprovedAt      time.Time      `json:"approvedAt"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// RecordID implements domain.Record.
func (p Payout) RecordID() string { return p.ID }

func normalizePayout(f fields) Payout {
	p := Payout{
		ID:              f.str("id", "_id"),
		AffiliateID:     f.str("affiliateId", "affiliate"),
		AffiliateName:   f.str("affiliateName", "Affiliatename"),
		Amount:          f.num("amount"),
		PaymentMethod:   f.str("Payment Method", "paymentMethod"),
		Status:          f.str("Status", "status"),
		RequestedAt:     f.time("Requested Date", "requestedDate", "createdAt"),
		ApprovedAt:      f.time("approvedDate"),
		RejectionReason: f.str("rejectionReason"),
	}
	// Some payouts carry the account as free text rather than an object.
	if s, ok := f["accountDetails"].(string); ok {
		p.AccountDetails = AccountDetails{AccountNumber: s}
	} else {
		p.AccountDetails = normalizeAccount(f.obj("accountDetails"))
	}
	return p
}

// Payouts returns the affiliate payout requests collection.
func (a *API) Payouts() *Resource[Payout] {
	return &Resource[Payout]{
		api:       a,
		name:      "payouts",
		listPath:  "/api/affiliate/payout-requests/",
		itemsKey:  "payoutRequests",
		params:    statusParam,
		normalize: normalizePayout,
		routes: map[domain.ActionKind]route{
			domain.ActionApprovePayout: {method: http.MethodPut, path: "/api/affiliate/payout-requests/{id}/approve/"},
			domain.ActionRejectPayout:  {method: http.MethodPut, path: "/api/affiliate/payout-requests/{id}/reject/", build: jsonBody[ReasonPayload](nil)},
		},
	}
}
