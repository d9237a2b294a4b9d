package client

import (
	"net/http"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// AccountDetails is the bank account a payout goes to.
type AccountDetails struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	IBAN          string `json:"iban,omitempty"`
}

// String renders "Bank - Number" the way the console shows it.
func (d AccountDetails) String() string {
	switch {
	case d.BankName == "" && d.AccountNumber == "":
		return ""
	case d.BankName == "":
		return d.AccountNumber
	case d.AccountNumber == "":
		return d.BankName
	}
	return d.BankName + " - " + d.AccountNumber
}

// Cashout is a seller's withdrawal request.
type Cashout struct {
	ID              string         `json:"id"`
	SellerName      string         `json:"sellerName"`
	Amount          float64        `json:"amount"`
	Status          string         `json:"status"`
	AccountDetails  AccountDetails `json:"accountDetails"`
	RequestedAt     time.Time      `json:"requestedAt"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// RecordID implements domain.Record.
func (c Cashout) RecordID() string { return c.ID }

func normalizeAccount(f fields) AccountDetails {
	return AccountDetails{
		BankName:      f.str("bankName", "bank_name"),
		AccountNumber: f.str("accountNumber", "account_number"),
		AccountName:   f.str("accountName", "account_name", "accountHolder"),
		IBAN:          f.str("iban", "IBAN"),
	}
}

func normalizeCashout(f fields) Cashout {
	return Cashout{
		ID:              f.str("_id", "id"),
		SellerName:      f.str("SellerName", "sellerName", "seller.name"),
		Amount:          f.num("amount"),
		Status:          f.str("Status", "status"),
		AccountDetails:  normalizeAccount(f.obj("accountDetails")),
		RequestedAt:     f.time("Requested Date", "requestedDate", "createdAt", "created_at"),
		RejectionReason: f.str("rejectionReason", "rejection_reason"),
	}
}

// Cashouts returns the seller cashout requests collection.
func (a *API) Cashouts() *Resource[Cashout] {
	return &Resource[Cashout]{
		api:        a,
		name:       "cashouts",
		listPath:   "/api/admin/cashout-requests/",
		detailPath: "/api/admin/cashout-requests/{id}/",
		itemsKey:   "cashoutRequests",
		detailKeys: []string{"cashoutRequest", "cashout"},
		params:     statusParam,
		normalize:  normalizeCashout,
		routes: map[domain.ActionKind]route{
			domain.ActionApproveCashout: {method: http.MethodPut, path: "/api/admin/cashout-requests/{id}/approve/"},
			domain.ActionRejectCashout:  {method: http.MethodPut, path: "/api/admin/cashout-requests/{id}/reject/", build: jsonBody[ReasonPayload](nil)},
		},
	}
}
