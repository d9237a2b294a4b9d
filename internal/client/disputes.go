package client

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/transport"
)

// Party is a buyer or seller named on a dispute.
type Party struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// DisputeMessage is one entry of a dispute's conversation.
type DisputeMessage struct {
	SenderType string    `json:"senderType"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Evidence is a file attached to a dispute.
type Evidence struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Dispute is a buyer/seller case opened against an order.
type Dispute struct {
	ID          string           `json:"id"`
	CaseNumber  string           `json:"caseNumber"`
	OrderID     string           `json:"orderId"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	Buyer       Party            `json:"buyer"`
	Seller      Party            `json:"seller"`
	ItemTitle   string           `json:"itemTitle"`
	ItemPrice   float64          `json:"itemPrice,omitempty"`
	Description string           `json:"description,omitempty"`
	AdminNotes  string           `json:"adminNotes,omitempty"`
	Resolution  string           `json:"resolution,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	Messages    []DisputeMessage `json:"messages,omitempty"`
	Evidence    []Evidence       `json:"evidence,omitempty"`
}

// RecordID implements domain.Record.
func (d Dispute) RecordID() string { return d.ID }

// DisputeUpdate changes a dispute's status or notes. OrderID must match the
// dispute's order; use Dispute.Update to fill it.
type DisputeUpdate struct {
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=open resolved closed"`
	OrderID    string `json:"order_id" validate:"required"`
	AdminNotes string `json:"adminNotes,omitempty" validate:"omitempty,max=2000"`
	Resolution string `json:"resolution,omitempty" validate:"omitempty,max=2000"`
}

// DisputeClose closes a dispute with an optional resolution.
type DisputeClose struct {
	Resolution string `json:"resolution,omitempty" validate:"omitempty,max=2000"`
	OrderID    string `json:"order_id" validate:"required"`
}

// DisputeComment posts an admin comment on a dispute.
type DisputeComment struct {
	Message string `json:"message" validate:"required,max=2000"`
	OrderID string `json:"order_id" validate:"required"`
}

// EvidenceUpload attaches a file to a dispute.
type EvidenceUpload struct {
	Filename    string    `form:"file" validate:"required"`
	File        io.Reader `form:"-" validate:"required"`
	Description string    `form:"description" validate:"omitempty,max=500"`
}

// Update builds an update payload bound to d's order.
func (d Dispute) Update(status, adminNotes, resolution string) DisputeUpdate {
	return DisputeUpdate{Status: status, OrderID: d.OrderID, AdminNotes: adminNotes, Resolution: resolution}
}

// Close builds a close payload bound to d's order.
func (d Dispute) Close(resolution string) DisputeClose {
	return DisputeClose{Resolution: resolution, OrderID: d.OrderID}
}

// Comment builds a comment payload bound to d's order.
func (d Dispute) Comment(message string) DisputeComment {
	return DisputeComment{Message: message, OrderID: d.OrderID}
}

func normalizeDispute(f fields) Dispute {
	d := Dispute{
		ID:         f.str("_id", "id"),
		CaseNumber: f.str("caseNumber", "case_number"),
		OrderID:    strings.TrimSpace(f.str("order_id", "orderId", "order._id", "order.id")),
		Type:       f.str("type", "disputeType"),
		Status:     f.str("status"),
		Buyer: Party{
			Name:  f.str("buyer.name", "buyerName"),
			Email: f.str("buyer.email", "buyerEmail"),
		},
		Seller: Party{
			Name:  f.str("seller.name", "SellerName", "sellerName"),
			Email: f.str("seller.email", "sellerEmail"),
		},
		ItemTitle:   f.str("item.title", "itemTitle"),
		ItemPrice:   f.num("item.price", "itemPrice"),
		Description: f.str("description"),
		AdminNotes:  f.str("adminNotes", "admin_notes"),
		Resolution:  f.str("resolution"),
		CreatedAt:   f.time("createdAt", "created_at"),
	}
	if d.Status == "" {
		d.Status = "open"
	}
	for _, m := range f.list("messages") {
		d.Messages = append(d.Messages, DisputeMessage{
			SenderType: m.str("senderType", "type"),
			SenderName: m.str("senderName", "sender.name"),
			Message:    m.str("message", "text"),
			CreatedAt:  m.time("createdAt", "created_at"),
		})
	}
	for _, e := range f.list("evidence") {
		d.Evidence = append(d.Evidence, Evidence{
			ID:          e.str("id", "_id"),
			Type:        e.str("type"),
			Filename:    e.str("originalFilename", "filename"),
			URL:         e.str("url"),
			Description: e.str("description"),
			UploadedBy:  e.str("uploadedBy.name"),
			UploadedAt:  e.time("uploadedAt"),
		})
	}
	return d
}

func matchDispute(d Dispute, q string) bool {
	for _, s := range []string{d.CaseNumber, d.Buyer.Name, d.Seller.Name, d.ItemTitle} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func encodeEvidence(p EvidenceUpload) (*transport.Multipart, error) {
	return new(transport.Multipart).
		SetFile("file", p.Filename, p.File).
		Set("description", p.Description), nil
}

// Disputes returns the disputes collection. Filter.Query narrows the
// fetched page by case number, party or item.
func (a *API) Disputes() *Resource[Dispute] {
	return &Resource[Dispute]{
		api:        a,
		name:       "disputes",
		listPath:   "/api/admin/disputes/",
		detailPath: "/api/admin/disputes/{id}/",
		itemsKey:   "disputes",
		detailKeys: []string{"dispute"},
		params:     statusParam,
		normalize:  normalizeDispute,
		match:      matchDispute,
		routes: map[domain.ActionKind]route{
			domain.ActionUpdateDispute:  {method: http.MethodPut, path: "/api/admin/disputes/{id}/update/", build: jsonBody[DisputeUpdate](nil)},
			domain.ActionCloseDispute:   {method: http.MethodPut, path: "/api/admin/disputes/{id}/close/", build: jsonBody[DisputeClose](nil)},
			domain.ActionComment:        {method: http.MethodPost, path: "/api/admin/disputes/{id}/comments/", build: jsonBody[DisputeComment](nil)},
			domain.ActionUploadEvidence: {method: http.MethodPost, path: "/api/admin/disputes/{id}/evidence/", build: formBody(encodeEvidence)},
		},
	}
}
