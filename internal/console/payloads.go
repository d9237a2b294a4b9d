package console

import (
	"cmp"
	"strings"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
)

func userPayload(_ client.User, _ domain.ActionKind, in Input) (any, error) {
	return client.ReasonPayload{Reason: in.ReasonOr("reason")}, nil
}

func bulkUsers(_ domain.ActionKind, in Input) (any, error) {
	return client.BulkUserPayload{UserIDs: in.List("ids"), Action: in.Get("action")}, nil
}

func listingPayload(_ client.Listing, kind domain.ActionKind, in Input) (any, error) {
	switch kind {
	case domain.ActionReview:
		return client.ReviewPayload{Notes: in.ReasonOr("notes")}, nil
	case domain.ActionUpdate:
		price, err := in.Float("price")
		if err != nil {
			return nil, err
		}
		approved, err := in.Bool("approved")
		if err != nil {
			return nil, err
		}
		reviewed, err := in.Bool("reviewed")
		if err != nil {
			return nil, err
		}
		return client.ListingUpdate{
			Title:    in.Text("title"),
			Price:    price,
			Currency: in.Text("currency"),
			Status:   in.Text("status"),
			Approved: approved,
			Reviewed: reviewed,
		}, nil
	}
	return nil, nil
}

func bulkListings(_ domain.ActionKind, in Input) (any, error) {
	return client.BulkListingPayload{ListingIDs: in.List("ids"), Action: in.Get("action")}, nil
}

func transactionPayload(_ client.Transaction, _ domain.ActionKind, in Input) (any, error) {
	amount, err := in.Float("amount")
	if err != nil {
		return nil, err
	}
	return client.RefundPayload{Amount: amount, Reason: in.ReasonOr("reason"), RefundTo: in.Get("refund_to")}, nil
}

func cashoutPayload(_ client.Cashout, _ domain.ActionKind, in Input) (any, error) {
	return client.ReasonPayload{Reason: in.ReasonOr("reason")}, nil
}

func payoutPayload(_ client.Payout, _ domain.ActionKind, in Input) (any, error) {
	return client.ReasonPayload{Reason: in.ReasonOr("reason")}, nil
}

// disputePayload binds every dispute action to the record's order id.
func disputePayload(d client.Dispute, kind domain.ActionKind, in Input) (any, error) {
	switch kind {
	case domain.ActionUpdateDispute:
		return d.Update(in.Get("status"), in.Get("notes"), in.Get("resolution")), nil
	case domain.ActionCloseDispute:
		return d.Close(in.ReasonOr("resolution")), nil
	case domain.ActionComment:
		return d.Comment(in.ReasonOr("message")), nil
	case domain.ActionUploadEvidence:
		return client.EvidenceUpload{Filename: in.FileName, File: in.File, Description: in.Get("description")}, nil
	}
	return nil, nil
}

// affiliatePayload flips the status for toggleStatus: active becomes
// deactivated and anything else becomes active.
func affiliatePayload(a client.Affiliate, kind domain.ActionKind, in Input) (any, error) {
	switch kind {
	case domain.ActionToggleStatus:
		next := "active"
		if strings.EqualFold(strings.TrimSpace(a.Status), "active") {
			next = "deactivated"
		}
		return client.ToggleStatusPayload{Status: next}, nil
	case domain.ActionUpdateCommission:
		rate, err := in.Float("commission")
		if err != nil {
			return nil, err
		}
		if rate == nil {
			return nil, &domain.ValidationError{Field: "commissionRate", Message: "is required"}
		}
		return client.CommissionPayload{CommissionRate: *rate}, nil
	}
	return nil, nil
}

func notificationPayload(n client.Notification, kind domain.ActionKind, in Input) (any, error) {
	switch kind {
	case domain.ActionUpdate:
		active, err := in.Bool("active")
		if err != nil {
			return nil, err
		}
		return client.NotificationPayload{
			Type:           cmp.Or(in.Get("type"), n.Type),
			Title:          cmp.Or(in.Get("title"), n.Title),
			Message:        cmp.Or(in.Get("message"), n.Message),
			TargetAudience: cmp.Or(in.Get("audience"), n.TargetAudience),
			Active:         active,
		}, nil
	case domain.ActionSend:
		immediate, err := in.Bool("immediate")
		if err != nil {
			return nil, err
		}
		return client.SendPayload{Immediate: immediate}, nil
	case domain.ActionToggle:
		active, err := in.Bool("active")
		if err != nil {
			return nil, err
		}
		if active == nil {
			flipped := !n.Active
			active = &flipped
		}
		return client.TogglePayload{Active: *active}, nil
	}
	return nil, nil
}

func createNotification(_ domain.ActionKind, in Input) (any, error) {
	active, err := in.Bool("active")
	if err != nil {
		return nil, err
	}
	return client.NotificationPayload{
		Type:           in.Get("type"),
		Title:          in.Get("title"),
		Message:        in.Get("message"),
		TargetAudience: in.Get("audience"),
		Active:         active,
		Template:       in.Get("template"),
	}, nil
}

func heroPayload(_ client.Hero, _ domain.ActionKind, in Input) (any, error) {
	active, err := in.Bool("active")
	if err != nil {
		return nil, err
	}
	return client.HeroUpdate{
		BackgroundType:    in.Get("background"),
		ImageName:         in.FileName,
		Image:             in.File,
		ImageURL:          in.Get("image_url"),
		SingleColor:       in.Get("color"),
		GradientColors:    in.List("gradient"),
		GradientDirection: in.Get("direction"),
		Title:             in.Text("title"),
		Subtitle:          in.Text("subtitle"),
		ButtonText:        in.Text("button_text"),
		ButtonLink:        in.Text("button_link"),
		TextColor:         in.Get("text_color"),
		IsActive:          active,
	}, nil
}
