package view

import (
	"strconv"
	"strings"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/domain"
)

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func boolText(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ListingModeration derives a listing's moderation state from its flags.
// Reviewed without approval counts as rejected.
func ListingModeration(l client.Listing) string {
	switch {
	case l.Approved:
		return "approved"
	case l.Reviewed:
		return "rejected"
	default:
		return "pending"
	}
}

// Users is the user management view.
func Users() *Binding[client.User] {
	return &Binding[client.User]{
		Resource: "users",
		Title:    "User Management",
		Noun:     "user",
		Columns: []Column[client.User]{
			{Header: "Name", Cell: func(u client.User) string { return OrDash(u.Name) }},
			{Header: "Email", Cell: func(u client.User) string { return OrDash(u.Email) }},
			{Header: "Type", Cell: func(u client.User) string { return Badge(u.Type) }},
			{Header: "Status", Cell: func(u client.User) string { return Badge(u.Status) }, Badge: true},
			{Header: "Joined", Cell: func(u client.User) string { return Date(u.JoinDate) }},
		},
		Policy: Policy[client.User]{
			Axes: []Axis[client.User]{{
				Name: "status",
				Key:  func(u client.User) string { return lower(u.Status) },
				Allow: map[string][]domain.ActionKind{
					"active":      kinds(domain.ActionSuspend, domain.ActionDeactivate, domain.ActionDelete),
					"suspended":   kinds(domain.ActionDeactivate, domain.ActionReactivate, domain.ActionDelete),
					"deactivated": kinds(domain.ActionReactivate, domain.ActionDelete),
				},
			}},
		},
		CollectionActions: kinds(domain.ActionBulk),
		Detail: []Field[client.User]{
			{"ID", func(u client.User) string { return u.ID }},
			{"Name", func(u client.User) string { return OrDash(u.Name) }},
			{"Email", func(u client.User) string { return OrDash(u.Email) }},
			{"Type", func(u client.User) string { return Badge(u.Type) }},
			{"Status", func(u client.User) string { return Badge(u.Status) }},
			{"Joined", func(u client.User) string { return Date(u.JoinDate) }},
			{"Purchases", func(u client.User) string { return Number(u.TotalPurchases) }},
			{"Total spent", func(u client.User) string { return Currency(u.TotalSpent, "") }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionSuspend:    {Confirm: "Suspend this user?", Reason: true},
			domain.ActionDeactivate: {Confirm: "Deactivate this user?", Reason: true},
			domain.ActionReactivate: {Confirm: "Reactivate this user?"},
			domain.ActionDelete:     {Confirm: "Delete this user?", Destructive: true},
			domain.ActionBulk:       {Verb: "update", Success: "Bulk action applied successfully"},
		},
		Filters: []FilterOption{{Name: "status", Values: []string{"all", "active", "suspended", "deactivated"}}},
	}
}

// Listings is the listing moderation view.
func Listings() *Binding[client.Listing] {
	return &Binding[client.Listing]{
		Resource: "listings",
		Title:    "Listing Management",
		Noun:     "listing",
		Columns: []Column[client.Listing]{
			{Header: "Title", Cell: func(l client.Listing) string { return Truncate(l.Title, 40) }},
			{Header: "Seller", Cell: func(l client.Listing) string { return OrDash(l.SellerName) }},
			{Header: "Price", Cell: func(l client.Listing) string { return Currency(l.Price, l.Currency) }},
			{Header: "Status", Cell: func(l client.Listing) string { return Badge(l.Status) }, Badge: true},
			{Header: "Moderation", Cell: func(l client.Listing) string { return Badge(ListingModeration(l)) }, Badge: true},
			{Header: "Listed", Cell: func(l client.Listing) string { return Date(l.CreatedAt) }},
		},
		Policy: Policy[client.Listing]{
			Axes: []Axis[client.Listing]{
				{
					Name: "moderation",
					Key:  ListingModeration,
					Allow: map[string][]domain.ActionKind{
						"pending":  kinds(domain.ActionApprove, domain.ActionReject, domain.ActionReview),
						"rejected": kinds(domain.ActionApprove),
					},
				},
				{
					Name: "status",
					Key:  func(l client.Listing) string { return lower(l.Status) },
					Allow: map[string][]domain.ActionKind{
						"active": kinds(domain.ActionHide),
					},
				},
			},
			Always: kinds(domain.ActionUpdate),
		},
		CollectionActions: kinds(domain.ActionBulk),
		Detail: []Field[client.Listing]{
			{"ID", func(l client.Listing) string { return l.ID }},
			{"Title", func(l client.Listing) string { return OrDash(l.Title) }},
			{"Description", func(l client.Listing) string { return OrDash(l.Description) }},
			{"Category", func(l client.Listing) string { return OrDash(l.Category) }},
			{"Seller", func(l client.Listing) string { return OrDash(l.SellerName) }},
			{"Price", func(l client.Listing) string { return Currency(l.Price, l.Currency) }},
			{"Status", func(l client.Listing) string { return Badge(l.Status) }},
			{"Approved", func(l client.Listing) string { return boolText(l.Approved) }},
			{"Reviewed", func(l client.Listing) string { return boolText(l.Reviewed) }},
			{"Images", func(l client.Listing) string { return strconv.Itoa(len(l.Images)) }},
			{"Listed", func(l client.Listing) string { return DateTime(l.CreatedAt) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionApprove: {Confirm: "Approve this listing?"},
			domain.ActionReject:  {Confirm: "Reject this listing?", Reason: true},
			domain.ActionHide:    {Confirm: "Hide this listing from the marketplace?"},
			domain.ActionReview:  {Success: "Listing marked as reviewed"},
			domain.ActionBulk:    {Verb: "update", Success: "Bulk action applied successfully"},
		},
		Filters: []FilterOption{{Name: "status", Values: []string{"all", "active", "sold", "removed"}}},
	}
}

// Transactions is the transaction ledger view.
func Transactions() *Binding[client.Transaction] {
	return &Binding[client.Transaction]{
		Resource: "transactions",
		Title:    "Transactions",
		Noun:     "transaction",
		Columns: []Column[client.Transaction]{
			{Header: "Item", Cell: func(t client.Transaction) string { return Truncate(t.ItemTitle, 32) }},
			{Header: "Type", Cell: func(t client.Transaction) string { return Badge(t.Type) }},
			{Header: "Buyer", Cell: func(t client.Transaction) string { return OrDash(t.BuyerName) }},
			{Header: "Seller", Cell: func(t client.Transaction) string { return OrDash(t.SellerName) }},
			{Header: "Amount", Cell: func(t client.Transaction) string { return Currency(t.OfferAmount, "") }},
			{Header: "Fee", Cell: func(t client.Transaction) string { return Currency(t.DolabbFee, "") }},
			{Header: "Status", Cell: func(t client.Transaction) string { return Badge(t.Status) }, Badge: true},
			{Header: "Date", Cell: func(t client.Transaction) string { return Date(t.Date) }},
		},
		Policy: Policy[client.Transaction]{
			Axes: []Axis[client.Transaction]{{
				Name: "status",
				Key:  func(t client.Transaction) string { return lower(t.Status) },
				Allow: map[string][]domain.ActionKind{
					"completed": kinds(domain.ActionRefund),
					"delivered": kinds(domain.ActionRefund),
					"approved":  kinds(domain.ActionRefund),
				},
			}},
		},
		Detail: []Field[client.Transaction]{
			{"ID", func(t client.Transaction) string { return t.ID }},
			{"Type", func(t client.Transaction) string { return Badge(t.Type) }},
			{"Item", func(t client.Transaction) string { return OrDash(t.ItemTitle) }},
			{"Buyer", func(t client.Transaction) string { return OrDash(t.BuyerName) }},
			{"Seller", func(t client.Transaction) string { return OrDash(t.SellerName) }},
			{"Original price", func(t client.Transaction) string { return Currency(t.OriginalPrice, "") }},
			{"Offer amount", func(t client.Transaction) string { return Currency(t.OfferAmount, "") }},
			{"Dolabb fee", func(t client.Transaction) string { return Currency(t.DolabbFee, "") }},
			{"Status", func(t client.Transaction) string { return Badge(t.Status) }},
			{"Date", func(t client.Transaction) string { return DateTime(t.Date) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionRefund: {Confirm: "Refund this transaction?", Reason: true, Destructive: true, Success: "Refund issued successfully"},
		},
		Filters: []FilterOption{{Name: "type", Values: []string{"all", "purchase", "offer", "accepted_offer"}}},
	}
}

// Cashouts is the seller cashout request view.
func Cashouts() *Binding[client.Cashout] {
	return &Binding[client.Cashout]{
		Resource: "cashouts",
		Title:    "Cashout Requests",
		Noun:     "cashout",
		Columns: []Column[client.Cashout]{
			{Header: "Seller", Cell: func(c client.Cashout) string { return OrDash(c.SellerName) }},
			{Header: "Amount", Cell: func(c client.Cashout) string { return Currency(c.Amount, "") }},
			{Header: "Account", Cell: func(c client.Cashout) string { return OrDash(c.AccountDetails.String()) }},
			{Header: "Status", Cell: func(c client.Cashout) string { return Badge(c.Status) }, Badge: true},
			{Header: "Requested", Cell: func(c client.Cashout) string { return Date(c.RequestedAt) }},
		},
		Policy: pendingPolicy[client.Cashout](
			func(c client.Cashout) string { return lower(c.Status) },
			domain.ActionApproveCashout, domain.ActionRejectCashout,
		),
		Detail: []Field[client.Cashout]{
			{"ID", func(c client.Cashout) string { return c.ID }},
			{"Seller", func(c client.Cashout) string { return OrDash(c.SellerName) }},
			{"Amount", func(c client.Cashout) string { return Currency(c.Amount, "") }},
			{"Bank", func(c client.Cashout) string { return OrDash(c.AccountDetails.BankName) }},
			{"Account number", func(c client.Cashout) string { return OrDash(c.AccountDetails.AccountNumber) }},
			{"IBAN", func(c client.Cashout) string { return OrDash(c.AccountDetails.IBAN) }},
			{"Status", func(c client.Cashout) string { return Badge(c.Status) }},
			{"Requested", func(c client.Cashout) string { return DateTime(c.RequestedAt) }},
			{"Rejection reason", func(c client.Cashout) string { return OrDash(c.RejectionReason) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionApproveCashout: {Confirm: "Approve this cashout?", Success: "Cashout approved successfully"},
			domain.ActionRejectCashout:  {Confirm: "Reject this cashout?", Reason: true, Success: "Cashout rejected successfully"},
		},
		Filters: []FilterOption{{Name: "status", Values: []string{"all", "pending", "approved", "rejected"}}},
	}
}

// Payouts is the affiliate payout request view.
func Payouts() *Binding[client.Payout] {
	return &Binding[client.Payout]{
		Resource: "payouts",
		Title:    "Affiliate Payout Requests",
		Noun:     "payout",
		Columns: []Column[client.Payout]{
			{Header: "Affiliate", Cell: func(p client.Payout) string { return OrDash(p.AffiliateName) }},
			{Header: "Amount", Cell: func(p client.Payout) string { return Currency(p.Amount, "") }},
			{Header: "Method", Cell: func(p client.Payout) string { return Badge(p.PaymentMethod) }},
			{Header: "Status", Cell: func(p client.Payout) string { return Badge(p.Status) }, Badge: true},
			{Header: "Requested", Cell: func(p client.Payout) string { return Date(p.RequestedAt) }},
		},
		Policy: pendingPolicy[client.Payout](
			func(p client.Payout) string { return lower(p.Status) },
			domain.ActionApprovePayout, domain.ActionRejectPayout,
		),
		Detail: []Field[client.Payout]{
			{"ID", func(p client.Payout) string { return p.ID }},
			{"Affiliate", func(p client.Payout) string { return OrDash(p.AffiliateName) }},
			{"Amount", func(p client.Payout) string { return Currency(p.Amount, "") }},
			{"Payment method", func(p client.Payout) string { return Badge(p.PaymentMethod) }},
			{"Account", func(p client.Payout) string { return OrDash(p.AccountDetails.String()) }},
			{"Status", func(p client.Payout) string { return Badge(p.Status) }},
			{"Requested", func(p client.Payout) string { return DateTime(p.RequestedAt) }},
			{"Approved", func(p client.Payout) string { return DateTime(p.ApprovedAt) }},
			{"Rejection reason", func(p client.Payout) string { return OrDash(p.RejectionReason) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionApprovePayout: {Confirm: "Approve this payout?", Success: "Payout approved successfully"},
			domain.ActionRejectPayout:  {Confirm: "Reject this payout?", Reason: true, Success: "Payout rejected successfully"},
		},
		Filters: []FilterOption{{Name: "status", Values: []string{"all", "pending", "approved", "rejected"}}},
	}
}

func pendingPolicy[T domain.Record](status func(T) string, approve, reject domain.ActionKind) Policy[T] {
	return Policy[T]{Axes: []Axis[T]{{
		Name:  "status",
		Key:   status,
		Allow: map[string][]domain.ActionKind{"pending": kinds(approve, reject)},
	}}}
}

// Disputes is the dispute resolution view.
func Disputes() *Binding[client.Dispute] {
	return &Binding[client.Dispute]{
		Resource: "disputes",
		Title:    "Disputes",
		Noun:     "dispute",
		Columns: []Column[client.Dispute]{
			{Header: "Case", Cell: func(d client.Dispute) string { return OrDash(d.CaseNumber) }},
			{Header: "Type", Cell: func(d client.Dispute) string { return Badge(d.Type) }},
			{Header: "Buyer", Cell: func(d client.Dispute) string { return OrDash(d.Buyer.Name) }},
			{Header: "Seller", Cell: func(d client.Dispute) string { return OrDash(d.Seller.Name) }},
			{Header: "Item", Cell: func(d client.Dispute) string { return Truncate(d.ItemTitle, 32) }},
			{Header: "Status", Cell: func(d client.Dispute) string { return Badge(d.Status) }, Badge: true},
			{Header: "Opened", Cell: func(d client.Dispute) string { return Date(d.CreatedAt) }},
		},
		Policy: Policy[client.Dispute]{
			Axes: []Axis[client.Dispute]{{
				Name: "status",
				Key:  func(d client.Dispute) string { return lower(d.Status) },
				Allow: map[string][]domain.ActionKind{
					"open":     kinds(domain.ActionUpdateDispute, domain.ActionCloseDispute, domain.ActionComment, domain.ActionUploadEvidence),
					"resolved": kinds(domain.ActionUpdateDispute, domain.ActionCloseDispute, domain.ActionComment),
					"closed":   kinds(domain.ActionComment),
				},
			}},
		},
		Detail: []Field[client.Dispute]{
			{"Case", func(d client.Dispute) string { return OrDash(d.CaseNumber) }},
			{"Order", func(d client.Dispute) string { return OrDash(d.OrderID) }},
			{"Type", func(d client.Dispute) string { return Badge(d.Type) }},
			{"Status", func(d client.Dispute) string { return Badge(d.Status) }},
			{"Buyer", func(d client.Dispute) string { return party(d.Buyer) }},
			{"Seller", func(d client.Dispute) string { return party(d.Seller) }},
			{"Item", func(d client.Dispute) string { return OrDash(d.ItemTitle) }},
			{"Item price", func(d client.Dispute) string { return Currency(d.ItemPrice, "") }},
			{"Description", func(d client.Dispute) string { return OrDash(d.Description) }},
			{"Admin notes", func(d client.Dispute) string { return OrDash(d.AdminNotes) }},
			{"Resolution", func(d client.Dispute) string { return OrDash(d.Resolution) }},
			{"Messages", func(d client.Dispute) string { return strconv.Itoa(len(d.Messages)) }},
			{"Evidence", func(d client.Dispute) string { return strconv.Itoa(len(d.Evidence)) }},
			{"Opened", func(d client.Dispute) string { return DateTime(d.CreatedAt) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionUpdateDispute:  {Success: "Dispute updated successfully"},
			domain.ActionCloseDispute:   {Confirm: "Close this dispute?", Success: "Dispute closed successfully"},
			domain.ActionComment:        {Success: "Comment added successfully"},
			domain.ActionUploadEvidence: {Success: "Evidence uploaded successfully"},
		},
		Filters: []FilterOption{{Name: "status", Values: []string{"all", "open", "resolved", "closed"}}},
	}
}

func party(p client.Party) string {
	switch {
	case p.Name == "":
		return OrDash(p.Email)
	case p.Email == "":
		return p.Name
	default:
		return p.Name + " <" + p.Email + ">"
	}
}

// Affiliates is the affiliate programme view.
func Affiliates() *Binding[client.Affiliate] {
	return &Binding[client.Affiliate]{
		Resource: "affiliates",
		Title:    "Affiliates",
		Noun:     "affiliate",
		Columns: []Column[client.Affiliate]{
			{Header: "Name", Cell: func(a client.Affiliate) string { return OrDash(a.Name) }},
			{Header: "Code", Cell: func(a client.Affiliate) string { return OrDash(a.Code) }},
			{Header: "Commission", Cell: func(a client.Affiliate) string { return strconv.FormatFloat(a.CommissionRate, 'f', -1, 64) + "%" }},
			{Header: "Referrals", Cell: func(a client.Affiliate) string { return Number(a.Referrals) }},
			{Header: "Earnings", Cell: func(a client.Affiliate) string { return Currency(a.Earnings.Total, "") }},
			{Header: "Status", Cell: func(a client.Affiliate) string { return Badge(a.Status) }, Badge: true},
		},
		Policy: Policy[client.Affiliate]{
			Axes: []Axis[client.Affiliate]{{
				Name:  "status",
				Key:   func(a client.Affiliate) string { return lower(a.Status) },
				Allow: map[string][]domain.ActionKind{"active": kinds(domain.ActionSuspend)},
			}},
			Always: kinds(domain.ActionToggleStatus, domain.ActionUpdateCommission),
		},
		Detail: []Field[client.Affiliate]{
			{"ID", func(a client.Affiliate) string { return a.ID }},
			{"Name", func(a client.Affiliate) string { return OrDash(a.Name) }},
			{"Email", func(a client.Affiliate) string { return OrDash(a.Email) }},
			{"Code", func(a client.Affiliate) string { return OrDash(a.Code) }},
			{"Status", func(a client.Affiliate) string { return Badge(a.Status) }},
			{"Commission rate", func(a client.Affiliate) string { return strconv.FormatFloat(a.CommissionRate, 'f', -1, 64) + "%" }},
			{"Referrals", func(a client.Affiliate) string { return Number(a.Referrals) }},
			{"Total earnings", func(a client.Affiliate) string { return Currency(a.Earnings.Total, "") }},
			{"Pending earnings", func(a client.Affiliate) string { return Currency(a.Earnings.Pending, "") }},
			{"Paid earnings", func(a client.Affiliate) string { return Currency(a.Earnings.Paid, "") }},
			{"Last activity", func(a client.Affiliate) string { return DateTime(a.LastActivity) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionToggleStatus:     {Verb: "update", Confirm: "Change this affiliate's status?", Success: "Affiliate status updated"},
			domain.ActionUpdateCommission: {Verb: "update", Success: "Commission rate updated successfully!"},
			domain.ActionSuspend:          {Confirm: "Suspend this affiliate?", Reason: true},
		},
	}
}

// Notifications is the notification management view.
func Notifications() *Binding[client.Notification] {
	return &Binding[client.Notification]{
		Resource: "notifications",
		Title:    "Notifications",
		Noun:     "notification",
		Columns: []Column[client.Notification]{
			{Header: "Title", Cell: func(n client.Notification) string { return Truncate(n.Title, 40) }},
			{Header: "Type", Cell: func(n client.Notification) string { return Badge(n.Type) }},
			{Header: "Audience", Cell: func(n client.Notification) string { return Badge(n.TargetAudience) }},
			{Header: "Active", Cell: func(n client.Notification) string { return boolText(n.Active) }},
			{Header: "Created", Cell: func(n client.Notification) string { return Date(n.CreatedAt) }},
		},
		Policy: Policy[client.Notification]{
			Always: kinds(domain.ActionUpdate, domain.ActionDelete, domain.ActionSend, domain.ActionToggle),
		},
		CollectionActions: kinds(domain.ActionCreate),
		Detail: []Field[client.Notification]{
			{"ID", func(n client.Notification) string { return n.ID }},
			{"Title", func(n client.Notification) string { return OrDash(n.Title) }},
			{"Message", func(n client.Notification) string { return OrDash(n.Message) }},
			{"Type", func(n client.Notification) string { return Badge(n.Type) }},
			{"Audience", func(n client.Notification) string { return Badge(n.TargetAudience) }},
			{"Template", func(n client.Notification) string { return OrDash(n.Template) }},
			{"Active", func(n client.Notification) string { return boolText(n.Active) }},
			{"Created", func(n client.Notification) string { return DateTime(n.CreatedAt) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionCreate: {Success: "Notification created successfully!"},
			domain.ActionUpdate: {Success: "Notification updated successfully!"},
			domain.ActionDelete: {Confirm: "Delete this notification?", Destructive: true, Success: "Notification deleted successfully!"},
			domain.ActionSend:   {Confirm: "Send this notification now?", Success: "Notification sent successfully!"},
			domain.ActionToggle: {Success: "Notification status updated"},
		},
		Filters: []FilterOption{
			{Name: "type", Values: []string{"all", "system_alert", "buyer_message", "seller_message", "affiliate_message"}},
			{Name: "audience", Values: []string{"all", "buyers", "sellers", "affiliates"}},
		},
	}
}

// Hero is the homepage hero section view.
func Hero() *Binding[client.Hero] {
	return &Binding[client.Hero]{
		Resource: "hero",
		Title:    "Hero Section",
		Noun:     "hero section",
		Columns: []Column[client.Hero]{
			{Header: "Title", Cell: func(h client.Hero) string { return Truncate(h.Title, 40) }},
			{Header: "Background", Cell: func(h client.Hero) string { return Badge(h.BackgroundType) }},
			{Header: "Button", Cell: func(h client.Hero) string { return OrDash(h.ButtonText) }},
			{Header: "Active", Cell: func(h client.Hero) string { return boolText(h.IsActive) }},
		},
		Policy: Policy[client.Hero]{Always: kinds(domain.ActionUpdateHero)},
		Detail: []Field[client.Hero]{
			{"Title", func(h client.Hero) string { return OrDash(h.Title) }},
			{"Subtitle", func(h client.Hero) string { return OrDash(h.Subtitle) }},
			{"Background", func(h client.Hero) string { return Badge(h.BackgroundType) }},
			{"Image URL", func(h client.Hero) string { return OrDash(h.ImageURL) }},
			{"Single color", func(h client.Hero) string { return OrDash(h.SingleColor) }},
			{"Gradient", func(h client.Hero) string {
				return OrDash(strings.Join(h.GradientColors, " -> "))
			}},
			{"Gradient direction", func(h client.Hero) string { return OrDash(h.GradientDirection) }},
			{"Text color", func(h client.Hero) string { return OrDash(h.TextColor) }},
			{"Button text", func(h client.Hero) string { return OrDash(h.ButtonText) }},
			{"Button link", func(h client.Hero) string { return OrDash(h.ButtonLink) }},
			{"Active", func(h client.Hero) string { return boolText(h.IsActive) }},
		},
		Messages: map[domain.ActionKind]ActionText{
			domain.ActionUpdateHero: {Success: "Hero section updated successfully"},
		},
	}
}

// ActivityLogs is the read-only admin audit trail view.
func ActivityLogs() *Binding[client.ActivityLog] {
	return &Binding[client.ActivityLog]{
		Resource: "activity",
		Title:    "Activity Logs",
		Noun:     "log entry",
		Columns: []Column[client.ActivityLog]{
			{Header: "Time", Cell: func(l client.ActivityLog) string { return DateTime(l.Timestamp) }},
			{Header: "Admin", Cell: func(l client.ActivityLog) string { return OrDash(l.AdminName) }},
			{Header: "Action", Cell: func(l client.ActivityLog) string { return Badge(l.Action) }},
			{Header: "Target", Cell: func(l client.ActivityLog) string { return OrDash(l.Target) }},
			{Header: "Details", Cell: func(l client.ActivityLog) string { return Truncate(l.Details, 48) }},
		},
		Detail: []Field[client.ActivityLog]{
			{"ID", func(l client.ActivityLog) string { return l.ID }},
			{"Time", func(l client.ActivityLog) string { return DateTime(l.Timestamp) }},
			{"Admin", func(l client.ActivityLog) string { return OrDash(l.AdminName) }},
			{"Action", func(l client.ActivityLog) string { return Badge(l.Action) }},
			{"Target", func(l client.ActivityLog) string { return OrDash(l.Target) }},
			{"Details", func(l client.ActivityLog) string { return OrDash(l.Details) }},
			{"IP address", func(l client.ActivityLog) string { return OrDash(l.IPAddress) }},
		},
	}
}
