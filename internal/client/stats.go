package client

import (
	"context"
	"net/url"
	"strconv"
)

// Stats are the dashboard headline counters.
type Stats struct {
	TotalUsers       int     `json:"totalUsers"`
	ActiveUsers      int     `json:"activeUsers"`
	TotalListings    int     `json:"totalListings"`
	TotalSales       int     `json:"totalSales"`
	TotalRevenue     float64 `json:"totalRevenue"`
	PendingCashouts  int     `json:"pendingCashouts"`
	OpenDisputes     int     `json:"openDisputes"`
	ResolvedDisputes int     `json:"resolvedDisputes"`
}

// MonthlyRevenue is revenue and signups for one "2006-01" month.
type MonthlyRevenue struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	NewUsers int     `json:"newUsers"`
}

// MonthlySales is the sales count for one "2006-01" month.
type MonthlySales struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

// ListingsStatus counts listings by lifecycle state.
type ListingsStatus struct {
	Active        int `json:"active"`
	Sold          int `json:"sold"`
	Removed       int `json:"removed"`
	PendingReview int `json:"pendingReview"`
}

// TransactionTypes counts transactions by kind.
type TransactionTypes struct {
	Purchase      int `json:"purchase"`
	Offer         int `json:"offer"`
	AcceptedOffer int `json:"acceptedOffer"`
}

// DisputesStatus counts disputes by state.
type DisputesStatus struct {
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
	Closed   int `json:"closed"`
}

// CashoutSummary counts cashout requests by state.
type CashoutSummary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Activity is one entry of the admin activity feed.
type Activity struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

const statsResource = "dashboard"

// Stats fetches the headline counters.
func (a *API) Stats(ctx context.Context) (*Stats, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/stats/", nil)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalUsers:       f.integer("totalUsers"),
		ActiveUsers:      f.integer("activeUsers"),
		TotalListings:    f.integer("totalListings"),
		TotalSales:       f.integer("Total Sales", "totalSales"),
		TotalRevenue:     f.num("totalRevenue"),
		PendingCashouts:  f.integer("pendingCashouts"),
		OpenDisputes:     f.integer("Open Disputes", "openDisputes"),
		ResolvedDisputes: f.integer("resolvedDisputes"),
	}, nil
}

// RevenueTrends fetches monthly revenue joined with monthly signups.
func (a *API) RevenueTrends(ctx context.Context) ([]MonthlyRevenue, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/revenue-trends/", nil)
	if err != nil {
		return nil, err
	}
	signups := make(map[string]int)
	for _, u := range f.list("monthlyNewUsers") {
		signups[u.str("month")] = u.integer("newUsers")
	}
	var out []MonthlyRevenue
	for _, m := range f.list("monthlyRevenue") {
		month := m.str("month")
		out = append(out, MonthlyRevenue{Month: month, Revenue: m.num("revenue"), NewUsers: signups[month]})
	}
	return out, nil
}

// SalesOverTime fetches monthly sales.
func (a *API) SalesOverTime(ctx context.Context) ([]MonthlySales, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/sales-over-time/", nil)
	if err != nil {
		return nil, err
	}
	var out []MonthlySales
	for _, m := range f.list("monthlySales") {
		out = append(out, MonthlySales{Month: m.str("month"), Sales: m.num("sales")})
	}
	return out, nil
}

// ListingsStatus fetches listing counts by state.
func (a *API) ListingsStatus(ctx context.Context) (*ListingsStatus, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/listings-status/", nil)
	if err != nil {
		return nil, err
	}
	return &ListingsStatus{
		Active:        f.integer("activeListings"),
		Sold:          f.integer("soldListings"),
		Removed:       f.integer("removedListings"),
		PendingReview: f.integer("pendingReviewListings"),
	}, nil
}

// TransactionTypes fetches transaction counts by kind.
func (a *API) TransactionTypes(ctx context.Context) (*TransactionTypes, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/transaction-types/", nil)
	if err != nil {
		return nil, err
	}
	return &TransactionTypes{
		Purchase:      f.integer("purchaseTransactions"),
		Offer:         f.integer("offerTransactions"),
		AcceptedOffer: f.integer("acceptedOfferTransactions"),
	}, nil
}

// DisputesStatus fetches dispute counts by state.
func (a *API) DisputesStatus(ctx context.Context) (*DisputesStatus, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/disputes-status/", nil)
	if err != nil {
		return nil, err
	}
	return &DisputesStatus{
		Open:     f.integer("openDisputes"),
		Resolved: f.integer("resolvedDisputes"),
		Closed:   f.integer("closedDisputes"),
	}, nil
}

// CashoutSummary fetches cashout counts by state.
func (a *API) CashoutSummary(ctx context.Context) (*CashoutSummary, error) {
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/cashout-requests-summary/", nil)
	if err != nil {
		return nil, err
	}
	return &CashoutSummary{
		Pending:  f.integer("pendingCashouts"),
		Approved: f.integer("approvedCashouts"),
		Rejected: f.integer("rejectedCashouts"),
	}, nil
}

// RecentActivities fetches the latest admin-visible events, optionally
// restricted to one type.
func (a *API) RecentActivities(ctx context.Context, limit int, kind string) ([]Activity, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(max(limit, 1)))
	if kind != "" {
		q.Set("type", kind)
	}
	f, err := a.get(ctx, statsResource, "/api/admin/dashboard/recent-activities/", q)
	if err != nil {
		return nil, err
	}
	var out []Activity
	for _, e := range f.list("activities") {
		out = append(out, Activity{
			ID:        e.str("_id", "id"),
			Type:      e.str("type"),
			Message:   e.str("message", "description"),
			Timestamp: e.str("timestamp", "createdAt"),
		})
	}
	return out, nil
}
