package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/domain"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	api, fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/admin/dashboard/stats/", `{
		"success": true, "totalUsers": 120, "activeUsers": 98, "totalListings": 340,
		"Total Sales": 77, "totalRevenue": 15230.75, "pendingCashouts": 3,
		"Open Disputes": 2, "resolvedDisputes": 11
	}`)
	fb.on(http.MethodGet, "/api/admin/dashboard/revenue-trends/", `{
		"success": true,
		"monthlyRevenue": [{"month": "2025-01", "revenue": 1000}, {"month": "2025-02", "revenue": 1500}],
		"monthlyNewUsers": [{"month": "2025-02", "newUsers": 9}]
	}`)
	fb.on(http.MethodGet, "/api/admin/dashboard/listings-status/", `{"success":true,"activeListings":10,"soldListings":5,"removedListings":1,"pendingReviewListings":4}`)

	stats, err := api.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalUsers: 120, ActiveUsers: 98, TotalListings: 340, TotalSales: 77,
		TotalRevenue: 15230.75, PendingCashouts: 3, OpenDisputes: 2, ResolvedDisputes: 11,
	}, stats)

	trends, err := api.RevenueTrends(ctx)
	require.NoError(t, err)
	assert.Equal(t, []MonthlyRevenue{
		{Month: "2025-01", Revenue: 1000},
		{Month: "2025-02", Revenue: 1500, NewUsers: 9},
	}, trends)

	listings, err := api.ListingsStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ListingsStatus{Active: 10, Sold: 5, Removed: 1, PendingReview: 4}, listings)

	_, err = api.SalesOverTime(ctx)
	var se *domain.ServerError
	assert.ErrorAs(t, err, &se)
}

func TestFees(t *testing.T) {
	ctx := context.Background()

	t.Run("update omits absent fields", func(t *testing.T) {
		api, fb := newFakeBackend(t)
		fb.on(http.MethodPut, "/api/admin/fee-settings/update/", `{"success":true,"minimumFee":5,"feePercentage":7.5}`)

		pct := 7.5
		settings, err := api.UpdateFeeSettings(ctx, FeeSettingsUpdate{FeePercentage: &pct})
		require.NoError(t, err)
		assert.JSONEq(t, `{"feePercentage":7.5}`, fb.last(t).Raw)
		assert.InDelta(t, 7.5, settings.FeePercentage, 0.001)
		assert.InDelta(t, 5, settings.MinimumFee, 0.001)
	})

	t.Run("update rejects a percentage above 100", func(t *testing.T) {
		api, fb := newFakeBackend(t)

		pct := 140.0
		_, err := api.UpdateFeeSettings(ctx, FeeSettingsUpdate{FeePercentage: &pct})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Empty(t, fb.Calls())
	})

	t.Run("summary passes the date range", func(t *testing.T) {
		api, fb := newFakeBackend(t)
		fb.on(http.MethodGet, "/api/admin/fee-settings/summary/", `{"success":true,"Total Fees Collected":820.5,"Total Transactions":41,"Average Fee per Transaction":20.01}`)

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		sum, err := api.FeeSummary(ctx, from, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "2025-01-01", fb.last(t).Query.Get("fromDate"))
		assert.False(t, fb.last(t).Query.Has("toDate"))
		assert.Equal(t, &FeeSummary{TotalFees: 820.5, TotalTransactions: 41, AverageFeePerTrade: 20.01}, sum)
	})

	t.Run("calculate derives the seller payout", func(t *testing.T) {
		api, fb := newFakeBackend(t)
		fb.on(http.MethodGet, "/api/admin/fee-settings/calculate/", `{"success":true,"fee":15}`)

		quote, err := api.CalculateFee(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, "200", fb.last(t).Query.Get("amount"))
		assert.Equal(t, &FeeQuote{Amount: 200, Fee: 15, SellerPayout: 185}, quote)

		_, err = api.CalculateFee(ctx, 0)
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestNotificationTemplates(t *testing.T) {
	api, fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/admin/notifications/templates/", `{
		"success": true,
		"templates": {
			"seller_offer_received": {"type": "seller_message", "title": "New offer", "message": "Hi ${sellerName}", "targetAudience": "sellers"},
			"account_registration": {"type": "system_alert", "title": "Welcome", "message": "Welcome ${userName}", "targetAudience": "all"}
		}
	}`)

	templates, err := api.NotificationTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "account_registration", templates[0].Key)
	assert.Equal(t, "seller_offer_received", templates[1].Key)
	assert.Equal(t, "sellers", templates[1].TargetAudience)
}

func TestAffiliateTransactions(t *testing.T) {
	api, fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/affiliate/a1/transactions/", `{"success":true,"transactions":[{"_id":"x1","amount":300,"commission":30}],"pagination":{"currentPage":1,"totalPages":1,"totalItems":1}}`)

	page, err := api.AffiliateTransactions(context.Background(), "a1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", fb.last(t).Query.Get("page"))
	assert.Equal(t, "20", fb.last(t).Query.Get("limit"))
	require.Len(t, page.Items, 1)
	assert.InDelta(t, 30, page.Items[0].Commission, 0.001)
}
