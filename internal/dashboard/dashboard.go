// Package dashboard aggregates the admin statistics endpoints into one
// snapshot. Sections load concurrently and fail independently.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/logging"
	"github.com/dolabb/dolabbctl/internal/view"
)

// DefaultTimeout bounds a whole Load.
const DefaultTimeout = 15 * time.Second

// RecentActivityLimit is how many activity entries the snapshot carries.
const RecentActivityLimit = 10

// Section names, in display order.
const (
	SectionStats            = "stats"
	SectionRevenueTrends    = "revenue_trends"
	SectionSalesOverTime    = "sales_over_time"
	SectionListingsStatus   = "listings_status"
	SectionTransactionTypes = "transaction_types"
	SectionDisputesStatus   = "disputes_status"
	SectionCashoutSummary   = "cashout_summary"
	SectionRecentActivity   = "recent_activity"
)

// StatsSource is the statistics side of the backend. *client.API
// implements it.
type StatsSource interface {
	Stats(ctx context.Context) (*client.Stats, error)
	RevenueTrends(ctx context.Context) ([]client.MonthlyRevenue, error)
	SalesOverTime(ctx context.Context) ([]client.MonthlySales, error)
	ListingsStatus(ctx context.Context) (*client.ListingsStatus, error)
	TransactionTypes(ctx context.Context) (*client.TransactionTypes, error)
	DisputesStatus(ctx context.Context) (*client.DisputesStatus, error)
	CashoutSummary(ctx context.Context) (*client.CashoutSummary, error)
	RecentActivities(ctx context.Context, limit int, kind string) ([]client.Activity, error)
}

// Snapshot is one dashboard load. A nil section failed or timed out.
type Snapshot struct {
	Stats            *client.Stats            `json:"stats"`
	RevenueTrends    []client.MonthlyRevenue  `json:"revenueTrends"`
	SalesOverTime    []client.MonthlySales    `json:"salesOverTime"`
	ListingsStatus   *client.ListingsStatus   `json:"listingsStatus"`
	TransactionTypes *client.TransactionTypes `json:"transactionTypes"`
	DisputesStatus   *client.DisputesStatus   `json:"disputesStatus"`
	CashoutSummary   *client.CashoutSummary   `json:"cashoutSummary"`
	RecentActivity   []client.Activity        `json:"recentActivity"`
	// Failed names the sections that did not load, in display order.
	Failed   []string  `json:"failed,omitempty"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Degraded reports whether any section failed.
func (s *Snapshot) Degraded() bool { return len(s.Failed) > 0 }

var sectionOrder = []string{
	SectionStats, SectionRevenueTrends, SectionSalesOverTime, SectionListingsStatus,
	SectionTransactionTypes, SectionDisputesStatus, SectionCashoutSummary, SectionRecentActivity,
}

// Load fetches every section concurrently under timeout. Failing sections
// are logged and left nil. Load returns an error only when every section
// failed; it is the first section's error.
func Load(ctx context.Context, src StatsSource, timeout time.Duration, logger *slog.Logger) (*Snapshot, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		snap = &Snapshot{}
		mu   sync.Mutex
		errs = make(map[string]error)
	)
	// Each section degrades on its own, so a failure is recorded rather
	// than returned and never cancels its siblings.
	g := new(errgroup.Group)
	run := func(section string, fetch func(context.Context) error) {
		g.Go(func() error {
			if err := fetch(ctx); err != nil {
				logger.WarnContext(ctx, "dashboard section unavailable", "section", section, "error", err)
				mu.Lock()
				errs[section] = err
				mu.Unlock()
			}
			return nil
		})
	}

	run(SectionStats, func(ctx context.Context) (err error) {
		snap.Stats, err = src.Stats(ctx)
		return err
	})
	run(SectionRevenueTrends, func(ctx context.Context) (err error) {
		snap.RevenueTrends, err = src.RevenueTrends(ctx)
		return err
	})
	run(SectionSalesOverTime, func(ctx context.Context) (err error) {
		snap.SalesOverTime, err = src.SalesOverTime(ctx)
		return err
	})
	run(SectionListingsStatus, func(ctx context.Context) (err error) {
		snap.ListingsStatus, err = src.ListingsStatus(ctx)
		return err
	})
	run(SectionTransactionTypes, func(ctx context.Context) (err error) {
		snap.TransactionTypes, err = src.TransactionTypes(ctx)
		return err
	})
	run(SectionDisputesStatus, func(ctx context.Context) (err error) {
		snap.DisputesStatus, err = src.DisputesStatus(ctx)
		return err
	})
	run(SectionCashoutSummary, func(ctx context.Context) (err error) {
		snap.CashoutSummary, err = src.CashoutSummary(ctx)
		return err
	})
	run(SectionRecentActivity, func(ctx context.Context) (err error) {
		snap.RecentActivity, err = src.RecentActivities(ctx, RecentActivityLimit, "")
		return err
	})
	_ = g.Wait()

	for _, section := range sectionOrder {
		if _, failed := errs[section]; failed {
			snap.Failed = append(snap.Failed, section)
			snap.clear(section)
		}
	}
	snap.LoadedAt = time.Now()
	if len(snap.Failed) == len(sectionOrder) {
		return snap, errs[sectionOrder[0]]
	}
	return snap, nil
}

// clear drops whatever a failed call left behind.
func (s *Snapshot) clear(section string) {
	switch section {
	case SectionStats:
		s.Stats = nil
	case SectionRevenueTrends:
		s.RevenueTrends = nil
	case SectionSalesOverTime:
		s.SalesOverTime = nil
	case SectionListingsStatus:
		s.ListingsStatus = nil
	case SectionTransactionTypes:
		s.TransactionTypes = nil
	case SectionDisputesStatus:
		s.DisputesStatus = nil
	case SectionCashoutSummary:
		s.CashoutSummary = nil
	case SectionRecentActivity:
		s.RecentActivity = nil
	}
}

// Slice is one segment of a breakdown chart.
type Slice struct {
	Label string
	Value float64
}

// LegendEntry is a slice with its share of the total.
type LegendEntry struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Legend computes each slice's percentage of the total to one decimal.
// An all-zero breakdown yields zero percentages.
func Legend(slices []Slice) []LegendEntry {
	var total float64
	for _, s := range slices {
		total += s.Value
	}
	out := make([]LegendEntry, len(slices))
	for i, s := range slices {
		out[i] = LegendEntry{Label: s.Label, Value: s.Value, Percent: view.Percent(s.Value, total, 1)}
	}
	return out
}

// ListingsBreakdown returns the listings status chart, or nil when the
// section failed.
func (s *Snapshot) ListingsBreakdown() []Slice {
	if s.ListingsStatus == nil {
		return nil
	}
	l := s.ListingsStatus
	return []Slice{
		{"Active", float64(l.Active)},
		{"Sold", float64(l.Sold)},
		{"Removed", float64(l.Removed)},
		{"Pending Review", float64(l.PendingReview)},
	}
}

// TransactionsBreakdown returns the transaction type chart.
func (s *Snapshot) TransactionsBreakdown() []Slice {
	if s.TransactionTypes == nil {
		return nil
	}
	t := s.TransactionTypes
	return []Slice{
		{"Purchase", float64(t.Purchase)},
		{"Offer", float64(t.Offer)},
		{"Accepted Offer", float64(t.AcceptedOffer)},
	}
}

// DisputesBreakdown returns the dispute status chart.
func (s *Snapshot) DisputesBreakdown() []Slice {
	if s.DisputesStatus == nil {
		return nil
	}
	d := s.DisputesStatus
	return []Slice{
		{"Open", float64(d.Open)},
		{"Resolved", float64(d.Resolved)},
		{"Closed", float64(d.Closed)},
	}
}

// CashoutsBreakdown returns the cashout status chart.
func (s *Snapshot) CashoutsBreakdown() []Slice {
	if s.CashoutSummary == nil {
		return nil
	}
	c := s.CashoutSummary
	return []Slice{
		{"Pending", float64(c.Pending)},
		{"Approved", float64(c.Approved)},
		{"Rejected", float64(c.Rejected)},
	}
}
