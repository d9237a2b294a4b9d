package console

import (
	"sort"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/controller"
	"github.com/dolabb/dolabbctl/internal/view"
)

// Registry holds one panel per resource
type Registry struct {
	panels map[string]Panel
}

// OptionsFunc returns the controller options for one resource
type OptionsFunc func(resource string) []controller.Option

// NewRegistry creates a registry with a panel for every resource the
// admin console manages. Each panel owns a fresh controller.
func NewRegistry(api *client.API, opts OptionsFunc) *Registry {
	if opts == nil {
		opts = func(string) []controller.Option { return nil }
	}
	r := &Registry{panels: make(map[string]Panel)}

	r.Register(NewPanel(controller.New[client.User](api.Users(), opts("users")...), view.Users(), userPayload, bulkUsers))
	r.Register(NewPanel(controller.New[client.Listing](api.Listings(), opts("listings")...), view.Listings(), listingPayload, bulkListings))
	r.Register(NewPanel(controller.New[client.Transaction](api.Transactions(), opts("transactions")...), view.Transactions(), transactionPayload, nil))
	r.Register(NewPanel(controller.New[client.Cashout](api.Cashouts(), opts("cashouts")...), view.Cashouts(), cashoutPayload, nil))
	r.Register(NewPanel(controller.New[client.Payout](api.Payouts(), opts("payouts")...), view.Payouts(), payoutPayload, nil))
	r.Register(NewPanel(controller.New[client.Dispute](api.Disputes(), opts("disputes")...), view.Disputes(), disputePayload, nil))
	r.Register(NewPanel(controller.New[client.Affiliate](api.Affiliates(), opts("affiliates")...), view.Affiliates(), affiliatePayload, nil))
	r.Register(NewPanel(controller.New[client.Notification](api.Notifications(), opts("notifications")...), view.Notifications(), notificationPayload, createNotification))
	r.Register(NewPanel(controller.New[client.Hero](api.Hero(), opts("hero")...), view.Hero(), heroPayload, nil))
	r.Register(NewPanel(controller.New[client.ActivityLog](api.ActivityLogs(), opts("activity")...), view.ActivityLogs(), nil, nil))
	return r
}

// Get returns a panel by resource name
func (r *Registry) Get(name string) (Panel, bool) {
	p, ok := r.panels[name]
	return p, ok
}

// All returns all registered panels sorted by resource name
func (r *Registry) All() []Panel {
	result := make([]Panel, 0, len(r.panels))
	for _, p := range r.panels {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Resource() < result[j].Resource()
	})
	return result
}

// Names returns all resource names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.panels))
	for name := range r.panels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a panel
func (r *Registry) Register(p Panel) {
	r.panels[p.Resource()] = p
}
