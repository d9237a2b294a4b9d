package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/dashboard"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/view"
)

type navItem struct {
	Name   string
	Title  string
	Active bool
}

// page carries what every template's chrome needs.
type page struct {
	Title  string
	Admin  string
	Nav    []navItem
	Notice *view.Notice
	Error  string
}

type loginPage struct {
	page
	Email string
}

type card struct {
	Label string
	Value string
}

type chart struct {
	Title   string
	Entries []dashboard.LegendEntry
}

type dashboardPage struct {
	page
	Cards    []card
	Charts   []chart
	Revenue  []revenueRow
	Activity []activityRow
	Failed   []string
}

type revenueRow struct {
	Month    string
	Revenue  string
	NewUsers string
	Sales    string
}

type activityRow struct {
	Type    string
	Message string
	When    string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type filterControl struct {
	Name    string
	Label   string
	Options []option
}

type actionLink struct {
	Label       string
	URL         string
	Destructive bool
}

type rowView struct {
	view.Row
	DetailURL string
	Links     []actionLink
}

type listPage struct {
	page
	Resource string
	Table    view.Table
	Rows     []rowView
	Filters  []filterControl
	Query    string
	PrevURL  string
	NextURL  string
	PDFURL   string
	Create   []actionLink
}

type detailPage struct {
	page
	Resource string
	Detail   *console.Detail
	Links    []actionLink
	BackURL  string
}

type confirmPage struct {
	page
	Resource    string
	RecordID    string
	Message     string
	AskReason   bool
	Destructive bool
	Fields      []formField
	Multipart   bool
	FormAction  string
	CancelURL   string
	SubmitLabel string
}

func filterFromQuery(get func(string) string) domain.Filter {
	return domain.Filter{
		Status:   strings.TrimSpace(get("status")),
		Type:     strings.TrimSpace(get("type")),
		Audience: strings.TrimSpace(get("audience")),
		Action:   strings.TrimSpace(get("action")),
		From:     strings.TrimSpace(get("from")),
		To:       strings.TrimSpace(get("to")),
		Query:    strings.TrimSpace(get("q")),
	}
}

func filterValue(f domain.Filter, name string) string {
	switch name {
	case "status":
		return f.Status
	case "type":
		return f.Type
	case "audience":
		return f.Audience
	case "action":
		return f.Action
	}
	return ""
}

func filterControls(opts []view.FilterOption, f domain.Filter) []filterControl {
	out := make([]filterControl, 0, len(opts))
	for _, opt := range opts {
		current := filterValue(f, opt.Name)
		fc := filterControl{Name: opt.Name, Label: view.Badge(opt.Name)}
		for _, v := range opt.Values {
			fc.Options = append(fc.Options, option{
				Value:    v,
				Label:    view.Badge(v),
				Selected: v == current || (current == "" && v == "all"),
			})
		}
		out = append(out, fc)
	}
	return out
}

// listURL encodes a list view's filter and page so it can be revisited.
func listURL(resource string, f domain.Filter, pageNum int) string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	f = f.Normalize()
	set("status", f.Status)
	set("type", f.Type)
	set("audience", f.Audience)
	set("action", f.Action)
	set("from", f.From)
	set("to", f.To)
	set("q", f.Query)
	if pageNum > 1 {
		q.Set("page", strconv.Itoa(pageNum))
	}
	u := "/r/" + url.PathEscape(resource)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func recordURL(resource, id string) string {
	return "/r/" + url.PathEscape(resource) + "/" + url.PathEscape(id)
}

func confirmURL(resource, id string, kind domain.ActionKind) string {
	return recordURL(resource, id) + "/confirm/" + url.PathEscape(string(kind))
}

func actURL(resource, id string, kind domain.ActionKind) string {
	return recordURL(resource, id) + "/" + url.PathEscape(string(kind))
}

func collectionURL(resource string, kind domain.ActionKind) string {
	return "/r/" + url.PathEscape(resource) + "/new/" + url.PathEscape(string(kind))
}

func actionLinks(p console.Panel, id string, kinds []domain.ActionKind) []actionLink {
	links := make([]actionLink, 0, len(kinds))
	for _, k := range kinds {
		t := p.Text(k)
		links = append(links, actionLink{
			Label:       sentence(t.Verb),
			URL:         confirmURL(p.Resource(), id, k),
			Destructive: t.Destructive,
		})
	}
	return links
}

func newListPage(base page, p console.Panel) listPage {
	t := p.Table()
	lp := listPage{
		page:     base,
		Resource: p.Resource(),
		Table:    t,
		Filters:  filterControls(p.Filters(), t.Filter),
		Query:    t.Filter.Query,
		PDFURL:   "/r/" + url.PathEscape(p.Resource()) + "/pdf",
	}
	if lp.Error == "" {
		lp.Error = t.Error
	}
	for _, row := range t.Rows {
		lp.Rows = append(lp.Rows, rowView{
			Row:       row,
			DetailURL: recordURL(p.Resource(), row.ID),
			Links:     actionLinks(p, row.ID, row.Actions),
		})
	}
	if t.Page.HasPrev {
		lp.PrevURL = listURL(p.Resource(), t.Filter, t.Page.Current-1)
	}
	if t.Page.HasNext {
		lp.NextURL = listURL(p.Resource(), t.Filter, t.Page.Current+1)
	}
	for _, k := range p.CollectionActions() {
		lp.Create = append(lp.Create, actionLink{Label: sentence(p.Text(k).Verb), URL: collectionURL(p.Resource(), k)})
	}
	return lp
}

func newDashboardPage(base page, snap *dashboard.Snapshot) dashboardPage {
	dp := dashboardPage{page: base}
	if snap == nil {
		return dp
	}
	dp.Failed = snap.Failed
	if st := snap.Stats; st != nil {
		dp.Cards = []card{
			{"Total users", view.Number(st.TotalUsers)},
			{"Active users", view.Number(st.ActiveUsers)},
			{"Listings", view.Number(st.TotalListings)},
			{"Sales", view.Number(st.TotalSales)},
			{"Revenue", view.Currency(st.TotalRevenue, "")},
			{"Pending cashouts", view.Number(st.PendingCashouts)},
			{"Open disputes", view.Number(st.OpenDisputes)},
		}
	}
	for _, c := range []struct {
		title  string
		slices []dashboard.Slice
	}{
		{"Listings by status", snap.ListingsBreakdown()},
		{"Transactions by type", snap.TransactionsBreakdown()},
		{"Disputes by status", snap.DisputesBreakdown()},
		{"Cashouts by status", snap.CashoutsBreakdown()},
	} {
		if c.slices != nil {
			dp.Charts = append(dp.Charts, chart{Title: c.title, Entries: dashboard.Legend(c.slices)})
		}
	}

	sales := make(map[string]float64, len(snap.SalesOverTime))
	for _, s := range snap.SalesOverTime {
		sales[s.Month] = s.Sales
	}
	for _, r := range snap.RevenueTrends {
		dp.Revenue = append(dp.Revenue, revenueRow{
			Month:    r.Month,
			Revenue:  view.Currency(r.Revenue, ""),
			NewUsers: view.Number(r.NewUsers),
			Sales:    view.Number(int(sales[r.Month])),
		})
	}
	for _, a := range snap.RecentActivity {
		dp.Activity = append(dp.Activity, activityRow{Type: view.Badge(a.Type), Message: a.Message, When: a.Timestamp})
	}
	return dp
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
