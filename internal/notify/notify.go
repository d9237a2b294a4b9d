// Package notify fills notification templates. Template text marks
// variables as ${name}.
package notify

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dolabb/dolabbctl/internal/client"
)

var variablePattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Variables lists the variable names in text, unique, in order of first
// appearance.
func Variables(text string) []string {
	var names []string
	for _, m := range variablePattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Render substitutes vars into text. A variable present in vars with an
// empty value renders as "[name]"; one absent from vars is left as is.
func Render(text string, vars map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-1]
		v, known := vars[name]
		switch {
		case !known:
			return m
		case v == "":
			return "[" + name + "]"
		default:
			return v
		}
	})
}

// Category groups related template keys.
type Category struct {
	Name string
	Keys []string
}

// Categories is the template catalogue in display order.
var Categories = []Category{
	{Name: "account", Keys: []string{"account_registration", "password_change"}},
	{Name: "buyer_journey", Keys: []string{
		"buyer_offer_submitted",
		"buyer_offer_accepted",
		"buyer_offer_rejected",
		"buyer_purchase_confirmation",
		"buyer_item_shipped",
		"buyer_feedback_reminder",
	}},
	{Name: "seller_journey", Keys: []string{
		"seller_offer_received",
		"seller_offer_accepted",
		"seller_offer_rejected",
		"seller_payment_received",
		"seller_shipment_reminder",
		"seller_feedback_received",
	}},
	{Name: "affiliate_journey", Keys: []string{
		"affiliate_registration",
		"affiliate_referral_success",
		"affiliate_commission_earned",
		"affiliate_payout_approved",
		"affiliate_payout_rejected",
		"affiliate_milestone_reached",
	}},
}

// Uncategorized names the group for server templates outside the catalogue.
const Uncategorized = "other"

// CategoryOf returns the category a template key belongs to.
func CategoryOf(key string) string {
	for _, c := range Categories {
		if slices.Contains(c.Keys, key) {
			return c.Name
		}
	}
	return Uncategorized
}

// DisplayName turns "buyer_offer_accepted" into "Buyer Offer Accepted".
func DisplayName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// TemplateGroup is one category's templates.
type TemplateGroup struct {
	Category  string
	Templates []client.Template
}

// Group arranges server templates by category, in catalogue order, with
// unknown keys last. Empty categories are omitted.
func Group(templates []client.Template) []TemplateGroup {
	byKey := make(map[string]client.Template, len(templates))
	for _, t := range templates {
		byKey[t.Key] = t
	}

	var out []TemplateGroup
	seen := make(map[string]bool, len(templates))
	for _, c := range Categories {
		g := TemplateGroup{Category: c.Name}
		for _, k := range c.Keys {
			if t, ok := byKey[k]; ok {
				g.Templates = append(g.Templates, t)
				seen[k] = true
			}
		}
		if len(g.Templates) > 0 {
			out = append(out, g)
		}
	}

	other := TemplateGroup{Category: Uncategorized}
	for _, t := range templates {
		if !seen[t.Key] {
			other.Templates = append(other.Templates, t)
		}
	}
	if len(other.Templates) > 0 {
		out = append(out, other)
	}
	return out
}

// Fill builds a create payload from a template and variable values.
// Variables left unset render as "[name]". Names the template does not use
// are rejected.
func Fill(t client.Template, vars map[string]string) (client.NotificationPayload, error) {
	wanted := Variables(t.Title + "\n" + t.Message)
	for name := range vars {
		if !slices.Contains(wanted, name) {
			return client.NotificationPayload{}, fmt.Errorf("template %s has no variable %q (has %s)",
				t.Key, name, strings.Join(wanted, ", "))
		}
	}
	filled := make(map[string]string, len(wanted))
	for _, name := range wanted {
		filled[name] = vars[name]
	}
	return client.NotificationPayload{
		Type:           t.Type,
		Title:          Render(t.Title, filled),
		Message:        Render(t.Message, filled),
		TargetAudience: t.TargetAudience,
		Template:       t.Key,
	}, nil
}
