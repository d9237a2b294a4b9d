package web

import (
	"github.com/dolabb/dolabbctl/internal/domain"
)

// formField is one input on an action form. Name is the console.Input
// key it fills.
type formField struct {
	Name     string
	Label    string
	Type     string
	Options  []string
	Required bool
}

func text(name, label string) formField {
	return formField{Name: name, Label: label, Type: "text"}
}

func textarea(name, label string) formField {
	return formField{Name: name, Label: label, Type: "textarea"}
}

func number(name, label string) formField {
	return formField{Name: name, Label: label, Type: "number"}
}

func file(label string) formField {
	return formField{Name: "file", Label: label, Type: "file"}
}

func choice(name, label string, options ...string) formField {
	return formField{Name: name, Label: label, Type: "select", Options: options}
}

func required(f formField) formField {
	f.Required = true
	return f
}

// actionFields lists the inputs each action takes beyond the optional
// reason, keyed by resource then action.
var actionFields = map[string]map[domain.ActionKind][]formField{
	"listings": {
		domain.ActionUpdate: {
			text("title", "Title"),
			number("price", "Price"),
			text("currency", "Currency"),
			choice("status", "Status", "", "active", "sold", "removed"),
		},
		domain.ActionReview: {textarea("notes", "Notes")},
	},
	"transactions": {
		domain.ActionRefund: {
			number("amount", "Amount (blank refunds in full)"),
			choice("refund_to", "Refund to", "buyer", "seller"),
		},
	},
	"disputes": {
		domain.ActionUpdateDispute: {
			choice("status", "Status", "", "open", "resolved", "closed"),
			textarea("notes", "Admin notes"),
			textarea("resolution", "Resolution"),
		},
		domain.ActionCloseDispute:   {textarea("resolution", "Resolution")},
		domain.ActionComment:        {required(textarea("message", "Message"))},
		domain.ActionUploadEvidence: {required(file("Evidence file")), text("description", "Description")},
	},
	"affiliates": {
		domain.ActionUpdateCommission: {required(number("commission", "Commission rate (%)"))},
	},
	"notifications": {
		domain.ActionCreate: {
			required(text("title", "Title")),
			required(textarea("message", "Message")),
			choice("type", "Type", "system_alert", "buyer_message", "seller_message", "affiliate_message"),
			choice("audience", "Audience", "all", "buyers", "sellers", "affiliates"),
		},
		domain.ActionUpdate: {
			text("title", "Title"),
			textarea("message", "Message"),
			choice("type", "Type", "", "system_alert", "buyer_message", "seller_message", "affiliate_message"),
			choice("audience", "Audience", "", "all", "buyers", "sellers", "affiliates"),
		},
		domain.ActionSend: {choice("immediate", "Send immediately", "true", "false")},
	},
	"hero": {
		domain.ActionUpdateHero: {
			required(choice("background", "Background", "image", "single_color", "gradient")),
			file("Background image"),
			text("image_url", "Image URL"),
			text("color", "Single color"),
			text("gradient", "Gradient colors (comma separated)"),
			text("direction", "Gradient direction"),
			text("title", "Title"),
			text("subtitle", "Subtitle"),
			text("button_text", "Button text"),
			text("button_link", "Button link"),
			text("text_color", "Text color"),
			choice("active", "Active", "true", "false"),
		},
	},
}

func fieldsFor(resource string, kind domain.ActionKind) []formField {
	return actionFields[resource][kind]
}

func hasFile(fields []formField) bool {
	for _, f := range fields {
		if f.Type == "file" {
			return true
		}
	}
	return false
}
