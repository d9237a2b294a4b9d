package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
)

func TestVariables(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"none":       {text: "Welcome to Dolabb", want: nil},
		"in order":   {text: "Hi ${name}, your offer on ${item} was accepted", want: []string{"name", "item"}},
		"duplicates": {text: "${name} ${item} ${name}", want: []string{"name", "item"}},
		"malformed":  {text: "${ name} $name {name} ${}", want: nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Variables(tt.text))
		})
	}
}

func TestRender(t *testing.T) {
	text := "Hi ${buyer}, ${seller} accepted ${amount} for ${item}"
	vars := map[string]string{"buyer": "Sara", "amount": "", "item": "Abaya"}

	assert.Equal(t, "Hi Sara, ${seller} accepted [amount] for Abaya", Render(text, vars))
	assert.Equal(t, text, Render(text, nil))
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "account", CategoryOf("password_change"))
	assert.Equal(t, "seller_journey", CategoryOf("seller_payment_received"))
	assert.Equal(t, "affiliate_journey", CategoryOf("affiliate_milestone_reached"))
	assert.Equal(t, Uncategorized, CategoryOf("flash_sale"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Buyer Offer Accepted", DisplayName("buyer_offer_accepted"))
	assert.Equal(t, "Welcome", DisplayName("welcome"))
}

func TestGroup(t *testing.T) {
	groups := Group([]client.Template{
		{Key: "flash_sale"},
		{Key: "seller_offer_received"},
		{Key: "buyer_item_shipped"},
		{Key: "buyer_offer_submitted"},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "buyer_journey", groups[0].Category)
	assert.Equal(t, "buyer_offer_submitted", groups[0].Templates[0].Key)
	assert.Equal(t, "buyer_item_shipped", groups[0].Templates[1].Key)
	assert.Equal(t, "seller_journey", groups[1].Category)
	assert.Equal(t, Uncategorized, groups[2].Category)
}

func TestFill(t *testing.T) {
	tmpl := client.Template{
		Key:            "buyer_offer_accepted",
		Type:           "buyer_message",
		Title:          "Offer accepted",
		Message:        "Good news ${buyerName}! Your offer of ${offerAmount} on ${itemTitle} was accepted.",
		TargetAudience: "buyers",
	}

	p, err := Fill(tmpl, map[string]string{"buyerName": "Sara", "offerAmount": "SAR 250.00"})
	require.NoError(t, err)
	assert.Equal(t, client.NotificationPayload{
		Type:           "buyer_message",
		Title:          "Offer accepted",
		Message:        "Good news Sara! Your offer of SAR 250.00 on [itemTitle] was accepted.",
		TargetAudience: "buyers",
		Template:       "buyer_offer_accepted",
	}, p)
	assert.NoError(t, client.Validate(p))

	_, err = Fill(tmpl, map[string]string{"buyer": "Sara"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no variable "buyer"`)
}
