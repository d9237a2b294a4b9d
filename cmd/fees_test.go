package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/output"
)

const feeSettingsBody = `{"success":true,"feeSettings":{"minimumFee":5,"feePercentage":4.5,"thresholdAmount1":100,"thresholdAmount2":1000,"maximumFee":200,"transactionFeeFixed":1.5,"defaultAffiliateCommissionPercentage":25}}`

func TestFeesShow(t *testing.T) {
	c := newCLI(t, map[string]string{"GET /api/admin/fee-settings/": feeSettingsBody})
	c.signIn(t)

	require.NoError(t, c.run(t, "", "fees", "show"))
	out := c.stdout.String()
	assert.Contains(t, out, "Fee Settings")
	assert.Contains(t, out, "4.5%")
	assert.Contains(t, out, "SAR 200.00")
	assert.Contains(t, out, "25%")
}

func TestFeesShow_JSON(t *testing.T) {
	c := newCLI(t, map[string]string{"GET /api/admin/fee-settings/": feeSettingsBody})
	c.signIn(t)

	require.NoError(t, c.run(t, "", "fees", "show", "--json"))
	var got client.FeeSettings
	decodeJSON(t, c.stdout.Bytes(), &got)
	assert.Equal(t, 4.5, got.FeePercentage)
	assert.Equal(t, 1.5, got.TransactionFeeFixed)
}

func TestFeesUpdate_SendsOnlyChangedFlags(t *testing.T) {
	c := newCLI(t, map[string]string{"PUT /api/admin/fee-settings/update/": feeSettingsBody})
	c.signIn(t)

	require.NoError(t, c.run(t, "", "fees", "update", "--percentage", "4.5", "--minimum", "0"))
	assert.Contains(t, c.stdout.String(), "Fee settings updated successfully")

	reqs := c.backend.requests("PUT /api/admin/fee-settings/update/")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"feePercentage":4.5,"minimumFee":0}`, reqs[0].Body)
}

func TestFeesUpdate_Rejected(t *testing.T) {
	tests := map[string][]string{
		"no flags":         {"fees", "update"},
		"percentage > 100": {"fees", "update", "--percentage", "120"},
		"negative minimum": {"fees", "update", "--minimum", "-1"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			c := newCLI(t, nil)
			c.signIn(t)

			err := c.run(t, "", args...)
			require.Error(t, err)
			assert.Equal(t, output.ExitUsageError, output.Classify(err).ExitCode)
			assert.Empty(t, c.backend.requests("PUT /api/admin/fee-settings/update/"))
		})
	}
}

func TestFeesSummary(t *testing.T) {
	c := newCLI(t, map[string]string{
		"GET /api/admin/fee-settings/summary/": `{"success":true,"Total Fees Collected":1250.75,"Total Transactions":310,"Average Fee per Transaction":4.03}`,
	})
	c.signIn(t)

	require.NoError(t, c.run(t, "", "fees", "summary", "--from", "2026-01-01", "--to", "2026-03-31"))
	out := c.stdout.String()
	assert.Contains(t, out, "SAR 1,250.75")
	assert.Contains(t, out, "310")

	reqs := c.backend.requests("GET /api/admin/fee-settings/summary/")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Query, "fromDate=2026-01-01")
	assert.Contains(t, reqs[0].Query, "toDate=2026-03-31")
}

func TestFeesSummary_BadDates(t *testing.T) {
	c := newCLI(t, nil)
	c.signIn(t)

	err := c.run(t, "", "fees", "summary", "--from", "01/02/2026")
	assert.Equal(t, output.ExitUsageError, output.Classify(err).ExitCode)

	err = c.run(t, "", "fees", "summary", "--from", "2026-03-01", "--to", "2026-01-01")
	assert.Equal(t, output.ExitUsageError, output.Classify(err).ExitCode)
}

func TestFeesCalculate(t *testing.T) {
	c := newCLI(t, map[string]string{
		"GET /api/admin/fee-settings/calculate/": `{"success":true,"amount":250,"fee":11.25,"sellerPayout":238.75}`,
	})
	c.signIn(t)

	require.NoError(t, c.run(t, "", "fees", "calculate", "250"))
	out := c.stdout.String()
	assert.Contains(t, out, "SAR 11.25")
	assert.Contains(t, out, "SAR 238.75")

	err := c.run(t, "", "fees", "calculate", "lots")
	assert.Equal(t, output.ExitUsageError, output.Classify(err).ExitCode)

	err = c.run(t, "", "fees", "calculate", "-5")
	require.Error(t, err)
}
