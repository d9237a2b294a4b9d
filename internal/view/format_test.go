package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := map[string]struct {
		amount float64
		code   string
		want   string
	}{
		"default code":   {amount: 1234.5, want: "SAR 1,234.50"},
		"zero":           {amount: 0, want: "SAR 0.00"},
		"explicit code":  {amount: 99.999, code: "USD", want: "USD 100.00"},
		"large":          {amount: 1250000, want: "SAR 1,250,000.00"},
		"below thousand": {amount: 12.3, want: "SAR 12.30"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.amount, tt.code))
		})
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "Mar 7, 2025", Date(ts))
	assert.Equal(t, "Mar 7, 2025 14:05", DateTime(ts))
	assert.Equal(t, "-", Date(time.Time{}))
	assert.Equal(t, "-", DateTime(time.Time{}))
}

func TestBadge(t *testing.T) {
	tests := map[string]string{
		"pending":        "Pending",
		"pending_review": "Pending Review",
		"ACTIVE":         "Active",
		"accepted-offer": "Accepted Offer",
		"  ":             "Unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, Badge(in), in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33.3, Percent(1, 3, 1))
	assert.Equal(t, 67.0, Percent(2, 3, 0))
	assert.Equal(t, 25.0, Percent(5, 20, 2))
	assert.Equal(t, 0.0, Percent(5, 0, 2))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Vintage...", Truncate("Vintage abaya with gold trim", 10))
	assert.Equal(t, "عباية...", Truncate("عباية سوداء", 8))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "unchanged", Truncate("unchanged", 0))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "12,345", Number(12345))
	assert.Equal(t, "7", Number(7))
}
