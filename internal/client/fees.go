package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// FeeSettings is the platform fee schedule.
type FeeSettings struct {
	MinimumFee                    float64 `json:"minimumFee"`
	FeePercentage                 float64 `json:"feePercentage"`
	ThresholdAmount1              float64 `json:"thresholdAmount1"`
	ThresholdAmount2              float64 `json:"thresholdAmount2"`
	MaximumFee                    float64 `json:"maximumFee"`
	TransactionFeeFixed           float64 `json:"transactionFeeFixed"`
	DefaultAffiliateCommissionPct float64 `json:"defaultAffiliateCommissionPercentage"`
}

// FeeSettingsUpdate changes the fee schedule. Nil fields are left as they
// are on the server.
type FeeSettingsUpdate struct {
	MinimumFee                    *float64 `json:"minimumFee,omitempty" validate:"omitempty,gte=0"`
	FeePercentage                 *float64 `json:"feePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	ThresholdAmount1              *float64 `json:"thresholdAmount1,omitempty" validate:"omitempty,gte=0"`
	ThresholdAmount2              *float64 `json:"thresholdAmount2,omitempty" validate:"omitempty,gte=0"`
	MaximumFee                    *float64 `json:"maximumFee,omitempty" validate:"omitempty,gte=0"`
	TransactionFeeFixed           *float64 `json:"transactionFeeFixed,omitempty" validate:"omitempty,gte=0"`
	DefaultAffiliateCommissionPct *float64 `json:"defaultAffiliateCommissionPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// FeeSummary aggregates collected fees over a period.
type FeeSummary struct {
	TotalFees          float64 `json:"totalFees"`
	TotalTransactions  int     `json:"totalTransactions"`
	AverageFeePerTrade float64 `json:"averageFeePerTransaction"`
}

// FeeQuote is the fee the platform would take on an amount.
type FeeQuote struct {
	Amount       float64 `json:"amount"`
	Fee          float64 `json:"fee"`
	SellerPayout float64 `json:"sellerPayout"`
}

const feesResource = "fees"

func decodeFeeSettings(f fields) *FeeSettings {
	if s := f.obj("feeSettings"); len(s) > 0 {
		f = s
	}
	return &FeeSettings{
		MinimumFee:                    f.num("minimumFee"),
		FeePercentage:                 f.num("feePercentage"),
		ThresholdAmount1:              f.num("thresholdAmount1"),
		ThresholdAmount2:              f.num("thresholdAmount2"),
		MaximumFee:                    f.num("maximumFee"),
		TransactionFeeFixed:           f.num("transactionFeeFixed"),
		DefaultAffiliateCommissionPct: f.num("defaultAffiliateCommissionPercentage"),
	}
}

// FeeSettings fetches the current fee schedule.
func (a *API) FeeSettings(ctx context.Context) (*FeeSettings, error) {
	f, err := a.get(ctx, feesResource, "/api/admin/fee-settings/", nil)
	if err != nil {
		return nil, err
	}
	return decodeFeeSettings(f), nil
}

// UpdateFeeSettings applies u and returns the resulting schedule.
func (a *API) UpdateFeeSettings(ctx context.Context, u FeeSettingsUpdate) (*FeeSettings, error) {
	if err := Validate(u); err != nil {
		return nil, err
	}
	f, err := a.send(ctx, feesResource, http.MethodPut, "/api/admin/fee-settings/update/", u)
	if err != nil {
		return nil, err
	}
	if err := checkSuccess(f, "Failed to update fee settings"); err != nil {
		return nil, err
	}
	return decodeFeeSettings(f), nil
}

// FeeSummary fetches fee totals, optionally bounded by date. Zero times
// leave the bound open.
func (a *API) FeeSummary(ctx context.Context, from, to time.Time) (*FeeSummary, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("fromDate", from.Format(time.DateOnly))
	}
	if !to.IsZero() {
		q.Set("toDate", to.Format(time.DateOnly))
	}
	f, err := a.get(ctx, feesResource, "/api/admin/fee-settings/summary/", q)
	if err != nil {
		return nil, err
	}
	return &FeeSummary{
		TotalFees:          f.num("Total Fees Collected", "totalFeesCollected"),
		TotalTransactions:  f.integer("Total Transactions", "totalTransactions"),
		AverageFeePerTrade: f.num("Average Fee per Transaction", "averageFeePerTransaction"),
	}, nil
}

// CalculateFee quotes the fee on amount.
func (a *API) CalculateFee(ctx context.Context, amount float64) (*FeeQuote, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "must be greater than 0"}
	}
	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	f, err := a.get(ctx, feesResource, "/api/admin/fee-settings/calculate/", q)
	if err != nil {
		return nil, err
	}
	quote := &FeeQuote{
		Amount:       f.num("amount"),
		Fee:          f.num("fee", "dolabbFee", "calculatedFee"),
		SellerPayout: f.num("sellerPayout", "sellerReceives", "netAmount"),
	}
	if quote.Amount == 0 {
		quote.Amount = amount
	}
	if quote.SellerPayout == 0 && quote.Fee > 0 {
		quote.SellerPayout = quote.Amount - quote.Fee
	}
	return quote, nil
}
