package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/robocompute/robocompute-go/api"
)

// EarningsManager groups earnings and payout calls.
type EarningsManager struct {
	agent *Agent
}

// Summary fetches the earnings summary, optionally bounded by YYYY-MM-DD
// dates.
func (m *EarningsManager) Summary(ctx context.Context, startDate, endDate string) (*api.EarningsSummary, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/earnings", nil, query)
	if err != nil {
		return nil, err
	}

	var summary api.EarningsSummary
	if err := resp.JSON(&summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// RequestPayout requests a payout. Currency defaults to USDC and the wallet
// address defaults to the agent's.
func (m *EarningsManager) RequestPayout(ctx context.Context, amount, currency, walletAddress string) (*api.Payout, error) {
	if currency == "" {
		currency = "USDC"
	}
	if walletAddress == "" {
		walletAddress = m.agent.walletAddress
	}

	body := map[string]string{
		"amount":         amount,
		"currency":       currency,
		"wallet_address": walletAddress,
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/payouts/request", body, nil)
	if err != nil {
		return nil, err
	}

	var payout api.Payout
	if err := resp.JSON(&payout); err != nil {
		return nil, err
	}
	return &payout, nil
}

// PayoutList is a page of payouts.
type PayoutList struct {
	Payouts []api.Payout `json:"payouts"`
	Total   int          `json:"total,omitempty"`
}

// PayoutHistory fetches past payouts. Limit defaults to 50.
func (m *EarningsManager) PayoutHistory(ctx context.Context, limit int) (*PayoutList, error) {
	if limit == 0 {
		limit = 50
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/payouts/history", nil, query)
	if err != nil {
		return nil, err
	}

	var list PayoutList
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// PendingPayouts fetches payouts not yet settled.
func (m *EarningsManager) PendingPayouts(ctx context.Context) (*PayoutList, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/payouts/pending", nil, nil)
	if err != nil {
		return nil, err
	}

	var list PayoutList
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}
	return &list, nil
}
