package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robocompute/robocompute-go/api"
)

// BillingManager groups billing calls.
type BillingManager struct {
	client *Client
}

// BillingHistory is a page of transactions.
type BillingHistory struct {
	Transactions []api.Transaction `json:"transactions"`
	Total        int               `json:"total,omitempty"`
}

// History fetches the transaction history, optionally bounded by YYYY-MM-DD
// dates.
func (m *BillingManager) History(ctx context.Context, startDate, endDate string) (*BillingHistory, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}

	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/billing/history", nil, query)
	if err != nil {
		return nil, err
	}

	var history BillingHistory
	if err := resp.JSON(&history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Invoice fetches one invoice.
func (m *BillingManager) Invoice(ctx context.Context, invoiceID string) (*api.Invoice, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/billing/invoices/"+invoiceID, nil, nil)
	if err != nil {
		return nil, err
	}

	var invoice api.Invoice
	if err := resp.JSON(&invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// PaymentMethodInput is the payload for BillingManager.SetPaymentMethod.
// PreferredCurrency defaults to USDC.
type PaymentMethodInput struct {
	PreferredCurrency string `json:"preferred_currency"`
	AutoTopup         bool   `json:"auto_topup"`
	TopupThreshold    string `json:"topup_threshold,omitempty"`
	TopupAmount       string `json:"topup_amount,omitempty"`
}

// SetPaymentMethod configures billing for the account.
func (m *BillingManager) SetPaymentMethod(ctx context.Context, input PaymentMethodInput) (*api.PaymentMethod, error) {
	if input.PreferredCurrency == "" {
		input.PreferredCurrency = "USDC"
	}

	resp, err := m.client.transport.Do(ctx, http.MethodPost, "/billing/payment-method", input, nil)
	if err != nil {
		return nil, err
	}

	var method api.PaymentMethod
	if err := resp.JSON(&method); err != nil {
		return nil, err
	}
	return &method, nil
}
