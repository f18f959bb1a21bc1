package client

import (
	"context"
	"net/http"

	"github.com/robocompute/robocompute-go/api"
)

// WalletManager groups wallet calls.
type WalletManager struct {
	client *Client
}

// Balance fetches the wallet balance. The snapshot is never cached locally.
func (m *WalletManager) Balance(ctx context.Context) (*api.Balance, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/wallet/balance", nil, nil)
	if err != nil {
		return nil, err
	}

	var balance api.Balance
	if err := resp.JSON(&balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// DepositInput is the payload for WalletManager.Deposit. Currency defaults to
// USDC.
type DepositInput struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Memo     string `json:"memo,omitempty"`
}

// Deposit creates a deposit.
func (m *WalletManager) Deposit(ctx context.Context, input DepositInput) (*api.Deposit, error) {
	if input.Currency == "" {
		input.Currency = "USDC"
	}

	resp, err := m.client.transport.Do(ctx, http.MethodPost, "/wallet/deposit", input, nil)
	if err != nil {
		return nil, err
	}

	var deposit api.Deposit
	if err := resp.JSON(&deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}
