package provider

import (
	"context"
	"net/http"

	"github.com/robocompute/robocompute-go/api"
)

// StakingManager groups staking calls.
type StakingManager struct {
	agent *Agent
}

// Status fetches the staking snapshot.
func (m *StakingManager) Status(ctx context.Context) (*api.StakingStatus, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/staking", nil, nil)
	if err != nil {
		return nil, err
	}

	var status api.StakingStatus
	if err := resp.JSON(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Stake locks funds. Currency defaults to USDC.
func (m *StakingManager) Stake(ctx context.Context, amount, currency string) (*api.StakingStatus, error) {
	return m.post(ctx, "/staking/stake", amount, currency)
}

// Unstake releases funds. Currency defaults to USDC.
func (m *StakingManager) Unstake(ctx context.Context, amount, currency string) (*api.StakingStatus, error) {
	return m.post(ctx, "/staking/unstake", amount, currency)
}

func (m *StakingManager) post(ctx context.Context, path, amount, currency string) (*api.StakingStatus, error) {
	if currency == "" {
		currency = "USDC"
	}

	body := map[string]string{
		"amount":   amount,
		"currency": currency,
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+path, body, nil)
	if err != nil {
		return nil, err
	}

	var status api.StakingStatus
	if err := resp.JSON(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
