// Package client provides the consumer-side RoboCompute client: task
// submission and monitoring, wallet, billing, and provider search.
package client

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/robocompute/robocompute-go/api"
)

var errWalletAddressRequired = errors.New("WalletAddress is required")

// Config holds construction-time client configuration. There is no dynamic
// reconfiguration.
type Config struct {
	// APIKey authenticates every request as a bearer token.
	APIKey string
	// WalletAddress is the consumer's wallet address.
	WalletAddress string
	// RPCEndpoint is the wallet RPC node URL handed to the signing
	// collaborator.
	RPCEndpoint string
	// BaseURL overrides the production endpoint, e.g. for tests.
	BaseURL string
	// Signer signs each request; defaults to api.Base64Signer.
	Signer api.Signer
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client is the consumer façade. Sub-managers group related calls and hold no
// state of their own; every call delegates to the shared transport.
type Client struct {
	transport     *api.Transport
	walletAddress string

	Tasks     *TaskManager
	Wallet    *WalletManager
	Billing   *BillingManager
	Providers *ProviderManager
}

// New creates a Client. APIKey and WalletAddress are required.
func New(cfg Config) (*Client, error) {
	if cfg.WalletAddress == "" {
		return nil, errWalletAddressRequired
	}

	transport, err := api.NewTransport(api.TransportConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Signer:     cfg.Signer,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		transport:     transport,
		walletAddress: cfg.WalletAddress,
	}
	c.Tasks = &TaskManager{client: c}
	c.Wallet = &WalletManager{client: c}
	c.Billing = &BillingManager{client: c}
	c.Providers = &ProviderManager{client: c}
	return c, nil
}

// WalletAddress returns the address the client was constructed with.
func (c *Client) WalletAddress() string {
	return c.walletAddress
}
