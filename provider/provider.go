// Package provider implements the provider-side RoboCompute agent: resource
// registration, task lifecycle reporting, earnings, staking, heartbeats, and
// a background loop that hands newly assigned tasks to registered handlers.
package provider

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robocompute/robocompute-go/api"
)

const (
	// DefaultPollInterval is the wait between task-assignment poll cycles.
	DefaultPollInterval = 5 * time.Second

	// DefaultErrorBackoff is the wait after a failed poll cycle.
	DefaultErrorBackoff = 10 * time.Second
)

// Config holds construction-time agent configuration.
type Config struct {
	APIKey     string
	ProviderID string
	// WalletAddress receives payouts unless overridden per request.
	WalletAddress string
	// RPCEndpoint is the wallet RPC node URL handed to the signing
	// collaborator.
	RPCEndpoint string
	BaseURL     string
	Signer      api.Signer
	HTTPClient  *http.Client
	Logger      *zerolog.Logger

	// PollInterval and ErrorBackoff tune the assignment loop; they default
	// to 5s and 10s.
	PollInterval time.Duration
	ErrorBackoff time.Duration
}

// TaskHandler reacts to a task observed as available. Handlers must be
// idempotent: a task still unaccepted on the next poll cycle is delivered
// again (at-least-once), so accept calls should tolerate a
// TASK_ALREADY_ACCEPTED failure.
type TaskHandler func(task api.Task) error

// Agent is the provider façade. Sub-managers group related calls; the
// assignment loop runs in a single background goroutine between Start and
// Stop.
type Agent struct {
	transport     *api.Transport
	providerID    string
	walletAddress string
	log           zerolog.Logger
	pollInterval  time.Duration
	errorBackoff  time.Duration

	mu       sync.Mutex
	handlers []TaskHandler
	done     chan struct{}
	running  bool

	Resources  *ResourceManager
	Tasks      *TaskManager
	Earnings   *EarningsManager
	Staking    *StakingManager
	Monitoring *MonitoringManager
}

// New creates an Agent. APIKey, ProviderID, and WalletAddress are required.
func New(cfg Config) (*Agent, error) {
	if cfg.ProviderID == "" {
		return nil, errors.New("ProviderID is required")
	}
	if cfg.WalletAddress == "" {
		return nil, errors.New("WalletAddress is required")
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

	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}
	errorBackoff := cfg.ErrorBackoff
	if errorBackoff == 0 {
		errorBackoff = DefaultErrorBackoff
	}

	a := &Agent{
		transport:     transport,
		providerID:    cfg.ProviderID,
		walletAddress: cfg.WalletAddress,
		log:           transport.Logger().With().Str("provider_id", cfg.ProviderID).Logger(),
		pollInterval:  pollInterval,
		errorBackoff:  errorBackoff,
	}
	a.Resources = &ResourceManager{agent: a}
	a.Tasks = &TaskManager{agent: a}
	a.Earnings = &EarningsManager{agent: a}
	a.Staking = &StakingManager{agent: a}
	a.Monitoring = &MonitoringManager{agent: a}
	return a, nil
}

// ProviderID returns the ID the agent was constructed with.
func (a *Agent) ProviderID() string {
	return a.providerID
}

// basePath is the per-provider path prefix shared by all agent calls.
func (a *Agent) basePath() string {
	return "/providers/" + a.providerID
}
