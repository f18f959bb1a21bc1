package api

import "encoding/json"

// TaskStatus enumerates the server-driven task lifecycle.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
	TaskTimeout   TaskStatus = "timeout"
)

// Terminal reports whether no further transitions occur from s.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled, TaskTimeout:
		return true
	}
	return false
}

// ResourceRequirements declares what a task needs from a provider.
type ResourceRequirements struct {
	CPUCores    int `json:"cpu_cores,omitempty"`
	GPUMemoryGB int `json:"gpu_memory_gb,omitempty"`
	RAMGB       int `json:"ram_gb,omitempty"`
	StorageGB   int `json:"storage_gb,omitempty"`
}

// Task is a marketplace task as reported by the server. Timestamps and cost
// fields are passed through as server-formatted strings.
type Task struct {
	ID              string               `json:"task_id"`
	Name            string               `json:"name,omitempty"`
	Type            string               `json:"type,omitempty"`
	Status          TaskStatus           `json:"status,omitempty"`
	Requirements    ResourceRequirements `json:"resource_requirements,omitempty"`
	DockerImage     string               `json:"docker_image,omitempty"`
	Command         []string             `json:"command,omitempty"`
	MaxPricePerHour string               `json:"max_price_per_hour,omitempty"`
	Priority        string               `json:"priority,omitempty"`
	TimeoutSeconds  int                  `json:"timeout_seconds,omitempty"`
	EstimatedCost   string               `json:"estimated_cost,omitempty"`
	ProviderID      string               `json:"provider_id,omitempty"`
	CreatedAt       string               `json:"created_at,omitempty"`
	UpdatedAt       string               `json:"updated_at,omitempty"`
}

// TaskUpdate is one record from a task status stream. Fields carries any
// frame keys beyond status and progress, unchanged.
type TaskUpdate struct {
	Status   TaskStatus
	Progress int
	Fields   map[string]any
}

// UnmarshalJSON splits a stream frame into the known keys and the rest.
func (u *TaskUpdate) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw["status"].(string); ok {
		u.Status = TaskStatus(s)
	}
	if p, ok := raw["progress"].(float64); ok {
		u.Progress = int(p)
	}
	delete(raw, "status")
	delete(raw, "progress")
	u.Fields = raw
	return nil
}

// Balance is a wallet balance snapshot.
type Balance struct {
	USDC          string `json:"usdc,omitempty"`
	USDT          string `json:"usdt,omitempty"`
	SOL           string `json:"sol,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// Deposit is the server's acknowledgement of a deposit request.
type Deposit struct {
	DepositID     string `json:"deposit_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Memo          string `json:"memo,omitempty"`
}

// Transaction is one entry in the billing history.
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	Type          string `json:"type,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	TaskID        string `json:"task_id,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// Invoice is a billing invoice.
type Invoice struct {
	InvoiceID string        `json:"invoice_id"`
	Amount    string        `json:"amount"`
	Currency  string        `json:"currency"`
	Status    string        `json:"status,omitempty"`
	IssuedAt  string        `json:"issued_at,omitempty"`
	DueAt     string        `json:"due_at,omitempty"`
	Items     []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	Description string `json:"description,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
	Amount      string `json:"amount"`
}

// PaymentMethod is the billing configuration for an account.
type PaymentMethod struct {
	PreferredCurrency string `json:"preferred_currency"`
	AutoTopup         bool   `json:"auto_topup"`
	TopupThreshold    string `json:"topup_threshold,omitempty"`
	TopupAmount       string `json:"topup_amount,omitempty"`
}

// Provider is a compute provider listing.
type Provider struct {
	ProviderID   string               `json:"provider_id"`
	Name         string               `json:"name,omitempty"`
	Location     string               `json:"location,omitempty"`
	Status       string               `json:"status,omitempty"`
	PricePerHour string               `json:"price_per_hour,omitempty"`
	Rating       float64              `json:"rating,omitempty"`
	Resources    ResourceRequirements `json:"resources,omitempty"`
}

// Resource is a provider-declared compute offering.
type Resource struct {
	ResourceID     string             `json:"resource_id"`
	Type           string             `json:"resource_type,omitempty"`
	Specifications map[string]any     `json:"specifications,omitempty"`
	Pricing        map[string]string  `json:"pricing,omitempty"`
	Availability   *Availability      `json:"availability,omitempty"`
	Status         string             `json:"status,omitempty"`
}

// Availability is a resource's scheduling policy.
type Availability struct {
	MaxConcurrentTasks int    `json:"max_concurrent_tasks,omitempty"`
	SchedulePolicy     string `json:"schedule_policy,omitempty"`
}

// EarningsSummary is a provider's earnings snapshot for a period.
type EarningsSummary struct {
	TotalEarned    string `json:"total_earned"`
	Currency       string `json:"currency,omitempty"`
	TasksCompleted int    `json:"tasks_completed,omitempty"`
	PeriodStart    string `json:"period_start,omitempty"`
	PeriodEnd      string `json:"period_end,omitempty"`
}

// Payout is one provider payout record.
type Payout struct {
	PayoutID      string `json:"payout_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	RequestedAt   string `json:"requested_at,omitempty"`
	PaidAt        string `json:"paid_at,omitempty"`
}

// StakingStatus is a provider's staking snapshot.
type StakingStatus struct {
	Staked       string `json:"staked"`
	Currency     string `json:"currency,omitempty"`
	MinimumStake string `json:"minimum_stake,omitempty"`
	Slashed      string `json:"slashed,omitempty"`
	Status       string `json:"status,omitempty"`
}

// NodeStatus is a provider node's state as seen by the server.
type NodeStatus struct {
	Status        string `json:"status"`
	ActiveTasks   int    `json:"active_tasks,omitempty"`
	LastHeartbeat string `json:"last_heartbeat,omitempty"`
	Verified      bool   `json:"verified,omitempty"`
}
