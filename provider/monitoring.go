package provider

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robocompute/robocompute-go/api"
)

// MonitoringManager groups node status and heartbeat calls.
type MonitoringManager struct {
	agent *Agent
}

// Status fetches the node status as the server sees it.
func (m *MonitoringManager) Status(ctx context.Context) (*api.NodeStatus, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/status", nil, nil)
	if err != nil {
		return nil, err
	}

	var status api.NodeStatus
	if err := resp.JSON(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// HeartbeatInput is the payload for MonitoringManager.Heartbeat. Status
// defaults to "online".
type HeartbeatInput struct {
	Status             string         `json:"status"`
	ResourcesAvailable map[string]int `json:"resources_available,omitempty"`
	ActiveTasks        int            `json:"active_tasks"`
}

// Heartbeat reports node liveness.
func (m *MonitoringManager) Heartbeat(ctx context.Context, input HeartbeatInput) (*api.NodeStatus, error) {
	if input.Status == "" {
		input.Status = "online"
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/heartbeat", input, nil)
	if err != nil {
		return nil, err
	}

	var status api.NodeStatus
	if err := resp.JSON(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Metrics fetches node performance metrics for a period ("24h", "7d", "30d").
// Period defaults to "7d".
func (m *MonitoringManager) Metrics(ctx context.Context, period string) (map[string]any, error) {
	if period == "" {
		period = "7d"
	}

	query := url.Values{}
	query.Set("period", period)

	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/metrics", nil, query)
	if err != nil {
		return nil, err
	}

	var metrics map[string]any
	if err := resp.JSON(&metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}
