package provider

import (
	"context"
	"net/http"

	"github.com/robocompute/robocompute-go/api"
)

// TaskManager groups provider-side task lifecycle calls.
type TaskManager struct {
	agent *Agent
}

// Available lists tasks currently offered to this provider.
func (m *TaskManager) Available(ctx context.Context) ([]api.Task, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/tasks/available", nil, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tasks []api.Task `json:"tasks"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return result.Tasks, nil
}

// Accept claims a task, optionally binding it to a specific resource.
// Returns a task-already-accepted failure when another provider (or an
// earlier poll cycle) got there first.
func (m *TaskManager) Accept(ctx context.Context, taskID, resourceID string) (*api.Task, error) {
	body := map[string]string{"task_id": taskID}
	if resourceID != "" {
		body["resource_id"] = resourceID
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/tasks/accept", body, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// StartTaskInput is the payload for TaskManager.Start; zero values are
// omitted.
type StartTaskInput struct {
	ContainerID   string         `json:"container_id,omitempty"`
	ResourceUsage map[string]int `json:"resource_usage,omitempty"`
}

// Start reports that execution of an accepted task has begun.
func (m *TaskManager) Start(ctx context.Context, taskID string, input StartTaskInput) (*api.Task, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/tasks/"+taskID+"/start", input, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ProgressInput is the payload for TaskManager.UpdateProgress. Status
// defaults to "running".
type ProgressInput struct {
	Progress int                `json:"progress"`
	Status   string             `json:"status"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// UpdateProgress reports execution progress. The server may observe progress
// updates out of order relative to a racing Start call; it serializes by task
// ID.
func (m *TaskManager) UpdateProgress(ctx context.Context, taskID string, input ProgressInput) (*api.Task, error) {
	if input.Status == "" {
		input.Status = "running"
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodPatch, m.agent.basePath()+"/tasks/"+taskID+"/progress", input, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTaskInput relays the execution outcome produced outside the SDK.
type CompleteTaskInput struct {
	ResultHash           string             `json:"result_hash"`
	ResultStorageURL     string             `json:"result_storage_url"`
	ExecutionTimeSeconds int                `json:"execution_time_seconds"`
	ResourceUsage        map[string]float64 `json:"resource_usage"`
}

// Complete reports successful task completion.
func (m *TaskManager) Complete(ctx context.Context, taskID string, input CompleteTaskInput) (*api.Task, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/tasks/"+taskID+"/complete", input, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// FailTaskInput is the payload for TaskManager.Fail.
type FailTaskInput struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Logs         string `json:"logs,omitempty"`
}

// Fail reports a task execution failure.
func (m *TaskManager) Fail(ctx context.Context, taskID string, input FailTaskInput) (*api.Task, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/tasks/"+taskID+"/fail", input, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}
