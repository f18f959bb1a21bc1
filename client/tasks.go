package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/robocompute/robocompute-go/api"
)

// TaskManager groups task submission and monitoring calls.
type TaskManager struct {
	client *Client
}

// CreateTaskInput is the payload for TaskManager.Create.
type CreateTaskInput struct {
	Name            string                   `json:"name"`
	Type            string                   `json:"type"`
	Requirements    api.ResourceRequirements `json:"resource_requirements"`
	DockerImage     string                   `json:"docker_image"`
	Command         []string                 `json:"command"`
	MaxPricePerHour string                   `json:"max_price_per_hour"`
	TimeoutSeconds  int                      `json:"timeout_seconds"`
	Priority        string                   `json:"priority"`
}

// Create submits a new task. TimeoutSeconds defaults to 3600 and Priority to
// "normal" when unset.
func (m *TaskManager) Create(ctx context.Context, input CreateTaskInput) (*api.Task, error) {
	if input.TimeoutSeconds == 0 {
		input.TimeoutSeconds = 3600
	}
	if input.Priority == "" {
		input.Priority = "normal"
	}

	resp, err := m.client.transport.Do(ctx, http.MethodPost, "/tasks", input, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Get fetches a task by ID.
func (m *TaskManager) Get(ctx context.Context, taskID string) (*api.Task, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/tasks/"+taskID, nil, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasksOptions filters TaskManager.List. Limit defaults to 50.
type ListTasksOptions struct {
	Status string
	Limit  int
	Offset int
}

// TaskList is a page of tasks.
type TaskList struct {
	Tasks []api.Task `json:"tasks"`
	Total int        `json:"total"`
}

// List pages through the caller's tasks.
func (m *TaskManager) List(ctx context.Context, opts ListTasksOptions) (*TaskList, error) {
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(opts.Limit))
	query.Set("offset", strconv.Itoa(opts.Offset))
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/tasks", nil, query)
	if err != nil {
		return nil, err
	}

	var list TaskList
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateTaskInput carries the mutable task fields; zero values are omitted
// from the request.
type UpdateTaskInput struct {
	MaxPricePerHour string `json:"max_price_per_hour,omitempty"`
	Priority        string `json:"priority,omitempty"`
	TimeoutSeconds  int    `json:"timeout_seconds,omitempty"`
}

// Update patches a task.
func (m *TaskManager) Update(ctx context.Context, taskID string, input UpdateTaskInput) (*api.Task, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodPatch, "/tasks/"+taskID, input, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Cancel cancels a task.
func (m *TaskManager) Cancel(ctx context.Context, taskID string) (*api.Task, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
	if err != nil {
		return nil, err
	}

	var task api.Task
	if err := resp.JSON(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskLogs is a slice of a task's log output.
type TaskLogs struct {
	TaskID string   `json:"task_id"`
	Lines  []string `json:"lines"`
}

// Logs fetches up to lines recent log lines (default 100). follow asks the
// server to include lines still being produced.
func (m *TaskManager) Logs(ctx context.Context, taskID string, lines int, follow bool) (*TaskLogs, error) {
	if lines == 0 {
		lines = 100
	}

	query := url.Values{}
	query.Set("lines", strconv.Itoa(lines))
	query.Set("follow", strconv.FormatBool(follow))

	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/tasks/"+taskID+"/logs", nil, query)
	if err != nil {
		return nil, err
	}

	var logs TaskLogs
	if err := resp.JSON(&logs); err != nil {
		return nil, err
	}
	return &logs, nil
}

// Metrics fetches a task's runtime metrics as server-supplied key/values.
func (m *TaskManager) Metrics(ctx context.Context, taskID string) (map[string]any, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/tasks/"+taskID+"/metrics", nil, nil)
	if err != nil {
		return nil, err
	}

	var metrics map[string]any
	if err := resp.JSON(&metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// TaskResults describes where a completed task's output lives.
type TaskResults struct {
	TaskID               string         `json:"task_id"`
	ResultHash           string         `json:"result_hash,omitempty"`
	ResultStorageURL     string         `json:"result_storage_url,omitempty"`
	ExecutionTimeSeconds int            `json:"execution_time_seconds,omitempty"`
	ResourceUsage        map[string]any `json:"resource_usage,omitempty"`
}

// Results fetches a task's execution results.
func (m *TaskManager) Results(ctx context.Context, taskID string) (*TaskResults, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/tasks/"+taskID+"/results", nil, nil)
	if err != nil {
		return nil, err
	}

	var results TaskResults
	if err := resp.JSON(&results); err != nil {
		return nil, err
	}
	return &results, nil
}
