package provider

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robocompute/robocompute-go/api"
)

// ResourceManager groups resource-registration calls.
type ResourceManager struct {
	agent *Agent
}

// CreateResourceInput is the payload for ResourceManager.Create.
type CreateResourceInput struct {
	Type           string            `json:"resource_type"`
	Specifications map[string]any    `json:"specifications"`
	Pricing        map[string]string `json:"pricing"`
	Availability   *api.Availability `json:"availability,omitempty"`
}

// Create registers a compute resource.
func (m *ResourceManager) Create(ctx context.Context, input CreateResourceInput) (*api.Resource, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodPost, m.agent.basePath()+"/resources", input, nil)
	if err != nil {
		return nil, err
	}

	var resource api.Resource
	if err := resp.JSON(&resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// Get fetches one resource.
func (m *ResourceManager) Get(ctx context.Context, resourceID string) (*api.Resource, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/resources/"+resourceID, nil, nil)
	if err != nil {
		return nil, err
	}

	var resource api.Resource
	if err := resp.JSON(&resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// ResourceList is a page of resources.
type ResourceList struct {
	Resources []api.Resource `json:"resources"`
	Total     int            `json:"total,omitempty"`
}

// List fetches the provider's resources, optionally filtered by type and
// status.
func (m *ResourceManager) List(ctx context.Context, resourceType, status string) (*ResourceList, error) {
	query := url.Values{}
	if resourceType != "" {
		query.Set("type", resourceType)
	}
	if status != "" {
		query.Set("status", status)
	}

	resp, err := m.agent.transport.Do(ctx, http.MethodGet, m.agent.basePath()+"/resources", nil, query)
	if err != nil {
		return nil, err
	}

	var list ResourceList
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateResourceInput carries the mutable resource fields; nil/empty values
// are omitted.
type UpdateResourceInput struct {
	Pricing      map[string]string `json:"pricing,omitempty"`
	Availability *api.Availability `json:"availability,omitempty"`
	Status       string            `json:"status,omitempty"`
}

// Update patches a resource.
func (m *ResourceManager) Update(ctx context.Context, resourceID string, input UpdateResourceInput) (*api.Resource, error) {
	resp, err := m.agent.transport.Do(ctx, http.MethodPatch, m.agent.basePath()+"/resources/"+resourceID, input, nil)
	if err != nil {
		return nil, err
	}

	var resource api.Resource
	if err := resp.JSON(&resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// Delete unregisters a resource.
func (m *ResourceManager) Delete(ctx context.Context, resourceID string) error {
	_, err := m.agent.transport.Do(ctx, http.MethodDelete, m.agent.basePath()+"/resources/"+resourceID, nil, nil)
	return err
}
