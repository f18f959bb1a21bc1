package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/robocompute/robocompute-go/api"
)

// ProviderManager groups provider search calls.
type ProviderManager struct {
	client *Client
}

// SearchProvidersOptions filters ProviderManager.Search; zero values are
// omitted.
type SearchProvidersOptions struct {
	GPUMemoryMin int
	CPUCoresMin  int
	MaxPrice     string
	Location     string
}

// ProviderList is a provider search result.
type ProviderList struct {
	Providers []api.Provider `json:"providers"`
	Total     int            `json:"total,omitempty"`
}

// Search finds providers matching the given constraints.
func (m *ProviderManager) Search(ctx context.Context, opts SearchProvidersOptions) (*ProviderList, error) {
	query := url.Values{}
	if opts.GPUMemoryMin > 0 {
		query.Set("gpu_memory_min", strconv.Itoa(opts.GPUMemoryMin))
	}
	if opts.CPUCoresMin > 0 {
		query.Set("cpu_cores_min", strconv.Itoa(opts.CPUCoresMin))
	}
	if opts.MaxPrice != "" {
		query.Set("max_price", opts.MaxPrice)
	}
	if opts.Location != "" {
		query.Set("location", opts.Location)
	}

	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/providers/search", nil, query)
	if err != nil {
		return nil, err
	}

	var list ProviderList
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get fetches one provider.
func (m *ProviderManager) Get(ctx context.Context, providerID string) (*api.Provider, error) {
	resp, err := m.client.transport.Do(ctx, http.MethodGet, "/providers/"+providerID, nil, nil)
	if err != nil {
		return nil, err
	}

	var provider api.Provider
	if err := resp.JSON(&provider); err != nil {
		return nil, err
	}
	return &provider, nil
}
