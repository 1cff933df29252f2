// Package feed polls the C2 API for entity state and routes decoded
// batches through the dispatcher into the world store.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sentinelc2/client/pkg/core"
)

// EntityRecord is one entity row as the C2 API serves it. Optional
// fields are pointers so absent values keep the world's defaults.
type EntityRecord struct {
	ID         uint64         `json:"id"`
	Kind       string         `json:"kind,omitempty"`
	Lat        *float64       `json:"lat,omitempty"`
	Lon        *float64       `json:"lon,omitempty"`
	AltitudeM  *float64       `json:"altitudeM,omitempty"`
	HeadingDeg *float64       `json:"headingDeg,omitempty"`
	Velocity   *core.Velocity `json:"velocity,omitempty"`
	Removed    bool           `json:"removed,omitempty"`
}

// Client handles communication with the C2 API.
type Client struct {
	baseURL    string
	apiKey     string
	tenant     string
	httpClient *http.Client
}

// New creates a new API client scoped to one tenant.
func New(baseURL, apiKey, tenant string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		tenant:     tenant,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the C2 API is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthcheck")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// FetchEntities retrieves one tenant-scoped resource list, for example
// "assets" or "flights".
func (c *Client) FetchEntities(ctx context.Context, resource string) ([]EntityRecord, error) {
	url := fmt.Sprintf("%s/api/v1/%s/%s", c.baseURL, c.tenant, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", resource, resp.StatusCode)
	}

	var records []EntityRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return records, nil
}
