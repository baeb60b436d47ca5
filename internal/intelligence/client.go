package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/portiq/assist-go/internal/config"
)

// Fetcher retrieves the combined bundle for a parameter tuple.
type Fetcher interface {
	FetchCombined(ctx context.Context, p Params) (*Combined, error)
}

// Client fetches combined intelligence from the procurement platform.
type Client struct {
	cfg    config.BackendConfig
	client *http.Client
}

// NewClient creates a Client from backend config.
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// FetchCombined issues one GET against the combined-intelligence endpoint.
func (c *Client) FetchCombined(ctx context.Context, p Params) (*Combined, error) {
	q := url.Values{}
	q.Set("delivery_port", p.DeliveryPort)
	if len(p.IMPACodes) > 0 {
		q.Set("impa_codes", strings.Join(p.IMPACodes, ","))
	}
	if p.VesselID != "" {
		q.Set("vessel_id", p.VesselID)
	}
	if p.DeliveryDate != "" {
		q.Set("delivery_date", p.DeliveryDate)
	}
	if p.BiddingDeadline != "" {
		q.Set("bidding_deadline", p.BiddingDeadline)
	}

	endpoint := c.cfg.BaseURL + "/api/v1/intelligence/combined?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var combined Combined
	if err := json.NewDecoder(resp.Body).Decode(&combined); err != nil {
		return nil, err
	}
	return &combined, nil
}
