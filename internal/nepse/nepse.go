// Package nepse provides a client for the unofficial NEPSE market-data API.
// It only covers the PriceVolume endpoint, which is enough to keep a
// last-traded-price cache warm; anything fancier is out of scope here.
package nepse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client provides methods for fetching NEPSE market data.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a NEPSE API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchPriceVolume fetches the latest price/volume snapshot for every listed
// security in a single request.
//
// Returns an error if the HTTP request fails, the API responds with a
// non-200 status, or the body is not valid JSON.
func (c *Client) FetchPriceVolume(ctx context.Context) ([]PriceVolume, error) {
	url := c.baseURL + "/PriceVolume"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price volume request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price volume request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read price volume response: %w", err)
	}

	var rows []PriceVolume
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse price volume response: %w", err)
	}

	return rows, nil
}
