package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"statebot/app/config"

	"github.com/samber/do"
)

const requestTimeout = 60 * time.Second

// Client queries the downstream business-rule service with a resolved
// jurisdiction.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

func (c *Client) Lookup(ctx context.Context, params map[string]any) (map[string]any, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lookup params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Lookup.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("Lookup completed",
		"status", resp.StatusCode,
		"params", params)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup failed with status %d", resp.StatusCode)
	}

	var result map[string]any
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	return result, nil
}
