package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Health is the reply of the server's JDBC health check.
type Health struct {
	ID     string         `json:"id"`
	Result string         `json:"result"`
	Data   map[string]any `json:"data,omitempty"`
}

// Up reports whether the check passed.
func (h Health) Up() bool { return strings.EqualFold(h.Result, "UP") }

// TableSize is the fruit count the check reported, -1 when absent.
func (h Health) TableSize() int {
	if v, ok := h.Data["table-size"].(float64); ok {
		return int(v)
	}
	return -1
}

// Health calls {api root}/checks/jdbc. A DOWN check usually comes back
// as 503 with the same body, so that body is decoded too.
func (c *Client) Health(ctx context.Context) (Health, error) {
	body, err := c.do(ctx, http.MethodGet, c.root("checks", "jdbc"), nil)
	if err != nil {
		var he *HTTPError
		if !errors.As(err, &he) || he.StatusCode != http.StatusServiceUnavailable {
			return Health{}, err
		}
		body = he.Body
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return Health{}, fmt.Errorf("api: decode health: %w", err)
	}
	return h, nil
}

// Datasource returns the server's plain-text datasource description
// served at the API root.
func (c *Client) Datasource(ctx context.Context) (string, error) {
	body, err := c.send(ctx, http.MethodGet, c.root(), nil, "text/plain")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
