package snapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

const (
	defaultBaseURL        = "https://corporate.snapp.site"
	ridePricePath         = "/api/v3/ride/price"
	responseBodyReadLimit = 1024
)

// Delivery service types requested from the corporate pricing API.
var defaultServiceTypes = []int{5, 6}

var errTokenRequired = errors.New("snapp token is required")

// Client wraps the Snapp corporate ride pricing API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured pricing base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the pricing client given an access token.
func NewClient(token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, errTokenRequired
	}

	client := &Client{
		token:      trimmed,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// PriceQuote is one candidate delivery price returned by the API.
type PriceQuote struct {
	Final     int    `json:"final"`
	Type      string `json:"type"`
	IsEnabled bool   `json:"is_enabled"`
}

// RidePrice fetches candidate quotes for a trip between two points, in
// response order.
func (c *Client) RidePrice(ctx context.Context, from, to types.Point) ([]PriceQuote, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "snapp client not configured")
	}

	payload := map[string]any{
		"points":        []types.Point{from, to},
		"service_types": defaultServiceTypes,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal price request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ridePricePath, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build price request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute price request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "price request failed")
	}

	// The corporate API nests the payload two levels deep.
	var apiResp struct {
		Data struct {
			Data struct {
				Prices []PriceQuote `json:"prices"`
			} `json:"data"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode price response")
	}

	return apiResp.Data.Data.Prices, nil
}
