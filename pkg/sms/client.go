package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

const (
	defaultBaseURL        = "https://api.kavenegar.com"
	responseBodyReadLimit = 1024
)

var errAPIKeyRequired = errors.New("sms api key is required")

// Client wraps the Kavenegar SMS REST API for OTP delivery.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sender     string
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

// WithBaseURL overrides the configured SMS base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the SMS client given an API key and optional sender line.
func NewClient(apiKey, sender string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		sender:     strings.TrimSpace(sender),
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

// Send delivers a text message to the receptor phone number.
func (c *Client) Send(ctx context.Context, receptor, message string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "sms client not configured")
	}
	if strings.TrimSpace(receptor) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receptor is required")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	form := url.Values{}
	form.Set("receptor", receptor)
	form.Set("message", message)
	if c.sender != "" {
		form.Set("sender", c.sender)
	}

	endpoint := fmt.Sprintf("%s/v1/%s/sms/send.json", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sms request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sms request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "sms request failed")
	}

	var apiResp struct {
		Return struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"return"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sms response")
	}
	if apiResp.Return.Status != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sms provider rejected message with status %d", apiResp.Return.Status))
	}
	return nil
}
