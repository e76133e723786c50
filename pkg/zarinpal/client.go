package zarinpal

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
)

const (
	defaultBaseURL             = "https://sandbox.zarinpal.com"
	requestPath                = "/pg/rest/WebGate/PaymentRequest.json"
	verifyPath                 = "/pg/rest/WebGate/PaymentVerification.json"
	startPayPath               = "/pg/StartPay/"
	responseBodyReadLimit      = 1024
	statusOK              int  = 100
)

// CallbackStatusOK is the sentinel Zarinpal appends to the redirect when the
// customer completed the payment page.
const CallbackStatusOK = "OK"

var errMerchantIDRequired = errors.New("zarinpal merchant id is required")

// Client wraps the Zarinpal WebGate REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	merchantID string
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

// WithBaseURL overrides the configured gateway base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the gateway client for the provided merchant.
func NewClient(merchantID string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(merchantID)
	if trimmed == "" {
		return nil, errMerchantIDRequired
	}

	client := &Client{
		merchantID: trimmed,
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

// PaymentRequest describes one request for a redirect authority.
type PaymentRequest struct {
	Amount      int
	CallbackURL string
	Description string
}

// VerificationResult is the gateway's answer to a verification call.
type VerificationResult struct {
	Status int
	RefID  int64
}

// Verified reports whether the gateway confirmed the captured payment.
func (v VerificationResult) Verified() bool {
	return v.Status == statusOK
}

// RequestPayment asks the gateway for an authority token. The token is only
// useful to a customer redirected through StartPayURL.
func (c *Client) RequestPayment(ctx context.Context, req PaymentRequest) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "zarinpal client not configured")
	}
	if req.Amount <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if strings.TrimSpace(req.CallbackURL) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "callback url is required")
	}

	payload := map[string]any{
		"MerchantID":  c.merchantID,
		"Amount":      req.Amount,
		"CallbackURL": req.CallbackURL,
		"Description": req.Description,
	}

	var resp struct {
		Status    int    `json:"Status"`
		Authority string `json:"Authority"`
	}
	if err := c.post(ctx, requestPath, payload, &resp); err != nil {
		return "", err
	}

	if resp.Status != statusOK || strings.TrimSpace(resp.Authority) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("gateway rejected payment request with status %d", resp.Status))
	}
	return resp.Authority, nil
}

// VerifyPayment checks a completed payment attempt against the gateway. A
// declined verification is not an error; callers inspect Verified().
func (c *Client) VerifyPayment(ctx context.Context, authority string, amount int) (VerificationResult, error) {
	if c == nil {
		return VerificationResult{}, pkgerrors.New(pkgerrors.CodeDependency, "zarinpal client not configured")
	}
	if strings.TrimSpace(authority) == "" {
		return VerificationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "authority is required")
	}

	payload := map[string]any{
		"MerchantID": c.merchantID,
		"Authority":  authority,
		"Amount":     amount,
	}

	var resp struct {
		Status int   `json:"Status"`
		RefID  int64 `json:"RefID"`
	}
	if err := c.post(ctx, verifyPath, payload, &resp); err != nil {
		return VerificationResult{}, err
	}

	return VerificationResult{Status: resp.Status, RefID: resp.RefID}, nil
}

// StartPayURL is the redirect target for an issued authority.
func (c *Client) StartPayURL(authority string) string {
	return c.baseURL + startPayPath + authority
}

func (c *Client) post(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal gateway request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute gateway request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "gateway request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway response")
	}
	return nil
}
