package razorpay

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

	"getmeachai/internal/infra"
)

const defaultBaseURL = "https://api.razorpay.com"

// ErrMissingCredentials indicates the client was configured without a key pair.
var ErrMissingCredentials = errors.New("razorpay: key id and secret are required")

// Options configures the Razorpay orders client.
type Options struct {
	KeyID          string
	KeySecret      string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Razorpay orders API on behalf of one
// credential pair. Creators bring their own keys, so clients are cheap to
// construct per request.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// OrderRequest captures the inputs for minting a payment order.
type OrderRequest struct {
	Amount   int64 // minor currency units
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the gateway-issued handle for an in-flight payment intent. It is
// never persisted locally.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if opts.KeyID == "" || opts.KeySecret == "" {
		return nil, ErrMissingCredentials
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		keyID:      opts.KeyID,
		keySecret:  opts.KeySecret,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// CreateOrder mints a payment order with the gateway and returns it verbatim.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("razorpay: amount must be positive, got %d", req.Amount)
	}
	payload := orderPayload{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("razorpay: encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("razorpay: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("razorpay: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(raw, &apiErr)
		if c.logger != nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("code", apiErr.Error.Code).
				Msg("razorpay order creation failed")
		}
		if apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: order creation failed: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay: order creation failed with status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("razorpay: decode order: %w", err)
	}
	if order.ID == "" {
		return nil, errors.New("razorpay: response missing order id")
	}
	return &order, nil
}
