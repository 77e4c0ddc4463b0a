package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oxbel/ltcpay/internal/config"
)

// AddressState summarizes an address as seen by the explorer. Amounts
// are in litoshis.
type AddressState struct {
	Balance         int64 `json:"balance"`
	ReceivedAmount  int64 `json:"received_amount"`
	PendingAmount   int64 `json:"pending_received_amount"`
	TransactionsNum int   `json:"transactions_count"`
}

// AddressTx is one transaction touching an address (brief listing).
type AddressTx struct {
	TxID          string `json:"txId"`
	Amount        int64  `json:"amount"`
	Confirmations int    `json:"confirmations"`
	Timestamp     int64  `json:"timestamp"`
}

// TxStatus reports the confirmation state of a single transaction.
type TxStatus struct {
	TxID          string `json:"txId"`
	Amount        int64  `json:"amount"`
	Confirmations int    `json:"confirmations"`
}

// Client talks to a BitAPS-compatible Litecoin explorer API. Every call
// passes the shared rate limiter and circuit breaker; 429 and 5xx
// responses surface as transient errors for WithRetry.
type Client struct {
	http    *http.Client
	rl      *RateLimiter
	cb      *CircuitBreaker
	baseURL string
}

// NewClient creates an explorer client for the given base URL
// (e.g. "https://api.bitaps.com/ltc/v1").
func NewClient(httpClient *http.Client, baseURL string, rps int) *Client {
	slog.Info("explorer client created",
		"baseURL", baseURL,
		"rps", rps,
	)
	return &Client{
		http:    httpClient,
		rl:      NewRateLimiter("explorer", rps),
		cb:      NewCircuitBreaker(config.CircuitBreakerThreshold, config.CircuitBreakerCooldown),
		baseURL: baseURL,
	}
}

// CircuitState exposes the breaker state for health reporting.
func (c *Client) CircuitState() string {
	return c.cb.State()
}

// AddressState fetches the current balance summary for an address.
func (c *Client) AddressState(ctx context.Context, address string) (*AddressState, error) {
	var out struct {
		Data AddressState `json:"data"`
	}
	if err := c.get(ctx, "/address/state/"+address, nil, &out); err != nil {
		return nil, fmt.Errorf("address state for %s: %w", address, err)
	}
	return &out.Data, nil
}

// AddressTransactions lists recent transactions for an address, newest first.
func (c *Client) AddressTransactions(ctx context.Context, address string, limit int) ([]AddressTx, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("mode", "brief")

	var out struct {
		Data struct {
			List []AddressTx `json:"list"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/address/transactions/"+address, params, &out); err != nil {
		return nil, fmt.Errorf("address transactions for %s: %w", address, err)
	}
	return out.Data.List, nil
}

// Transaction fetches the confirmation state of a transaction.
func (c *Client) Transaction(ctx context.Context, txid string) (*TxStatus, error) {
	var out struct {
		Data TxStatus `json:"data"`
	}
	if err := c.get(ctx, "/transaction/"+txid, nil, &out); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", txid, err)
	}
	if out.Data.TxID == "" {
		out.Data.TxID = txid
	}
	return &out.Data, nil
}

// get performs a rate-limited, circuit-protected GET and decodes the
// JSON body into v.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v interface{}) error {
	if !c.cb.Allow() {
		return config.ErrCircuitOpen
	}

	if err := c.rl.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	slog.Debug("explorer request", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.cb.RecordFailure()
		return config.NewTransientError(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode

	case resp.StatusCode == http.StatusTooManyRequests:
		c.cb.RecordFailure()
		retryAfter := parseRetryAfter(resp.Header)
		slog.Warn("explorer rate limited",
			"endpoint", endpoint,
			"retryAfter", retryAfter,
		)
		return config.NewTransientErrorWithRetry(config.ErrProviderRateLimit, retryAfter)

	case resp.StatusCode >= 500:
		c.cb.RecordFailure()
		slog.Warn("explorer server error",
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return config.NewTransientError(fmt.Errorf("%w: status %d", config.ErrProviderUnavailable, resp.StatusCode))

	default:
		// 4xx other than 429 is a permanent error for this request.
		c.cb.RecordFailure()
		return fmt.Errorf("%w: status %d", config.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		c.cb.RecordFailure()
		return fmt.Errorf("decode response: %w", err)
	}

	c.cb.RecordSuccess()
	return nil
}
