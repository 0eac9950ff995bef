// Package ledger fetches transaction snapshots from the remote snapshot
// service.
//
// The service hands out a short-lived presigned URL; the actual payload is
// fetched from that URL in a second step. Both steps share the same bounded
// retry policy. A response that parses badly after a 200 is terminal and is
// never retried.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/svtemple/ledgerdesk/internal/common"
	"github.com/svtemple/ledgerdesk/internal/model"
)

// transactionsPath is the fixed application path that issues presigned URLs.
const transactionsPath = "/transactions/transactions"

// Config holds the client settings.
type Config struct {
	BaseURL       string
	SessionCookie string
	Timeout       time.Duration
	Retry         common.RetryOptions
}

// DefaultRetryOptions matches the service's observed behavior: one initial
// attempt plus three retries, starting at two seconds and doubling.
func DefaultRetryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  4,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Client fetches snapshots from the transaction service.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	sessionCookie string
	retry         common.RetryOptions
}

// New creates a snapshot client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url is required", common.ErrMissingConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryOptions()
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		sessionCookie: cfg.SessionCookie,
		retry:         cfg.Retry,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// indexResponse is the first-step response carrying the presigned URL.
type indexResponse struct {
	PresignedURL string `json:"presignedUrl"`
}

// payloadResponse is the snapshot payload behind the presigned URL. The
// transactions field is keyed by an opaque identifier; only the values are
// used.
type payloadResponse struct {
	Transactions map[string]model.Transaction `json:"transactions"`
	LastUpdated  string                       `json:"last_updated_michigan"`
}

// Fetch retrieves the full transaction snapshot. The returned list is
// sorted by booked date descending.
func (c *Client) Fetch(ctx context.Context) (*model.Snapshot, error) {
	indexURL := fmt.Sprintf("%s%s?uri=%s", c.baseURL, transactionsPath, url.QueryEscape(transactionsPath))

	indexBody, err := c.getWithRetry(ctx, indexURL)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	var index indexResponse
	if err := json.Unmarshal(indexBody, &index); err != nil {
		return nil, common.NewUserError("Invalid transaction payload", fmt.Errorf("%w: %v", common.ErrInvalidPayload, err))
	}
	if index.PresignedURL == "" {
		return nil, common.NewUserError("No presigned URL received from server", common.ErrInvalidPayload)
	}

	payloadBody, err := c.getWithRetry(ctx, index.PresignedURL)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	var payload payloadResponse
	if err := json.Unmarshal(payloadBody, &payload); err != nil {
		return nil, common.NewUserError("Invalid transaction payload", fmt.Errorf("%w: %v", common.ErrInvalidPayload, err))
	}
	if payload.Transactions == nil {
		return nil, common.NewUserError("Invalid transaction payload", common.ErrInvalidPayload)
	}
	if len(payload.Transactions) == 0 {
		return nil, common.NewUserError("No transaction data received", common.ErrNoData)
	}

	txns := make([]model.Transaction, 0, len(payload.Transactions))
	for _, t := range payload.Transactions {
		txns = append(txns, t)
	}
	model.SortByBookedDateDesc(txns)

	slog.Debug("Fetched transaction snapshot",
		"count", len(txns),
		"last_updated", payload.LastUpdated)

	return &model.Snapshot{
		ID:           uuid.NewString(),
		FetchedAt:    time.Now(),
		LastUpdated:  payload.LastUpdated,
		Transactions: txns,
	}, nil
}

// statusError records a non-OK HTTP status so the caller can distinguish
// authorization failures after retries exhaust.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.status)
}

// getWithRetry performs a GET with credentials and the client's retry
// policy, returning the response body. Only transport errors and non-OK
// statuses are retried; once a body has been read successfully, no retry
// ever happens downstream of it.
func (c *Client) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	err := common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		if c.sessionCookie != "" {
			req.Header.Set("Cookie", c.sessionCookie)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return &statusError{status: resp.StatusCode}
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		body = b
		return nil
	}, c.retry)

	if err != nil {
		return nil, err
	}
	return body, nil
}

// classifyFetchError maps an exhausted retry chain onto the user-visible
// error taxonomy: session expiry reads differently from a generic failure.
func classifyFetchError(err error) error {
	var stErr *statusError
	if errors.As(err, &stErr) && stErr.status == http.StatusUnauthorized {
		return common.NewUserError("Unauthorized - login expired. Please log in again.",
			fmt.Errorf("%w: %w", common.ErrUnauthorized, err))
	}
	return common.NewUserError("An error occurred while fetching data",
		fmt.Errorf("%w: %w", common.ErrFetchFailed, err))
}
