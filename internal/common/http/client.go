// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"qld-approval-checker/internal/common/logger"
	"qld-approval-checker/internal/common/metrics"
)

// RequestIDHeader carries a per-request uuid to the backend.
const RequestIDHeader = "X-Request-ID"

// Client sends JSON requests to the approval backend.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient returns a Client. A zero timeout leaves the transport default.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// NewClientWith wraps an existing *http.Client, e.g. an httptest server client.
func NewClientWith(hc *http.Client, log logger.Logger) *Client {
	c := NewClient(0, log)
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// PostJSON marshals body and POSTs it to url. endpoint labels metrics and
// logs. Any status is returned as-is; the caller closes resp.Body.
func (c *Client) PostJSON(ctx context.Context, endpoint, url string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log := c.logger.With(map[string]interface{}{
		"endpoint":  endpoint,
		"requestId": requestID,
	})
	log.Debug("sending request", map[string]interface{}{"url": url, "bytes": len(payload)})

	inFlight := metrics.BackendRequestsInFlight.WithLabelValues(endpoint)
	inFlight.Inc()
	defer inFlight.Dec()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		log.Warn("request failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}

	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug("received response", map[string]interface{}{
		"status":      resp.StatusCode,
		"contentType": resp.Header.Get("Content-Type"),
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return resp, nil
}

// StatusError reports a non-success response. Error returns Message alone so
// it can be shown to users unchanged.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// ExpectOK returns a *StatusError unless resp is 200. On failure the body is
// drained and closed.
func ExpectOK(resp *http.Response, endpoint, message string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
	return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: message}
}
