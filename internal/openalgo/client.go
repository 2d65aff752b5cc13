package openalgo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"algogrid/internal/grid"
	"algogrid/logger"
)

// ErrorKind classifies request failures.
type ErrorKind int

const (
	// ErrorTransport covers connection failures, DNS errors and timeouts.
	ErrorTransport ErrorKind = iota
	// ErrorHTTP covers non-2xx responses; StatusCode carries the code.
	ErrorHTTP
	// ErrorDecode covers malformed or non-JSON response bodies.
	ErrorDecode
)

// APIError is the uniform error value for a failed API call. Its message is
// human-readable and goes straight into an error grid.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

const DefaultTimeout = 30 * time.Second

// Client issues the synchronous JSON POST requests against the trading API.
// Each call is a single round trip bounded by the configured timeout; there
// is no retry.
type Client struct {
	http  *http.Client
	debug *DebugLog
	log   *logger.Entry
}

func NewClient(timeout time.Duration, debug *DebugLog) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if debug == nil {
		debug = NewDebugLog()
	}
	return &Client{
		http:  &http.Client{Timeout: timeout},
		debug: debug,
		log:   logger.GetLogger().WithComponent("openalgo_client"),
	}
}

// Debug exposes the diagnostic log shared with this client.
func (c *Client) Debug() *DebugLog {
	return c.debug
}

// Post serializes the payload as JSON, issues a POST to the endpoint and
// decodes the JSON response body. Every failure is mapped into an *APIError;
// callers never see a raw transport error.
func (c *Client) Post(ctx context.Context, endpoint string, payload map[string]any) (any, *APIError) {
	rec := c.debug.RecordRequest(endpoint, payload)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, c.fail(rec, 0, &APIError{
			Kind:    ErrorDecode,
			Message: fmt.Sprintf("JSON Decode Error: %s", err),
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(rec, 0, &APIError{
			Kind:    ErrorTransport,
			Message: fmt.Sprintf("URL Error: %s", err),
		})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.WithFields(logger.Fields{
		"request_id": rec.ID,
		"seq":        rec.Seq,
		"endpoint":   endpoint,
	}).Debug("issuing API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(rec, 0, &APIError{
			Kind:    ErrorTransport,
			Message: fmt.Sprintf("URL Error: %s", transportReason(err)),
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(rec, resp.StatusCode, &APIError{
			Kind:       ErrorTransport,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("URL Error: %s", transportReason(err)),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(rec, resp.StatusCode, &APIError{
			Kind:       ErrorHTTP,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		})
	}

	decoded, err := grid.DecodeJSON(raw)
	if err != nil {
		return nil, c.fail(rec, resp.StatusCode, &APIError{
			Kind:       ErrorDecode,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("JSON Decode Error: %s", err),
		})
	}

	c.debug.RecordResponse(rec.ID, rec.Seq, resp.StatusCode, "", decoded)
	c.log.WithFields(logger.Fields{
		"request_id": rec.ID,
		"seq":        rec.Seq,
		"status":     resp.StatusCode,
	}).Debug("API request completed")

	return decoded, nil
}

func (c *Client) fail(rec RequestRecord, statusCode int, apiErr *APIError) *APIError {
	c.debug.RecordResponse(rec.ID, rec.Seq, statusCode, apiErr.Message, nil)
	c.log.WithFields(logger.Fields{
		"request_id": rec.ID,
		"seq":        rec.Seq,
		"status":     statusCode,
	}).WithError(apiErr).Warn("API request failed")
	return apiErr
}

// transportReason strips the method/URL noise Go wraps around transport
// failures so the message matches the surfaced taxonomy.
func transportReason(err error) string {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
