// Package httpclient is the HTTP client used for inter-service calls.
// Every request goes through the circuit breaker registered for the
// target service; transport errors, timeouts and 5xx responses count as
// breaker failures, 4xx responses are delivered to the caller as normal
// results.
package httpclient

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

	"github.com/HusseinMoukalled/meetingroom/pkg/breaker"
)

// ErrUnavailable is returned when the target service cannot be reached,
// either because the breaker is open or because the call itself failed.
var ErrUnavailable = errors.New("service unavailable")

// StatusError marks a 5xx response from the downstream service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downstream returned status %d", e.StatusCode)
}

// IsFailure classifies errors for circuit breaker bookkeeping. Caller
// cancellation is not the downstream's fault and must not trip the breaker.
func IsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Client calls one named downstream service.
type Client struct {
	serviceName string
	baseURL     string
	http        *http.Client
	breakers    *breaker.Registry
}

// New creates a client for the given service.
func New(serviceName, baseURL string, timeout time.Duration, breakers *breaker.Registry) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		serviceName: serviceName,
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		breakers:    breakers,
	}
}

// ServiceName returns the downstream service name this client targets.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Result is a decoded inter-service response.
type Result struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into out.
func (r *Result) Decode(out interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, out)
}

// Get performs a GET request against the service.
func (c *Client) Get(ctx context.Context, path string) (*Result, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// GetWithAuth performs a GET request forwarding the caller's
// Authorization header to the downstream service.
func (c *Client) GetWithAuth(ctx context.Context, path, authorization string) (*Result, error) {
	return c.do(ctx, http.MethodGet, path, nil, authorization)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Result, error) {
	return c.do(ctx, http.MethodPost, path, body, "")
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Result, error) {
	return c.do(ctx, http.MethodPut, path, body, "")
}

// Delete performs a DELETE request against the service.
func (c *Client) Delete(ctx context.Context, path string) (*Result, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authorization string) (*Result, error) {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	res, err := c.breakers.Execute(c.serviceName, func() (any, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}

		return &Result{StatusCode: resp.StatusCode, Body: data}, nil
	})
	if err != nil {
		if breaker.IsOpen(err) {
			return nil, fmt.Errorf("%w: circuit open for %s", ErrUnavailable, c.serviceName)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, c.serviceName, err)
	}

	return res.(*Result), nil
}
