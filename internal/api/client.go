// Package api implements the HTTP client for the vessel message service.
//
// The service owns contacts and message history; this client fetches and
// normalizes them into domain types. Every call takes the operator
// identity explicitly so nothing in the subsystem depends on ambient
// session state.
package api

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

	"github.com/vesselworks/crewcomm/internal/models"
)

// Header names carrying the operator identity to the service.
const (
	HeaderOperatorID     = "X-Operator-Id"
	HeaderOperatorCrewID = "X-Operator-Crew-Id"
)

// ErrUnavailable indicates the message service could not be reached.
var ErrUnavailable = errors.New("message service unavailable")

// StatusError is a non-2xx response from the message service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("message service returned %d", e.Code)
	}
	return fmt.Sprintf("message service returned %d: %s", e.Code, e.Message)
}

// Client talks to the message service on behalf of one operator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	operator   models.Operator
}

// New creates a client for the service at baseURL acting as operator.
func New(baseURL string, operator models.Operator, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		operator:   operator,
	}
}

// Operator returns the identity this client acts as.
func (c *Client) Operator() models.Operator {
	return c.operator
}

// do is the single, unified helper for making service requests. A nil
// payload sends no body.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderOperatorID, c.operator.ID)
	if c.operator.CrewID != "" {
		req.Header.Set(HeaderOperatorCrewID, c.operator.CrewID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// decode reads a 2xx JSON response into out, or converts the response
// into a StatusError. The body is always drained and closed.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
