// Package web defines common components for talking to a web API.
package web

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tebucks/tebucks-cli/pkg/errorspkg"
)

// JSONError is the error envelope the ledger service responds with.
type JSONError struct {
	Error string `json:"error"`
}

// APIError is a non-2xx response from the ledger service, preserving
// the original cause for display.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// TokenSource supplies the bearer credential attached to every
// authenticated request. It fails when there is no active session, in
// which case no request is made.
type TokenSource interface {
	Token() (string, error)
}

// Client is the outbound HTTP client for the ledger API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient returns a Client rooted at baseURL. A nil TokenSource makes
// an unauthenticated client, used only for registration and login.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	l := zerolog.Ctx(ctx)

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			l.Error().Err(err).Send()
			return errorspkg.ErrInternal
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		l.Warn().
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Err(err).
			Msg("request failed")

		return fmt.Errorf("%w: %v", errorspkg.ErrUnreachable, err)
	}
	defer res.Body.Close()

	l.Info().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status_code", res.StatusCode).
		Str("latency", time.Since(start).String()).
		Send()

	if res.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: res.StatusCode, RequestID: requestID}

		var envelope JSONError
		if err := json.NewDecoder(res.Body).Decode(&envelope); err == nil {
			apiErr.Message = envelope.Error
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		l.Error().Str("request_id", requestID).Err(err).Msg("cannot decode response")
		return errorspkg.ErrInternal
	}

	return nil
}
