package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError is the single error type for all terminal API failures: auth,
// rate-limit exhaustion, server errors after retries, and client errors.
// Callers branch on the status code.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kalshi api error %d: %s", e.StatusCode, e.Message)
	}
	return "kalshi api error: " + e.Message
}

// IsAuth reports an authentication failure (401, never retried).
func (e *APIError) IsAuth() bool { return e.StatusCode == http.StatusUnauthorized }

// IsRateLimit reports a rate-limit failure (429 retries exhausted).
func (e *APIError) IsRateLimit() bool { return e.StatusCode == http.StatusTooManyRequests }

// IsServer reports a server failure (5xx retries exhausted).
func (e *APIError) IsServer() bool { return e.StatusCode >= 500 }

// IsClient reports a non-retryable client failure (4xx other than 401/429).
func (e *APIError) IsClient() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && !e.IsAuth() && !e.IsRateLimit()
}

// errorBody is the nested error shape the API returns on 4xx.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

// parseErrorMessage extracts a message from an error response body,
// preferring the nested {"error": {"message", "details"}} shape and falling
// back to raw body text.
func parseErrorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		if eb.Error.Details != "" {
			return eb.Error.Message + ": " + eb.Error.Details
		}
		return eb.Error.Message
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return string(bytes.TrimSpace(body))
	}
	return http.StatusText(status)
}

// execute performs one logical API call: sign, send, classify, retry.
//
// Classification:
//   - 2xx: success (204 or empty body decodes to nothing)
//   - 401: terminal, no retry
//   - 429: sleep per Retry-After (seconds) when present, else exponential
//     backoff; up to maxRateLimitRetries retries
//   - 5xx and transport errors: exponential backoff, up to maxRetries retries
//   - other 4xx: terminal, message parsed from the error body
//
// Retries sleep in the calling goroutine; there is no overlap between
// attempts of the same call.
func (c *Client) execute(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	serverRetries := 0
	rateLimitRetries := 0
	backoff := c.retryBackoff

	for {
		status, respBody, retryAfter, err := c.attempt(ctx, method, path, fullURL, bodyBytes)
		if err != nil {
			// Transport failure: retry like a server error.
			serverRetries++
			if serverRetries > c.maxRetries {
				return fmt.Errorf("max retries exceeded: %w", err)
			}
			c.logger.Warn("request failed, retrying",
				"method", method,
				"path", path,
				"attempt", serverRetries,
				"backoff", backoff,
				"err", err,
			)
			if werr := c.wait(ctx, backoff); werr != nil {
				return werr
			}
			backoff *= 2
			continue
		}

		switch {
		case status >= 200 && status < 300:
			if result == nil || status == http.StatusNoContent || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("unmarshal response: %w", err)
			}
			return nil

		case status == http.StatusUnauthorized:
			return &APIError{
				StatusCode: status,
				Message:    "authentication failed, check API credentials",
				Body:       respBody,
			}

		case status == http.StatusTooManyRequests:
			rateLimitRetries++
			if rateLimitRetries > c.maxRateLimitRetries {
				return &APIError{
					StatusCode: status,
					Message:    "rate limit retries exhausted",
					Body:       respBody,
				}
			}
			delay := backoff
			if retryAfter > 0 {
				delay = retryAfter
			} else {
				backoff *= 2
			}
			c.logger.Warn("rate limited, waiting",
				"path", path,
				"delay", delay,
				"attempt", rateLimitRetries,
			)
			if werr := c.wait(ctx, delay); werr != nil {
				return werr
			}
			continue

		case status >= 500:
			serverRetries++
			if serverRetries > c.maxRetries {
				return &APIError{
					StatusCode: status,
					Message:    "server error retries exhausted: " + parseErrorMessage(status, respBody),
					Body:       respBody,
				}
			}
			c.logger.Warn("server error, retrying",
				"status", status,
				"path", path,
				"attempt", serverRetries,
				"backoff", backoff,
			)
			if werr := c.wait(ctx, backoff); werr != nil {
				return werr
			}
			backoff *= 2
			continue

		default: // remaining 4xx
			return &APIError{
				StatusCode: status,
				Message:    parseErrorMessage(status, respBody),
				Body:       respBody,
			}
		}
	}
}

// attempt issues a single HTTP request with freshly signed headers and
// returns the status code, body and any Retry-After hint.
func (c *Client) attempt(ctx context.Context, method, path, fullURL string, body []byte) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Fresh timestamp and signature for every attempt. The signature covers
	// the versioned path without the query string.
	headers, err := c.signer.RequestHeaders(method, c.signPath+path)
	if err != nil {
		return 0, nil, 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read response: %w", err)
	}

	var retryAfter time.Duration
	if resp.StatusCode == http.StatusTooManyRequests {
		// Integer seconds only; the HTTP-date form falls back to backoff.
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			retryAfter = time.Duration(secs) * time.Second
		}
	}

	return resp.StatusCode, respBody, retryAfter, nil
}

// wait sleeps for d or until the context is done.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.execute(ctx, http.MethodGet, path, query, nil, result)
}

// post performs a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.execute(ctx, http.MethodPost, path, nil, body, result)
}

// del performs a DELETE request.
func (c *Client) del(ctx context.Context, path string, result any) error {
	return c.execute(ctx, http.MethodDelete, path, nil, nil, result)
}
