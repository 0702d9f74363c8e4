// Package api is the JSON client for the tutoring backend. Every request
// carries a bearer token obtained through a TokenSource; a 401 or 422 from any
// endpoint means the token is no longer valid and triggers the registered
// sign-out handler.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mpetrov/studhelper-go/internal/config"
	"github.com/mpetrov/studhelper-go/internal/logger"
)

// ErrSessionExpired is returned when the backend rejects the bearer token.
var ErrSessionExpired = errors.New("session expired")

// StatusError carries a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// TokenSource exposes the current bearer token. Kept narrow so the client
// never owns token acquisition or storage.
type TokenSource interface {
	CurrentToken() string
}

// StaticToken is a TokenSource wrapping a fixed token string.
type StaticToken string

// CurrentToken returns the wrapped token.
func (s StaticToken) CurrentToken() string { return string(s) }

// Client is a client for the tutoring backend API.
type Client struct {
	cfg           config.APIConfig
	client        *http.Client
	tokens        TokenSource
	onAuthFailure func()
}

// New creates a new Client. onAuthFailure may be nil; when set it runs once
// per rejected request, before ErrSessionExpired is returned.
func New(cfg config.APIConfig, tokens TokenSource, onAuthFailure func()) *Client {
	return &Client{
		cfg:           cfg,
		client:        &http.Client{Timeout: cfg.Timeout()},
		tokens:        tokens,
		onAuthFailure: onAuthFailure,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out, true)
}

// postNoAuth is used by the login and register endpoints, which are the only
// ones reachable without a token.
func (c *Client) postNoAuth(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	if authed {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.tokens.CurrentToken()))
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusUnprocessableEntity {
		logger.L.Warn("bearer token rejected", "path", path, "status", resp.StatusCode)
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return fmt.Errorf("%s: %w", path, ErrSessionExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error body. The
// backend uses both {"error": ...} and {"message": ...} shapes.
func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
