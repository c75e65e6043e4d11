// Package apiclient is the single HTTP entry point to the backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apperr"
	"github.com/prezadito/data-detective-sub001/internal/config"
	"github.com/prezadito/data-detective-sub001/internal/metrics"
	"github.com/prezadito/data-detective-sub001/internal/models"
	"github.com/prezadito/data-detective-sub001/internal/storage"
)

type Client interface {
	// Do sends body as JSON and decodes a 2xx response into out. A nil out
	// discards the response body.
	Do(ctx context.Context, method, path string, body, out interface{}) error
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// ConnectivityReporter receives a reachability signal after every attempt.
type ConnectivityReporter interface {
	SetOnline(online bool)
}

type Option func(*client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.client = hc
	}
}

func WithConnectivity(reporter ConnectivityReporter) Option {
	return func(c *client) {
		c.monitor = reporter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *client) {
		c.metrics = m
	}
}

type client struct {
	baseURL       *url.URL
	timeout       time.Duration
	retryCount    int
	retryDelay    time.Duration
	retryStatuses map[int]struct{}
	client        *http.Client
	storage       storage.Storage
	monitor       ConnectivityReporter
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

func New(cfg config.APIConfig, store storage.Storage, logger zerolog.Logger, options ...Option) (Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	statuses := make(map[int]struct{}, len(cfg.RetryStatuses))
	for _, status := range cfg.RetryStatuses {
		statuses[status] = struct{}{}
	}

	c := &client{
		baseURL:       base,
		timeout:       cfg.Timeout,
		retryCount:    cfg.RetryLimit,
		retryDelay:    cfg.RetryDelay,
		retryStatuses: statuses,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		storage: store,
		logger:  logger.With().Str("component", "apiclient").Logger(),
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	start := time.Now()
	var respBody []byte
	var status int

	for i := 0; ; i++ {
		if i > 0 {
			c.logger.Warn().
				Int("attempt", i).
				Str("method", method).
				Str("path", path).
				Err(err).
				Msg("Retrying request")
			c.metrics.IncAPIRetry(method)

			if waitErr := sleep(ctx, c.retryDelay*time.Duration(i)); waitErr != nil {
				return waitErr
			}
		}

		status, respBody, err = c.attempt(ctx, method, path, target, payload)
		if i < c.retryCount && c.shouldRetry(ctx, method, status, err) {
			continue
		}
		break
	}

	c.metrics.ObserveAPIRequest(method, status, time.Since(start))

	if err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 || status == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}

	return nil
}

// attempt sends one request. It returns the status (0 without a response),
// the raw body and a typed error for anything other than 2xx.
func (c *client) attempt(ctx context.Context, method, path, target string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, c.transportError(ctx, err)
	}

	c.reportOnline(true)

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("Backend responded")

	if resp.StatusCode == http.StatusUnauthorized {
		c.dropAccessToken(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, respBody, &apperr.HTTPError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   respBody,
		}
	}

	return resp.StatusCode, respBody, nil
}

func (c *client) shouldRetry(ctx context.Context, method string, status int, err error) bool {
	if err == nil || ctx.Err() != nil || !idempotent(method) {
		return false
	}

	var networkErr *apperr.NetworkError
	if errors.As(err, &networkErr) {
		return true
	}

	var httpErr *apperr.HTTPError
	if errors.As(err, &httpErr) {
		_, ok := c.retryStatuses[status]
		return ok
	}

	return false
}

func (c *client) transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &apperr.TimeoutError{Err: err}
	}

	c.reportOnline(false)
	return &apperr.NetworkError{Err: err}
}

func (c *client) token(ctx context.Context) string {
	token, ok, err := c.storage.Get(ctx, models.AccessTokenKey)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read access token")
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

func (c *client) dropAccessToken(ctx context.Context) {
	if err := c.storage.Remove(ctx, models.AccessTokenKey); err != nil {
		c.logger.Error().Err(err).Msg("Failed to remove access token after 401")
		return
	}
	c.logger.Info().Msg("Access token removed after 401")
}

func (c *client) reportOnline(online bool) {
	if c.monitor != nil {
		c.monitor.SetOnline(online)
	}
}

func (c *client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
