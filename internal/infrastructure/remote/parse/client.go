// Package parse provides a RemoteFetcher that calls a Parse Server cloud
// function over the REST API.
package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

// DefaultFunction is the cloud function returning the record list.
const DefaultFunction = "hello"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client implements ports.RemoteFetcher against a Parse Server.
type Client struct {
	httpClient    *http.Client
	endpoint      string
	applicationID string
	clientKey     string
	restAPIKey    string
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Parse cloud function client.
func NewClient(cfg config.ParseConfig, opts ...Option) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("parse server URL is required")
	}
	if cfg.ApplicationID == "" {
		return nil, errors.New("parse application ID is required")
	}

	base, err := url.Parse(strings.TrimRight(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("server URL must be an absolute http(s) URL: %q", cfg.ServerURL)
	}

	function := DefaultFunction
	if cfg.Function != "" {
		function = cfg.Function
	}

	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		endpoint:      base.JoinPath("functions", function).String(),
		applicationID: cfg.ApplicationID,
		clientKey:     cfg.ClientKey,
		restAPIKey:    cfg.RESTAPIKey,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the cloud function URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchRecords calls the cloud function once and decodes its record list.
func (c *Client) FetchRecords(ctx context.Context) (entities.RecordCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, &ports.TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}

	requestID, ok := ports.RequestIDFrom(ctx)
	if !ok {
		requestID = uuid.New().String()
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Parse-Application-Id", c.applicationID)
	req.Header.Set("X-Parse-Request-Id", requestID)
	if c.clientKey != "" {
		req.Header.Set("X-Parse-Client-Key", c.clientKey)
	}
	if c.restAPIKey != "" {
		req.Header.Set("X-Parse-REST-API-Key", c.restAPIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ports.TransportError{Err: fmt.Errorf("calling cloud function: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ports.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}

	records, skipped, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Debug("skipped malformed entries", "request_id", requestID, "skipped", skipped)
	}

	return records, nil
}

// parseError is the error body Parse Server returns.
type parseError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func errorFromResponse(status int, body []byte) error {
	var pe parseError
	if err := json.Unmarshal(body, &pe); err == nil && pe.Error != "" {
		return &ports.TransportError{StatusCode: status, Code: pe.Code, Message: pe.Error}
	}
	return &ports.TransportError{StatusCode: status, Message: http.StatusText(status)}
}
