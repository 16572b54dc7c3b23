// Package api is the HTTP client for the remote outage API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vietddude/outagesync/internal/core/domain"
	"github.com/vietddude/outagesync/internal/metrics"
)

const (
	apiKeyHeader = "x-api-key"

	opListOutages     = "list_outages"
	opSiteInformation = "site_information"
	opSubmitOutages   = "submit_outages"
)

// Config holds the API endpoint and credential.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client talks to the outage API. Every request carries the API key header.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 60 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// ListOutages fetches every outage known to the API.
func (c *Client) ListOutages(ctx context.Context) ([]domain.Outage, error) {
	var outages []domain.Outage
	if err := c.do(ctx, opListOutages, http.MethodGet, "/outages", nil, false, &outages); err != nil {
		return nil, fmt.Errorf("list outages: %w", err)
	}
	if outages == nil {
		outages = []domain.Outage{}
	}
	return outages, nil
}

// FetchSiteInformation fetches the device list of one site.
func (c *Client) FetchSiteInformation(ctx context.Context, siteID string) (*domain.SiteInformation, error) {
	var info domain.SiteInformation
	path := "/site-info/" + url.PathEscape(siteID)
	if err := c.do(ctx, opSiteInformation, http.MethodGet, path, nil, true, &info); err != nil {
		return nil, fmt.Errorf("get site information %s: %w", siteID, err)
	}
	return &info, nil
}

// SubmitOutages posts the annotated outages for a site. The response body is
// ignored.
func (c *Client) SubmitOutages(ctx context.Context, siteID string, outages []domain.OutageDetailed) error {
	if outages == nil {
		outages = []domain.OutageDetailed{}
	}
	path := "/site-outages/" + url.PathEscape(siteID)
	if err := c.do(ctx, opSubmitOutages, http.MethodPost, path, outages, true, nil); err != nil {
		return fmt.Errorf("create outages %s: %w", siteID, err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(
	ctx context.Context,
	op, method, path string,
	body any,
	siteScoped bool,
	out any,
) (err error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start)
		metrics.APIRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
		metrics.APIRequestLatency.WithLabelValues(op).Observe(latency.Seconds())
		slog.Debug("API request", "operation", op, "method", method, "path", path,
			"latency", latency, "error", err)
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnknown, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrUnknown, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, siteScoped)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

// statusError maps a non-2xx status to the error taxonomy. 404 only means
// an unknown site on site-scoped endpoints.
func statusError(code int, siteScoped bool) error {
	switch {
	case code == http.StatusForbidden:
		return domain.ErrUnauthorized
	case code == http.StatusNotFound && siteScoped:
		return domain.ErrSiteNotFound
	default:
		return fmt.Errorf("%w: http %d", domain.ErrUnknown, code)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrSiteNotFound):
		return "site_not_found"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrUnknown):
		return "unknown"
	default:
		return "error"
	}
}
