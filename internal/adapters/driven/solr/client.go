package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/campuskit/solrag/internal/core/domain"
)

// Default configuration values.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 8983
	DefaultTimeout = 30 * time.Second
)

// commitWithinMS asks Solr to make updates visible within this window
// instead of forcing a hard commit per request.
const commitWithinMS = 5000

// Config holds connection settings for a Solr index.
type Config struct {
	// Host is the Solr hostname (default: localhost).
	Host string

	// Port is the Solr port (default: 8983).
	Port int

	// Secure selects https.
	Secure bool

	// Index is the collection / core name (required).
	Index string

	// Username and Password enable basic auth when set.
	Username string
	Password string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client is a minimal Solr HTTP client scoped to one index.
type Client struct {
	client   *http.Client
	baseURL  string
	username string
	password string
}

// errorResponse is Solr's structured error envelope.
type errorResponse struct {
	ResponseHeader struct {
		Status int `json:"status"`
	} `json:"responseHeader"`
	Error *struct {
		Msg  string `json:"msg"`
		Code int    `json:"code"`
	} `json:"error"`
}

// NewClient creates a client for one Solr index.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("solr: index name is required")
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  fmt.Sprintf("%s://%s:%d/solr/%s", scheme, cfg.Host, cfg.Port, url.PathEscape(cfg.Index)),
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// request performs one HTTP call against the index and returns the raw
// response body. Solr reports failures both as HTTP status codes and
// as a structured error object; both are folded into ErrBackend.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("wt", "json")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrBackend, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return payload, domain.ErrNotFound
	}

	var envelope errorResponse
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if envelope.Error != nil {
			return nil, fmt.Errorf("%w: %s (code %d)", domain.ErrBackend, envelope.Error.Msg, envelope.Error.Code)
		}
		if envelope.ResponseHeader.Status != 0 {
			return nil, fmt.Errorf("%w: status %d", domain.ErrBackend, envelope.ResponseHeader.Status)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", domain.ErrBackend, resp.StatusCode)
	}
	return payload, nil
}

// Ping checks the index is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodGet, "/admin/ping", nil, nil, "")
	return err
}
