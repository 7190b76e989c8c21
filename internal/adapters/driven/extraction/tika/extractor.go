// Package tika provides a content extractor adapter for a standalone
// Apache Tika server, as an alternative to extraction through the
// index's own update/extract handler.
package tika

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
	"github.com/campuskit/solrag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:9998"
	DefaultTimeout = 60 * time.Second
)

// Config holds connection settings for a Tika server.
type Config struct {
	// BaseURL is the Tika server URL (default: http://localhost:9998).
	BaseURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// Extractor extracts text via PUT /tika and metadata via PUT /meta.
type Extractor struct {
	client  *http.Client
	baseURL string
}

// NewExtractor creates a Tika server extractor.
func NewExtractor(cfg Config) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Extract sends the file to the Tika server. Metadata failures are
// tolerated; the text is what indexing depends on.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*driven.Extraction, error) {
	text, err := e.put(ctx, "/tika", filename, data, "text/plain")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	extraction := &driven.Extraction{
		Text:     strings.TrimSpace(string(text)),
		Metadata: map[string]string{},
	}

	metaBody, err := e.put(ctx, "/meta", filename, data, "application/json")
	if err != nil {
		logger.Warn("Tika metadata request for %s failed: %v", filename, err)
		return extraction, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(metaBody, &raw); err != nil {
		logger.Warn("Tika metadata for %s is not valid JSON: %v", filename, err)
		return extraction, nil
	}
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			extraction.Metadata[name] = v
		case []any:
			var parts []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				extraction.Metadata[name] = strings.Join(parts, " ")
			}
		}
	}
	return extraction, nil
}

func (e *Extractor) put(ctx context.Context, path, filename string, data []byte, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	// The filename hint drives Tika's type detection alongside magic
	// byte sniffing.
	req.Header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tika returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
