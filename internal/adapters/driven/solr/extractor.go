package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Extractor runs content extraction through Solr's embedded Tika
// (update/extract) in extract-only mode: nothing is indexed, the
// caller gets the text and metadata back.
type Extractor struct {
	client *Client
}

func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

// Extract sends the raw file bytes to update/extract. Only the
// filename is passed; Tika does its own content-type detection.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*driven.Extraction, error) {
	query := url.Values{
		"extractOnly":   {"true"},
		"extractFormat": {"text"},
		"resource.name": {filename},
	}
	payload, err := e.client.request(ctx, http.MethodPost, "/update/extract", query, data, "application/octet-stream")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode extract response: %v", domain.ErrExtractionFailed, err)
	}

	// The extracted text is keyed by the stream name, which depends on
	// how Solr received the body; take the first non-header string
	// entry and its sibling metadata list.
	extraction := &driven.Extraction{Metadata: map[string]string{}}
	for key, value := range parsed {
		if key == "responseHeader" || strings.HasSuffix(key, "_metadata") {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		extraction.Text = strings.TrimSpace(text)
		if meta, ok := parsed[key+"_metadata"].([]any); ok {
			extraction.Metadata = parseMetadata(meta)
		}
		break
	}
	return extraction, nil
}

// parseMetadata flattens Tika's alternating name / value-list pairs.
// Multi-valued entries are joined with spaces.
func parseMetadata(pairs []any) map[string]string {
	meta := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			continue
		}
		values, ok := pairs[i+1].([]any)
		if !ok {
			continue
		}
		var parts []string
		for _, v := range values {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			meta[name] = strings.Join(parts, " ")
		}
	}
	return meta
}
