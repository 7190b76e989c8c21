package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.IndexBackend = (*Index)(nil)

// Index adapts one Solr collection to the IndexBackend port.
type Index struct {
	client *Client
}

func NewIndex(client *Client) *Index {
	return &Index{client: client}
}

// selectResponse covers both grouped and ungrouped select payloads.
type selectResponse struct {
	Response *struct {
		NumFound int              `json:"numFound"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	Grouped map[string]struct {
		Matches int `json:"matches"`
		Groups  []struct {
			GroupValue any `json:"groupValue"`
			DocList    struct {
				Docs []map[string]any `json:"docs"`
			} `json:"doclist"`
		} `json:"groups"`
	} `json:"grouped"`
}

// jsonQuery is Solr's JSON request API body. Queries go over POST: KNN
// main clauses embed the whole vector and overflow a URL.
type jsonQuery struct {
	Query  string            `json:"query"`
	Filter []string          `json:"filter,omitempty"`
	Fields string            `json:"fields,omitempty"`
	Limit  int               `json:"limit"`
	Params map[string]string `json:"params,omitempty"`
}

// AddDocument writes one record, overwriting by id.
func (ix *Index) AddDocument(ctx context.Context, fields domain.FieldMap) error {
	return ix.update(ctx, []domain.FieldMap{fields})
}

// AddBatch writes records in one update request.
func (ix *Index) AddBatch(ctx context.Context, batch []domain.FieldMap) error {
	return ix.update(ctx, batch)
}

func (ix *Index) update(ctx context.Context, records []domain.FieldMap) error {
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	query := url.Values{"commitWithin": {strconv.Itoa(commitWithinMS)}}
	_, err = ix.client.request(ctx, http.MethodPost, "/update", query, body, "application/json")
	return err
}

// DeleteByID removes one record.
func (ix *Index) DeleteByID(ctx context.Context, id string) error {
	body, err := json.Marshal(map[string]any{
		"delete": map[string]string{"id": id},
	})
	if err != nil {
		return fmt.Errorf("marshal delete: %w", err)
	}
	query := url.Values{"commitWithin": {strconv.Itoa(commitWithinMS)}}
	_, err = ix.client.request(ctx, http.MethodPost, "/update", query, body, "application/json")
	return err
}

// IndexedFiles pages through the file records of one document lineage,
// sorted by id for stable paging.
func (ix *Index) IndexedFiles(ctx context.Context, groupingID string, offset, limit int) (int, []domain.IndexedFile, error) {
	query := url.Values{
		"q":     {"*:*"},
		"fq":    {"solr_filegroupingid:" + quotePhrase(groupingID), "type:" + strconv.Itoa(domain.TypeFile)},
		"fl":    {"id,solr_fileid,title,solr_filecontenthash,modified,solr_fileindexstatus"},
		"start": {strconv.Itoa(offset)},
		"rows":  {strconv.Itoa(limit)},
		"sort":  {"id asc"},
	}
	payload, err := ix.client.request(ctx, http.MethodGet, "/select", query, nil, "")
	if err != nil {
		return 0, nil, err
	}

	var parsed selectResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return 0, nil, fmt.Errorf("%w: decode select: %v", domain.ErrBackend, err)
	}
	if parsed.Response == nil {
		return 0, nil, fmt.Errorf("%w: select response missing body", domain.ErrBackend)
	}

	files := make([]domain.IndexedFile, 0, len(parsed.Response.Docs))
	for _, doc := range parsed.Response.Docs {
		files = append(files, indexedFileFrom(doc))
	}
	return parsed.Response.NumFound, files, nil
}

// quotePhrase wraps a value as a Solr phrase, escaping only the two
// characters Solr treats specially inside quotes.
func quotePhrase(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

func indexedFileFrom(doc map[string]any) domain.IndexedFile {
	file := domain.IndexedFile{
		ID:          docString(doc, "id"),
		FileID:      docString(doc, "solr_fileid"),
		Title:       docString(doc, "title"),
		ContentHash: docString(doc, "solr_filecontenthash"),
	}
	if ts, err := time.Parse(domain.SolrTimeFormat, docString(doc, "modified")); err == nil {
		file.Modified = ts
	}
	if status, ok := doc["solr_fileindexstatus"].(float64); ok {
		file.Status = int(status)
	}
	return file
}

// docString reads one scalar field, unwrapping the one-element list
// form Solr uses for stored fields in some configurations.
func docString(doc map[string]any, name string) string {
	value := doc[name]
	if list, ok := value.([]any); ok && len(list) == 1 {
		value = list[0]
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Query runs a structured query through the JSON request API. Grouped
// responses are flattened in group order.
func (ix *Index) Query(ctx context.Context, req driven.QueryRequest) (*driven.QueryResponse, error) {
	jq := jsonQuery{
		Query:  req.Main,
		Filter: req.FilterQueries,
		Fields: req.Fields,
		Limit:  req.Rows,
	}
	if req.GroupField != "" {
		jq.Params = map[string]string{
			"group":       "true",
			"group.field": req.GroupField,
			"group.limit": strconv.Itoa(req.GroupLimit),
		}
	}
	body, err := json.Marshal(jq)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	payload, err := ix.client.request(ctx, http.MethodPost, "/select", nil, body, "application/json")
	if err != nil {
		return nil, err
	}
	var parsed selectResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode select: %v", domain.ErrBackend, err)
	}

	resp := &driven.QueryResponse{}
	if grouped, ok := parsed.Grouped[req.GroupField]; req.GroupField != "" && ok {
		for _, group := range grouped.Groups {
			resp.Records = append(resp.Records, group.DocList.Docs...)
		}
		return resp, nil
	}
	if parsed.Response == nil {
		return nil, fmt.Errorf("%w: select response missing body", domain.ErrBackend)
	}
	resp.Records = parsed.Response.Docs
	return resp, nil
}
