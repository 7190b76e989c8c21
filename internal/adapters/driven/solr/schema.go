package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
)

// Ensure Schema implements the interface.
var _ driven.FieldSchema = (*Schema)(nil)

// Schema adapts Solr's schema API to the FieldSchema port.
type Schema struct {
	client *Client
}

func NewSchema(client *Client) *Schema {
	return &Schema{client: client}
}

// solrTypes maps contract field types to the Solr type names that
// differ. Everything else passes through unchanged.
var solrTypes = map[string]string{
	domain.FieldTypeText: "text_general",
}

func toSolrType(contractType string) string {
	if mapped, ok := solrTypes[contractType]; ok {
		return mapped
	}
	return contractType
}

func fromSolrType(solrType string) string {
	for contractType, mapped := range solrTypes {
		if mapped == solrType {
			return contractType
		}
	}
	return solrType
}

type fieldResponse struct {
	Field struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		Stored      bool   `json:"stored"`
		Indexed     bool   `json:"indexed"`
		MultiValued bool   `json:"multiValued"`
	} `json:"field"`
}

// Field fetches one live field definition.
func (s *Schema) Field(ctx context.Context, name string) (*domain.LiveField, error) {
	payload, err := s.client.request(ctx, http.MethodGet, "/schema/fields/"+name,
		map[string][]string{"showDefaults": {"true"}}, nil, "")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: field %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	var parsed fieldResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode field: %v", domain.ErrBackend, err)
	}
	return &domain.LiveField{
		Name:        parsed.Field.Name,
		Type:        fromSolrType(parsed.Field.Type),
		Stored:      parsed.Field.Stored,
		Indexed:     parsed.Field.Indexed,
		MultiValued: parsed.Field.MultiValued,
	}, nil
}

type addFieldsResponse struct {
	Errors []struct {
		ErrorMessages []string `json:"errorMessages"`
	} `json:"errors"`
}

// AddFields creates fields through one schema API call, in sorted
// order so provisioning is deterministic. Per-field errors reported
// alongside a 200 are aggregated.
func (s *Schema) AddFields(ctx context.Context, fields map[string]domain.FieldDef) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]map[string]any, 0, len(names))
	for _, name := range names {
		def := fields[name]
		defs = append(defs, map[string]any{
			"name":        name,
			"type":        toSolrType(def.Type),
			"stored":      def.Stored,
			"indexed":     def.Indexed,
			"multiValued": false,
		})
	}

	body, err := json.Marshal(map[string]any{"add-field": defs})
	if err != nil {
		return fmt.Errorf("marshal add-field: %w", err)
	}
	payload, err := s.client.request(ctx, http.MethodPost, "/schema", nil, body, "application/json")
	if err != nil {
		return err
	}

	var parsed addFieldsResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return fmt.Errorf("%w: decode schema response: %v", domain.ErrBackend, err)
	}
	if len(parsed.Errors) > 0 {
		var messages []string
		for _, e := range parsed.Errors {
			messages = append(messages, e.ErrorMessages...)
		}
		return fmt.Errorf("%w: %s", domain.ErrBackend, strings.Join(messages, "; "))
	}
	return nil
}
