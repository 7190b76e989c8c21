package solr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/solrag/internal/core/domain"
)

func TestField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/solr/testindex/schema/fields/content", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("showDefaults"))
		w.Write([]byte(`{
			"responseHeader":{"status":0},
			"field":{"name":"content","type":"text_general","stored":true,"indexed":true,"multiValued":false}
		}`))
	}))
	defer srv.Close()

	schema := NewSchema(testClient(t, srv, Config{}))
	field, err := schema.Field(context.Background(), "content")

	require.NoError(t, err)
	assert.Equal(t, &domain.LiveField{
		Name:    "content",
		Type:    domain.FieldTypeText,
		Stored:  true,
		Indexed: true,
	}, field)
}

func TestField_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"responseHeader":{"status":404},"error":{"msg":"Field 'nope' not found.","code":404}}`))
	}))
	defer srv.Close()

	schema := NewSchema(testClient(t, srv, Config{}))
	_, err := schema.Field(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddFields(t *testing.T) {
	var gotBody map[string][]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/solr/testindex/schema", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"responseHeader":{"status":0}}`))
	}))
	defer srv.Close()

	schema := NewSchema(testClient(t, srv, Config{}))
	err := schema.AddFields(context.Background(), map[string]domain.FieldDef{
		"content":  {Type: domain.FieldTypeText, Stored: true, Indexed: true},
		"areaid":   {Type: domain.FieldTypeString, Stored: true, Indexed: true},
		"modified": {Type: domain.FieldTypeDate, Stored: true, Indexed: true},
	})

	require.NoError(t, err)
	defs := gotBody["add-field"]
	require.Len(t, defs, 3)
	// Sorted by name, with contract types mapped to Solr types.
	assert.Equal(t, "areaid", defs[0]["name"])
	assert.Equal(t, "string", defs[0]["type"])
	assert.Equal(t, "content", defs[1]["name"])
	assert.Equal(t, "text_general", defs[1]["type"])
	assert.Equal(t, "modified", defs[2]["name"])
	assert.Equal(t, "tdate", defs[2]["type"])
	for _, def := range defs {
		assert.Equal(t, false, def["multiValued"])
	}
}

func TestAddFields_AggregatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"responseHeader":{"status":0},
			"errors":[{"errorMessages":["Field 'content' already exists."]}]
		}`))
	}))
	defer srv.Close()

	schema := NewSchema(testClient(t, srv, Config{}))
	err := schema.AddFields(context.Background(), map[string]domain.FieldDef{
		"content": {Type: domain.FieldTypeText, Stored: true, Indexed: true},
	})

	require.ErrorIs(t, err, domain.ErrBackend)
	assert.Contains(t, err.Error(), "already exists")
}
