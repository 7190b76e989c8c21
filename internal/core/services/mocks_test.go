package services

import (
	"context"
	"errors"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
)

// mockBackend records every write and query it receives. Failures are
// injected per call kind, or per record id for AddDocument.
type mockBackend struct {
	added     []domain.FieldMap
	batches   [][]domain.FieldMap
	deleted   []string
	queries   []driven.QueryRequest
	filePages []int

	addErr    error
	addErrIDs map[string]bool
	batchErr  error
	files     []domain.IndexedFile
	filesErr  error
	queryResp *driven.QueryResponse
	queryErr  error
}

var _ driven.IndexBackend = (*mockBackend)(nil)

func (m *mockBackend) AddDocument(ctx context.Context, fields domain.FieldMap) error {
	if m.addErr != nil {
		return m.addErr
	}
	if m.addErrIDs[fields.ID()] {
		return errors.New("write rejected")
	}
	m.added = append(m.added, fields)
	return nil
}

func (m *mockBackend) AddBatch(ctx context.Context, batch []domain.FieldMap) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	m.batches = append(m.batches, batch)
	return nil
}

func (m *mockBackend) DeleteByID(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockBackend) IndexedFiles(ctx context.Context, groupingID string, offset, limit int) (int, []domain.IndexedFile, error) {
	m.filePages = append(m.filePages, offset)
	if m.filesErr != nil {
		return 0, nil, m.filesErr
	}
	end := offset + limit
	if end > len(m.files) {
		end = len(m.files)
	}
	if offset > len(m.files) {
		offset = len(m.files)
	}
	return len(m.files), m.files[offset:end], nil
}

func (m *mockBackend) Query(ctx context.Context, req driven.QueryRequest) (*driven.QueryResponse, error) {
	m.queries = append(m.queries, req)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.queryResp != nil {
		return m.queryResp, nil
	}
	return &driven.QueryResponse{}, nil
}

// addedIDs returns the ids of records written through AddDocument, in
// order.
func (m *mockBackend) addedIDs() []string {
	ids := make([]string, 0, len(m.added))
	for _, fields := range m.added {
		ids = append(ids, fields.ID())
	}
	return ids
}

// mockEmbedder returns a fixed vector, failing for texts listed in
// failOn.
type mockEmbedder struct {
	vector []float32
	failOn map[string]bool
	texts  []string
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.texts = append(m.texts, text)
	if m.failOn[text] {
		return nil, errors.New("embedding backend down")
	}
	return m.vector, nil
}

func (m *mockEmbedder) Model() string { return "test-model" }

func (m *mockEmbedder) Ping(ctx context.Context) error { return nil }

type mockExtractor struct {
	text      string
	metadata  map[string]string
	err       error
	filenames []string
}

var _ driven.ContentExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) Extract(ctx context.Context, filename string, data []byte) (*driven.Extraction, error) {
	m.filenames = append(m.filenames, filename)
	if m.err != nil {
		return nil, m.err
	}
	return &driven.Extraction{Text: m.text, Metadata: m.metadata}, nil
}

type mockCache struct {
	store  map[string][]float32
	gets   int
	hits   int
	puts   int
	getErr error
}

var _ driven.EmbeddingCache = (*mockCache)(nil)

func newMockCache() *mockCache {
	return &mockCache{store: map[string][]float32{}}
}

func (m *mockCache) Get(ctx context.Context, model, contentHash string) ([]float32, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	vector, ok := m.store[model+"|"+contentHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.hits++
	return vector, nil
}

func (m *mockCache) Put(ctx context.Context, model, contentHash string, vector []float32) error {
	m.puts++
	m.store[model+"|"+contentHash] = vector
	return nil
}

func (m *mockCache) Close() error { return nil }

type mockFieldSchema struct {
	fields map[string]*domain.LiveField
	added  []map[string]domain.FieldDef
	addErr error
}

var _ driven.FieldSchema = (*mockFieldSchema)(nil)

func (m *mockFieldSchema) Field(ctx context.Context, name string) (*domain.LiveField, error) {
	live, ok := m.fields[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return live, nil
}

func (m *mockFieldSchema) AddFields(ctx context.Context, fields map[string]domain.FieldDef) error {
	m.added = append(m.added, fields)
	return m.addErr
}
