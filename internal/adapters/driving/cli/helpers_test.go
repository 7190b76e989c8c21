package cli

import (
	"context"
	"errors"

	"github.com/campuskit/solrag/internal/core/domain"
)

// stubIndexService records what was submitted for indexing.
type stubIndexService struct {
	docs   []*domain.Document
	result *domain.BatchResult
}

func (s *stubIndexService) AddDocument(_ context.Context, doc *domain.Document) bool {
	s.docs = append(s.docs, doc)
	return true
}

func (s *stubIndexService) AddBatch(_ context.Context, docs []*domain.Document) domain.BatchResult {
	s.docs = append(s.docs, docs...)
	if s.result != nil {
		return *s.result
	}
	return domain.BatchResult{Success: len(docs), Batches: 1}
}

// stubQueryService records the last executed query.
type stubQueryService struct {
	filters domain.QueryFilters
	access  domain.AccessInfo
	limit   int
	results []domain.ResultDocument
	err     error
}

func (s *stubQueryService) Execute(_ context.Context, filters domain.QueryFilters, access domain.AccessInfo, limit int) ([]domain.ResultDocument, error) {
	s.filters = filters
	s.access = access
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// stubSchemaService reports canned validation results.
type stubSchemaService struct {
	missing     []string
	validateErr error
	setupErr    error
	setupCalled bool
}

func (s *stubSchemaService) Validate(_ context.Context) ([]string, error) {
	return s.missing, s.validateErr
}

func (s *stubSchemaService) Setup(_ context.Context) error {
	s.setupCalled = true
	return s.setupErr
}

var errStub = errors.New("stub failure")

// setupTestServices swaps all service variables for stubs so commands
// run without configuration. The returned cleanup restores them.
func setupTestServices() func() {
	oldIndex := indexService
	oldQuery := queryService
	oldSchema := schemaService

	indexService = &stubIndexService{}
	queryService = &stubQueryService{}
	schemaService = &stubSchemaService{}

	return func() {
		indexService = oldIndex
		queryService = oldQuery
		schemaService = oldSchema
	}
}
