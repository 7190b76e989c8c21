package driving

import (
	"context"

	"github.com/campuskit/solrag/internal/core/domain"
)

// IndexingService drives the indexing pipeline.
type IndexingService interface {
	// AddDocument indexes one document and, when file indexing is
	// enabled, reconciles and indexes its attached files. Returns
	// false when the document's core record could not be written.
	AddDocument(ctx context.Context, doc *domain.Document) bool

	// AddBatch indexes documents in a batch, falling back to per-item
	// writes on batch failure, and reports aggregate counts.
	AddBatch(ctx context.Context, docs []*domain.Document) domain.BatchResult
}

// QueryService drives the query engine.
type QueryService interface {
	// Execute runs a similarity or lexical query, applying
	// access-control restrictions, and returns structured results in
	// backend ranking order. A permitted-context union that comes up
	// empty yields an empty result set without touching the backend.
	Execute(ctx context.Context, filters domain.QueryFilters, access domain.AccessInfo, limit int) ([]domain.ResultDocument, error)
}

// SchemaService validates and provisions the index schema.
type SchemaService interface {
	// Validate checks every required field against the live index and
	// returns the names of missing fields. A present-but-mismatched
	// field fails with domain.ErrSchemaMismatch.
	Validate(ctx context.Context) (missing []string, err error)

	// Setup provisions every missing field, failing with
	// domain.ErrSchemaProvisioning when creation calls report errors.
	Setup(ctx context.Context) error
}
